package models

import (
	"time"

	"gorm.io/gorm"
)

// ServiceCategory groups billable hotel services (laundry, transfers...).
type ServiceCategory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
}

type Service struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
	CategoryID  uint             `gorm:"index;not null" json:"category_id"`
	Category    *ServiceCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Name        string           `gorm:"size:100;not null" json:"name"`
	Price       float64          `gorm:"type:decimal(10,2);not null" json:"price"`
	Description string           `gorm:"type:text" json:"description,omitempty"`
}
