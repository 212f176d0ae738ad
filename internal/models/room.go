package models

import (
	"time"

	"gorm.io/gorm"
)

// RoomStatus is the occupancy state of a room.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "disponible"
	RoomOccupied    RoomStatus = "occupee"
	RoomMaintenance RoomStatus = "maintenance"
)

// CleaningStatus is the housekeeping state of a room.
type CleaningStatus string

const (
	CleaningDirty     CleaningStatus = "sale"
	CleaningClean     CleaningStatus = "propre"
	CleaningInspected CleaningStatus = "inspectee"
)

var (
	RoomStatuses     = []string{string(RoomAvailable), string(RoomOccupied), string(RoomMaintenance)}
	CleaningStatuses = []string{string(CleaningDirty), string(CleaningClean), string(CleaningInspected)}
)

// RoomCategory groups rooms sharing a nightly price.
type RoomCategory struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"size:50;not null" json:"name"`
	Price       float64        `gorm:"type:decimal(10,2);not null" json:"price"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
}

type Room struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Number     string        `gorm:"size:10;not null;uniqueIndex" json:"number"`
	CategoryID *uint         `gorm:"index" json:"category_id,omitempty"`
	Category   *RoomCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	Status         RoomStatus     `gorm:"size:20;not null;default:'disponible';index" json:"status"`
	CleaningStatus CleaningStatus `gorm:"size:20;not null;default:'propre'" json:"cleaning_status"`
}

// NightlyPrice returns the category price, or zero when the room has none.
func (r *Room) NightlyPrice() float64 {
	if r == nil || r.Category == nil {
		return 0
	}
	return r.Category.Price
}

// Bookable reports whether the room can be offered for a new stay.
func (r *Room) Bookable() bool {
	return r.Status == RoomAvailable && r.CleaningStatus == CleaningInspected
}
