package models

import (
	"time"

	"gorm.io/gorm"
)

// Client is a hotel guest or restaurant customer.
// Balance is owned by the billing service: it moves only with invoice writes.
type Client struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name    string  `gorm:"size:100;not null" json:"name"`
	Email   *string `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	Phone   string  `gorm:"size:20;index" json:"phone,omitempty"`
	Address string  `gorm:"type:text" json:"address,omitempty"`

	// Balance is what the client still owes across all invoices.
	Balance float64 `gorm:"type:decimal(12,2);not null;default:0" json:"balance"`

	Reservations []Reservation `gorm:"foreignKey:ClientID" json:"reservations,omitempty"`
	Invoices     []Invoice     `gorm:"foreignKey:ClientID" json:"invoices,omitempty"`
}

// EmailValue returns the email or an empty string.
func (c *Client) EmailValue() string {
	if c.Email == nil {
		return ""
	}
	return *c.Email
}

// Settled reports whether the client owes nothing.
func (c *Client) Settled() bool {
	return RoundMoney(c.Balance) == 0
}
