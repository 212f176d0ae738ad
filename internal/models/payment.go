package models

import "time"

// Payment records one settlement against an invoice.
type Payment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	InvoiceID uint      `gorm:"index;not null" json:"invoice_id"`
	Date      time.Time `gorm:"type:date;not null" json:"date"`
	Amount    float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method    string    `gorm:"size:30" json:"method,omitempty"` // espèces, carte, virement...
	Note      string    `gorm:"size:255" json:"note,omitempty"`
}
