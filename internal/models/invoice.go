package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// InvoiceStatus represents the payment state of an invoice.
type InvoiceStatus string

const (
	InvoiceUnpaid  InvoiceStatus = "impaye"
	InvoicePartial InvoiceStatus = "partiel"
	InvoicePaid    InvoiceStatus = "paye"
)

var InvoiceStatuses = []string{string(InvoiceUnpaid), string(InvoicePartial), string(InvoicePaid)}

// DefaultTaxRate is the VAT percentage applied to new invoices.
const DefaultTaxRate = 18.0

// Invoice aggregates billable lines for a client and, optionally, a stay.
// Amounts are stored denormalised and kept in sync by Recompute.
type Invoice struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Number string `gorm:"size:50;uniqueIndex" json:"number"`

	ClientID      uint         `gorm:"index;not null" json:"client_id"`
	Client        *Client      `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	ReservationID *uint        `gorm:"index" json:"reservation_id,omitempty"`
	Reservation   *Reservation `gorm:"foreignKey:ReservationID" json:"reservation,omitempty"`

	IssueDate time.Time  `gorm:"type:date;not null" json:"issue_date"`
	DueDate   *time.Time `gorm:"type:date" json:"due_date,omitempty"`

	Subtotal   float64       `gorm:"type:decimal(12,2);not null;default:0" json:"subtotal"`
	Discount   float64       `gorm:"type:decimal(12,2);not null;default:0" json:"discount"`
	TaxRate    float64       `gorm:"type:decimal(5,2);not null" json:"tax_rate"`
	TaxAmount  float64       `gorm:"type:decimal(12,2);not null;default:0" json:"tax_amount"`
	Total      float64       `gorm:"type:decimal(12,2);not null;default:0" json:"total"`
	AmountPaid float64       `gorm:"type:decimal(12,2);not null;default:0" json:"amount_paid"`
	PaidDate   *time.Time    `gorm:"type:date" json:"paid_date,omitempty"`
	Status     InvoiceStatus `gorm:"size:20;not null;default:'impaye';index" json:"status"`
	Notes      string        `gorm:"type:text" json:"notes,omitempty"`

	Lines []InvoiceLine `gorm:"foreignKey:InvoiceID" json:"lines,omitempty"`
}

// Recompute refreshes subtotal, tax, total and status from Lines.
func (i *Invoice) Recompute() {
	var subtotal float64
	for idx := range i.Lines {
		i.Lines[idx].ComputeTotal()
		subtotal += i.Lines[idx].Total
	}
	i.Subtotal = RoundMoney(subtotal)
	base := i.Subtotal - i.Discount
	i.TaxAmount = RoundMoney(base * i.TaxRate / 100)
	i.Total = RoundMoney(base + i.TaxAmount)
	i.Status = DeriveInvoiceStatus(i.AmountPaid, i.Total)
}

// DeriveInvoiceStatus maps paid vs total to a status. Covering the total wins
// over everything else, so a recomputed empty invoice is paye.
func DeriveInvoiceStatus(paid, total float64) InvoiceStatus {
	paid, total = RoundMoney(paid), RoundMoney(total)
	switch {
	case paid >= total:
		return InvoicePaid
	case paid > 0:
		return InvoicePartial
	default:
		return InvoiceUnpaid
	}
}

// Remaining returns the amount still due on the invoice.
func (i *Invoice) Remaining() float64 {
	return RoundMoney(i.Total - i.AmountPaid)
}

// Open reports whether the invoice can still receive charges.
func (i *Invoice) Open() bool {
	return i.Status == InvoiceUnpaid || i.Status == InvoicePartial
}

// InvoiceNumberPrefix returns the per-year numbering prefix.
func InvoiceNumberPrefix(year int) string {
	return fmt.Sprintf("FACT-%d", year)
}

// GenerateInvoiceNumber returns the next number for year, FACT-YYYY-NNNN.
// Deleted invoices are counted so numbers are never reused.
func GenerateInvoiceNumber(db *gorm.DB, year int) (string, error) {
	var count int64
	prefix := InvoiceNumberPrefix(year)
	err := db.Unscoped().Model(&Invoice{}).
		Where("number LIKE ?", prefix+"-%").
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%04d", prefix, count+1), nil
}

// InvoiceLine is a billable line on an invoice.
type InvoiceLine struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	InvoiceID uint     `gorm:"index;not null" json:"invoice_id"`
	Invoice   *Invoice `gorm:"foreignKey:InvoiceID" json:"-"`

	// Optional catalog references; description and price are copied from them.
	ServiceID  *uint     `gorm:"index" json:"service_id,omitempty"`
	Service    *Service  `gorm:"foreignKey:ServiceID" json:"-"`
	MenuItemID *uint     `gorm:"index" json:"menu_item_id,omitempty"`
	MenuItem   *MenuItem `gorm:"foreignKey:MenuItemID" json:"-"`

	Description string  `gorm:"size:200;not null" json:"description"`
	Quantity    float64 `gorm:"type:decimal(10,2);not null;default:1" json:"quantity"`
	UnitPrice   float64 `gorm:"type:decimal(10,2);not null;default:0" json:"unit_price"`
	Total       float64 `gorm:"type:decimal(12,2);not null;default:0" json:"total"`
}

// ComputeTotal sets the line total to quantity × unit price.
func (l *InvoiceLine) ComputeTotal() {
	l.Total = RoundMoney(l.Quantity * l.UnitPrice)
}

// FillFromCatalog copies description and price from the referenced service
// or menu item when they were left empty.
func (l *InvoiceLine) FillFromCatalog() {
	if l.Service != nil {
		if strings.TrimSpace(l.Description) == "" {
			l.Description = l.Service.Name
		}
		if l.UnitPrice == 0 {
			l.UnitPrice = l.Service.Price
		}
	}
	if l.MenuItem != nil {
		if strings.TrimSpace(l.Description) == "" {
			l.Description = l.MenuItem.Name
		}
		if l.UnitPrice == 0 {
			l.UnitPrice = l.MenuItem.Price
		}
	}
}

// NightLineDescription is the label of a nightly room charge.
func NightLineDescription(day time.Time, roomNumber string) string {
	return fmt.Sprintf("Nuitée du %s - Chambre %s", day.Format("02/01/2006"), roomNumber)
}

// RestaurantLineDescription is the label of a restaurant charge.
func RestaurantLineDescription(item string) string {
	return "Restaurant: " + item
}
