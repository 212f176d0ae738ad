package models

import "time"

// AffiliationStatus tracks the corporate sponsor's approval.
type AffiliationStatus string

const (
	AffiliationPending  AffiliationStatus = "en_attente"
	AffiliationApproved AffiliationStatus = "validee"
	AffiliationRejected AffiliationStatus = "refusee"
)

var AffiliationStatuses = []string{string(AffiliationPending), string(AffiliationApproved), string(AffiliationRejected)}

// Affiliation links a reservation to a company that covers the bill.
// An approved affiliation lets the guest check out with an open balance.
type Affiliation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ReservationID  uint              `gorm:"uniqueIndex;not null" json:"reservation_id"`
	CompanyName    string            `gorm:"size:100;not null" json:"company_name"`
	CompanyContact string            `gorm:"size:100;not null" json:"company_contact"`
	Status         AffiliationStatus `gorm:"size:20;not null" json:"status"`
	ValidatedBy    string            `gorm:"size:100" json:"validated_by,omitempty"`
}

func (a *Affiliation) Approved() bool {
	return a != nil && a.Status == AffiliationApproved
}
