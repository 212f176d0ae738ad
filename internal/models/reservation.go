package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "en_attente"
	ReservationConfirmed ReservationStatus = "confirmee"
	ReservationActive    ReservationStatus = "active"
	ReservationCancelled ReservationStatus = "annulee"
	ReservationCompleted ReservationStatus = "terminee"
)

// BlockingStatuses hold a room for their date range.
var BlockingStatuses = []ReservationStatus{ReservationPending, ReservationConfirmed, ReservationActive}

var ReservationStatuses = []string{
	string(ReservationPending), string(ReservationConfirmed), string(ReservationActive),
	string(ReservationCancelled), string(ReservationCompleted),
}

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled},
	ReservationConfirmed: {ReservationActive, ReservationCancelled, ReservationPending},
	ReservationActive:    {ReservationCompleted},
}

// Blocking reports whether a reservation in this status occupies its room.
func (s ReservationStatus) Blocking() bool {
	for _, b := range BlockingStatuses {
		if s == b {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentMode is how the guest intends to settle the stay.
type PaymentMode string

const (
	PaymentCash     PaymentMode = "cash"
	PaymentBank     PaymentMode = "banque"
	PaymentPostPaid PaymentMode = "post_paye"
)

var PaymentModes = []string{string(PaymentCash), string(PaymentBank), string(PaymentPostPaid)}

// Reservation books a room for the half-open range [StartDate, EndDate).
type Reservation struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ClientID uint    `gorm:"index;not null" json:"client_id"`
	Client   *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	RoomID   uint    `gorm:"index;not null" json:"room_id"`
	Room     *Room   `gorm:"foreignKey:RoomID" json:"room,omitempty"`

	StartDate time.Time         `gorm:"type:date;not null;index" json:"start_date"`
	EndDate   time.Time         `gorm:"type:date;not null;index" json:"end_date"`
	Status    ReservationStatus `gorm:"size:20;not null;default:'en_attente';index" json:"status"`

	PaymentMode PaymentMode `gorm:"size:20;not null;default:'cash'" json:"payment_mode"`
	CashAmount  float64     `gorm:"type:decimal(10,2);default:0" json:"cash_amount"`

	// Guest identity, as captured at the front desk.
	Nationality string     `gorm:"size:100" json:"nationality,omitempty"`
	IDNumber    string     `gorm:"size:100" json:"id_number,omitempty"`
	VisaExpiry  *time.Time `gorm:"type:date" json:"visa_expiry,omitempty"`
	BirthDate   *time.Time `gorm:"type:date" json:"birth_date,omitempty"`
	Notes       string     `gorm:"type:text" json:"notes,omitempty"`

	Affiliation *Affiliation `gorm:"foreignKey:ReservationID" json:"affiliation,omitempty"`
}

// Overlaps applies the half-open interval test [aStart,aEnd) ∩ [bStart,bEnd).
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Nights returns the number of nights covered by the stay.
func (r *Reservation) Nights() int {
	return int(r.EndDate.Sub(r.StartDate).Hours() / 24)
}

// Label is used as the object representation in the activity log.
func (r *Reservation) Label() string {
	room := fmt.Sprintf("#%d", r.RoomID)
	if r.Room != nil {
		room = r.Room.Number
	}
	return fmt.Sprintf("Réservation %d - Chambre %s (%s → %s)", r.ID, room,
		r.StartDate.Format("02/01/2006"), r.EndDate.Format("02/01/2006"))
}
