package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/hotel-backoffice/internal/models"
	"github.com/diewo77/hotel-backoffice/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReservationService enforces room availability and drives the stay
// lifecycle: check-in opens the invoice, checkout frees the room.
type ReservationService struct {
	db       *gorm.DB
	activity *ActivityService
	clients  *ClientService
	cache    Cache
}

func NewReservationService(db *gorm.DB, activity *ActivityService, clients *ClientService, cache Cache) *ReservationService {
	if cache == nil {
		cache = nopCache{}
	}
	return &ReservationService{db: db, activity: activity, clients: clients, cache: cache}
}

// ReservationInput creates or updates a reservation. Client may replace
// ClientID to find or create the guest from inline data.
type ReservationInput struct {
	ClientID    uint         `json:"client_id"`
	Client      *ClientInput `json:"client"`
	RoomID      uint         `json:"room_id" validate:"required"`
	StartDate   string       `json:"start_date" validate:"required"`
	EndDate     string       `json:"end_date" validate:"required"`
	Status      string       `json:"status"`
	PaymentMode string       `json:"payment_mode"`
	CashAmount  float64      `json:"cash_amount" validate:"gte=0"`
	Nationality string       `json:"nationality" validate:"max=100"`
	IDNumber    string       `json:"id_number" validate:"max=100"`
	VisaExpiry  string       `json:"visa_expiry"`
	BirthDate   string       `json:"birth_date"`
	Notes       string       `json:"notes"`
}

type stayFields struct {
	start, end time.Time
	visa       *time.Time
	birth      *time.Time
}

func (in *ReservationInput) check() (stayFields, error) {
	var f stayFields
	v := validation.Struct(in)
	if in.ClientID == 0 && in.Client == nil {
		v.Add("client_id", "required")
	}
	if in.PaymentMode == "" {
		in.PaymentMode = string(models.PaymentCash)
	}
	validation.OneOf("payment_mode", in.PaymentMode, models.PaymentModes, v)
	if in.Status != "" {
		validation.OneOf("status", in.Status, []string{string(models.ReservationPending), string(models.ReservationConfirmed)}, v)
	}
	var okStart, okEnd bool
	f.start, okStart = parseDay("start_date", in.StartDate, v)
	f.end, okEnd = parseDay("end_date", in.EndDate, v)
	if okStart && okEnd && !f.end.After(f.start) {
		v.Add("end_date", "date_order")
	}
	if d, ok := parseDay("visa_expiry", in.VisaExpiry, v); ok {
		f.visa = &d
	}
	if d, ok := parseDay("birth_date", in.BirthDate, v); ok {
		f.birth = &d
	}
	if !v.Empty() {
		return f, newValidationError(v)
	}
	return f, nil
}

// lockRoom takes the room row lock that serialises bookings of one room.
func lockRoom(tx *gorm.DB, roomID uint) (*models.Room, error) {
	var room models.Room
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fieldError("room_id", "invalid_choice")
		}
		return nil, err
	}
	return &room, nil
}

// CheckAvailability rejects [start, end) when end ≤ start or when another
// blocking reservation on the room overlaps it. excludeID skips the
// reservation being updated.
func CheckAvailability(tx *gorm.DB, roomID uint, start, end time.Time, excludeID uint) error {
	if !end.After(start) {
		return fieldError("end_date", "date_order")
	}
	q := tx.Where("room_id = ? AND status IN ? AND start_date < ? AND end_date > ?",
		roomID, models.BlockingStatuses, end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var clash models.Reservation
	err := q.Order("start_date").First(&clash).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("availability: %w", err)
	}
	return fieldError("room_id", "room_booked",
		clash.StartDate.Format("02/01/2006"), clash.EndDate.Format("02/01/2006"))
}

func (s *ReservationService) Create(ctx context.Context, in ReservationInput) (*models.Reservation, error) {
	f, err := in.check()
	if err != nil {
		return nil, err
	}
	var res models.Reservation
	var newClient *models.Client
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockRoom(tx, in.RoomID); err != nil {
			return err
		}
		if err := CheckAvailability(tx, in.RoomID, f.start, f.end, 0); err != nil {
			return err
		}
		clientID := in.ClientID
		if clientID == 0 {
			c, created, err := s.clients.GetOrCreate(tx, *in.Client)
			if err != nil {
				return err
			}
			clientID = c.ID
			if created {
				newClient = c
			}
		} else {
			var n int64
			if err := tx.Model(&models.Client{}).Where("id = ?", clientID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return fieldError("client_id", "invalid_choice")
			}
		}
		status := models.ReservationPending
		if in.Status != "" {
			status = models.ReservationStatus(in.Status)
		}
		res = models.Reservation{
			ClientID:    clientID,
			RoomID:      in.RoomID,
			StartDate:   f.start,
			EndDate:     f.end,
			Status:      status,
			PaymentMode: models.PaymentMode(in.PaymentMode),
			CashAmount:  models.RoundMoney(in.CashAmount),
			Nationality: strings.TrimSpace(in.Nationality),
			IDNumber:    strings.TrimSpace(in.IDNumber),
			VisaExpiry:  f.visa,
			BirthDate:   f.birth,
			Notes:       in.Notes,
		}
		return tx.Omit(clause.Associations).Create(&res).Error
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	if newClient != nil {
		s.activity.Created(ctx, models.ModuleClients, "Client", newClient.ID, newClient.Name, newClient)
	}
	out, err := s.Get(ctx, res.ID)
	if err != nil {
		return nil, err
	}
	s.activity.Created(ctx, models.ModuleReservations, "Réservation", out.ID, out.Label(), &res)
	return out, nil
}

func (s *ReservationService) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	var res models.Reservation
	err := s.db.WithContext(ctx).
		Preload("Client").Preload("Room.Category").Preload("Affiliation").
		First(&res, id).Error
	if err != nil {
		return nil, notFound(err, "reservation")
	}
	return &res, nil
}

type ReservationFilter struct {
	Status   string
	RoomID   uint
	ClientID uint
	Limit    int
	Offset   int
}

func (s *ReservationService) List(ctx context.Context, f ReservationFilter) ([]models.Reservation, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Reservation{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.RoomID != 0 {
		q = q.Where("room_id = ?", f.RoomID)
	}
	if f.ClientID != 0 {
		q = q.Where("client_id = ?", f.ClientID)
	}
	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count reservations: %w", err)
	}
	var list []models.Reservation
	err := paginate(q.Preload("Client").Preload("Room.Category").Order("start_date desc, id desc"), f.Limit, f.Offset).
		Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations: %w", err)
	}
	return list, total, nil
}

// Update edits dates, room and guest data. Status changes go through
// Transition; finished or cancelled stays are read-only and an active stay
// cannot move to another room or client.
func (s *ReservationService) Update(ctx context.Context, id uint, in ReservationInput) (*models.Reservation, error) {
	in.Status = ""
	f, err := in.check()
	if err != nil {
		return nil, err
	}
	var before, after models.Reservation
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&before, id).Error; err != nil {
			return notFound(err, "reservation")
		}
		if !before.Status.Blocking() {
			return fmt.Errorf("reservation %d is %s: %w", id, before.Status, ErrConflict)
		}
		if before.Status == models.ReservationActive && in.RoomID != before.RoomID {
			return fmt.Errorf("active reservation %d cannot change room: %w", id, ErrConflict)
		}
		clientID := in.ClientID
		if clientID == 0 {
			c, _, err := s.clients.GetOrCreate(tx, *in.Client)
			if err != nil {
				return err
			}
			clientID = c.ID
		}
		if before.Status == models.ReservationActive && clientID != before.ClientID {
			return fmt.Errorf("active reservation %d cannot change client: %w", id, ErrConflict)
		}
		if _, err := lockRoom(tx, in.RoomID); err != nil {
			return err
		}
		if err := CheckAvailability(tx, in.RoomID, f.start, f.end, id); err != nil {
			return err
		}
		after = before
		after.ClientID = clientID
		after.RoomID = in.RoomID
		after.StartDate, after.EndDate = f.start, f.end
		after.PaymentMode = models.PaymentMode(in.PaymentMode)
		after.CashAmount = models.RoundMoney(in.CashAmount)
		after.Nationality = strings.TrimSpace(in.Nationality)
		after.IDNumber = strings.TrimSpace(in.IDNumber)
		after.VisaExpiry, after.BirthDate = f.visa, f.birth
		after.Notes = in.Notes
		return tx.Model(&models.Reservation{}).Where("id = ?", id).Updates(map[string]any{
			"client_id":    after.ClientID,
			"room_id":      after.RoomID,
			"start_date":   after.StartDate,
			"end_date":     after.EndDate,
			"payment_mode": after.PaymentMode,
			"cash_amount":  after.CashAmount,
			"nationality":  after.Nationality,
			"id_number":    after.IDNumber,
			"visa_expiry":  after.VisaExpiry,
			"birth_date":   after.BirthDate,
			"notes":        after.Notes,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	out, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.activity.Updated(ctx, models.ModuleReservations, "Réservation", id, out.Label(), &before, &after)
	return out, nil
}

// Delete removes a reservation that is pending or cancelled.
func (s *ReservationService) Delete(ctx context.Context, id uint) error {
	var res models.Reservation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&res, id).Error; err != nil {
			return notFound(err, "reservation")
		}
		if res.Status != models.ReservationPending && res.Status != models.ReservationCancelled {
			return fmt.Errorf("reservation %d is %s: %w", id, res.Status, ErrConflict)
		}
		if err := tx.Where("reservation_id = ?", id).Delete(&models.Affiliation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&res).Error
	})
	if err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	s.activity.Deleted(ctx, models.ModuleReservations, "Réservation", res.ID, res.Label(), &res)
	return nil
}

// Transition moves a reservation to next. Check-in and checkout are routed
// to their dedicated operations so their side effects always apply.
func (s *ReservationService) Transition(ctx context.Context, id uint, next models.ReservationStatus) (*models.Reservation, error) {
	switch next {
	case models.ReservationActive:
		return s.CheckIn(ctx, id)
	case models.ReservationCompleted:
		return s.Checkout(ctx, id)
	}
	var from models.ReservationStatus
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var res models.Reservation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&res, id).Error; err != nil {
			return notFound(err, "reservation")
		}
		from = res.Status
		if !res.Status.CanTransitionTo(next) {
			return fmt.Errorf("%s -> %s: %w", res.Status, next, ErrInvalidTransition)
		}
		return tx.Model(&models.Reservation{}).Where("id = ?", res.ID).Update("status", next).Error
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	out, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logStatus(ctx, out, from)
	return out, nil
}

func (s *ReservationService) logStatus(ctx context.Context, res *models.Reservation, from models.ReservationStatus) {
	s.activity.Log(ctx, &models.ActivityLog{
		EventType:  models.EventUpdate,
		Module:     models.ModuleReservations,
		Action:     "Changement de statut",
		Details:    fmt.Sprintf("%s -> %s", from, res.Status),
		ObjectType: "Réservation",
		ObjectID:   res.ID,
		ObjectRepr: res.Label(),
		OldValues:  toJSON(map[string]any{"status": from}),
		NewValues:  toJSON(map[string]any{"status": res.Status}),
	})
}

// CheckIn activates a confirmed reservation: the room becomes occupied and
// the stay invoice is opened with the first night when it does not exist.
func (s *ReservationService) CheckIn(ctx context.Context, id uint) (*models.Reservation, error) {
	var createdInvoice *models.Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var res models.Reservation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&res, id).Error; err != nil {
			return notFound(err, "reservation")
		}
		if !res.Status.CanTransitionTo(models.ReservationActive) {
			return fmt.Errorf("%s -> %s: %w", res.Status, models.ReservationActive, ErrInvalidTransition)
		}
		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Preload("Category").First(&room, res.RoomID).Error; err != nil {
			return notFound(err, "room")
		}
		if err := tx.Model(&models.Reservation{}).Where("id = ?", res.ID).Update("status", models.ReservationActive).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Room{}).Where("id = ?", room.ID).Update("status", models.RoomOccupied).Error; err != nil {
			return err
		}
		_, err := openInvoiceFor(tx, res.ClientID, res.ID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		resID := res.ID
		inv, err := newInvoice(tx, res.ClientID, &resID, Today())
		if err != nil {
			return err
		}
		createdInvoice = inv
		return appendLines(tx, inv, models.InvoiceLine{
			Description: models.NightLineDescription(res.StartDate, room.Number),
			Quantity:    1,
			UnitPrice:   room.NightlyPrice(),
		})
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	out, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logStatus(ctx, out, models.ReservationConfirmed)
	if createdInvoice != nil {
		s.activity.Created(ctx, models.ModuleBilling, "Facture", createdInvoice.ID, invoiceRepr(createdInvoice), createdInvoice)
	}
	return out, nil
}

// Checkout closes an active stay when the client owes nothing or a validated
// affiliation covers the bill. The room is released dirty and a cleaning
// task is queued. A refused checkout changes nothing.
func (s *ReservationService) Checkout(ctx context.Context, id uint) (*models.Reservation, error) {
	var task models.RoomCleaning
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var res models.Reservation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Preload("Affiliation").First(&res, id).Error; err != nil {
			return notFound(err, "reservation")
		}
		if !res.Status.CanTransitionTo(models.ReservationCompleted) {
			return fmt.Errorf("%s -> %s: %w", res.Status, models.ReservationCompleted, ErrInvalidTransition)
		}
		var client models.Client
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&client, res.ClientID).Error; err != nil {
			return notFound(err, "client")
		}
		if !client.Settled() && !res.Affiliation.Approved() {
			return fmt.Errorf("client %d owes %.2f: %w", client.ID, client.Balance, ErrCheckoutBlocked)
		}
		if err := tx.Model(&models.Reservation{}).Where("id = ?", res.ID).Update("status", models.ReservationCompleted).Error; err != nil {
			return err
		}
		err := tx.Model(&models.Room{}).Where("id = ?", res.RoomID).Updates(map[string]any{
			"status":          models.RoomAvailable,
			"cleaning_status": models.CleaningDirty,
		}).Error
		if err != nil {
			return err
		}
		task = models.RoomCleaning{
			RoomID:      res.RoomID,
			Status:      models.CleaningTodo,
			Priority:    models.PriorityNormal,
			RequestedAt: time.Now().UTC(),
			Notes:       fmt.Sprintf("Nettoyage automatique après checkout de la réservation #%d", res.ID),
		}
		return tx.Omit(clause.Associations).Create(&task).Error
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	out, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logStatus(ctx, out, models.ReservationActive)
	s.activity.Created(ctx, models.ModuleRooms, "Nettoyage", task.ID, fmt.Sprintf("Nettoyage chambre #%d", task.RoomID), &task)
	return out, nil
}
