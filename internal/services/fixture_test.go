package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/diewo77/hotel-backoffice/internal/db"
	"github.com/diewo77/hotel-backoffice/internal/models"
	"gorm.io/gorm"
)

type fixture struct {
	db           *gorm.DB
	ctx          context.Context
	activity     *ActivityService
	clients      *ClientService
	rooms        *RoomService
	reservations *ReservationService
	billing      *BillingService
	orders       *OrderService
	catalog      *CatalogService
	cleaning     *CleaningService
	affiliations *AffiliationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	d := db.OpenTest(t)
	act := NewActivityService(d, nil)
	clients := NewClientService(d, act)
	return &fixture{
		db:           d,
		ctx:          WithRequestInfo(context.Background(), RequestInfo{User: "reception", IP: "10.0.0.1", UserAgent: "test"}),
		activity:     act,
		clients:      clients,
		rooms:        NewRoomService(d, act, nil),
		reservations: NewReservationService(d, act, clients, nil),
		billing:      NewBillingService(d, act),
		orders:       NewOrderService(d, act),
		catalog:      NewCatalogService(d, act),
		cleaning:     NewCleaningService(d, act, nil),
		affiliations: NewAffiliationService(d, act),
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (f *fixture) client(t *testing.T, name string) *models.Client {
	t.Helper()
	c, err := f.clients.Create(f.ctx, ClientInput{Name: name})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	return c
}

// room creates an inspected, available room in its own category.
func (f *fixture) room(t *testing.T, number string, price float64) *models.Room {
	t.Helper()
	cat, err := f.rooms.CreateCategory(f.ctx, RoomCategoryInput{Name: "Cat " + number, Price: price})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	r, err := f.rooms.CreateRoom(f.ctx, RoomInput{
		Number:         number,
		CategoryID:     &cat.ID,
		CleaningStatus: string(models.CleaningInspected),
	})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	return r
}

func (f *fixture) reservation(t *testing.T, clientID, roomID uint, start, end string, status models.ReservationStatus) *models.Reservation {
	t.Helper()
	res, err := f.reservations.Create(f.ctx, ReservationInput{
		ClientID:  clientID,
		RoomID:    roomID,
		StartDate: start,
		EndDate:   end,
		Status:    string(status),
	})
	if err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	return res
}

func (f *fixture) reloadClient(t *testing.T, id uint) *models.Client {
	t.Helper()
	c, err := f.clients.Get(f.ctx, id)
	if err != nil {
		t.Fatalf("get client: %v", err)
	}
	return c
}

func (f *fixture) stayInvoice(t *testing.T, reservationID uint) *models.Invoice {
	t.Helper()
	invs, _, err := f.billing.List(f.ctx, InvoiceFilter{ReservationID: reservationID})
	if err != nil {
		t.Fatalf("list invoices: %v", err)
	}
	if len(invs) != 1 {
		t.Fatalf("expected 1 invoice for reservation %d, got %d", reservationID, len(invs))
	}
	inv, err := f.billing.Get(f.ctx, invs[0].ID)
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	return inv
}

func wantCode(t *testing.T, err error, field, code string) *ValidationError {
	t.Helper()
	ve, ok := IsValidation(err)
	if !ok {
		t.Fatalf("expected validation error on %s, got %v", field, err)
	}
	if got := ve.Violations[field]; got != code {
		t.Fatalf("expected %s=%s, got %q (%v)", field, code, got, ve)
	}
	return ve
}

func wantErr(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", target, err)
	}
}

func count(t *testing.T, d *gorm.DB, model any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	q := d.Model(model)
	if where != "" {
		q = q.Where(where, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", model, err)
	}
	return n
}

func label(id uint) string { return fmt.Sprintf("#%d", id) }
