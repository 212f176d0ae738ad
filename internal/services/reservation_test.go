package services

import (
	"strings"
	"testing"

	"github.com/diewo77/hotel-backoffice/internal/models"
)

func TestCheckAvailability(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "Awa Diop")
	r := f.room(t, "101", 25000)
	held := f.reservation(t, c.ID, r.ID, "2026-03-10", "2026-03-15", models.ReservationConfirmed)
	cancelled := f.reservation(t, c.ID, r.ID, "2026-04-01", "2026-04-05", models.ReservationPending)
	if _, err := f.reservations.Transition(f.ctx, cancelled.ID, models.ReservationCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	cases := []struct {
		name       string
		start, end int
		month      int
		exclude    uint
		wantCode   string
	}{
		{"inside", 12, 14, 3, 0, "room_booked"},
		{"overlapping start", 8, 11, 3, 0, "room_booked"},
		{"covering", 1, 20, 3, 0, "room_booked"},
		{"back to back after", 15, 18, 3, 0, ""},
		{"back to back before", 5, 10, 3, 0, ""},
		{"own reservation excluded", 11, 14, 3, held.ID, ""},
		{"cancelled stay ignored", 2, 4, 4, 0, ""},
		{"empty range", 12, 12, 3, 0, "date_order"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start := day(2026, 1, 1).AddDate(0, tc.month-1, tc.start-1)
			end := day(2026, 1, 1).AddDate(0, tc.month-1, tc.end-1)
			err := CheckAvailability(f.db, r.ID, start, end, tc.exclude)
			switch tc.wantCode {
			case "":
				if err != nil {
					t.Fatalf("expected free, got %v", err)
				}
			case "date_order":
				wantCode(t, err, "end_date", "date_order")
			default:
				ve := wantCode(t, err, "room_id", tc.wantCode)
				args := ve.Args["room_id"]
				if len(args) != 2 || args[0] != "10/03/2026" || args[1] != "15/03/2026" {
					t.Fatalf("unexpected clash args %v", args)
				}
			}
		})
	}
}

func TestCreateReservationRejectsOverlap(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "Awa Diop")
	r := f.room(t, "101", 25000)
	f.reservation(t, c.ID, r.ID, "2026-03-10", "2026-03-15", models.ReservationPending)

	_, err := f.reservations.Create(f.ctx, ReservationInput{
		ClientID: c.ID, RoomID: r.ID, StartDate: "2026-03-14", EndDate: "2026-03-16",
	})
	wantCode(t, err, "room_id", "room_booked")
	if n := count(t, f.db, &models.Reservation{}, ""); n != 1 {
		t.Fatalf("expected 1 reservation, got %d", n)
	}
}

func TestCreateReservationValidation(t *testing.T) {
	f := newFixture(t)
	r := f.room(t, "101", 25000)
	_, err := f.reservations.Create(f.ctx, ReservationInput{RoomID: r.ID, StartDate: "2026-03-10", EndDate: "2026-03-09"})
	ve, ok := IsValidation(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ve.Violations["client_id"] != "required" || ve.Violations["end_date"] != "date_order" {
		t.Fatalf("unexpected violations %v", ve.Violations)
	}

	_, err = f.reservations.Create(f.ctx, ReservationInput{ClientID: 1, RoomID: r.ID, StartDate: "10/03/2026", EndDate: "2026-03-12"})
	wantCode(t, err, "start_date", "invalid_date")

	_, err = f.reservations.Create(f.ctx, ReservationInput{ClientID: 1, RoomID: r.ID, StartDate: "2026-03-10", EndDate: "2026-03-12", Status: "active"})
	wantCode(t, err, "status", "invalid_choice")
}

func TestCreateReservationWithInlineClient(t *testing.T) {
	f := newFixture(t)
	r := f.room(t, "101", 25000)
	existing, err := f.clients.Create(f.ctx, ClientInput{Name: "Awa Diop", Email: "awa@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	res, err := f.reservations.Create(f.ctx, ReservationInput{
		Client: &ClientInput{Name: "Awa D.", Email: "AWA@example.com"}, RoomID: r.ID,
		StartDate: "2026-03-10", EndDate: "2026-03-12",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.ClientID != existing.ID {
		t.Fatalf("expected existing client %d, got %d", existing.ID, res.ClientID)
	}

	res2, err := f.reservations.Create(f.ctx, ReservationInput{
		Client: &ClientInput{Name: "Moussa Ba", Phone: "770000000"}, RoomID: r.ID,
		StartDate: "2026-03-12", EndDate: "2026-03-14",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res2.Client == nil || res2.Client.Name != "Moussa Ba" {
		t.Fatalf("expected new client, got %+v", res2.Client)
	}
	if n := count(t, f.db, &models.Client{}, ""); n != 2 {
		t.Fatalf("expected 2 clients, got %d", n)
	}
}

func TestTransitions(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "Awa Diop")
	r := f.room(t, "101", 25000)
	res := f.reservation(t, c.ID, r.ID, "2026-03-10", "2026-03-12", models.ReservationPending)

	if _, err := f.reservations.Transition(f.ctx, res.ID, models.ReservationActive); err == nil {
		t.Fatal("expected check-in from en_attente to fail")
	} else {
		wantErr(t, err, ErrInvalidTransition)
	}
	out, err := f.reservations.Transition(f.ctx, res.ID, models.ReservationConfirmed)
	if err != nil || out.Status != models.ReservationConfirmed {
		t.Fatalf("confirm: %v %v", out, err)
	}
	out, err = f.reservations.Transition(f.ctx, res.ID, models.ReservationCancelled)
	if err != nil || out.Status != models.ReservationCancelled {
		t.Fatalf("cancel: %v %v", out, err)
	}
	_, err = f.reservations.Transition(f.ctx, res.ID, models.ReservationPending)
	wantErr(t, err, ErrInvalidTransition)

	if err := f.reservations.Delete(f.ctx, res.ID); err != nil {
		t.Fatalf("delete cancelled: %v", err)
	}
}

func TestCheckInOpensInvoice(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "Awa Diop")
	r := f.room(t, "101", 25000)
	res := f.reservation(t, c.ID, r.ID, "2026-03-10", "2026-03-12", models.ReservationConfirmed)

	out, err := f.reservations.CheckIn(f.ctx, res.ID)
	if err != nil {
		t.Fatalf("check-in: %v", err)
	}
	if out.Status != models.ReservationActive {
		t.Fatalf("expected active, got %s", out.Status)
	}
	room, _ := f.rooms.GetRoom(f.ctx, r.ID)
	if room.Status != models.RoomOccupied {
		t.Fatalf("expected room occupee, got %s", room.Status)
	}

	inv := f.stayInvoice(t, res.ID)
	if len(inv.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(inv.Lines))
	}
	if inv.Lines[0].Description != "Nuitée du 10/03/2026 - Chambre 101" {
		t.Fatalf("unexpected line %q", inv.Lines[0].Description)
	}
	if !almostEqual(inv.Subtotal, 25000) || !almostEqual(inv.Total, 29500) || inv.Status != models.InvoiceUnpaid {
		t.Fatalf("unexpected totals %+v", inv)
	}
	if bal := f.reloadClient(t, c.ID).Balance; !almostEqual(bal, 29500) {
		t.Fatalf("expected balance 29500, got %v", bal)
	}

	if err := f.reservations.Delete(f.ctx, res.ID); err == nil {
		t.Fatal("expected delete of active stay to fail")
	} else {
		wantErr(t, err, ErrConflict)
	}
}

func TestCheckInKeepsExistingInvoice(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "Awa Diop")
	r := f.room(t, "101", 25000)
	res := f.reservation(t, c.ID, r.ID, "2026-03-10", "2026-03-12", models.ReservationConfirmed)
	resID := res.ID
	if _, err := f.billing.Create(f.ctx, InvoiceInput{ClientID: c.ID, ReservationID: &resID}); err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if _, err := f.reservations.CheckIn(f.ctx, res.ID); err != nil {
		t.Fatalf("check-in: %v", err)
	}
	inv := f.stayInvoice(t, res.ID)
	if len(inv.Lines) != 0 {
		t.Fatalf("expected existing invoice untouched, got %d lines", len(inv.Lines))
	}
}

func TestCheckoutGate(t *testing.T) {
	setup := func(t *testing.T) (*fixture, *models.Client, *models.Reservation) {
		f := newFixture(t)
		c := f.client(t, "Awa Diop")
		r := f.room(t, "101", 25000)
		res := f.reservation(t, c.ID, r.ID, "2026-03-10", "2026-03-12", models.ReservationConfirmed)
		if _, err := f.reservations.CheckIn(f.ctx, res.ID); err != nil {
			t.Fatalf("check-in: %v", err)
		}
		return f, c, res
	}

	t.Run("blocked_with_balance", func(t *testing.T) {
		f, _, res := setup(t)
		_, err := f.reservations.Checkout(f.ctx, res.ID)
		wantErr(t, err, ErrCheckoutBlocked)
		got, _ := f.reservations.Get(f.ctx, res.ID)
		if got.Status != models.ReservationActive {
			t.Fatalf("expected still active, got %s", got.Status)
		}
		if got.Room.Status != models.RoomOccupied {
			t.Fatalf("expected room still occupee, got %s", got.Room.Status)
		}
		if n := count(t, f.db, &models.RoomCleaning{}, ""); n != 0 {
			t.Fatalf("expected no cleaning task, got %d", n)
		}
	})

	t.Run("allowed_when_settled", func(t *testing.T) {
		f, c, res := setup(t)
		inv := f.stayInvoice(t, res.ID)
		if _, err := f.billing.RecordPayment(f.ctx, inv.ID, PaymentInput{Amount: inv.Total, Method: "cash"}); err != nil {
			t.Fatalf("pay: %v", err)
		}
		if bal := f.reloadClient(t, c.ID).Balance; !almostEqual(bal, 0) {
			t.Fatalf("expected zero balance, got %v", bal)
		}
		out, err := f.reservations.Checkout(f.ctx, res.ID)
		if err != nil {
			t.Fatalf("checkout: %v", err)
		}
		if out.Status != models.ReservationCompleted {
			t.Fatalf("expected terminee, got %s", out.Status)
		}
		if out.Room.Status != models.RoomAvailable || out.Room.CleaningStatus != models.CleaningDirty {
			t.Fatalf("unexpected room state %s/%s", out.Room.Status, out.Room.CleaningStatus)
		}
		tasks, _, err := f.cleaning.List(f.ctx, CleaningFilter{RoomID: out.RoomID})
		if err != nil || len(tasks) != 1 {
			t.Fatalf("expected 1 cleaning task, got %d (%v)", len(tasks), err)
		}
		task := tasks[0]
		if task.Status != models.CleaningTodo || task.Priority != models.PriorityNormal {
			t.Fatalf("unexpected task %+v", task)
		}
		if !strings.Contains(task.Notes, label(res.ID)) {
			t.Fatalf("expected note to reference the reservation, got %q", task.Notes)
		}
	})

	t.Run("allowed_with_approved_affiliation", func(t *testing.T) {
		f, _, res := setup(t)
		a, err := f.affiliations.Create(f.ctx, res.ID, AffiliationInput{CompanyName: "Sonatel", CompanyContact: "rh@sonatel.sn"})
		if err != nil {
			t.Fatalf("affiliation: %v", err)
		}
		_, err = f.reservations.Checkout(f.ctx, res.ID)
		wantErr(t, err, ErrCheckoutBlocked)

		if _, err := f.affiliations.SetStatus(f.ctx, a.ID, string(models.AffiliationApproved), ""); err != nil {
			t.Fatalf("approve: %v", err)
		}
		if _, err := f.reservations.Checkout(f.ctx, res.ID); err != nil {
			t.Fatalf("checkout: %v", err)
		}
	})
}

func TestUpdateReservation(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "Awa Diop")
	r1 := f.room(t, "101", 25000)
	r2 := f.room(t, "102", 35000)
	a := f.reservation(t, c.ID, r1.ID, "2026-03-10", "2026-03-12", models.ReservationConfirmed)
	f.reservation(t, c.ID, r2.ID, "2026-03-10", "2026-03-12", models.ReservationConfirmed)

	_, err := f.reservations.Update(f.ctx, a.ID, ReservationInput{ClientID: c.ID, RoomID: r2.ID, StartDate: "2026-03-11", EndDate: "2026-03-13"})
	wantCode(t, err, "room_id", "room_booked")

	out, err := f.reservations.Update(f.ctx, a.ID, ReservationInput{ClientID: c.ID, RoomID: r1.ID, StartDate: "2026-03-11", EndDate: "2026-03-14", Notes: "late arrival"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !out.StartDate.Equal(day(2026, 3, 11)) || !out.EndDate.Equal(day(2026, 3, 14)) || out.Notes != "late arrival" {
		t.Fatalf("unexpected reservation %+v", out)
	}
	if out.Status != models.ReservationConfirmed {
		t.Fatalf("update must not touch status, got %s", out.Status)
	}
}

func TestUpdateActiveReservationKeepsClient(t *testing.T) {
	f := newFixture(t)
	a := f.client(t, "Awa Diop")
	b := f.client(t, "Moussa Fall")
	r := f.room(t, "101", 25000)
	res := f.reservation(t, a.ID, r.ID, "2026-03-10", "2026-03-12", models.ReservationConfirmed)
	if _, err := f.reservations.CheckIn(f.ctx, res.ID); err != nil {
		t.Fatalf("check-in: %v", err)
	}

	_, err := f.reservations.Update(f.ctx, res.ID, ReservationInput{ClientID: b.ID, RoomID: r.ID, StartDate: "2026-03-10", EndDate: "2026-03-12"})
	wantErr(t, err, ErrConflict)
	_, err = f.reservations.Update(f.ctx, res.ID, ReservationInput{Client: &ClientInput{Name: "Ibrahima Ndiaye"}, RoomID: r.ID, StartDate: "2026-03-10", EndDate: "2026-03-12"})
	wantErr(t, err, ErrConflict)
	if n := count(t, f.db, &models.Client{}, "name = ?", "Ibrahima Ndiaye"); n != 0 {
		t.Fatalf("refused update must not create a client, got %d", n)
	}

	got, err := f.reservations.Get(f.ctx, res.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ClientID != a.ID {
		t.Fatalf("expected client %d, got %d", a.ID, got.ClientID)
	}
	_, err = f.reservations.Checkout(f.ctx, res.ID)
	wantErr(t, err, ErrCheckoutBlocked)

	out, err := f.reservations.Update(f.ctx, res.ID, ReservationInput{ClientID: a.ID, RoomID: r.ID, StartDate: "2026-03-10", EndDate: "2026-03-13"})
	if err != nil {
		t.Fatalf("same-client update: %v", err)
	}
	if !out.EndDate.Equal(day(2026, 3, 13)) {
		t.Fatalf("expected extended stay, got %s", out.EndDate)
	}
}
