package services

import (
	"errors"
	"testing"

	"github.com/diewo77/hotel-backoffice/internal/models"
)

func (f *fixture) menu(t *testing.T) (plat, dessert *models.MenuItem) {
	t.Helper()
	cat, err := f.catalog.CreateDishCategory(f.ctx, DishCategoryInput{Name: "Plats"})
	if err != nil {
		t.Fatal(err)
	}
	plat, err = f.catalog.CreateMenuItem(f.ctx, MenuItemInput{CategoryID: cat.ID, Name: "Thieboudienne", Price: 4000, CookingTime: 30})
	if err != nil {
		t.Fatal(err)
	}
	dessert, err = f.catalog.CreateMenuItem(f.ctx, MenuItemInput{CategoryID: cat.ID, Name: "Thiakry", Price: 1500})
	if err != nil {
		t.Fatal(err)
	}
	return plat, dessert
}

func TestPlaceOrderRules(t *testing.T) {
	f := newFixture(t)
	plat, dessert := f.menu(t)
	c := f.client(t, "Awa Diop")
	r := f.room(t, "101", 25000)
	pending := f.reservation(t, c.ID, r.ID, "2026-03-10", "2026-03-12", models.ReservationConfirmed)
	items := []OrderItemInput{{MenuItemID: plat.ID, Quantity: 2}, {MenuItemID: dessert.ID, Quantity: 1}}

	_, err := f.orders.PlaceOrder(f.ctx, OrderInput{})
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected empty cart, got %v", err)
	}

	_, err = f.orders.PlaceOrder(f.ctx, OrderInput{Type: "resident", Items: items})
	wantCode(t, err, "reservation_id", "required")

	_, err = f.orders.PlaceOrder(f.ctx, OrderInput{ReservationID: &pending.ID, Items: items})
	wantCode(t, err, "reservation_id", "reservation_not_active")

	_, err = f.orders.PlaceOrder(f.ctx, OrderInput{Type: "passage", PaymentMode: "chambre", Items: items})
	wantCode(t, err, "payment_mode", "room_payment_resident")

	_, err = f.orders.PlaceOrder(f.ctx, OrderInput{Items: []OrderItemInput{{MenuItemID: plat.ID, Quantity: 0}}})
	wantCode(t, err, "quantity", "must_be_positive")

	walkIn, err := f.orders.PlaceOrder(f.ctx, OrderInput{Items: items, TableNumber: "T4"})
	if err != nil {
		t.Fatalf("walk-in order: %v", err)
	}
	if walkIn.Type != models.OrderWalkIn || walkIn.Status != models.OrderPaid || walkIn.WalkInName != DefaultWalkInName {
		t.Fatalf("unexpected walk-in order %+v", walkIn)
	}
	if !almostEqual(walkIn.Total(), 9500) {
		t.Fatalf("expected 9500, got %v", walkIn.Total())
	}

	off := false
	if _, err := f.catalog.UpdateMenuItem(f.ctx, dessert.ID, MenuItemInput{CategoryID: dessert.CategoryID, Name: dessert.Name, Price: dessert.Price, Available: &off}); err != nil {
		t.Fatal(err)
	}
	_, err = f.orders.PlaceOrder(f.ctx, OrderInput{Items: items})
	wantCode(t, err, "items", "item_unavailable")
}

func TestResidentOrderChargedOnDelivery(t *testing.T) {
	f := newFixture(t)
	plat, dessert := f.menu(t)
	c := f.client(t, "Awa Diop")
	r := f.room(t, "101", 25000)
	res := f.reservation(t, c.ID, r.ID, "2026-03-10", "2026-03-12", models.ReservationConfirmed)
	if _, err := f.reservations.CheckIn(f.ctx, res.ID); err != nil {
		t.Fatal(err)
	}

	o, err := f.orders.PlaceOrder(f.ctx, OrderInput{
		ReservationID: &res.ID,
		PaymentMode:   "chambre",
		Items:         []OrderItemInput{{MenuItemID: plat.ID, Quantity: 2}, {MenuItemID: dessert.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if o.Type != models.OrderResident || o.Status != models.OrderPreparing || o.RoomID == nil || *o.RoomID != r.ID {
		t.Fatalf("unexpected order %+v", o)
	}

	// The menu price changes after ordering; the invoice keeps the snapshot.
	if _, err := f.catalog.UpdateMenuItem(f.ctx, plat.ID, MenuItemInput{CategoryID: plat.CategoryID, Name: plat.Name, Price: 9999}); err != nil {
		t.Fatal(err)
	}

	pending, err := f.orders.Pending(f.ctx)
	if err != nil || len(pending) != 1 || pending[0].Client != "Awa Diop" {
		t.Fatalf("unexpected pending %+v (%v)", pending, err)
	}

	delivered, err := f.orders.Advance(f.ctx, o.ID, "")
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if delivered.Status != models.OrderDelivered || !delivered.Billed() {
		t.Fatalf("expected delivered and billed, got %+v", delivered)
	}

	inv := f.stayInvoice(t, res.ID)
	if len(inv.Lines) != 3 {
		t.Fatalf("expected night + 2 restaurant lines, got %d", len(inv.Lines))
	}
	if inv.Lines[1].Description != "Restaurant: Thieboudienne" || !almostEqual(inv.Lines[1].Quantity, 2) || !almostEqual(inv.Lines[1].UnitPrice, 4000) {
		t.Fatalf("unexpected restaurant line %+v", inv.Lines[1])
	}
	if !almostEqual(inv.Subtotal, 34500) {
		t.Fatalf("expected subtotal 34500, got %v", inv.Subtotal)
	}
	if bal := f.reloadClient(t, c.ID).Balance; !almostEqual(bal, inv.Total) {
		t.Fatalf("balance %v does not follow invoice total %v", bal, inv.Total)
	}

	paid, err := f.orders.Advance(f.ctx, o.ID, models.OrderPaid)
	if err != nil || paid.Status != models.OrderPaid {
		t.Fatalf("pay order: %+v %v", paid, err)
	}
	if again := f.stayInvoice(t, res.ID); len(again.Lines) != 3 {
		t.Fatalf("order charged twice: %d lines", len(again.Lines))
	}
	_, err = f.orders.Advance(f.ctx, o.ID, "")
	wantErr(t, err, ErrInvalidTransition)
}

func TestResidentOrderOpensInvoiceWhenSettled(t *testing.T) {
	f := newFixture(t)
	plat, _ := f.menu(t)
	c := f.client(t, "Awa Diop")
	r := f.room(t, "101", 25000)
	res := f.reservation(t, c.ID, r.ID, "2026-03-10", "2026-03-12", models.ReservationConfirmed)
	if _, err := f.reservations.CheckIn(f.ctx, res.ID); err != nil {
		t.Fatal(err)
	}
	first := f.stayInvoice(t, res.ID)
	if _, err := f.billing.RecordPayment(f.ctx, first.ID, PaymentInput{Amount: first.Total}); err != nil {
		t.Fatal(err)
	}

	o, err := f.orders.PlaceOrder(f.ctx, OrderInput{ReservationID: &res.ID, Items: []OrderItemInput{{MenuItemID: plat.ID, Quantity: 1}}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.orders.Advance(f.ctx, o.ID, models.OrderDelivered); err != nil {
		t.Fatal(err)
	}
	invs, total, err := f.billing.List(f.ctx, InvoiceFilter{ReservationID: res.ID})
	if err != nil || total != 2 {
		t.Fatalf("expected a second invoice, got %d (%v)", total, err)
	}
	if invs[0].Status != models.InvoiceUnpaid || !almostEqual(invs[0].Total, 4720) {
		t.Fatalf("unexpected new invoice %+v", invs[0])
	}
}
