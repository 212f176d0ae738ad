package models

import (
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	d := a - b
	return d < 0.001 && d > -0.001
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name       string
		aStart     time.Time
		aEnd       time.Time
		bStart     time.Time
		bEnd       time.Time
		wantResult bool
	}{
		{"identical", day(2025, 3, 1), day(2025, 3, 5), day(2025, 3, 1), day(2025, 3, 5), true},
		{"inside", day(2025, 3, 1), day(2025, 3, 10), day(2025, 3, 3), day(2025, 3, 4), true},
		{"straddles start", day(2025, 3, 3), day(2025, 3, 6), day(2025, 3, 1), day(2025, 3, 4), true},
		{"back to back", day(2025, 3, 1), day(2025, 3, 5), day(2025, 3, 5), day(2025, 3, 8), false},
		{"ends on start", day(2025, 3, 5), day(2025, 3, 8), day(2025, 3, 1), day(2025, 3, 5), false},
		{"disjoint", day(2025, 3, 1), day(2025, 3, 2), day(2025, 4, 1), day(2025, 4, 2), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.wantResult {
				t.Errorf("Overlaps() = %v, want %v", got, tt.wantResult)
			}
		})
	}
}

func TestReservationStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to ReservationStatus
		want     bool
	}{
		{ReservationPending, ReservationConfirmed, true},
		{ReservationPending, ReservationActive, false},
		{ReservationConfirmed, ReservationActive, true},
		{ReservationConfirmed, ReservationCancelled, true},
		{ReservationActive, ReservationCompleted, true},
		{ReservationActive, ReservationCancelled, false},
		{ReservationCompleted, ReservationActive, false},
		{ReservationCancelled, ReservationPending, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
	if !ReservationActive.Blocking() || ReservationCancelled.Blocking() || ReservationCompleted.Blocking() {
		t.Fatalf("unexpected Blocking() result")
	}
}

func TestReservationNights(t *testing.T) {
	r := Reservation{StartDate: day(2025, 3, 1), EndDate: day(2025, 3, 4)}
	if r.Nights() != 3 {
		t.Fatalf("Nights() = %d, want 3", r.Nights())
	}
}

func TestInvoiceRecompute(t *testing.T) {
	tests := []struct {
		name       string
		lines      []InvoiceLine
		discount   float64
		rate       float64
		paid       float64
		wantSub    float64
		wantTax    float64
		wantTotal  float64
		wantStatus InvoiceStatus
	}{
		{
			name:       "single night unpaid",
			lines:      []InvoiceLine{{Quantity: 1, UnitPrice: 25000}},
			rate:       18,
			wantSub:    25000,
			wantTax:    4500,
			wantTotal:  29500,
			wantStatus: InvoiceUnpaid,
		},
		{
			name:       "discount before tax, partial payment",
			lines:      []InvoiceLine{{Quantity: 2, UnitPrice: 100}, {Quantity: 1, UnitPrice: 50}},
			discount:   50,
			rate:       18,
			paid:       100,
			wantSub:    250,
			wantTax:    36,
			wantTotal:  236,
			wantStatus: InvoicePartial,
		},
		{
			name:       "overpaid is paid",
			lines:      []InvoiceLine{{Quantity: 1, UnitPrice: 100}},
			rate:       0,
			paid:       150,
			wantSub:    100,
			wantTotal:  100,
			wantStatus: InvoicePaid,
		},
		{
			name:       "empty invoice is paid",
			rate:       18,
			wantStatus: InvoicePaid,
		},
		{
			name:       "discount wiped out by tax-free total",
			lines:      []InvoiceLine{{Quantity: 1, UnitPrice: 100}},
			discount:   100,
			wantSub:    100,
			wantStatus: InvoicePaid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := Invoice{Lines: tt.lines, Discount: tt.discount, TaxRate: tt.rate, AmountPaid: tt.paid}
			inv.Recompute()
			if !almostEqual(inv.Subtotal, tt.wantSub) {
				t.Errorf("Subtotal = %f, want %f", inv.Subtotal, tt.wantSub)
			}
			if !almostEqual(inv.TaxAmount, tt.wantTax) {
				t.Errorf("TaxAmount = %f, want %f", inv.TaxAmount, tt.wantTax)
			}
			if !almostEqual(inv.Total, tt.wantTotal) {
				t.Errorf("Total = %f, want %f", inv.Total, tt.wantTotal)
			}
			if inv.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", inv.Status, tt.wantStatus)
			}
		})
	}
}

func TestInvoiceLineFillFromCatalog(t *testing.T) {
	l := InvoiceLine{Quantity: 2, Service: &Service{Name: "Blanchisserie", Price: 3000}}
	l.FillFromCatalog()
	l.ComputeTotal()
	if l.Description != "Blanchisserie" || l.UnitPrice != 3000 || l.Total != 6000 {
		t.Fatalf("unexpected line %+v", l)
	}

	custom := InvoiceLine{Description: "Petit déjeuner", Quantity: 1, UnitPrice: 10, MenuItem: &MenuItem{Name: "Omelette", Price: 20}}
	custom.FillFromCatalog()
	if custom.Description != "Petit déjeuner" || custom.UnitPrice != 10 {
		t.Fatalf("explicit values must win, got %+v", custom)
	}
}

func TestLineDescriptions(t *testing.T) {
	if got := NightLineDescription(day(2025, 3, 7), "101"); got != "Nuitée du 07/03/2025 - Chambre 101" {
		t.Fatalf("unexpected night label %q", got)
	}
	if got := RestaurantLineDescription("Poulet yassa"); got != "Restaurant: Poulet yassa" {
		t.Fatalf("unexpected restaurant label %q", got)
	}
}

func TestOrderTotalsAndStatus(t *testing.T) {
	o := Order{Items: []OrderItem{{Quantity: 2, UnitPrice: 1500}, {Quantity: 1, UnitPrice: 2500.5}}}
	if !almostEqual(o.Total(), 5500.5) {
		t.Fatalf("Total() = %f", o.Total())
	}
	if OrderPreparing.Next() != OrderDelivered || OrderDelivered.Next() != OrderPaid || OrderPaid.Next() != "" {
		t.Fatalf("unexpected order status progression")
	}
}

func TestRoomHelpers(t *testing.T) {
	r := Room{Status: RoomAvailable, CleaningStatus: CleaningInspected, Category: &RoomCategory{Price: 40000}}
	if !r.Bookable() || r.NightlyPrice() != 40000 {
		t.Fatalf("expected bookable room priced 40000")
	}
	r.CleaningStatus = CleaningDirty
	if r.Bookable() {
		t.Fatalf("dirty room must not be bookable")
	}
	var bare Room
	if bare.NightlyPrice() != 0 {
		t.Fatalf("room without category has no price")
	}
}

func TestClientSettled(t *testing.T) {
	c := Client{Balance: 0.001}
	if !c.Settled() {
		t.Fatalf("sub-cent balance counts as settled")
	}
	c.Balance = 10
	if c.Settled() {
		t.Fatalf("positive balance is not settled")
	}
}

func TestDeriveInvoiceStatus(t *testing.T) {
	tests := []struct {
		paid, total float64
		want        InvoiceStatus
	}{
		{0, 0, InvoicePaid},
		{0, 100, InvoiceUnpaid},
		{40, 100, InvoicePartial},
		{100, 100, InvoicePaid},
		{99.999, 100, InvoicePaid},
		{0.001, 100, InvoiceUnpaid},
	}
	for _, tt := range tests {
		if got := DeriveInvoiceStatus(tt.paid, tt.total); got != tt.want {
			t.Errorf("DeriveInvoiceStatus(%v, %v) = %s, want %s", tt.paid, tt.total, got, tt.want)
		}
	}
}
