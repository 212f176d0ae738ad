package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/diewo77/hotel-backoffice/internal/models"
	"github.com/diewo77/hotel-backoffice/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BillingService owns invoices. Every write recomputes the invoice and moves
// the client balance by the resulting delta in the same transaction.
type BillingService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewBillingService(db *gorm.DB, activity *ActivityService) *BillingService {
	return &BillingService{db: db, activity: activity}
}

// Today returns the current calendar day as UTC midnight.
func Today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func invoiceRepr(inv *models.Invoice) string {
	return fmt.Sprintf("Facture %s", inv.Number)
}

// newInvoice creates an empty invoice with the next number for the issue year.
func newInvoice(tx *gorm.DB, clientID uint, reservationID *uint, issue time.Time) (*models.Invoice, error) {
	number, err := models.GenerateInvoiceNumber(tx, issue.Year())
	if err != nil {
		return nil, fmt.Errorf("invoice number: %w", err)
	}
	inv := &models.Invoice{
		Number:        number,
		ClientID:      clientID,
		ReservationID: reservationID,
		IssueDate:     issue,
		TaxRate:       models.DefaultTaxRate,
		Status:        models.InvoiceUnpaid,
	}
	if err := tx.Omit(clause.Associations).Create(inv).Error; err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	return inv, nil
}

// lockInvoice loads an invoice under a row lock.
func lockInvoice(tx *gorm.DB, id uint) (*models.Invoice, error) {
	var inv models.Invoice
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&inv, id).Error; err != nil {
		return nil, notFound(err, "invoice")
	}
	return &inv, nil
}

// persistTotals reloads the lines of inv, recomputes it, stores the amounts
// and applies (Δtotal − Δpaid) to the client balance. A total that falls
// below what was already paid is refused.
func persistTotals(tx *gorm.DB, inv *models.Invoice, oldTotal, oldPaid float64) error {
	var lines []models.InvoiceLine
	if err := tx.Where("invoice_id = ?", inv.ID).Order("id").Find(&lines).Error; err != nil {
		return fmt.Errorf("load lines: %w", err)
	}
	inv.Lines = lines
	inv.Recompute()
	if models.RoundMoney(inv.Total) < models.RoundMoney(inv.AmountPaid) {
		return fieldError("total", "out_of_range")
	}
	err := tx.Model(&models.Invoice{}).Where("id = ?", inv.ID).Updates(map[string]any{
		"subtotal":    inv.Subtotal,
		"discount":    inv.Discount,
		"tax_rate":    inv.TaxRate,
		"tax_amount":  inv.TaxAmount,
		"total":       inv.Total,
		"amount_paid": inv.AmountPaid,
		"paid_date":   inv.PaidDate,
		"status":      inv.Status,
		"due_date":    inv.DueDate,
		"notes":       inv.Notes,
	}).Error
	if err != nil {
		return fmt.Errorf("save invoice: %w", err)
	}
	delta := (inv.Total - oldTotal) - (inv.AmountPaid - oldPaid)
	return adjustBalance(tx, inv.ClientID, delta)
}

// appendLines adds lines to inv and recomputes it.
func appendLines(tx *gorm.DB, inv *models.Invoice, lines ...models.InvoiceLine) error {
	oldTotal, oldPaid := inv.Total, inv.AmountPaid
	for i := range lines {
		lines[i].InvoiceID = inv.ID
		lines[i].ComputeTotal()
		if err := tx.Omit(clause.Associations).Create(&lines[i]).Error; err != nil {
			return fmt.Errorf("create line: %w", err)
		}
	}
	return persistTotals(tx, inv, oldTotal, oldPaid)
}

// openInvoiceFor returns the locked invoice of a stay with one of statuses.
func openInvoiceFor(tx *gorm.DB, clientID, reservationID uint, statuses ...models.InvoiceStatus) (*models.Invoice, error) {
	var inv models.Invoice
	q := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("reservation_id = ?", reservationID)
	if clientID != 0 {
		q = q.Where("client_id = ?", clientID)
	}
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	if err := q.Order("id").First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

type InvoiceInput struct {
	ClientID      uint     `json:"client_id" validate:"required"`
	ReservationID *uint    `json:"reservation_id"`
	Discount      float64  `json:"discount" validate:"gte=0"`
	TaxRate       *float64 `json:"tax_rate" validate:"omitempty,gte=0,lte=100"`
	IssueDate     string   `json:"issue_date"`
	DueDate       string   `json:"due_date"`
	Notes         string   `json:"notes"`
}

func (s *BillingService) Create(ctx context.Context, in InvoiceInput) (*models.Invoice, error) {
	v := validation.Struct(in)
	issue := Today()
	if d, ok := parseDay("issue_date", in.IssueDate, v); ok {
		issue = d
	}
	due, _ := parseDay("due_date", in.DueDate, v)
	if !v.Empty() {
		return nil, newValidationError(v)
	}
	var inv *models.Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.Select("id").First(&client, in.ClientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fieldError("client_id", "invalid_choice")
			}
			return err
		}
		if in.ReservationID != nil {
			var res models.Reservation
			err := tx.Select("id", "client_id").First(&res, *in.ReservationID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && res.ClientID != in.ClientID) {
				return fieldError("reservation_id", "invalid_choice")
			}
			if err != nil {
				return err
			}
		}
		var err error
		inv, err = newInvoice(tx, in.ClientID, in.ReservationID, issue)
		if err != nil {
			return err
		}
		inv.Discount = models.RoundMoney(in.Discount)
		if in.TaxRate != nil {
			inv.TaxRate = *in.TaxRate
		}
		if !due.IsZero() {
			inv.DueDate = &due
		}
		inv.Notes = in.Notes
		// Totals are only derived once lines arrive, so a new invoice stays impaye.
		return tx.Model(&models.Invoice{}).Where("id = ?", inv.ID).Updates(map[string]any{
			"discount": inv.Discount,
			"tax_rate": inv.TaxRate,
			"due_date": inv.DueDate,
			"notes":    inv.Notes,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	s.activity.Created(ctx, models.ModuleBilling, "Facture", inv.ID, invoiceRepr(inv), inv)
	return s.Get(ctx, inv.ID)
}

func (s *BillingService) Get(ctx context.Context, id uint) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.db.WithContext(ctx).
		Preload("Client").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&inv, id).Error
	if err != nil {
		return nil, notFound(err, "invoice")
	}
	return &inv, nil
}

type InvoiceFilter struct {
	Status        string
	ClientID      uint
	ReservationID uint
	Limit         int
	Offset        int
}

func (s *BillingService) List(ctx context.Context, f InvoiceFilter) ([]models.Invoice, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Invoice{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ClientID != 0 {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.ReservationID != 0 {
		q = q.Where("reservation_id = ?", f.ReservationID)
	}
	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}
	var invs []models.Invoice
	if err := paginate(q.Preload("Client").Order("id desc"), f.Limit, f.Offset).Find(&invs).Error; err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	return invs, total, nil
}

// InvoiceUpdate carries the editable invoice header fields; nil means unchanged.
type InvoiceUpdate struct {
	Discount *float64 `json:"discount" validate:"omitempty,gte=0"`
	TaxRate  *float64 `json:"tax_rate" validate:"omitempty,gte=0,lte=100"`
	DueDate  *string  `json:"due_date"`
	Notes    *string  `json:"notes"`
}

func (s *BillingService) Update(ctx context.Context, id uint, in InvoiceUpdate) (*models.Invoice, error) {
	v := validation.Struct(in)
	var due *time.Time
	if in.DueDate != nil && *in.DueDate != "" {
		if d, ok := parseDay("due_date", *in.DueDate, v); ok {
			due = &d
		}
	}
	if !v.Empty() {
		return nil, newValidationError(v)
	}
	var before, after models.Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := lockInvoice(tx, id)
		if err != nil {
			return err
		}
		before = *inv
		if in.Discount != nil {
			inv.Discount = models.RoundMoney(*in.Discount)
		}
		if in.TaxRate != nil {
			inv.TaxRate = *in.TaxRate
		}
		if in.DueDate != nil {
			inv.DueDate = due
		}
		if in.Notes != nil {
			inv.Notes = *in.Notes
		}
		if err := persistTotals(tx, inv, before.Total, before.AmountPaid); err != nil {
			return err
		}
		after = *inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	after.Lines = nil
	s.activity.Updated(ctx, models.ModuleBilling, "Facture", id, invoiceRepr(&after), &before, &after)
	return s.Get(ctx, id)
}

// Delete removes an invoice and takes its total off the client balance.
// Invoices that already received money cannot be deleted.
func (s *BillingService) Delete(ctx context.Context, id uint) error {
	var inv *models.Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		inv, err = lockInvoice(tx, id)
		if err != nil {
			return err
		}
		if models.RoundMoney(inv.AmountPaid) > 0 {
			return fmt.Errorf("invoice %s has payments: %w", inv.Number, ErrConflict)
		}
		if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceLine{}).Error; err != nil {
			return fmt.Errorf("delete lines: %w", err)
		}
		if err := tx.Model(&models.Order{}).Where("invoice_id = ?", id).Update("invoice_id", nil).Error; err != nil {
			return fmt.Errorf("unlink orders: %w", err)
		}
		if err := tx.Delete(inv).Error; err != nil {
			return fmt.Errorf("delete invoice: %w", err)
		}
		return adjustBalance(tx, inv.ClientID, -inv.Total)
	})
	if err != nil {
		return err
	}
	s.activity.Deleted(ctx, models.ModuleBilling, "Facture", inv.ID, invoiceRepr(inv), inv)
	return nil
}

// LineInput describes a free-text line or a line priced from the catalog.
type LineInput struct {
	Description string  `json:"description" validate:"max=200"`
	Quantity    float64 `json:"quantity" validate:"gte=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
	ServiceID   *uint   `json:"service_id"`
	MenuItemID  *uint   `json:"menu_item_id"`
}

// buildLine validates in and resolves its catalog reference.
func buildLine(tx *gorm.DB, in LineInput) (models.InvoiceLine, error) {
	v := validation.Struct(in)
	line := models.InvoiceLine{
		Description: strings.TrimSpace(in.Description),
		Quantity:    in.Quantity,
		UnitPrice:   models.RoundMoney(in.UnitPrice),
		ServiceID:   in.ServiceID,
		MenuItemID:  in.MenuItemID,
	}
	if line.Quantity == 0 {
		line.Quantity = 1
	}
	if in.ServiceID != nil {
		var svc models.Service
		if err := tx.First(&svc, *in.ServiceID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return line, err
			}
			v.Add("service_id", "invalid_choice")
		} else {
			line.Service = &svc
		}
	}
	if in.MenuItemID != nil {
		var item models.MenuItem
		if err := tx.First(&item, *in.MenuItemID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return line, err
			}
			v.Add("menu_item_id", "invalid_choice")
		} else {
			line.MenuItem = &item
		}
	}
	line.FillFromCatalog()
	line.Service, line.MenuItem = nil, nil
	if line.Description == "" {
		v.Add("description", "required")
	}
	if !v.Empty() {
		return line, newValidationError(v)
	}
	return line, nil
}

func (s *BillingService) AddLine(ctx context.Context, invoiceID uint, in LineInput) (*models.Invoice, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := lockInvoice(tx, invoiceID)
		if err != nil {
			return err
		}
		line, err := buildLine(tx, in)
		if err != nil {
			return err
		}
		return appendLines(tx, inv, line)
	})
	if err != nil {
		return nil, err
	}
	inv, err := s.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	s.activity.Log(ctx, &models.ActivityLog{
		EventType:  models.EventUpdate,
		Module:     models.ModuleBilling,
		Action:     "Ajout ligne facture",
		Details:    strings.TrimSpace(in.Description),
		ObjectType: "Facture",
		ObjectID:   inv.ID,
		ObjectRepr: invoiceRepr(inv),
	})
	return inv, nil
}

func (s *BillingService) UpdateLine(ctx context.Context, invoiceID, lineID uint, in LineInput) (*models.Invoice, error) {
	var before, after models.InvoiceLine
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := lockInvoice(tx, invoiceID)
		if err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", invoiceID).First(&before, lineID).Error; err != nil {
			return notFound(err, "invoice line")
		}
		line, err := buildLine(tx, in)
		if err != nil {
			return err
		}
		line.ComputeTotal()
		err = tx.Model(&models.InvoiceLine{}).Where("id = ?", lineID).Updates(map[string]any{
			"description":  line.Description,
			"quantity":     line.Quantity,
			"unit_price":   line.UnitPrice,
			"total":        line.Total,
			"service_id":   line.ServiceID,
			"menu_item_id": line.MenuItemID,
		}).Error
		if err != nil {
			return fmt.Errorf("update line: %w", err)
		}
		line.ID, line.InvoiceID = lineID, invoiceID
		after = line
		return persistTotals(tx, inv, inv.Total, inv.AmountPaid)
	})
	if err != nil {
		return nil, err
	}
	s.activity.Updated(ctx, models.ModuleBilling, "Ligne facture", lineID, after.Description, &before, &after)
	return s.Get(ctx, invoiceID)
}

func (s *BillingService) RemoveLine(ctx context.Context, invoiceID, lineID uint) (*models.Invoice, error) {
	var line models.InvoiceLine
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := lockInvoice(tx, invoiceID)
		if err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", invoiceID).First(&line, lineID).Error; err != nil {
			return notFound(err, "invoice line")
		}
		if err := tx.Delete(&line).Error; err != nil {
			return fmt.Errorf("delete line: %w", err)
		}
		return persistTotals(tx, inv, inv.Total, inv.AmountPaid)
	})
	if err != nil {
		return nil, err
	}
	s.activity.Deleted(ctx, models.ModuleBilling, "Ligne facture", line.ID, line.Description, &line)
	return s.Get(ctx, invoiceID)
}

type PaymentInput struct {
	Amount float64 `json:"amount" validate:"gt=0"`
	Date   string  `json:"date"`
	Method string  `json:"method" validate:"max=30"`
	Note   string  `json:"note" validate:"max=255"`
}

// RecordPayment adds a settlement, sets the payment date and recomputes.
// Paying more than what remains is refused.
func (s *BillingService) RecordPayment(ctx context.Context, invoiceID uint, in PaymentInput) (*models.Invoice, error) {
	v := validation.Struct(in)
	day := Today()
	if d, ok := parseDay("date", in.Date, v); ok {
		day = d
	}
	if !v.Empty() {
		return nil, newValidationError(v)
	}
	amount := models.RoundMoney(in.Amount)
	var number string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := lockInvoice(tx, invoiceID)
		if err != nil {
			return err
		}
		number = inv.Number
		if amount > inv.Remaining() {
			return fieldError("amount", "out_of_range")
		}
		p := models.Payment{InvoiceID: inv.ID, Date: day, Amount: amount, Method: in.Method, Note: in.Note}
		if err := tx.Create(&p).Error; err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		oldTotal, oldPaid := inv.Total, inv.AmountPaid
		inv.AmountPaid = models.RoundMoney(inv.AmountPaid + amount)
		inv.PaidDate = &day
		return persistTotals(tx, inv, oldTotal, oldPaid)
	})
	if err != nil {
		return nil, err
	}
	s.activity.Log(ctx, &models.ActivityLog{
		EventType:  models.EventUpdate,
		Module:     models.ModuleBilling,
		Action:     "Paiement facture",
		Details:    fmt.Sprintf("%.2f %s", amount, in.Method),
		ObjectType: "Facture",
		ObjectID:   invoiceID,
		ObjectRepr: "Facture " + number,
	})
	return s.Get(ctx, invoiceID)
}

func (s *BillingService) Payments(ctx context.Context, invoiceID uint) ([]models.Payment, error) {
	var ps []models.Payment
	if err := s.db.WithContext(ctx).Where("invoice_id = ?", invoiceID).Order("date, id").Find(&ps).Error; err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return ps, nil
}

// NightlyReport summarises one nightly charge run.
type NightlyReport struct {
	Date           string `json:"date"`
	Checked        int    `json:"checked"`
	Charged        []uint `json:"charged"`
	AlreadyCharged []uint `json:"already_charged"`
	MissingInvoice []uint `json:"missing_invoice"`
	Failed         []uint `json:"failed"`
}

// ChargeNightly adds the night of day to the open invoice of every active
// stay that has not ended. Each stay is charged in its own transaction.
func (s *BillingService) ChargeNightly(ctx context.Context, day time.Time) (*NightlyReport, error) {
	report := &NightlyReport{
		Date:           day.Format("2006-01-02"),
		Charged:        []uint{},
		AlreadyCharged: []uint{},
		MissingInvoice: []uint{},
		Failed:         []uint{},
	}
	var stays []models.Reservation
	err := s.db.WithContext(ctx).
		Preload("Room.Category").
		Where("status = ? AND end_date >= ?", models.ReservationActive, day).
		Order("id").
		Find(&stays).Error
	if err != nil {
		return nil, fmt.Errorf("active reservations: %w", err)
	}
	prefix := "Nuitée du " + day.Format("02/01/2006")
	for _, res := range stays {
		report.Checked++
		var outcome string
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			inv, err := openInvoiceFor(tx, 0, res.ID, models.InvoiceUnpaid, models.InvoicePartial)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				outcome = "missing"
				return nil
			}
			if err != nil {
				return err
			}
			var n int64
			if err := tx.Model(&models.InvoiceLine{}).
				Where("invoice_id = ? AND description LIKE ?", inv.ID, prefix+"%").
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				outcome = "already"
				return nil
			}
			number := ""
			if res.Room != nil {
				number = res.Room.Number
			}
			line := models.InvoiceLine{
				Description: models.NightLineDescription(day, number),
				Quantity:    1,
				UnitPrice:   res.Room.NightlyPrice(),
			}
			outcome = "charged"
			return appendLines(tx, inv, line)
		})
		switch {
		case err != nil:
			log.Printf("billing: nightly charge for reservation %d failed: %v", res.ID, err)
			report.Failed = append(report.Failed, res.ID)
		case outcome == "missing":
			report.MissingInvoice = append(report.MissingInvoice, res.ID)
		case outcome == "already":
			report.AlreadyCharged = append(report.AlreadyCharged, res.ID)
		default:
			report.Charged = append(report.Charged, res.ID)
		}
	}
	s.activity.System(ctx, models.ModuleBilling, "Facturation des nuitées",
		fmt.Sprintf("%s: %d facturées, %d déjà facturées, %d sans facture, %d en erreur",
			report.Date, len(report.Charged), len(report.AlreadyCharged), len(report.MissingInvoice), len(report.Failed)),
		models.SeverityInfo)
	return report, nil
}

// Summary holds the billing figures of the dashboard.
type Summary struct {
	Revenue      float64          `json:"revenue"`
	AmountDue    float64          `json:"amount_due"`
	Outstanding  float64          `json:"outstanding"`
	Invoices     map[string]int64 `json:"invoices"`
	Reservations map[string]int64 `json:"reservations"`
	Rooms        map[string]int64 `json:"rooms"`
	Clients      int64            `json:"clients"`
	OpenOrders   int64            `json:"open_orders"`
	OpenCleaning int64            `json:"open_cleaning"`
}

type statusCount struct {
	Status string
	N      int64
}

func countBy(db *gorm.DB, model any) (map[string]int64, error) {
	var rows []statusCount
	if err := db.Model(model).Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}

func sumTotal(db *gorm.DB, expr string, statuses ...models.InvoiceStatus) (float64, error) {
	var v float64
	q := db.Model(&models.Invoice{}).Select("COALESCE(SUM(" + expr + "), 0)")
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	if err := q.Scan(&v).Error; err != nil {
		return 0, err
	}
	return models.RoundMoney(v), nil
}

func (s *BillingService) Summary(ctx context.Context) (*Summary, error) {
	db := s.db.WithContext(ctx)
	var sum Summary
	var err error
	if sum.Revenue, err = sumTotal(db, "total", models.InvoicePaid); err != nil {
		return nil, fmt.Errorf("revenue: %w", err)
	}
	if sum.AmountDue, err = sumTotal(db, "total", models.InvoiceUnpaid, models.InvoicePartial); err != nil {
		return nil, fmt.Errorf("amount due: %w", err)
	}
	if sum.Outstanding, err = sumTotal(db, "total - amount_paid"); err != nil {
		return nil, fmt.Errorf("outstanding: %w", err)
	}
	if sum.Invoices, err = countBy(db, &models.Invoice{}); err != nil {
		return nil, err
	}
	if sum.Reservations, err = countBy(db, &models.Reservation{}); err != nil {
		return nil, err
	}
	if sum.Rooms, err = countBy(db, &models.Room{}); err != nil {
		return nil, err
	}
	if err := db.Model(&models.Client{}).Count(&sum.Clients).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Where("status IN ?", []models.OrderStatus{models.OrderPreparing, models.OrderDelivered}).Count(&sum.OpenOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.RoomCleaning{}).Where("status IN ?", []models.CleaningTaskStatus{models.CleaningTodo, models.CleaningInProgress}).Count(&sum.OpenCleaning).Error; err != nil {
		return nil, err
	}
	return &sum, nil
}

// parseDay parses an optional YYYY-MM-DD value, recording invalid_date on v.
func parseDay(field, value string, v validation.Violations) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		v.Add(field, "invalid_date")
		return time.Time{}, false
	}
	return d, true
}
