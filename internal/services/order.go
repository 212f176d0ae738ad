package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/diewo77/hotel-backoffice/internal/models"
	"github.com/diewo77/hotel-backoffice/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultWalkInName labels walk-in orders placed without a customer name.
const DefaultWalkInName = "Client de passage"

type OrderService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewOrderService(db *gorm.DB, activity *ActivityService) *OrderService {
	return &OrderService{db: db, activity: activity}
}

type OrderItemInput struct {
	MenuItemID uint `json:"menu_item_id" validate:"required"`
	Quantity   int  `json:"quantity" validate:"gt=0"`
}

type OrderInput struct {
	Type          string           `json:"type"`
	ReservationID *uint            `json:"reservation_id"`
	PaymentMode   string           `json:"payment_mode"`
	TableNumber   string           `json:"table_number" validate:"max=10"`
	WalkInName    string           `json:"walk_in_name" validate:"max=100"`
	Notes         string           `json:"notes"`
	Items         []OrderItemInput `json:"items" validate:"dive"`
}

// PlaceOrder records a restaurant order. Residents order against an active
// stay; walk-in orders cannot be put on a room and are paid on the spot.
func (s *OrderService) PlaceOrder(ctx context.Context, in OrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if in.Type == "" {
		in.Type = string(models.OrderWalkIn)
		if in.ReservationID != nil {
			in.Type = string(models.OrderResident)
		}
	}
	if in.PaymentMode == "" {
		in.PaymentMode = string(models.OrderPayCash)
	}
	v := validation.Struct(in)
	validation.OneOf("type", in.Type, models.OrderTypes, v)
	validation.OneOf("payment_mode", in.PaymentMode, models.OrderPayments, v)
	resident := models.OrderType(in.Type) == models.OrderResident
	if resident && in.ReservationID == nil {
		v.Add("reservation_id", "required")
	}
	if !resident && models.OrderPayment(in.PaymentMode) == models.OrderPayRoom {
		v.Add("payment_mode", "room_payment_resident")
	}
	if !v.Empty() {
		return nil, newValidationError(v)
	}

	order := models.Order{
		Type:        models.OrderType(in.Type),
		Status:      models.OrderPreparing,
		PaymentMode: models.OrderPayment(in.PaymentMode),
		TableNumber: strings.TrimSpace(in.TableNumber),
		Notes:       in.Notes,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if resident {
			var res models.Reservation
			if err := tx.First(&res, *in.ReservationID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fieldError("reservation_id", "invalid_choice")
				}
				return err
			}
			if res.Status != models.ReservationActive {
				return fieldError("reservation_id", "reservation_not_active")
			}
			resID, roomID := res.ID, res.RoomID
			order.ReservationID, order.RoomID = &resID, &roomID
		} else {
			order.WalkInName = strings.TrimSpace(in.WalkInName)
			if order.WalkInName == "" {
				order.WalkInName = DefaultWalkInName
			}
			order.Status = models.OrderPaid
		}

		ids := make([]uint, 0, len(in.Items))
		for _, it := range in.Items {
			ids = append(ids, it.MenuItemID)
		}
		var menu []models.MenuItem
		if err := tx.Where("id IN ?", ids).Find(&menu).Error; err != nil {
			return err
		}
		byID := make(map[uint]models.MenuItem, len(menu))
		for _, m := range menu {
			byID[m.ID] = m
		}
		for _, it := range in.Items {
			m, ok := byID[it.MenuItemID]
			if !ok {
				return fieldError("items", "invalid_choice")
			}
			if !m.Available {
				return fieldError("items", "item_unavailable")
			}
			order.Items = append(order.Items, models.OrderItem{
				MenuItemID: m.ID,
				Quantity:   it.Quantity,
				UnitPrice:  m.Price,
			})
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}
	out, err := s.Get(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	s.activity.Created(ctx, models.ModuleRestaurant, "Commande", out.ID, orderRepr(out), out)
	return out, nil
}

// withDeleted lets a preload reach soft-deleted catalog rows.
func withDeleted(db *gorm.DB) *gorm.DB { return db.Unscoped() }

func orderRepr(o *models.Order) string {
	return fmt.Sprintf("Commande #%d (%.2f)", o.ID, o.Total())
}

func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).Preload("Room").Preload("Items.MenuItem", withDeleted).First(&o, id).Error
	if err != nil {
		return nil, notFound(err, "order")
	}
	return &o, nil
}

type OrderFilter struct {
	Status string
	Type   string
	Limit  int
	Offset int
}

func (s *OrderService) List(ctx context.Context, f OrderFilter) ([]models.Order, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Order{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	var orders []models.Order
	if err := paginate(q.Preload("Room").Preload("Items.MenuItem").Order("created_at desc, id desc"), f.Limit, f.Offset).Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

// PendingOrder is the kitchen board view of an order.
type PendingOrder struct {
	ID     uint    `json:"id"`
	Total  float64 `json:"total"`
	Time   string  `json:"date"`
	Client string  `json:"client"`
	Status string  `json:"status"`
}

// Pending returns the ten latest orders still in the kitchen or awaiting payment.
func (s *OrderService) Pending(ctx context.Context) ([]PendingOrder, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").Preload("Reservation.Client").
		Where("status IN ?", []models.OrderStatus{models.OrderPreparing, models.OrderDelivered}).
		Order("created_at desc, id desc").
		Limit(10).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("pending orders: %w", err)
	}
	out := make([]PendingOrder, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		name := o.WalkInName
		if o.Reservation != nil && o.Reservation.Client != nil {
			name = o.Reservation.Client.Name
		}
		out = append(out, PendingOrder{
			ID:     o.ID,
			Total:  o.Total(),
			Time:   o.CreatedAt.Format("15:04"),
			Client: name,
			Status: string(o.Status),
		})
	}
	return out, nil
}

// Advance moves an order to the next status. A resident order reaching
// livre is charged once to the open invoice of its stay.
func (s *OrderService) Advance(ctx context.Context, id uint, next models.OrderStatus) (*models.Order, error) {
	var from models.OrderStatus
	var chargedTo *models.Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Preload("Items.MenuItem", withDeleted).First(&o, id).Error; err != nil {
			return notFound(err, "order")
		}
		from = o.Status
		if next == "" {
			next = o.Status.Next()
		}
		if next == "" || o.Status.Next() != next {
			return fmt.Errorf("%s -> %s: %w", o.Status, next, ErrInvalidTransition)
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", o.ID).Update("status", next).Error; err != nil {
			return err
		}
		if next != models.OrderDelivered || o.Type != models.OrderResident || o.Billed() || o.ReservationID == nil {
			return nil
		}
		inv, err := chargeOrder(tx, &o)
		if err != nil {
			return err
		}
		chargedTo = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	out, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.activity.Log(ctx, &models.ActivityLog{
		EventType:  models.EventUpdate,
		Module:     models.ModuleRestaurant,
		Action:     "Changement de statut",
		Details:    fmt.Sprintf("%s -> %s", from, out.Status),
		ObjectType: "Commande",
		ObjectID:   out.ID,
		ObjectRepr: orderRepr(out),
	})
	if chargedTo != nil {
		s.activity.Log(ctx, &models.ActivityLog{
			EventType:  models.EventUpdate,
			Module:     models.ModuleBilling,
			Action:     "Ajout commande restaurant",
			Details:    fmt.Sprintf("Commande #%d", out.ID),
			ObjectType: "Facture",
			ObjectID:   chargedTo.ID,
			ObjectRepr: invoiceRepr(chargedTo),
		})
	}
	return out, nil
}

// chargeOrder puts every item of o on the open invoice of its stay, opening
// one when needed, and marks the order billed. A stay that is no longer
// active is not charged.
func chargeOrder(tx *gorm.DB, o *models.Order) (*models.Invoice, error) {
	var res models.Reservation
	if err := tx.First(&res, *o.ReservationID).Error; err != nil {
		return nil, notFound(err, "reservation")
	}
	if res.Status != models.ReservationActive {
		log.Printf("restaurant: order %d not charged, reservation %d is %s", o.ID, res.ID, res.Status)
		return nil, nil
	}
	inv, err := openInvoiceFor(tx, res.ClientID, res.ID, models.InvoiceUnpaid, models.InvoicePartial)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		resID := res.ID
		inv, err = newInvoice(tx, res.ClientID, &resID, Today())
	}
	if err != nil {
		return nil, err
	}
	lines := make([]models.InvoiceLine, 0, len(o.Items))
	for _, it := range o.Items {
		name := fmt.Sprintf("#%d", it.MenuItemID)
		if it.MenuItem != nil {
			name = it.MenuItem.Name
		}
		menuID := it.MenuItemID
		lines = append(lines, models.InvoiceLine{
			MenuItemID:  &menuID,
			Description: models.RestaurantLineDescription(name),
			Quantity:    float64(it.Quantity),
			UnitPrice:   it.UnitPrice,
		})
	}
	if err := appendLines(tx, inv, lines...); err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Order{}).Where("id = ?", o.ID).Update("invoice_id", inv.ID).Error; err != nil {
		return nil, err
	}
	return inv, nil
}
