package models

import (
	"time"

	"gorm.io/gorm"
)

type DishCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
}

type MenuItem struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	CategoryID  uint           `gorm:"index;not null" json:"category_id"`
	Category    *DishCategory  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Name        string         `gorm:"size:200;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	Price       float64        `gorm:"type:decimal(10,2);not null" json:"price"`
	CookingTime int            `gorm:"default:0" json:"cooking_time"` // minutes
	Available   bool           `gorm:"not null" json:"available"`
}

// OrderStatus is the kitchen-to-cashier progression of an order.
type OrderStatus string

const (
	OrderPreparing OrderStatus = "en_prepa"
	OrderDelivered OrderStatus = "livre"
	OrderPaid      OrderStatus = "paye"
)

var OrderStatuses = []string{string(OrderPreparing), string(OrderDelivered), string(OrderPaid)}

// Next returns the status that follows s, or "" when s is final.
func (s OrderStatus) Next() OrderStatus {
	switch s {
	case OrderPreparing:
		return OrderDelivered
	case OrderDelivered:
		return OrderPaid
	}
	return ""
}

// OrderType tells whether the customer is a hotel guest.
type OrderType string

const (
	OrderResident OrderType = "resident"
	OrderWalkIn   OrderType = "passage"
)

var OrderTypes = []string{string(OrderResident), string(OrderWalkIn)}

// OrderPayment is how a restaurant order is settled.
type OrderPayment string

const (
	OrderPayCash       OrderPayment = "cash"
	OrderPayCard       OrderPayment = "carte"
	OrderPayMobile     OrderPayment = "mobile"
	OrderPayRoom       OrderPayment = "chambre"
	OrderPaySubscriber OrderPayment = "abonnee"
)

var OrderPayments = []string{
	string(OrderPayCash), string(OrderPayCard), string(OrderPayMobile),
	string(OrderPayRoom), string(OrderPaySubscriber),
}

type Order struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Type          OrderType    `gorm:"size:20;not null" json:"type"`
	Status        OrderStatus  `gorm:"size:20;not null;index" json:"status"`
	PaymentMode   OrderPayment `gorm:"size:20;not null" json:"payment_mode"`
	ReservationID *uint        `gorm:"index" json:"reservation_id,omitempty"`
	Reservation   *Reservation `gorm:"foreignKey:ReservationID" json:"-"`
	RoomID        *uint        `gorm:"index" json:"room_id,omitempty"`
	Room          *Room        `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	TableNumber   string       `gorm:"size:10" json:"table_number,omitempty"`
	WalkInName    string       `gorm:"size:100" json:"walk_in_name,omitempty"`
	Notes         string       `gorm:"type:text" json:"notes,omitempty"`

	// InvoiceID is set once the order has been charged to a stay invoice.
	InvoiceID *uint `gorm:"index" json:"invoice_id,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// Total sums the order items.
func (o *Order) Total() float64 {
	var t float64
	for _, it := range o.Items {
		t += it.Total()
	}
	return RoundMoney(t)
}

// Billed reports whether the order already sits on an invoice.
func (o *Order) Billed() bool { return o.InvoiceID != nil }

type OrderItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"index;not null" json:"order_id"`
	MenuItemID uint      `gorm:"index;not null" json:"menu_item_id"`
	MenuItem   *MenuItem `gorm:"foreignKey:MenuItemID" json:"menu_item,omitempty"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	// UnitPrice is a snapshot of the menu price at order time.
	UnitPrice float64 `gorm:"type:decimal(10,2);not null" json:"unit_price"`
}

func (it *OrderItem) Total() float64 {
	return RoundMoney(float64(it.Quantity) * it.UnitPrice)
}
