package models

import (
	"time"

	"gorm.io/datatypes"
)

type EventType string

const (
	EventCreate EventType = "create"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
	EventLogin  EventType = "login"
	EventLogout EventType = "logout"
	EventView   EventType = "view"
	EventError  EventType = "error"
	EventSystem EventType = "system"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Module identifies the functional area an activity belongs to.
type Module string

const (
	ModuleClients      Module = "clients"
	ModuleRooms        Module = "rooms"
	ModuleReservations Module = "reservations"
	ModuleRestaurant   Module = "restaurant"
	ModuleTransport    Module = "transport"
	ModuleComplaints   Module = "complaints"
	ModuleBilling      Module = "billing"
	ModuleSettings     Module = "settings"
	ModuleAuth         Module = "auth"
)

var (
	EventTypes = []string{"create", "update", "delete", "login", "logout", "view", "error", "system"}
	Severities = []string{"info", "warning", "error", "critical"}
	Modules    = []string{"clients", "rooms", "reservations", "restaurant", "transport", "complaints", "billing", "settings", "auth"}
)

// ActivityLog is one entry of the back-office journal.
type ActivityLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	User       string    `gorm:"size:150;index" json:"user,omitempty"`
	EventType  EventType `gorm:"size:20;not null;index" json:"event_type"`
	Module     Module    `gorm:"size:20;not null;index" json:"module"`
	Action     string    `gorm:"size:200;not null" json:"action"`
	Details    string    `gorm:"type:text" json:"details,omitempty"`
	Severity   Severity  `gorm:"size:20;not null;index" json:"severity"`
	ObjectType string    `gorm:"size:100" json:"object_type,omitempty"`
	ObjectID   uint      `gorm:"index" json:"object_id,omitempty"`
	ObjectRepr string    `gorm:"size:200" json:"object_repr,omitempty"`

	OldValues datatypes.JSON `json:"old_values,omitempty"`
	NewValues datatypes.JSON `json:"new_values,omitempty"`

	IPAddress string `gorm:"size:64" json:"ip_address,omitempty"`
	UserAgent string `gorm:"type:text" json:"user_agent,omitempty"`
}
