package models

import "time"

// CleaningTaskStatus is the housekeeping workflow state.
type CleaningTaskStatus string

const (
	CleaningTodo       CleaningTaskStatus = "a_faire"
	CleaningInProgress CleaningTaskStatus = "en_cours"
	CleaningDone       CleaningTaskStatus = "termine"
	CleaningValidated  CleaningTaskStatus = "valide"
)

var CleaningTaskStatuses = []string{
	string(CleaningTodo), string(CleaningInProgress), string(CleaningDone), string(CleaningValidated),
}

type CleaningPriority string

const (
	PriorityNormal     CleaningPriority = "normal"
	PriorityUrgent     CleaningPriority = "urgent"
	PriorityVeryUrgent CleaningPriority = "tres_urgent"
)

var CleaningPriorities = []string{string(PriorityNormal), string(PriorityUrgent), string(PriorityVeryUrgent)}

// RoomCleaning is a housekeeping task for one room.
type RoomCleaning struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RoomID   uint               `gorm:"index;not null" json:"room_id"`
	Room     *Room              `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Status   CleaningTaskStatus `gorm:"size:20;not null;index" json:"status"`
	Priority CleaningPriority   `gorm:"size:20;not null" json:"priority"`
	Agent    string             `gorm:"size:100" json:"agent,omitempty"`

	RequestedAt time.Time  `gorm:"not null;index" json:"requested_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	ValidatedBy string     `gorm:"size:100" json:"validated_by,omitempty"`
	ValidatedAt *time.Time `json:"validated_at,omitempty"`
	Notes       string     `gorm:"type:text" json:"notes,omitempty"`
}
