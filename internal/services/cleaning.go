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

type CleaningService struct {
	db       *gorm.DB
	activity *ActivityService
	cache    Cache
}

func NewCleaningService(db *gorm.DB, activity *ActivityService, cache Cache) *CleaningService {
	if cache == nil {
		cache = nopCache{}
	}
	return &CleaningService{db: db, activity: activity, cache: cache}
}

type CleaningInput struct {
	RoomID   uint   `json:"room_id" validate:"required"`
	Priority string `json:"priority"`
	Agent    string `json:"agent" validate:"max=100"`
	Notes    string `json:"notes"`
}

func cleaningRepr(c *models.RoomCleaning) string {
	if c.Room != nil {
		return fmt.Sprintf("Nettoyage #%d - Chambre %s", c.ID, c.Room.Number)
	}
	return fmt.Sprintf("Nettoyage #%d", c.ID)
}

func (s *CleaningService) Create(ctx context.Context, in CleaningInput) (*models.RoomCleaning, error) {
	if in.Priority == "" {
		in.Priority = string(models.PriorityNormal)
	}
	db := s.db.WithContext(ctx)
	v := validation.Struct(in)
	validation.OneOf("priority", in.Priority, models.CleaningPriorities, v)
	if in.RoomID != 0 {
		if err := db.First(&models.Room{}, in.RoomID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			v.Add("room_id", "invalid_choice")
		}
	}
	if !v.Empty() {
		return nil, newValidationError(v)
	}
	c := models.RoomCleaning{
		RoomID:      in.RoomID,
		Status:      models.CleaningTodo,
		Priority:    models.CleaningPriority(in.Priority),
		Agent:       strings.TrimSpace(in.Agent),
		RequestedAt: time.Now().UTC(),
		Notes:       in.Notes,
	}
	if err := db.Create(&c).Error; err != nil {
		return nil, fmt.Errorf("create cleaning: %w", err)
	}
	out, err := s.Get(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	s.activity.Created(ctx, models.ModuleRooms, "Nettoyage", out.ID, cleaningRepr(out), out)
	return out, nil
}

func (s *CleaningService) Get(ctx context.Context, id uint) (*models.RoomCleaning, error) {
	var c models.RoomCleaning
	if err := s.db.WithContext(ctx).Preload("Room").First(&c, id).Error; err != nil {
		return nil, notFound(err, "cleaning")
	}
	return &c, nil
}

type CleaningFilter struct {
	Status   string
	RoomID   uint
	Priority string
	Limit    int
	Offset   int
}

func (s *CleaningService) List(ctx context.Context, f CleaningFilter) ([]models.RoomCleaning, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.RoomCleaning{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.RoomID != 0 {
		q = q.Where("room_id = ?", f.RoomID)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count cleanings: %w", err)
	}
	var out []models.RoomCleaning
	if err := paginate(q.Preload("Room").Order("requested_at desc, id desc"), f.Limit, f.Offset).Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("list cleanings: %w", err)
	}
	return out, total, nil
}

// step moves a task from one status to the next, applies the extra columns
// and, when roomState is set, updates the room's cleaning status with it.
func (s *CleaningService) step(ctx context.Context, id uint, from, to models.CleaningTaskStatus, cols map[string]any, roomState models.CleaningStatus) (*models.RoomCleaning, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.RoomCleaning
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, id).Error; err != nil {
			return notFound(err, "cleaning")
		}
		if c.Status != from {
			return fmt.Errorf("cleaning %d is %s, want %s: %w", id, c.Status, from, ErrInvalidTransition)
		}
		cols["status"] = to
		if err := tx.Model(&models.RoomCleaning{}).Where("id = ?", id).Updates(cols).Error; err != nil {
			return err
		}
		if roomState == "" {
			return nil
		}
		return tx.Model(&models.Room{}).Where("id = ?", c.RoomID).Update("cleaning_status", roomState).Error
	})
	if err != nil {
		return nil, err
	}
	if roomState != "" {
		s.cache.Invalidate(ctx)
	}
	out, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.activity.Log(ctx, &models.ActivityLog{
		EventType:  models.EventUpdate,
		Module:     models.ModuleRooms,
		Action:     "Changement de statut",
		Details:    fmt.Sprintf("%s -> %s", from, to),
		ObjectType: "Nettoyage",
		ObjectID:   out.ID,
		ObjectRepr: cleaningRepr(out),
	})
	return out, nil
}

// Start assigns an agent and moves the task to en_cours.
func (s *CleaningService) Start(ctx context.Context, id uint, agent string) (*models.RoomCleaning, error) {
	cols := map[string]any{"started_at": time.Now().UTC()}
	if agent = strings.TrimSpace(agent); agent != "" {
		cols["agent"] = agent
	}
	return s.step(ctx, id, models.CleaningTodo, models.CleaningInProgress, cols, "")
}

// Complete closes the task; the room is clean but not yet inspected.
func (s *CleaningService) Complete(ctx context.Context, id uint) (*models.RoomCleaning, error) {
	cols := map[string]any{"finished_at": time.Now().UTC()}
	return s.step(ctx, id, models.CleaningInProgress, models.CleaningDone, cols, models.CleaningClean)
}

// Validate records the inspection, which makes the room bookable again.
func (s *CleaningService) Validate(ctx context.Context, id uint, validator string) (*models.RoomCleaning, error) {
	validator = strings.TrimSpace(validator)
	if validator == "" {
		if info := RequestInfoFrom(ctx); info.User != "" {
			validator = info.User
		}
	}
	if validator == "" {
		return nil, fieldError("validated_by", "required")
	}
	cols := map[string]any{"validated_by": validator, "validated_at": time.Now().UTC()}
	return s.step(ctx, id, models.CleaningDone, models.CleaningValidated, cols, models.CleaningInspected)
}
