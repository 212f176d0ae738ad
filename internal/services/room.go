package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/diewo77/hotel-backoffice/internal/models"
	"github.com/diewo77/hotel-backoffice/validation"
	"gorm.io/gorm"
)

// Cache stores serialized query results. Invalidate drops everything the
// cache holds; implementations must be safe for concurrent use.
//
// Get also returns the cache generation it looked in. Set stores under that
// generation only, so a result computed while an Invalidate ran is never
// served. A negative generation means the lookup failed and Set is a no-op.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, gen int64, ok bool)
	Set(ctx context.Context, gen int64, key string, value []byte)
	Invalidate(ctx context.Context)
}

type nopCache struct{}

func (nopCache) Get(context.Context, string) ([]byte, int64, bool) { return nil, -1, false }
func (nopCache) Set(context.Context, int64, string, []byte)        {}
func (nopCache) Invalidate(context.Context)                        {}

// AvailableRoom is one entry of the available-rooms API.
type AvailableRoom struct {
	ID            uint    `json:"id"`
	Number        string  `json:"numero"`
	CategoryName  string  `json:"categorie_nom"`
	CategoryPrice float64 `json:"categorie_prix"`
}

type RoomService struct {
	db       *gorm.DB
	activity *ActivityService
	cache    Cache
}

func NewRoomService(db *gorm.DB, activity *ActivityService, cache Cache) *RoomService {
	if cache == nil {
		cache = nopCache{}
	}
	return &RoomService{db: db, activity: activity, cache: cache}
}

type RoomCategoryInput struct {
	Name        string  `json:"name" validate:"required,max=50"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description"`
}

func (s *RoomService) CreateCategory(ctx context.Context, in RoomCategoryInput) (*models.RoomCategory, error) {
	in.Name = strings.TrimSpace(in.Name)
	if v := validation.Struct(in); !v.Empty() {
		return nil, newValidationError(v)
	}
	c := models.RoomCategory{Name: in.Name, Price: models.RoundMoney(in.Price), Description: in.Description}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, fmt.Errorf("create room category: %w", err)
	}
	s.activity.Created(ctx, models.ModuleRooms, "Catégorie", c.ID, c.Name, &c)
	return &c, nil
}

func (s *RoomService) ListCategories(ctx context.Context) ([]models.RoomCategory, error) {
	var cats []models.RoomCategory
	if err := s.db.WithContext(ctx).Order("name").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("list room categories: %w", err)
	}
	return cats, nil
}

func (s *RoomService) GetCategory(ctx context.Context, id uint) (*models.RoomCategory, error) {
	var c models.RoomCategory
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err, "room category")
	}
	return &c, nil
}

func (s *RoomService) UpdateCategory(ctx context.Context, id uint, in RoomCategoryInput) (*models.RoomCategory, error) {
	in.Name = strings.TrimSpace(in.Name)
	if v := validation.Struct(in); !v.Empty() {
		return nil, newValidationError(v)
	}
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *c
	c.Name, c.Price, c.Description = in.Name, models.RoundMoney(in.Price), in.Description
	if err := s.db.WithContext(ctx).Model(c).Select("Name", "Price", "Description").Updates(c).Error; err != nil {
		return nil, fmt.Errorf("update room category: %w", err)
	}
	s.cache.Invalidate(ctx)
	s.activity.Updated(ctx, models.ModuleRooms, "Catégorie", c.ID, c.Name, &before, c)
	return c, nil
}

// DeleteCategory refuses while rooms still belong to the category.
func (s *RoomService) DeleteCategory(ctx context.Context, id uint) error {
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Room{}).Where("category_id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("category %d has %d rooms: %w", id, n, ErrConflict)
	}
	if err := s.db.WithContext(ctx).Delete(c).Error; err != nil {
		return fmt.Errorf("delete room category: %w", err)
	}
	s.activity.Deleted(ctx, models.ModuleRooms, "Catégorie", c.ID, c.Name, c)
	return nil
}

type RoomInput struct {
	Number         string `json:"number" validate:"required,max=10"`
	CategoryID     *uint  `json:"category_id"`
	Status         string `json:"status"`
	CleaningStatus string `json:"cleaning_status"`
}

func (s *RoomService) validateRoom(ctx context.Context, in *RoomInput, selfID uint) error {
	in.Number = strings.TrimSpace(in.Number)
	if in.Status == "" {
		in.Status = string(models.RoomAvailable)
	}
	if in.CleaningStatus == "" {
		in.CleaningStatus = string(models.CleaningClean)
	}
	v := validation.Struct(*in)
	validation.OneOf("status", in.Status, models.RoomStatuses, v)
	validation.OneOf("cleaning_status", in.CleaningStatus, models.CleaningStatuses, v)
	db := s.db.WithContext(ctx)
	if in.CategoryID != nil {
		var n int64
		if err := db.Model(&models.RoomCategory{}).Where("id = ?", *in.CategoryID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			v.Add("category_id", "invalid_choice")
		}
	}
	if in.Number != "" {
		var n int64
		q := db.Unscoped().Model(&models.Room{}).Where("number = ?", in.Number)
		if selfID != 0 {
			q = q.Where("id <> ?", selfID)
		}
		if err := q.Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			v.Add("number", "already_exists")
		}
	}
	if !v.Empty() {
		return newValidationError(v)
	}
	return nil
}

func (s *RoomService) CreateRoom(ctx context.Context, in RoomInput) (*models.Room, error) {
	if err := s.validateRoom(ctx, &in, 0); err != nil {
		return nil, err
	}
	r := models.Room{
		Number:         in.Number,
		CategoryID:     in.CategoryID,
		Status:         models.RoomStatus(in.Status),
		CleaningStatus: models.CleaningStatus(in.CleaningStatus),
	}
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	s.cache.Invalidate(ctx)
	s.activity.Created(ctx, models.ModuleRooms, "Chambre", r.ID, "Chambre "+r.Number, &r)
	return &r, nil
}

func (s *RoomService) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	var r models.Room
	if err := s.db.WithContext(ctx).Preload("Category").First(&r, id).Error; err != nil {
		return nil, notFound(err, "room")
	}
	return &r, nil
}

type RoomFilter struct {
	CategoryID     uint
	Status         string
	CleaningStatus string
}

func (s *RoomService) ListRooms(ctx context.Context, f RoomFilter) ([]models.Room, error) {
	q := s.db.WithContext(ctx).Preload("Category")
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CleaningStatus != "" {
		q = q.Where("cleaning_status = ?", f.CleaningStatus)
	}
	var rooms []models.Room
	if err := q.Order("number").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

func (s *RoomService) UpdateRoom(ctx context.Context, id uint, in RoomInput) (*models.Room, error) {
	r, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateRoom(ctx, &in, id); err != nil {
		return nil, err
	}
	before := *r
	r.Number = in.Number
	r.CategoryID = in.CategoryID
	r.Status = models.RoomStatus(in.Status)
	r.CleaningStatus = models.CleaningStatus(in.CleaningStatus)
	r.Category = nil
	err = s.db.WithContext(ctx).Model(r).
		Select("Number", "CategoryID", "Status", "CleaningStatus").
		Updates(r).Error
	if err != nil {
		return nil, fmt.Errorf("update room: %w", err)
	}
	s.cache.Invalidate(ctx)
	before.Category = nil
	s.activity.Updated(ctx, models.ModuleRooms, "Chambre", r.ID, "Chambre "+r.Number, &before, r)
	return s.GetRoom(ctx, id)
}

// DeleteRoom refuses while a pending, confirmed or active stay holds the room.
func (s *RoomService) DeleteRoom(ctx context.Context, id uint) error {
	r, err := s.GetRoom(ctx, id)
	if err != nil {
		return err
	}
	var n int64
	err = s.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("room_id = ? AND status IN ?", id, models.BlockingStatuses).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("room %s has %d live reservations: %w", r.Number, n, ErrConflict)
	}
	if err := s.db.WithContext(ctx).Delete(r).Error; err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	s.cache.Invalidate(ctx)
	s.activity.Deleted(ctx, models.ModuleRooms, "Chambre", r.ID, "Chambre "+r.Number, r)
	return nil
}

// AvailableRooms lists rooms that are free, inspected and not held by any
// blocking reservation overlapping [start, end).
func (s *RoomService) AvailableRooms(ctx context.Context, start, end time.Time) ([]AvailableRoom, error) {
	if !end.After(start) {
		return nil, fieldError("date_fin", "date_order")
	}
	key := "available:" + start.Format("2006-01-02") + ":" + end.Format("2006-01-02")
	raw, gen, ok := s.cache.Get(ctx, key)
	if ok {
		var cached []AvailableRoom
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	db := s.db.WithContext(ctx)
	held := db.Model(&models.Reservation{}).
		Select("room_id").
		Where("status IN ? AND start_date < ? AND end_date > ?", models.BlockingStatuses, end, start)
	var rooms []models.Room
	err := db.Preload("Category").
		Where("status = ? AND cleaning_status = ?", models.RoomAvailable, models.CleaningInspected).
		Where("id NOT IN (?)", held).
		Order("number").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("available rooms: %w", err)
	}
	out := make([]AvailableRoom, 0, len(rooms))
	for _, r := range rooms {
		ar := AvailableRoom{ID: r.ID, Number: r.Number}
		if r.Category != nil {
			ar.CategoryName = r.Category.Name
			ar.CategoryPrice = r.Category.Price
		}
		out = append(out, ar)
	}
	if raw, err := json.Marshal(out); err == nil {
		s.cache.Set(ctx, gen, key, raw)
	} else {
		log.Printf("rooms: cache encode failed: %v", err)
	}
	return out, nil
}
