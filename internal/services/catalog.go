package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/hotel-backoffice/internal/models"
	"github.com/diewo77/hotel-backoffice/validation"
	"gorm.io/gorm"
)

// CatalogService manages the billable hotel services and the restaurant menu.
type CatalogService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewCatalogService(db *gorm.DB, activity *ActivityService) *CatalogService {
	return &CatalogService{db: db, activity: activity}
}

type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

// uniqueName adds already_exists on name when model already holds a row named name.
func uniqueName(tx *gorm.DB, model any, name string, v validation.Violations) error {
	if v["name"] != "" {
		return nil
	}
	var n int64
	if err := tx.Model(model).Where("name = ?", name).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		v.Add("name", "already_exists")
	}
	return nil
}

func (s *CatalogService) CreateServiceCategory(ctx context.Context, in CategoryInput) (*models.ServiceCategory, error) {
	in.Name = strings.TrimSpace(in.Name)
	db := s.db.WithContext(ctx)
	v := validation.Struct(in)
	if err := uniqueName(db, &models.ServiceCategory{}, in.Name, v); err != nil {
		return nil, err
	}
	if !v.Empty() {
		return nil, newValidationError(v)
	}
	c := models.ServiceCategory{Name: in.Name, Description: in.Description}
	if err := db.Create(&c).Error; err != nil {
		return nil, fmt.Errorf("create service category: %w", err)
	}
	s.activity.Created(ctx, models.ModuleSettings, "Catégorie de service", c.ID, c.Name, &c)
	return &c, nil
}

func (s *CatalogService) ListServiceCategories(ctx context.Context) ([]models.ServiceCategory, error) {
	var out []models.ServiceCategory
	if err := s.db.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list service categories: %w", err)
	}
	return out, nil
}

type ServiceInput struct {
	CategoryID  uint    `json:"category_id" validate:"required"`
	Name        string  `json:"name" validate:"required,max=100"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description"`
}

func (s *CatalogService) CreateService(ctx context.Context, in ServiceInput) (*models.Service, error) {
	in.Name = strings.TrimSpace(in.Name)
	db := s.db.WithContext(ctx)
	v := validation.Struct(in)
	if in.CategoryID != 0 {
		if err := db.First(&models.ServiceCategory{}, in.CategoryID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			v.Add("category_id", "invalid_choice")
		}
	}
	if !v.Empty() {
		return nil, newValidationError(v)
	}
	svc := models.Service{
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Price:       models.RoundMoney(in.Price),
		Description: in.Description,
	}
	if err := db.Create(&svc).Error; err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	s.activity.Created(ctx, models.ModuleSettings, "Service", svc.ID, svc.Name, &svc)
	return &svc, nil
}

// ListServices returns the catalog, optionally limited to one category.
func (s *CatalogService) ListServices(ctx context.Context, categoryID uint) ([]models.Service, error) {
	q := s.db.WithContext(ctx).Preload("Category")
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}
	var out []models.Service
	if err := q.Order("name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return out, nil
}

// DeleteService soft-deletes a service. Invoice lines keep their copied
// description and price.
func (s *CatalogService) DeleteService(ctx context.Context, id uint) error {
	var svc models.Service
	db := s.db.WithContext(ctx)
	if err := db.First(&svc, id).Error; err != nil {
		return notFound(err, "service")
	}
	if err := db.Delete(&svc).Error; err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	s.activity.Deleted(ctx, models.ModuleSettings, "Service", svc.ID, svc.Name, &svc)
	return nil
}

type DishCategoryInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (s *CatalogService) CreateDishCategory(ctx context.Context, in DishCategoryInput) (*models.DishCategory, error) {
	in.Name = strings.TrimSpace(in.Name)
	db := s.db.WithContext(ctx)
	v := validation.Struct(in)
	if err := uniqueName(db, &models.DishCategory{}, in.Name, v); err != nil {
		return nil, err
	}
	if !v.Empty() {
		return nil, newValidationError(v)
	}
	c := models.DishCategory{Name: in.Name}
	if err := db.Create(&c).Error; err != nil {
		return nil, fmt.Errorf("create dish category: %w", err)
	}
	s.activity.Created(ctx, models.ModuleRestaurant, "Catégorie de plat", c.ID, c.Name, &c)
	return &c, nil
}

func (s *CatalogService) ListDishCategories(ctx context.Context) ([]models.DishCategory, error) {
	var out []models.DishCategory
	if err := s.db.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list dish categories: %w", err)
	}
	return out, nil
}

type MenuItemInput struct {
	CategoryID  uint    `json:"category_id" validate:"required"`
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	CookingTime int     `json:"cooking_time" validate:"gte=0"`
	Available   *bool   `json:"available"`
}

func (s *CatalogService) validateMenuItem(tx *gorm.DB, in MenuItemInput) error {
	v := validation.Struct(in)
	if in.CategoryID != 0 {
		if err := tx.First(&models.DishCategory{}, in.CategoryID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			v.Add("category_id", "invalid_choice")
		}
	}
	if !v.Empty() {
		return newValidationError(v)
	}
	return nil
}

func (s *CatalogService) CreateMenuItem(ctx context.Context, in MenuItemInput) (*models.MenuItem, error) {
	in.Name = strings.TrimSpace(in.Name)
	db := s.db.WithContext(ctx)
	if err := s.validateMenuItem(db, in); err != nil {
		return nil, err
	}
	m := models.MenuItem{
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Description: in.Description,
		Price:       models.RoundMoney(in.Price),
		CookingTime: in.CookingTime,
		Available:   in.Available == nil || *in.Available,
	}
	if err := db.Create(&m).Error; err != nil {
		return nil, fmt.Errorf("create menu item: %w", err)
	}
	s.activity.Created(ctx, models.ModuleRestaurant, "Plat", m.ID, m.Name, &m)
	return &m, nil
}

type MenuFilter struct {
	CategoryID    uint
	AvailableOnly bool
}

func (s *CatalogService) ListMenuItems(ctx context.Context, f MenuFilter) ([]models.MenuItem, error) {
	q := s.db.WithContext(ctx).Preload("Category")
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.AvailableOnly {
		q = q.Where("available = ?", true)
	}
	var out []models.MenuItem
	if err := q.Order("name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	return out, nil
}

func (s *CatalogService) UpdateMenuItem(ctx context.Context, id uint, in MenuItemInput) (*models.MenuItem, error) {
	in.Name = strings.TrimSpace(in.Name)
	var before, m models.MenuItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, id).Error; err != nil {
			return notFound(err, "menu item")
		}
		before = m
		if err := s.validateMenuItem(tx, in); err != nil {
			return err
		}
		m.CategoryID = in.CategoryID
		m.Name = in.Name
		m.Description = in.Description
		m.Price = models.RoundMoney(in.Price)
		m.CookingTime = in.CookingTime
		if in.Available != nil {
			m.Available = *in.Available
		}
		return tx.Model(&models.MenuItem{}).Where("id = ?", id).Updates(map[string]any{
			"category_id":  m.CategoryID,
			"name":         m.Name,
			"description":  m.Description,
			"price":        m.Price,
			"cooking_time": m.CookingTime,
			"available":    m.Available,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	s.activity.Updated(ctx, models.ModuleRestaurant, "Plat", m.ID, m.Name, &before, &m)
	return &m, nil
}

// DeleteMenuItem soft-deletes a dish; past orders keep their price snapshot.
func (s *CatalogService) DeleteMenuItem(ctx context.Context, id uint) error {
	var m models.MenuItem
	db := s.db.WithContext(ctx)
	if err := db.First(&m, id).Error; err != nil {
		return notFound(err, "menu item")
	}
	if err := db.Delete(&m).Error; err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	s.activity.Deleted(ctx, models.ModuleRestaurant, "Plat", m.ID, m.Name, &m)
	return nil
}
