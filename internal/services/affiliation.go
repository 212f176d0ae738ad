package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/diewo77/hotel-backoffice/internal/models"
	"github.com/diewo77/hotel-backoffice/validation"
	"gorm.io/gorm"
)

type AffiliationService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewAffiliationService(db *gorm.DB, activity *ActivityService) *AffiliationService {
	return &AffiliationService{db: db, activity: activity}
}

type AffiliationInput struct {
	CompanyName    string `json:"company_name" validate:"required,max=100"`
	CompanyContact string `json:"company_contact" validate:"required,max=100"`
}

func affiliationRepr(a *models.Affiliation) string {
	return fmt.Sprintf("%s (réservation #%d)", a.CompanyName, a.ReservationID)
}

// Create attaches a pending company affiliation to a reservation. A
// reservation carries at most one.
func (s *AffiliationService) Create(ctx context.Context, reservationID uint, in AffiliationInput) (*models.Affiliation, error) {
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.CompanyContact = strings.TrimSpace(in.CompanyContact)
	if v := validation.Struct(in); !v.Empty() {
		return nil, newValidationError(v)
	}
	a := models.Affiliation{
		ReservationID:  reservationID,
		CompanyName:    in.CompanyName,
		CompanyContact: in.CompanyContact,
		Status:         models.AffiliationPending,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Reservation{}, reservationID).Error; err != nil {
			return notFound(err, "reservation")
		}
		var n int64
		if err := tx.Model(&models.Affiliation{}).Where("reservation_id = ?", reservationID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("reservation %d already has an affiliation: %w", reservationID, ErrConflict)
		}
		return tx.Create(&a).Error
	})
	if err != nil {
		return nil, err
	}
	s.activity.Created(ctx, models.ModuleReservations, "Affiliation", a.ID, affiliationRepr(&a), &a)
	return &a, nil
}

func (s *AffiliationService) ForReservation(ctx context.Context, reservationID uint) (*models.Affiliation, error) {
	var a models.Affiliation
	if err := s.db.WithContext(ctx).Where("reservation_id = ?", reservationID).First(&a).Error; err != nil {
		return nil, notFound(err, "affiliation")
	}
	return &a, nil
}

// SetStatus records the company's decision. validatedBy falls back to the
// request user.
func (s *AffiliationService) SetStatus(ctx context.Context, id uint, status, validatedBy string) (*models.Affiliation, error) {
	v := make(validation.Violations)
	validation.Required("status", status, v)
	validation.OneOf("status", status, models.AffiliationStatuses, v)
	if !v.Empty() {
		return nil, newValidationError(v)
	}
	validatedBy = strings.TrimSpace(validatedBy)
	if validatedBy == "" {
		validatedBy = RequestInfoFrom(ctx).User
	}
	var before, a models.Affiliation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&a, id).Error; err != nil {
			return notFound(err, "affiliation")
		}
		before = a
		a.Status = models.AffiliationStatus(status)
		if a.Status == models.AffiliationPending {
			a.ValidatedBy = ""
		} else {
			a.ValidatedBy = validatedBy
		}
		return tx.Model(&models.Affiliation{}).Where("id = ?", id).Updates(map[string]any{
			"status":       a.Status,
			"validated_by": a.ValidatedBy,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	s.activity.Updated(ctx, models.ModuleReservations, "Affiliation", a.ID, affiliationRepr(&a), &before, &a)
	return &a, nil
}
