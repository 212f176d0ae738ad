package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/hotel-backoffice/internal/models"
	"github.com/diewo77/hotel-backoffice/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClientService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewClientService(db *gorm.DB, activity *ActivityService) *ClientService {
	return &ClientService{db: db, activity: activity}
}

// ClientInput is the writable part of a client.
type ClientInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"omitempty,email,max=255"`
	Phone   string `json:"phone" validate:"omitempty,max=20"`
	Address string `json:"address"`
}

func (in *ClientInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
}

func (in ClientInput) apply(c *models.Client) {
	c.Name = in.Name
	c.Phone = in.Phone
	c.Address = in.Address
	c.Email = nil
	if in.Email != "" {
		email := in.Email
		c.Email = &email
	}
}

func (s *ClientService) validate(tx *gorm.DB, in ClientInput, selfID uint) error {
	v := validation.Struct(in)
	if in.Email != "" && v["email"] == "" {
		var n int64
		q := tx.Model(&models.Client{}).Where("email = ?", in.Email)
		if selfID != 0 {
			q = q.Where("id <> ?", selfID)
		}
		if err := q.Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			v.Add("email", "already_exists")
		}
	}
	if !v.Empty() {
		return newValidationError(v)
	}
	return nil
}

func (s *ClientService) Create(ctx context.Context, in ClientInput) (*models.Client, error) {
	in.normalize()
	db := s.db.WithContext(ctx)
	if err := s.validate(db, in, 0); err != nil {
		return nil, err
	}
	var c models.Client
	in.apply(&c)
	if err := db.Create(&c).Error; err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	s.activity.Created(ctx, models.ModuleClients, "Client", c.ID, c.Name, &c)
	return &c, nil
}

func (s *ClientService) Get(ctx context.Context, id uint) (*models.Client, error) {
	var c models.Client
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err, "client")
	}
	return &c, nil
}

// List searches clients by name, email or phone.
func (s *ClientService) List(ctx context.Context, search string, limit, offset int) ([]models.Client, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Client{})
	if term := strings.TrimSpace(search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", like, like, like)
	}
	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}
	var clients []models.Client
	if err := paginate(q.Order("name"), limit, offset).Find(&clients).Error; err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	return clients, total, nil
}

// Update changes contact data. The balance is never touched here.
func (s *ClientService) Update(ctx context.Context, id uint, in ClientInput) (*models.Client, error) {
	in.normalize()
	var before, c models.Client
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, id).Error; err != nil {
			return notFound(err, "client")
		}
		before = c
		if err := s.validate(tx, in, id); err != nil {
			return err
		}
		in.apply(&c)
		return tx.Model(&c).Select("Name", "Email", "Phone", "Address").Updates(&c).Error
	})
	if err != nil {
		return nil, err
	}
	s.activity.Updated(ctx, models.ModuleClients, "Client", c.ID, c.Name, &before, &c)
	return &c, nil
}

// Delete removes a client that has neither invoices nor live reservations.
func (s *ClientService) Delete(ctx context.Context, id uint) error {
	var c models.Client
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&c, id).Error; err != nil {
			return notFound(err, "client")
		}
		var invoices, reservations int64
		if err := tx.Model(&models.Invoice{}).Where("client_id = ?", id).Count(&invoices).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Reservation{}).
			Where("client_id = ? AND status IN ?", id, models.BlockingStatuses).
			Count(&reservations).Error; err != nil {
			return err
		}
		if invoices > 0 || reservations > 0 {
			return fmt.Errorf("client %d has %d invoices and %d live reservations: %w", id, invoices, reservations, ErrConflict)
		}
		return tx.Delete(&c).Error
	})
	if err != nil {
		return err
	}
	s.activity.Deleted(ctx, models.ModuleClients, "Client", c.ID, c.Name, &c)
	return nil
}

// GetOrCreate finds a client by email, then by phone, and creates one from
// in when neither matches. It runs on tx so it can join a reservation write.
func (s *ClientService) GetOrCreate(tx *gorm.DB, in ClientInput) (*models.Client, bool, error) {
	in.normalize()
	var c models.Client
	if in.Email != "" {
		err := tx.Where("email = ?", in.Email).First(&c).Error
		if err == nil {
			return &c, false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}
	}
	if in.Phone != "" {
		err := tx.Where("phone = ?", in.Phone).Order("id").First(&c).Error
		if err == nil {
			return &c, false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}
	}
	if v := validation.Struct(in); !v.Empty() {
		return nil, false, newValidationError(v)
	}
	c = models.Client{}
	in.apply(&c)
	if err := tx.Create(&c).Error; err != nil {
		return nil, false, fmt.Errorf("create client: %w", err)
	}
	return &c, true, nil
}

// ComputeBalance sums what the client owes on live invoices.
func ComputeBalance(tx *gorm.DB, clientID uint) (float64, error) {
	var owed float64
	err := tx.Model(&models.Invoice{}).
		Where("client_id = ?", clientID).
		Select("COALESCE(SUM(total - amount_paid), 0)").
		Scan(&owed).Error
	if err != nil {
		return 0, fmt.Errorf("compute balance: %w", err)
	}
	return models.RoundMoney(owed), nil
}

// Reconcile rewrites the stored balance from the client's invoices.
func (s *ClientService) Reconcile(ctx context.Context, id uint) (*models.Client, error) {
	var c models.Client
	var old float64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, id).Error; err != nil {
			return notFound(err, "client")
		}
		old = c.Balance
		owed, err := ComputeBalance(tx, id)
		if err != nil {
			return err
		}
		c.Balance = owed
		return tx.Model(&c).Update("balance", owed).Error
	})
	if err != nil {
		return nil, err
	}
	if models.RoundMoney(old) != c.Balance {
		s.activity.Log(ctx, &models.ActivityLog{
			EventType:  models.EventUpdate,
			Module:     models.ModuleClients,
			Action:     "Rapprochement solde",
			Details:    fmt.Sprintf("%.2f -> %.2f", old, c.Balance),
			Severity:   models.SeverityWarning,
			ObjectType: "Client",
			ObjectID:   c.ID,
			ObjectRepr: c.Name,
		})
	}
	return &c, nil
}

// ReconcileAll repairs every client balance and returns how many changed.
func (s *ClientService) ReconcileAll(ctx context.Context) (int, error) {
	var clients []models.Client
	if err := s.db.WithContext(ctx).Select("id", "balance").Find(&clients).Error; err != nil {
		return 0, fmt.Errorf("list clients: %w", err)
	}
	changed := 0
	for _, c := range clients {
		fixed, err := s.Reconcile(ctx, c.ID)
		if err != nil {
			return changed, err
		}
		if fixed.Balance != models.RoundMoney(c.Balance) {
			changed++
		}
	}
	return changed, nil
}

// adjustBalance applies delta to the client balance inside tx.
func adjustBalance(tx *gorm.DB, clientID uint, delta float64) error {
	delta = models.RoundMoney(delta)
	if delta == 0 {
		return nil
	}
	var c models.Client
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id", "balance").First(&c, clientID).Error; err != nil {
		return notFound(err, "client")
	}
	return tx.Model(&models.Client{}).Where("id = ?", clientID).
		Update("balance", models.RoundMoney(c.Balance+delta)).Error
}
