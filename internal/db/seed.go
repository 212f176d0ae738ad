package db

import (
	"errors"
	"fmt"

	"github.com/diewo77/hotel-backoffice/internal/models"
	"gorm.io/gorm"
)

// Seed inserts the baseline catalogs. It can be run any number of times.
func Seed(db *gorm.DB) error {
	roomCategories := []models.RoomCategory{
		{Name: "Simple", Price: 25000, Description: "Chambre simple, un lit"},
		{Name: "Double", Price: 35000, Description: "Chambre double, lit queen"},
		{Name: "Suite", Price: 60000, Description: "Suite avec salon"},
	}
	for _, c := range roomCategories {
		var existing models.RoomCategory
		err := db.Where("name = ?", c.Name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&c).Error; err != nil {
				return fmt.Errorf("seed room category %s: %w", c.Name, err)
			}
		} else if err != nil {
			return err
		}
	}

	services := map[string][]models.Service{
		"Blanchisserie": {
			{Name: "Lavage chemise", Price: 1500},
			{Name: "Repassage", Price: 1000},
		},
		"Transport": {
			{Name: "Transfert aéroport", Price: 15000},
		},
		"Bien-être": {
			{Name: "Massage 1h", Price: 20000},
		},
	}
	for catName, list := range services {
		var cat models.ServiceCategory
		err := db.Where("name = ?", catName).First(&cat).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cat = models.ServiceCategory{Name: catName}
			if err := db.Create(&cat).Error; err != nil {
				return fmt.Errorf("seed service category %s: %w", catName, err)
			}
		} else if err != nil {
			return err
		}
		for _, s := range list {
			var existing models.Service
			err := db.Where("category_id = ? AND name = ?", cat.ID, s.Name).First(&existing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.CategoryID = cat.ID
				if err := db.Create(&s).Error; err != nil {
					return fmt.Errorf("seed service %s: %w", s.Name, err)
				}
			} else if err != nil {
				return err
			}
		}
	}

	for _, name := range []string{"Entrées", "Plats", "Desserts", "Boissons"} {
		var existing models.DishCategory
		err := db.Where("name = ?", name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&models.DishCategory{Name: name}).Error; err != nil {
				return fmt.Errorf("seed dish category %s: %w", name, err)
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}
