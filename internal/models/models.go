package models

// All returns every persisted model in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&Client{},
		&RoomCategory{},
		&Room{},
		&Reservation{},
		&Affiliation{},
		&ServiceCategory{},
		&Service{},
		&DishCategory{},
		&MenuItem{},
		&Invoice{},
		&InvoiceLine{},
		&Payment{},
		&Order{},
		&OrderItem{},
		&RoomCleaning{},
		&ActivityLog{},
	}
}
