package repository

import (
	"context"

	"gorm.io/gorm"

	"staybook/internal/domain"
)

type SupplyRepository struct {
	db *gorm.DB
}

func NewSupplyRepository(db *gorm.DB) *SupplyRepository {
	return &SupplyRepository{db: db}
}

func (r *SupplyRepository) Create(ctx context.Context, s *domain.Supply) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// SupplyWithProperty joins the owning property's title and location.
type SupplyWithProperty struct {
	domain.Supply
	PropertyTitle    string `json:"propertyTitle"`
	PropertyLocation string `json:"propertyLocation"`
}

func (r *SupplyRepository) ListWithProperty(ctx context.Context) ([]SupplyWithProperty, error) {
	var rows []SupplyWithProperty
	err := r.db.WithContext(ctx).
		Table("supplies").
		Select("supplies.*, properties.title AS property_title, properties.location AS property_location").
		Joins("JOIN properties ON properties.id = supplies.property_id").
		Order("supplies.created_at DESC").
		Scan(&rows).Error
	return rows, err
}
