package repository

import (
	"context"

	"gorm.io/gorm"

	"staybook/internal/domain"
)

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PropertyRepository) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	var p domain.Property
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListActive returns the public catalog: active properties, featured first.
func (r *PropertyRepository) ListActive(ctx context.Context) ([]domain.Property, error) {
	var out []domain.Property
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("featured DESC, created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *PropertyRepository) Update(ctx context.Context, p *domain.Property) error {
	res := r.db.WithContext(ctx).Model(&domain.Property{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"title":           p.Title,
		"description":     p.Description,
		"location":        p.Location,
		"address":         p.Address,
		"category":        p.Category,
		"guests":          p.Guests,
		"bedrooms":        p.Bedrooms,
		"bathrooms":       p.Bathrooms,
		"price_per_night": p.PricePerNight,
		"images":          p.Images,
		"amenities":       p.Amenities,
		"featured":        p.Featured,
		"is_active":       p.IsActive,
		"owner_id":        p.OwnerID,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PropertyRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Property{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PropertyRepository) CountActive(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Property{}).Where("is_active = ?", true).Count(&cnt).Error
	return cnt, err
}
