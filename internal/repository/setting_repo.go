package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"staybook/internal/domain"
)

type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

func (r *SettingRepository) List(ctx context.Context) ([]domain.Setting, error) {
	var out []domain.Setting
	err := r.db.WithContext(ctx).Order("category, key").Find(&out).Error
	return out, err
}

func (r *SettingRepository) ListByCategory(ctx context.Context, category string) ([]domain.Setting, error) {
	var out []domain.Setting
	err := r.db.WithContext(ctx).Where("category = ?", category).Find(&out).Error
	return out, err
}

func (r *SettingRepository) GetByKeys(ctx context.Context, keys []string) ([]domain.Setting, error) {
	var out []domain.Setting
	err := r.db.WithContext(ctx).Where("key IN ?", keys).Find(&out).Error
	return out, err
}

func (r *SettingRepository) Update(ctx context.Context, key, value string, isEncrypted bool, updatedBy int64) (*domain.Setting, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Setting{}).
		Where("key = ?", key).
		Updates(map[string]interface{}{
			"value":        value,
			"is_encrypted": isEncrypted,
			"updated_by":   updatedBy,
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var s domain.Setting
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingRepository) Upsert(ctx context.Context, s *domain.Setting) error {
	var existing domain.Setting
	err := r.db.WithContext(ctx).Where("key = ?", s.Key).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.WithContext(ctx).Create(s).Error
	}
	if err != nil {
		return err
	}
	s.ID = existing.ID
	return r.db.WithContext(ctx).Save(s).Error
}
