package admin

import (
	"context"

	"staybook/internal/domain"
	"staybook/internal/repository"
)

type userStore interface {
	Create(ctx context.Context, u *domain.User) error
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]domain.User, error)
}

type settingStore interface {
	List(ctx context.Context) ([]domain.Setting, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Setting, error)
	Update(ctx context.Context, key, value string, isEncrypted bool, updatedBy int64) (*domain.Setting, error)
	Upsert(ctx context.Context, s *domain.Setting) error
}

type supplyStore interface {
	Create(ctx context.Context, s *domain.Supply) error
	ListWithProperty(ctx context.Context) ([]repository.SupplyWithProperty, error)
}

type statsSource interface {
	CountActive(ctx context.Context) (int64, error)
}

type bookingStatsSource interface {
	CountAll(ctx context.Context) (int64, error)
	TotalRevenue(ctx context.Context) (float64, error)
}
