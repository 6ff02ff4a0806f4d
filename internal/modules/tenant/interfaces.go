package tenant

import (
	"context"

	"staybook/internal/domain"
	"staybook/internal/repository"
)

type tenantStore interface {
	Create(ctx context.Context, t *domain.Tenant) error
	GetByID(ctx context.Context, id int64) (*domain.Tenant, error)
	DomainExists(ctx context.Context, domainName string) (bool, error)
	List(ctx context.Context) ([]domain.Tenant, error)
	ListPending(ctx context.Context) ([]domain.Tenant, error)
	Approve(ctx context.Context, id, approvedBy int64, notes string) (*domain.Tenant, error)
	Suspend(ctx context.Context, id int64, reason string) error
	Stats(ctx context.Context) (*repository.TenantStats, error)
}

type settingReader interface {
	GetByKeys(ctx context.Context, keys []string) ([]domain.Setting, error)
}
