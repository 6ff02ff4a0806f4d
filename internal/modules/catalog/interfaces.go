package catalog

import (
	"context"

	"staybook/internal/domain"
)

type propertyStore interface {
	Create(ctx context.Context, p *domain.Property) error
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
	ListActive(ctx context.Context) ([]domain.Property, error)
	Update(ctx context.Context, p *domain.Property) error
	Delete(ctx context.Context, id int64) error
}
