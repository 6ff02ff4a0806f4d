package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"staybook/internal/domain"
)

type TenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

func (r *TenantRepository) Create(ctx context.Context, t *domain.Tenant) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// GetByHost matches either the platform subdomain or a custom domain.
func (r *TenantRepository) GetByHost(ctx context.Context, host string) (*domain.Tenant, error) {
	var t domain.Tenant
	err := r.db.WithContext(ctx).
		Where("domain = ? OR custom_domain = ?", host, host).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TenantRepository) GetByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	var t domain.Tenant
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TenantRepository) DomainExists(ctx context.Context, domainName string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&domain.Tenant{}).
		Where("domain = ? OR custom_domain = ?", domainName, domainName).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *TenantRepository) List(ctx context.Context) ([]domain.Tenant, error) {
	var out []domain.Tenant
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *TenantRepository) ListPending(ctx context.Context) ([]domain.Tenant, error) {
	var out []domain.Tenant
	err := r.db.WithContext(ctx).
		Where("status = ? OR payment_status = ?", domain.TenantPending, "pending").
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *TenantRepository) Approve(ctx context.Context, id, approvedBy int64, notes string) (*domain.Tenant, error) {
	now := time.Now().UTC()
	next := now.AddDate(0, 1, 0)
	updates := map[string]interface{}{
		"status":            domain.TenantActive,
		"payment_status":    "paid",
		"activated_at":      now,
		"next_payment_date": next,
		"approved_by":       approvedBy,
		"approved_at":       now,
	}
	if notes != "" {
		updates["notes"] = notes
	}
	res := r.db.WithContext(ctx).Model(&domain.Tenant{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *TenantRepository) Suspend(ctx context.Context, id int64, reason string) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Tenant{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status": domain.TenantSuspended,
			"notes":  gorm.Expr("COALESCE(notes, '') || ?", "\nSuspended: "+reason),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TenantStats backs the super-admin dashboard.
type TenantStats struct {
	ActiveTenants    int64   `json:"activeTenants"`
	PendingTenants   int64   `json:"pendingTenants"`
	SuspendedTenants int64   `json:"suspendedTenants"`
	MonthlyRevenue   float64 `json:"monthlyRevenue"`
	AnnualRevenue    float64 `json:"annualRevenue"`
}

func (r *TenantRepository) Stats(ctx context.Context) (*TenantStats, error) {
	var s TenantStats
	db := r.db.WithContext(ctx).Model(&domain.Tenant{})

	if err := db.Session(&gorm.Session{}).Where("status = ?", domain.TenantActive).Count(&s.ActiveTenants).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("status = ?", domain.TenantPending).Count(&s.PendingTenants).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("status = ?", domain.TenantSuspended).Count(&s.SuspendedTenants).Error; err != nil {
		return nil, err
	}
	row := r.db.WithContext(ctx).Raw(`
SELECT COALESCE(SUM(CASE WHEN billing_cycle = 'monthly' THEN monthly_price ELSE 0 END), 0),
       COALESCE(SUM(CASE WHEN billing_cycle = 'annual' THEN monthly_price ELSE 0 END), 0)
FROM tenants WHERE status = 'active'`).Row()
	if err := row.Scan(&s.MonthlyRevenue, &s.AnnualRevenue); err != nil {
		return nil, err
	}
	return &s, nil
}
