package tenant

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"staybook/internal/domain"
	"staybook/internal/repository"
)

type mockTenantStore struct {
	tenants map[int64]*domain.Tenant
	nextID  int64
}

func newMockTenantStore(tenants ...*domain.Tenant) *mockTenantStore {
	m := &mockTenantStore{tenants: make(map[int64]*domain.Tenant)}
	for _, t := range tenants {
		m.tenants[t.ID] = t
		if t.ID > m.nextID {
			m.nextID = t.ID
		}
	}
	return m
}

func (m *mockTenantStore) Create(ctx context.Context, t *domain.Tenant) error {
	m.nextID++
	t.ID = m.nextID
	m.tenants[t.ID] = t
	return nil
}

func (m *mockTenantStore) GetByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	t, ok := m.tenants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (m *mockTenantStore) DomainExists(ctx context.Context, domainName string) (bool, error) {
	for _, t := range m.tenants {
		if t.Domain == domainName || (t.CustomDomain != "" && t.CustomDomain == domainName) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTenantStore) List(ctx context.Context) ([]domain.Tenant, error)        { return nil, nil }
func (m *mockTenantStore) ListPending(ctx context.Context) ([]domain.Tenant, error) { return nil, nil }

func (m *mockTenantStore) Approve(ctx context.Context, id, approvedBy int64, notes string) (*domain.Tenant, error) {
	t, ok := m.tenants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	t.Status = domain.TenantActive
	t.PaymentStatus = "paid"
	t.ApprovedBy = &approvedBy
	return t, nil
}

func (m *mockTenantStore) Suspend(ctx context.Context, id int64, reason string) error {
	t, ok := m.tenants[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.Status = domain.TenantSuspended
	return nil
}

func (m *mockTenantStore) Stats(ctx context.Context) (*repository.TenantStats, error) {
	return &repository.TenantStats{}, nil
}

type mockSettingReader struct {
	settings []domain.Setting
}

func (m *mockSettingReader) GetByKeys(ctx context.Context, keys []string) ([]domain.Setting, error) {
	return m.settings, nil
}

func newTenantService(store *mockTenantStore, settings *mockSettingReader) *Service {
	if settings == nil {
		settings = &mockSettingReader{}
	}
	return NewService(store, settings, MasterConfig{
		CompanyName: "StayBook",
		Currency:    "USD",
		Providers:   PaymentsConfig{StripeEnabled: true},
	}, nil)
}

func TestCreate_PlanPricing(t *testing.T) {
	tests := []struct {
		plan     string
		cycle    string
		price    float64
		maxProps int
	}{
		{"starter", "monthly", 49, 5},
		{"starter", "annual", 470, 5},
		{"professional", "monthly", 79, 15},
		{"enterprise", "annual", 1430, 999},
	}

	for _, tt := range tests {
		t.Run(tt.plan+"/"+tt.cycle, func(t *testing.T) {
			svc := newTenantService(newMockTenantStore(), nil)
			created, err := svc.Create(context.Background(), CreateTenantRequest{
				CompanyName: "Casa Azul", Domain: "casaazul", AdminEmail: "owner@casaazul.cl",
				Plan: tt.plan, BillingCycle: tt.cycle,
			})
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if created.MonthlyPrice != tt.price || created.MaxProperties != tt.maxProps {
				t.Fatalf("price/max = %v/%d, want %v/%d", created.MonthlyPrice, created.MaxProperties, tt.price, tt.maxProps)
			}
			if created.Status != domain.TenantPending {
				t.Fatalf("status = %s, want pending", created.Status)
			}
		})
	}
}

func TestCreate_Rejections(t *testing.T) {
	svc := newTenantService(newMockTenantStore(&domain.Tenant{ID: 1, Domain: "taken"}), nil)

	if _, err := svc.Create(context.Background(), CreateTenantRequest{
		CompanyName: "X", Domain: "x", AdminEmail: "a@b.c", Plan: "platinum",
	}); !errors.Is(err, ErrUnknownPlan) {
		t.Fatalf("unknown plan: got %v", err)
	}

	if _, err := svc.Create(context.Background(), CreateTenantRequest{
		CompanyName: "X", Domain: "TAKEN", AdminEmail: "a@b.c", Plan: "starter",
	}); !errors.Is(err, ErrDomainTaken) {
		t.Fatalf("taken domain (case-insensitive): got %v", err)
	}

	if _, err := svc.Create(context.Background(), CreateTenantRequest{
		CompanyName: "X", Domain: "y", AdminEmail: "a@b.c", Plan: "starter", BillingCycle: "weekly",
	}); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad cycle: got %v", err)
	}
}

func TestPaymentsConfig_TenantFlagsWin(t *testing.T) {
	svc := newTenantService(newMockTenantStore(), &mockSettingReader{settings: []domain.Setting{
		{Key: "stripe_enabled", Value: "false"},
		{Key: "webpay_enabled", Value: "true"},
	}})

	// Master site: settings override the process defaults.
	cfg, err := svc.PaymentsConfig(context.Background(), nil)
	if err != nil {
		t.Fatalf("PaymentsConfig: %v", err)
	}
	if cfg.StripeEnabled || !cfg.WebpayEnabled {
		t.Fatalf("master config = %+v", cfg)
	}

	// Tenant host: tenant flags only.
	cfg, err = svc.PaymentsConfig(context.Background(), &domain.Tenant{
		PayPalEnabled: true, PaymentCurrency: "CLP",
	})
	if err != nil {
		t.Fatalf("PaymentsConfig tenant: %v", err)
	}
	if cfg.StripeEnabled || !cfg.PayPalEnabled || cfg.WebpayEnabled {
		t.Fatalf("tenant config = %+v", cfg)
	}
	if cfg.Currency != "CLP" {
		t.Fatalf("currency = %s, want tenant currency", cfg.Currency)
	}
}

func TestSiteConfig(t *testing.T) {
	svc := newTenantService(newMockTenantStore(), nil)

	master := svc.SiteConfig(nil)
	if master.IsTenant || master.CompanyName != "StayBook" {
		t.Fatalf("master site config = %+v", master)
	}

	tcfg := svc.SiteConfig(&domain.Tenant{CompanyName: "Casa Azul", PrimaryColor: "#0044cc"})
	if !tcfg.IsTenant || tcfg.CompanyName != "Casa Azul" || tcfg.PrimaryColor != "#0044cc" {
		t.Fatalf("tenant site config = %+v", tcfg)
	}
	if tcfg.Currency != "USD" {
		t.Fatalf("currency fallback = %s", tcfg.Currency)
	}
}
