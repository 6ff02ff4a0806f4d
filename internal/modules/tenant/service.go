package tenant

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"staybook/internal/domain"
	"staybook/internal/repository"
)

type planSpec struct {
	monthly       float64
	annual        float64
	maxProperties int
}

// Plan pricing. The annual figure is the full prepaid year.
var plans = map[string]planSpec{
	"starter":      {monthly: 49, annual: 470, maxProperties: 5},
	"professional": {monthly: 79, annual: 758, maxProperties: 15},
	"enterprise":   {monthly: 149, annual: 1430, maxProperties: 999},
}

// MasterConfig is the fallback site config served when no tenant matches the
// request host.
type MasterConfig struct {
	CompanyName string
	Currency    string
	Providers   PaymentsConfig
}

type Service struct {
	tenants  tenantStore
	settings settingReader
	master   MasterConfig
	loggerf  func(format string, args ...interface{})
}

func NewService(tenants tenantStore, settings settingReader, master MasterConfig, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{tenants: tenants, settings: settings, master: master, loggerf: loggerf}
}

// SiteConfig resolves the storefront branding for the current host. The
// master site is served when t is nil.
func (s *Service) SiteConfig(t *domain.Tenant) *SiteConfig {
	if t == nil {
		return &SiteConfig{
			CompanyName: s.master.CompanyName,
			Currency:    s.master.Currency,
			IsTenant:    false,
		}
	}
	currency := t.PaymentCurrency
	if currency == "" {
		currency = s.master.Currency
	}
	return &SiteConfig{
		CompanyName:     t.CompanyName,
		LogoURL:         t.LogoURL,
		PrimaryColor:    t.PrimaryColor,
		SecondaryColor:  t.SecondaryColor,
		ContactEmail:    t.ContactEmail,
		ContactPhone:    t.ContactPhone,
		ContactLocation: t.ContactLocation,
		InstagramURL:    t.InstagramURL,
		Currency:        currency,
		IsTenant:        true,
	}
}

// PaymentsConfig reports which providers the storefront should offer. Tenant
// flags win when a tenant host matched; the master site reads the flags from
// settings, falling back to what the process has configured.
func (s *Service) PaymentsConfig(ctx context.Context, t *domain.Tenant) (*PaymentsConfig, error) {
	if t != nil {
		currency := t.PaymentCurrency
		if currency == "" {
			currency = s.master.Currency
		}
		return &PaymentsConfig{
			StripeEnabled: t.StripeEnabled,
			PayPalEnabled: t.PayPalEnabled,
			WebpayEnabled: t.WebpayEnabled,
			Currency:      currency,
		}, nil
	}

	cfg := s.master.Providers
	cfg.Currency = s.master.Currency

	overrides, err := s.settings.GetByKeys(ctx, []string{"stripe_enabled", "paypal_enabled", "webpay_enabled"})
	if err != nil {
		return nil, err
	}
	for _, o := range overrides {
		enabled := o.Value == "true"
		switch o.Key {
		case "stripe_enabled":
			cfg.StripeEnabled = enabled
		case "paypal_enabled":
			cfg.PayPalEnabled = enabled
		case "webpay_enabled":
			cfg.WebpayEnabled = enabled
		}
	}
	return &cfg, nil
}

// Create registers a new tenant in pending state. Nothing is live until a
// super-admin approves it.
func (s *Service) Create(ctx context.Context, req CreateTenantRequest) (*domain.Tenant, error) {
	plan, ok := plans[req.Plan]
	if !ok {
		return nil, ErrUnknownPlan
	}

	cycle := req.BillingCycle
	if cycle == "" {
		cycle = "monthly"
	}
	if cycle != "monthly" && cycle != "annual" {
		return nil, ErrValidation
	}

	domainName := strings.ToLower(strings.TrimSpace(req.Domain))
	if domainName == "" {
		return nil, ErrValidation
	}
	exists, err := s.tenants.DomainExists(ctx, domainName)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDomainTaken
	}

	price := plan.monthly
	if cycle == "annual" {
		price = plan.annual
	}

	t := &domain.Tenant{
		CompanyName:   strings.TrimSpace(req.CompanyName),
		Domain:        domainName,
		CustomDomain:  strings.ToLower(strings.TrimSpace(req.CustomDomain)),
		AdminEmail:    strings.ToLower(strings.TrimSpace(req.AdminEmail)),
		Status:        domain.TenantPending,
		PaymentStatus: "pending",
		Plan:          req.Plan,
		BillingCycle:  cycle,
		MonthlyPrice:  price,
		MaxProperties: plan.maxProperties,
		ContactPhone:  req.ContactPhone,
	}
	if err := s.tenants.Create(ctx, t); err != nil {
		return nil, err
	}
	s.loggerf("level=info msg=tenant registered tenant_id=%d domain=%s plan=%s", t.ID, t.Domain, t.Plan)
	return t, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Tenant, error) {
	return s.tenants.List(ctx)
}

func (s *Service) ListPending(ctx context.Context) ([]domain.Tenant, error) {
	return s.tenants.ListPending(ctx)
}

func (s *Service) Approve(ctx context.Context, id, approvedBy int64, notes string) (*domain.Tenant, error) {
	t, err := s.tenants.Approve(ctx, id, approvedBy, notes)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	s.loggerf("level=info msg=tenant approved tenant_id=%d approved_by=%d", id, approvedBy)
	return t, nil
}

func (s *Service) Suspend(ctx context.Context, id int64, reason string) error {
	if err := s.tenants.Suspend(ctx, id, reason); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTenantNotFound
		}
		return err
	}
	s.loggerf("level=info msg=tenant suspended tenant_id=%d", id)
	return nil
}

func (s *Service) Stats(ctx context.Context) (*repository.TenantStats, error) {
	return s.tenants.Stats(ctx)
}
