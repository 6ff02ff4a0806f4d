package domain

import "time"

type TenantStatus string

const (
	TenantPending   TenantStatus = "pending"
	TenantActive    TenantStatus = "active"
	TenantSuspended TenantStatus = "suspended"
	TenantCancelled TenantStatus = "cancelled"
)

type Tenant struct {
	ID              int64        `json:"id"`
	CompanyName     string       `json:"companyName" gorm:"not null"`
	Domain          string       `json:"domain" gorm:"uniqueIndex;not null"`
	CustomDomain    string       `json:"customDomain,omitempty" gorm:"index"`
	AdminEmail      string       `json:"adminEmail"`
	Status          TenantStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentStatus   string       `json:"paymentStatus" gorm:"type:varchar(20);default:'pending'"`
	Plan            string       `json:"plan" gorm:"type:varchar(20);default:'starter'"`
	BillingCycle    string       `json:"billingCycle" gorm:"type:varchar(20);default:'monthly'"`
	MonthlyPrice    float64      `json:"monthlyPrice"`
	MaxProperties   int          `json:"maxProperties"`
	LogoURL         string       `json:"logoUrl,omitempty"`
	PrimaryColor    string       `json:"primaryColor,omitempty"`
	SecondaryColor  string       `json:"secondaryColor,omitempty"`
	ContactEmail    string       `json:"contactEmail,omitempty"`
	ContactPhone    string       `json:"contactPhone,omitempty"`
	ContactLocation string       `json:"contactLocation,omitempty"`
	InstagramURL    string       `json:"instagramUrl,omitempty"`
	PaymentCurrency string       `json:"paymentCurrency,omitempty" gorm:"type:varchar(8)"`
	StripeEnabled   bool         `json:"stripeEnabled"`
	PayPalEnabled   bool         `json:"paypalEnabled"`
	WebpayEnabled   bool         `json:"webpayEnabled"`
	Notes           string       `json:"notes,omitempty" gorm:"type:text"`
	ApprovedBy      *int64       `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time   `json:"approvedAt,omitempty"`
	ActivatedAt     *time.Time   `json:"activatedAt,omitempty"`
	NextPaymentDate *time.Time   `json:"nextPaymentDate,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

func (Tenant) TableName() string { return "tenants" }

// ProviderEnabled reports whether a payment provider is visible for this
// tenant. The core treats this as static config.
func (t *Tenant) ProviderEnabled(p PaymentProvider) bool {
	switch p {
	case ProviderStripe:
		return t.StripeEnabled
	case ProviderPayPal:
		return t.PayPalEnabled
	case ProviderWebpay:
		return t.WebpayEnabled
	}
	return false
}
