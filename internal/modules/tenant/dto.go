package tenant

type CreateTenantRequest struct {
	CompanyName  string `json:"companyName" binding:"required"`
	Domain       string `json:"domain" binding:"required"`
	CustomDomain string `json:"customDomain"`
	AdminEmail   string `json:"adminEmail" binding:"required,email"`
	Plan         string `json:"plan" binding:"required"`
	BillingCycle string `json:"billingCycle"`
	ContactPhone string `json:"contactPhone"`
}

type ApproveTenantRequest struct {
	Notes string `json:"notes"`
}

type SuspendTenantRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// SiteConfig is the public branding/config payload served per Host header.
type SiteConfig struct {
	CompanyName     string `json:"companyName"`
	LogoURL         string `json:"logoUrl,omitempty"`
	PrimaryColor    string `json:"primaryColor,omitempty"`
	SecondaryColor  string `json:"secondaryColor,omitempty"`
	ContactEmail    string `json:"contactEmail,omitempty"`
	ContactPhone    string `json:"contactPhone,omitempty"`
	ContactLocation string `json:"contactLocation,omitempty"`
	InstagramURL    string `json:"instagramUrl,omitempty"`
	Currency        string `json:"currency"`
	IsTenant        bool   `json:"isTenant"`
}

// PaymentsConfig tells the storefront which payment buttons to render.
type PaymentsConfig struct {
	StripeEnabled bool   `json:"stripeEnabled"`
	PayPalEnabled bool   `json:"paypalEnabled"`
	WebpayEnabled bool   `json:"webpayEnabled"`
	Currency      string `json:"currency"`
}
