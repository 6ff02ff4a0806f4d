package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultPort          = "8080"
	defaultJWTTTL        = "168h"
	defaultJWTSecret     = "change-me-jwt-secret"
	defaultEncryptionKey = "change-me-encryption-key-32-chars"
	defaultCurrency      = "CAD"
)

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	BaseURL       string
}

func (c StripeConfig) Configured() bool { return strings.HasPrefix(c.SecretKey, "sk_") }

type PayPalConfig struct {
	ClientID     string
	ClientSecret string
	Mode         string
	BaseURL      string
}

func (c PayPalConfig) Configured() bool { return c.ClientID != "" && c.ClientSecret != "" }

type WebpayConfig struct {
	Enabled      bool
	CommerceCode string
	APIKey       string
	Environment  string
	BaseURL      string
}

func (c WebpayConfig) Configured() bool { return c.Enabled }

type Config struct {
	AppEnv        string
	Port          string
	DatabaseURL   string
	FrontendURL   string
	JWTSecret     string
	JWTTTL        time.Duration
	EncryptionKey string
	Currency      string

	Stripe StripeConfig
	PayPal PayPalConfig
	Webpay WebpayConfig
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = getEnv("PORT", defaultPort)
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.FrontendURL = getEnv("FRONTEND_URL", "http://localhost:5173")
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.EncryptionKey = strings.TrimSpace(getEnv("ENCRYPTION_KEY", defaultEncryptionKey))
	cfg.Currency = strings.ToUpper(getEnv("PAYMENT_CURRENCY", defaultCurrency))

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}

	cfg.Stripe = StripeConfig{
		SecretKey:     strings.TrimSpace(os.Getenv("STRIPE_SECRET_KEY")),
		WebhookSecret: strings.TrimSpace(os.Getenv("STRIPE_WEBHOOK_SECRET")),
		BaseURL:       getEnv("STRIPE_BASE_URL", "https://api.stripe.com"),
	}
	cfg.PayPal = PayPalConfig{
		ClientID:     strings.TrimSpace(os.Getenv("PAYPAL_CLIENT_ID")),
		ClientSecret: strings.TrimSpace(os.Getenv("PAYPAL_CLIENT_SECRET")),
		Mode:         getEnv("PAYPAL_MODE", "sandbox"),
	}
	if cfg.PayPal.Mode == "live" {
		cfg.PayPal.BaseURL = getEnv("PAYPAL_BASE_URL", "https://api-m.paypal.com")
	} else {
		cfg.PayPal.BaseURL = getEnv("PAYPAL_BASE_URL", "https://api-m.sandbox.paypal.com")
	}
	cfg.Webpay = WebpayConfig{
		Enabled:      parseBoolEnv("WEBPAY_ENABLED", "false"),
		CommerceCode: strings.TrimSpace(os.Getenv("WEBPAY_COMMERCE_CODE")),
		APIKey:       strings.TrimSpace(os.Getenv("WEBPAY_API_KEY")),
		Environment:  getEnv("WEBPAY_ENVIRONMENT", "integration"),
	}
	if cfg.Webpay.Environment == "production" {
		cfg.Webpay.BaseURL = getEnv("WEBPAY_BASE_URL", "https://webpay3g.transbank.cl")
	} else {
		cfg.Webpay.BaseURL = getEnv("WEBPAY_BASE_URL", "https://webpay3gint.transbank.cl")
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.EncryptionKey, defaultEncryptionKey) {
			return fmt.Errorf("in prod/release ENCRYPTION_KEY must be set and not default")
		}
		if cfg.Webpay.Enabled && (cfg.Webpay.CommerceCode == "" || cfg.Webpay.APIKey == "") {
			return fmt.Errorf("in prod/release WEBPAY_COMMERCE_CODE and WEBPAY_API_KEY must be set when WEBPAY_ENABLED=true")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
