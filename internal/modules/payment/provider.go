package payment

import (
	"context"
	"encoding/json"

	"staybook/internal/domain"
)

// CreateRequest is the normalized outbound create-payment call.
type CreateRequest struct {
	BookingID int64
	ClientID  int64
	Amount    float64
	Currency  string
	ReturnURL string
}

// CreateResult carries whatever the client needs to continue the flow plus
// the provider transaction id used to correlate every later event.
type CreateResult struct {
	TransactionID string
	ClientSecret  string
	RedirectURL   string
	BuyOrder      string
	Raw           json.RawMessage
}

// Outcome is the normalized result of a capture/confirm/status/refund call.
// A provider-reported decline is OK=false, not an error.
type Outcome struct {
	OK       bool
	Amount   float64
	AuthCode string
	Detail   string
	Raw      json.RawMessage
}

// Provider normalizes one payment processor behind a uniform capability set.
// Transport failures surface as ErrProviderUnavailable; declines as
// Outcome.OK=false.
type Provider interface {
	Name() domain.PaymentProvider
	CreatePayment(ctx context.Context, req CreateRequest) (*CreateResult, error)
	Capture(ctx context.Context, txnID string) (*Outcome, error)
	Status(ctx context.Context, txnID string) (*Outcome, error)
	Refund(ctx context.Context, txnID string, amount float64) (*Outcome, error)
}

// WebhookEvent is a verified inbound provider notification.
type WebhookEvent struct {
	Type          string
	TransactionID string
	Raw           json.RawMessage
}

// WebhookVerifier is implemented by providers that report outcomes
// asynchronously. Verification must pass before any state mutation.
type WebhookVerifier interface {
	VerifySignature(body []byte, signatureHeader string) bool
	ParseEvent(body []byte) (*WebhookEvent, error)
}

// Registry holds the providers configured at process start. Handlers receive
// it by injection; a provider missing from the registry is the first-class
// "not configured" branch.
type Registry struct {
	providers map[domain.PaymentProvider]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[domain.PaymentProvider]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

func (r *Registry) Get(name domain.PaymentProvider) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

func (r *Registry) Has(name domain.PaymentProvider) bool {
	_, ok := r.providers[name]
	return ok
}
