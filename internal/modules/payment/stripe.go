package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"staybook/internal/config"
	"staybook/internal/domain"
)

// StripeProvider talks to the Stripe REST API using payment intents. Amounts
// are converted to the smallest currency unit on the wire.
type StripeProvider struct {
	secretKey     string
	webhookSecret string
	baseURL       string
	client        *http.Client
}

func NewStripeProvider(cfg config.StripeConfig) *StripeProvider {
	return &StripeProvider{
		secretKey:     cfg.SecretKey,
		webhookSecret: cfg.WebhookSecret,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		client:        &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *StripeProvider) Name() domain.PaymentProvider { return domain.ProviderStripe }

func (p *StripeProvider) CreatePayment(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(int64(req.Amount*100), 10))
	form.Set("currency", strings.ToLower(req.Currency))
	form.Set("metadata[bookingId]", strconv.FormatInt(req.BookingID, 10))
	form.Set("automatic_payment_methods[enabled]", "true")

	body, err := p.do(ctx, http.MethodPost, "/v1/payment_intents", form)
	if err != nil {
		return nil, err
	}

	var intent struct {
		ID           string `json:"id"`
		ClientSecret string `json:"client_secret"`
	}
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("decode payment intent: %w", err)
	}
	if intent.ID == "" {
		return nil, fmt.Errorf("%w: empty intent id", ErrProviderUnavailable)
	}

	return &CreateResult{
		TransactionID: intent.ID,
		ClientSecret:  intent.ClientSecret,
		Raw:           body,
	}, nil
}

// Capture is a no-op poll for Stripe: intents settle through the webhook, so
// a synchronous capture just reads current state.
func (p *StripeProvider) Capture(ctx context.Context, txnID string) (*Outcome, error) {
	return p.Status(ctx, txnID)
}

func (p *StripeProvider) Status(ctx context.Context, txnID string) (*Outcome, error) {
	body, err := p.do(ctx, http.MethodGet, "/v1/payment_intents/"+url.PathEscape(txnID), nil)
	if err != nil {
		return nil, err
	}

	var intent struct {
		Status string `json:"status"`
		Amount int64  `json:"amount"`
	}
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("decode payment intent: %w", err)
	}

	return &Outcome{
		OK:     intent.Status == "succeeded",
		Amount: float64(intent.Amount) / 100,
		Detail: intent.Status,
		Raw:    body,
	}, nil
}

func (p *StripeProvider) Refund(ctx context.Context, txnID string, amount float64) (*Outcome, error) {
	form := url.Values{}
	form.Set("payment_intent", txnID)
	if amount > 0 {
		form.Set("amount", strconv.FormatInt(int64(amount*100), 10))
	}

	body, err := p.do(ctx, http.MethodPost, "/v1/refunds", form)
	if err != nil {
		return nil, err
	}

	var refund struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Amount int64  `json:"amount"`
	}
	if err := json.Unmarshal(body, &refund); err != nil {
		return nil, fmt.Errorf("decode refund: %w", err)
	}

	return &Outcome{
		OK:       refund.Status == "succeeded" || refund.Status == "pending",
		Amount:   float64(refund.Amount) / 100,
		AuthCode: refund.ID,
		Detail:   refund.Status,
		Raw:      body,
	}, nil
}

// VerifySignature checks the Stripe-Signature header: HMAC-SHA256 over
// "<timestamp>.<body>" with the webhook secret, compared in constant time.
func (p *StripeProvider) VerifySignature(body []byte, signatureHeader string) bool {
	if p.webhookSecret == "" || signatureHeader == "" {
		return false
	}

	var timestamp string
	var candidates []string
	for _, part := range strings.Split(signatureHeader, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			candidates = append(candidates, kv[1])
		}
	}
	if timestamp == "" || len(candidates) == 0 {
		return false
	}

	mac := hmac.New(sha256.New, []byte(p.webhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, c := range candidates {
		if hmac.Equal([]byte(expected), []byte(c)) {
			return true
		}
	}
	return false
}

func (p *StripeProvider) ParseEvent(body []byte) (*WebhookEvent, error) {
	var ev struct {
		Type string `json:"type"`
		Data struct {
			Object struct {
				ID string `json:"id"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("decode webhook event: %w", err)
	}
	if ev.Type == "" {
		return nil, fmt.Errorf("webhook event has no type")
	}
	return &WebhookEvent{
		Type:          ev.Type,
		TransactionID: ev.Data.Object.ID,
		Raw:           body,
	}, nil
}

func (p *StripeProvider) do(ctx context.Context, method, path string, form url.Values) ([]byte, error) {
	var reqBody io.Reader
	if form != nil {
		reqBody = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.Unmarshal(body, &apiErr)
		return nil, fmt.Errorf("stripe api error (%d): %s", resp.StatusCode, apiErr.Error.Message)
	}
	return body, nil
}
