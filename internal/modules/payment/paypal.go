package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"staybook/internal/config"
	"staybook/internal/domain"
)

// PayPalProvider drives the Orders v2 API. Access tokens are fetched with the
// client-credentials grant and cached until shortly before expiry.
type PayPalProvider struct {
	clientID     string
	clientSecret string
	baseURL      string
	client       *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewPayPalProvider(cfg config.PayPalConfig) *PayPalProvider {
	return &PayPalProvider{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		client:       &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *PayPalProvider) Name() domain.PaymentProvider { return domain.ProviderPayPal }

func (p *PayPalProvider) CreatePayment(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{{
			"reference_id": strconv.FormatInt(req.BookingID, 10),
			"amount": map[string]string{
				"currency_code": strings.ToUpper(req.Currency),
				"value":         fmt.Sprintf("%.2f", req.Amount),
			},
		}},
	}

	body, err := p.do(ctx, http.MethodPost, "/v2/checkout/orders", payload)
	if err != nil {
		return nil, err
	}

	var order struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Links  []struct {
			Rel  string `json:"rel"`
			Href string `json:"href"`
		} `json:"links"`
	}
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("%w: empty order id", ErrProviderUnavailable)
	}

	res := &CreateResult{TransactionID: order.ID, Raw: body}
	for _, l := range order.Links {
		if l.Rel == "approve" {
			res.RedirectURL = l.Href
			break
		}
	}
	return res, nil
}

// Capture completes an approved order. Anything other than COMPLETED is a
// decline, not an error.
func (p *PayPalProvider) Capture(ctx context.Context, txnID string) (*Outcome, error) {
	body, err := p.do(ctx, http.MethodPost, "/v2/checkout/orders/"+url.PathEscape(txnID)+"/capture", struct{}{})
	if err != nil {
		return nil, err
	}

	var capture struct {
		Status        string `json:"status"`
		PurchaseUnits []struct {
			Payments struct {
				Captures []struct {
					ID     string `json:"id"`
					Amount struct {
						Value string `json:"value"`
					} `json:"amount"`
				} `json:"captures"`
			} `json:"payments"`
		} `json:"purchase_units"`
	}
	if err := json.Unmarshal(body, &capture); err != nil {
		return nil, fmt.Errorf("decode capture: %w", err)
	}

	out := &Outcome{
		OK:     capture.Status == "COMPLETED",
		Detail: capture.Status,
		Raw:    body,
	}
	if len(capture.PurchaseUnits) > 0 && len(capture.PurchaseUnits[0].Payments.Captures) > 0 {
		c := capture.PurchaseUnits[0].Payments.Captures[0]
		out.AuthCode = c.ID
		out.Amount, _ = strconv.ParseFloat(c.Amount.Value, 64)
	}
	return out, nil
}

func (p *PayPalProvider) Status(ctx context.Context, txnID string) (*Outcome, error) {
	body, err := p.do(ctx, http.MethodGet, "/v2/checkout/orders/"+url.PathEscape(txnID), nil)
	if err != nil {
		return nil, err
	}

	var order struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}

	return &Outcome{
		OK:     order.Status == "COMPLETED",
		Detail: order.Status,
		Raw:    body,
	}, nil
}

// Refund refunds the capture behind txnID. Stored transaction ids are order
// ids, so the capture id is resolved from the order first; an id that does
// not resolve to an order with a capture is used as a capture id directly.
func (p *PayPalProvider) Refund(ctx context.Context, txnID string, amount float64) (*Outcome, error) {
	captureID := txnID
	if id, err := p.captureIDForOrder(ctx, txnID); err == nil && id != "" {
		captureID = id
	}

	var payload interface{} = struct{}{}
	if amount > 0 {
		payload = map[string]interface{}{
			"amount": map[string]string{
				"value":         fmt.Sprintf("%.2f", amount),
				"currency_code": "USD",
			},
		}
	}

	body, err := p.do(ctx, http.MethodPost, "/v2/payments/captures/"+url.PathEscape(captureID)+"/refund", payload)
	if err != nil {
		return nil, err
	}

	var refund struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &refund); err != nil {
		return nil, fmt.Errorf("decode refund: %w", err)
	}

	return &Outcome{
		OK:       refund.Status == "COMPLETED" || refund.Status == "PENDING",
		AuthCode: refund.ID,
		Detail:   refund.Status,
		Raw:      body,
	}, nil
}

func (p *PayPalProvider) captureIDForOrder(ctx context.Context, orderID string) (string, error) {
	body, err := p.do(ctx, http.MethodGet, "/v2/checkout/orders/"+url.PathEscape(orderID), nil)
	if err != nil {
		return "", err
	}

	var order struct {
		PurchaseUnits []struct {
			Payments struct {
				Captures []struct {
					ID string `json:"id"`
				} `json:"captures"`
			} `json:"payments"`
		} `json:"purchase_units"`
	}
	if err := json.Unmarshal(body, &order); err != nil {
		return "", err
	}
	if len(order.PurchaseUnits) > 0 && len(order.PurchaseUnits[0].Payments.Captures) > 0 {
		return order.PurchaseUnits[0].Payments.Captures[0].ID, nil
	}
	return "", nil
}

func (p *PayPalProvider) token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.accessToken != "" && time.Now().Before(p.tokenExpiry) {
		return p.accessToken, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/oauth2/token",
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(p.clientID, p.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("decode token: %w", err)
	}

	p.accessToken = tok.AccessToken
	p.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn-60) * time.Second)
	return p.accessToken, nil
}

func (p *PayPalProvider) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	tok, err := p.token(ctx)
	if err != nil {
		return nil, err
	}

	var reqBody *bytes.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(b)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body := new(bytes.Buffer)
	if _, err := body.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("paypal api error (%d): %s", resp.StatusCode, strings.TrimSpace(body.String()))
	}
	return body.Bytes(), nil
}
