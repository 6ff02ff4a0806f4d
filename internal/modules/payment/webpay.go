package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"staybook/internal/config"
	"staybook/internal/domain"
)

const webpayAPIPrefix = "/rswebpaytransaction/api/webpay/v1.2"

// WebpayProvider implements Transbank WebPay Plus. The transaction token the
// create call returns is the correlation id; the guest is redirected to the
// returned URL and the commit (Capture) runs when they come back. A committed
// transaction is approved only when status is AUTHORIZED and response_code
// is zero.
type WebpayProvider struct {
	commerceCode string
	apiKey       string
	baseURL      string
	client       *http.Client
}

func NewWebpayProvider(cfg config.WebpayConfig) *WebpayProvider {
	return &WebpayProvider{
		commerceCode: cfg.CommerceCode,
		apiKey:       cfg.APIKey,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		client:       &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *WebpayProvider) Name() domain.PaymentProvider { return domain.ProviderWebpay }

func (p *WebpayProvider) CreatePayment(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	buyOrder := fmt.Sprintf("BOOKING-%d-%d", req.BookingID, time.Now().UnixMilli())
	payload := map[string]interface{}{
		"buy_order":  buyOrder,
		"session_id": uuid.NewString(),
		"amount":     req.Amount,
		"return_url": req.ReturnURL,
	}

	body, err := p.do(ctx, http.MethodPost, webpayAPIPrefix+"/transactions", payload)
	if err != nil {
		return nil, err
	}

	var tx struct {
		Token string `json:"token"`
		URL   string `json:"url"`
	}
	if err := json.Unmarshal(body, &tx); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	if tx.Token == "" {
		return nil, fmt.Errorf("%w: empty transaction token", ErrProviderUnavailable)
	}

	return &CreateResult{
		TransactionID: tx.Token,
		RedirectURL:   tx.URL,
		BuyOrder:      buyOrder,
		Raw:           body,
	}, nil
}

// Capture commits the transaction after the guest returns from the payment
// form.
func (p *WebpayProvider) Capture(ctx context.Context, txnID string) (*Outcome, error) {
	body, err := p.do(ctx, http.MethodPut, webpayAPIPrefix+"/transactions/"+url.PathEscape(txnID), nil)
	if err != nil {
		return nil, err
	}
	return decodeWebpayOutcome(body)
}

func (p *WebpayProvider) Status(ctx context.Context, txnID string) (*Outcome, error) {
	body, err := p.do(ctx, http.MethodGet, webpayAPIPrefix+"/transactions/"+url.PathEscape(txnID), nil)
	if err != nil {
		return nil, err
	}
	return decodeWebpayOutcome(body)
}

func (p *WebpayProvider) Refund(ctx context.Context, txnID string, amount float64) (*Outcome, error) {
	payload := map[string]interface{}{"amount": amount}
	body, err := p.do(ctx, http.MethodPost, webpayAPIPrefix+"/transactions/"+url.PathEscape(txnID)+"/refunds", payload)
	if err != nil {
		return nil, err
	}

	var refund struct {
		Type              string  `json:"type"`
		AuthorizationCode string  `json:"authorization_code"`
		ResponseCode      *int    `json:"response_code"`
		NullifiedAmount   float64 `json:"nullified_amount"`
	}
	if err := json.Unmarshal(body, &refund); err != nil {
		return nil, fmt.Errorf("decode refund: %w", err)
	}

	ok := refund.Type == "REVERSED" || (refund.Type == "NULLIFIED" && refund.ResponseCode != nil && *refund.ResponseCode == 0)
	return &Outcome{
		OK:       ok,
		Amount:   refund.NullifiedAmount,
		AuthCode: refund.AuthorizationCode,
		Detail:   refund.Type,
		Raw:      body,
	}, nil
}

func decodeWebpayOutcome(body []byte) (*Outcome, error) {
	var tx struct {
		Status            string  `json:"status"`
		ResponseCode      *int    `json:"response_code"`
		Amount            float64 `json:"amount"`
		AuthorizationCode string  `json:"authorization_code"`
	}
	if err := json.Unmarshal(body, &tx); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}

	return &Outcome{
		OK:       tx.Status == "AUTHORIZED" && tx.ResponseCode != nil && *tx.ResponseCode == 0,
		Amount:   tx.Amount,
		AuthCode: tx.AuthorizationCode,
		Detail:   tx.Status,
		Raw:      body,
	}, nil
}

func (p *WebpayProvider) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
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
	req.Header.Set("Tbk-Api-Key-Id", p.commerceCode)
	req.Header.Set("Tbk-Api-Key-Secret", p.apiKey)
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
		return nil, fmt.Errorf("webpay api error (%d): %s", resp.StatusCode, strings.TrimSpace(body.String()))
	}
	return body.Bytes(), nil
}
