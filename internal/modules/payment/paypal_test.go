package payment

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"staybook/internal/config"
)

func paypalTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/oauth2/token" {
			user, pass, _ := r.BasicAuth()
			if user != "client_id" || pass != "client_secret" {
				t.Errorf("basic auth = %q/%q", user, pass)
			}
			fmt.Fprint(w, `{"access_token":"tok_test","expires_in":3600}`)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok_test" {
			t.Errorf("authorization header = %q", got)
		}
		handler(w, r)
	}))
}

func TestPayPalCreatePayment(t *testing.T) {
	srv := paypalTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v2/checkout/orders" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		fmt.Fprint(w, `{"id":"ORDER1","status":"CREATED","links":[{"rel":"approve","href":"https://paypal.example/approve"}]}`)
	})
	defer srv.Close()

	p := NewPayPalProvider(config.PayPalConfig{ClientID: "client_id", ClientSecret: "client_secret", BaseURL: srv.URL})
	res, err := p.CreatePayment(context.Background(), CreateRequest{BookingID: 42, Amount: 150, Currency: "usd"})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if res.TransactionID != "ORDER1" || res.RedirectURL != "https://paypal.example/approve" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestPayPalCapture(t *testing.T) {
	srv := paypalTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/checkout/orders/ORDER1/capture" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"status":"COMPLETED","purchase_units":[{"payments":{"captures":[{"id":"CAP1","amount":{"value":"150.00"}}]}}]}`)
	})
	defer srv.Close()

	p := NewPayPalProvider(config.PayPalConfig{ClientID: "client_id", ClientSecret: "client_secret", BaseURL: srv.URL})
	out, err := p.Capture(context.Background(), "ORDER1")
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if !out.OK || out.AuthCode != "CAP1" || out.Amount != 150 {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestPayPalCaptureDecline(t *testing.T) {
	srv := paypalTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"DECLINED"}`)
	})
	defer srv.Close()

	p := NewPayPalProvider(config.PayPalConfig{ClientID: "client_id", ClientSecret: "client_secret", BaseURL: srv.URL})
	out, err := p.Capture(context.Background(), "ORDER1")
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if out.OK {
		t.Fatal("non-COMPLETED status must be a decline, not success")
	}
}

func TestPayPalRefundResolvesCaptureFromOrder(t *testing.T) {
	refunded := false
	srv := paypalTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/v2/checkout/orders/ORDER1":
			fmt.Fprint(w, `{"status":"COMPLETED","purchase_units":[{"payments":{"captures":[{"id":"CAP1","amount":{"value":"150.00"}}]}}]}`)
		case r.Method == http.MethodPost && r.URL.Path == "/v2/payments/captures/CAP1/refund":
			refunded = true
			fmt.Fprint(w, `{"id":"REF1","status":"COMPLETED"}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})
	defer srv.Close()

	p := NewPayPalProvider(config.PayPalConfig{ClientID: "client_id", ClientSecret: "client_secret", BaseURL: srv.URL})
	out, err := p.Refund(context.Background(), "ORDER1", 150)
	if err != nil {
		t.Fatalf("Refund: %v", err)
	}
	if !out.OK || out.AuthCode != "REF1" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if !refunded {
		t.Fatal("refund was not posted against the capture resolved from the order")
	}
}

func TestPayPalRefundFallsBackToCaptureID(t *testing.T) {
	srv := paypalTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v2/checkout/orders/"):
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"name":"RESOURCE_NOT_FOUND"}`)
		case r.Method == http.MethodPost && r.URL.Path == "/v2/payments/captures/CAP9/refund":
			fmt.Fprint(w, `{"id":"REF9","status":"COMPLETED"}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})
	defer srv.Close()

	p := NewPayPalProvider(config.PayPalConfig{ClientID: "client_id", ClientSecret: "client_secret", BaseURL: srv.URL})
	out, err := p.Refund(context.Background(), "CAP9", 0)
	if err != nil {
		t.Fatalf("Refund: %v", err)
	}
	if !out.OK || out.AuthCode != "REF9" {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestPayPalTokenCached(t *testing.T) {
	tokenCalls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/oauth2/token" {
			tokenCalls++
			fmt.Fprint(w, `{"access_token":"tok_test","expires_in":3600}`)
			return
		}
		fmt.Fprint(w, `{"status":"CREATED"}`)
	}))
	defer srv.Close()

	p := NewPayPalProvider(config.PayPalConfig{ClientID: "client_id", ClientSecret: "client_secret", BaseURL: srv.URL})
	for i := 0; i < 3; i++ {
		if _, err := p.Status(context.Background(), "ORDER1"); err != nil {
			t.Fatalf("Status: %v", err)
		}
	}
	if tokenCalls != 1 {
		t.Fatalf("token fetched %d times, want 1", tokenCalls)
	}
}
