package e2e

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"staybook/internal/config"
	"staybook/internal/database"
	"staybook/internal/domain"
	"staybook/internal/middleware"
	"staybook/internal/modules/admin"
	"staybook/internal/modules/auth"
	"staybook/internal/modules/booking"
	"staybook/internal/modules/catalog"
	"staybook/internal/modules/payment"
	"staybook/internal/modules/tenant"
	"staybook/internal/pkg/crypto"
	jwtsvc "staybook/internal/pkg/jwt"
	"staybook/internal/repository"
)

const stripeWebhookSecret = "whsec_e2e_secret"

type E2ETestSuite struct {
	router     *gin.Engine
	db         *gorm.DB
	jwtService *jwtsvc.Service
	stripeSrv  *httptest.Server
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// fakeStripe serves just enough of the payment-intents API for the flow
// tests: every create returns a fresh intent id.
func fakeStripe(t *testing.T) *httptest.Server {
	t.Helper()
	var mu sync.Mutex
	n := 0
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/payment_intents":
			mu.Lock()
			n++
			id := fmt.Sprintf("pi_e2e_%d", n)
			mu.Unlock()
			fmt.Fprintf(w, `{"id":%q,"client_secret":"%s_secret"}`, id, id)
		default:
			fmt.Fprint(w, `{"id":"pi_e2e_1","status":"succeeded","amount":58000}`)
		}
	}))
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")

	// A single connection keeps every session on the same in-memory
	// database and serializes racing write transactions.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db), "Failed to migrate test database")

	stripeSrv := fakeStripe(t)
	t.Cleanup(stripeSrv.Close)

	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	supplyRepo := repository.NewSupplyRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	tenantRepo := repository.NewTenantRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)
	cipher, err := crypto.New("test-encryption-key")
	require.NoError(t, err)

	registry := payment.NewRegistry(payment.NewStripeProvider(config.StripeConfig{
		SecretKey:     "sk_test_e2e",
		WebhookSecret: stripeWebhookSecret,
		BaseURL:       stripeSrv.URL,
	}))

	authHandler := auth.NewHandler(auth.NewService(userRepo, jwtService))
	catalogHandler := catalog.NewHandler(catalog.NewService(propertyRepo))
	bookingHandler := booking.NewHandler(booking.NewService(bookingRepo, propertyRepo, nil, nil))
	paymentHandler := payment.NewHandler(payment.NewService(registry, paymentRepo, bookingRepo, nil, nil), "USD", nil)
	adminHandler := admin.NewHandler(admin.NewService(userRepo, settingRepo, supplyRepo, propertyRepo, bookingRepo, cipher, nil))
	tenantHandler := tenant.NewHandler(tenant.NewService(tenantRepo, settingRepo, tenant.MasterConfig{
		CompanyName: "StayBook",
		Currency:    "USD",
		Providers:   tenant.PaymentsConfig{StripeEnabled: true},
	}, nil))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.DetectTenant(tenantRepo))

	v1 := r.Group("/api/v1")
	authHandler.RegisterPublicRoutes(v1)
	catalogHandler.RegisterPublicRoutes(v1)
	bookingHandler.RegisterPublicRoutes(v1)
	paymentHandler.RegisterPublicRoutes(v1)
	tenantHandler.RegisterPublicRoutes(v1)

	protected := v1.Group("/")
	protected.Use(middleware.JWTAuth(jwtService))
	{
		authHandler.RegisterProtectedRoutes(protected)
		bookingHandler.RegisterProtectedRoutes(protected)
		paymentHandler.RegisterProtectedRoutes(protected)

		bookingHandler.RegisterAdminRoutes(protected)
		catalogHandler.RegisterAdminRoutes(protected)
		paymentHandler.RegisterAdminRoutes(protected)
		adminHandler.RegisterAdminRoutes(protected)
		tenantHandler.RegisterAdminRoutes(protected)
	}

	adminUser := &domain.User{
		Email:        "admin@test.com",
		PasswordHash: "$2a$12$dummydummydummydummydummydummydummydummydummydummydu",
		Role:         domain.RoleAdmin,
		FirstName:    "Admin",
		IsActive:     true,
	}
	require.NoError(t, db.Create(adminUser).Error, "Failed to create admin user")

	return &E2ETestSuite{router: r, db: db, jwtService: jwtService, stripeSrv: stripeSrv}
}

func (s *E2ETestSuite) makeRequest(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	t.Helper()
	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "Failed to parse response: %s", w.Body.String())
	return &resp
}

func (s *E2ETestSuite) adminToken(t *testing.T) string {
	t.Helper()
	var u domain.User
	require.NoError(t, s.db.Where("email = ?", "admin@test.com").First(&u).Error)
	token, err := s.jwtService.GenerateToken(u.ID, u.Email, u.Role)
	require.NoError(t, err)
	return token
}

func (s *E2ETestSuite) registerClient(t *testing.T, email string) string {
	t.Helper()
	w := s.makeRequest("POST", "/api/v1/auth/register", map[string]interface{}{
		"firstName": "Test",
		"email":     email,
		"password":  "password123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, "register: %s", w.Body.String())
	resp := parseResponse(t, w)
	token, _ := resp.Data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (s *E2ETestSuite) createProperty(t *testing.T, adminToken string) int64 {
	t.Helper()
	w := s.makeRequest("POST", "/api/v1/properties", map[string]interface{}{
		"title":         "Harbourfront Loft",
		"location":      "Halifax, NS",
		"pricePerNight": 145,
	}, adminToken)
	require.Equal(t, http.StatusCreated, w.Code, "create property: %s", w.Body.String())
	resp := parseResponse(t, w)
	return int64(resp.Data["id"].(float64))
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func (s *E2ETestSuite) createBooking(t *testing.T, token string, propertyID int64, checkIn, checkOut string) *httptest.ResponseRecorder {
	t.Helper()
	return s.makeRequest("POST", "/api/v1/bookings", map[string]interface{}{
		"propertyId": propertyID,
		"checkIn":    checkIn,
		"checkOut":   checkOut,
		"totalPrice": 580,
		"guestName":  "Test Guest",
		"guestEmail": "guest@test.com",
	}, token)
}

func (s *E2ETestSuite) signedWebhook(t *testing.T, eventType, intentID string) *httptest.ResponseRecorder {
	t.Helper()
	body := []byte(fmt.Sprintf(`{"type":%q,"data":{"object":{"id":%q}}}`, eventType, intentID))

	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(stripeWebhookSecret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(body)
	sig := fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))

	req := httptest.NewRequest("POST", "/api/v1/webhooks/stripe", bytes.NewReader(body))
	req.Header.Set("Stripe-Signature", sig)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestBookingPaymentFlow(t *testing.T) {
	suite := setupTestSuite(t)
	adminToken := suite.adminToken(t)
	clientToken := suite.registerClient(t, "flow@test.com")
	propertyID := suite.createProperty(t, adminToken)

	// Booking comes in pending.
	w := suite.createBooking(t, clientToken, propertyID, futureDate(10), futureDate(14))
	require.Equal(t, http.StatusCreated, w.Code, "booking: %s", w.Body.String())
	resp := parseResponse(t, w)
	bookingID := int64(resp.Data["id"].(float64))
	assert.Equal(t, "pending", resp.Data["status"])

	// Start a card payment; the intent id is the correlation key.
	w = suite.makeRequest("POST", "/api/v1/payments/stripe/create-intent", map[string]interface{}{
		"bookingId": bookingID,
		"amount":    580,
	}, clientToken)
	require.Equal(t, http.StatusOK, w.Code, "create intent: %s", w.Body.String())
	resp = parseResponse(t, w)
	intentID, _ := resp.Data["paymentIntentId"].(string)
	require.NotEmpty(t, intentID)
	assert.NotEmpty(t, resp.Data["clientSecret"])

	// Signed success webhook completes the payment and confirms the booking.
	w = suite.signedWebhook(t, "payment_intent.succeeded", intentID)
	require.Equal(t, http.StatusOK, w.Code, "webhook: %s", w.Body.String())

	var b domain.Booking
	require.NoError(t, suite.db.First(&b, bookingID).Error)
	assert.Equal(t, domain.BookingConfirmed, b.Status)

	var rec domain.PaymentRecord
	require.NoError(t, suite.db.Where("provider_transaction_id = ?", intentID).First(&rec).Error)
	assert.Equal(t, domain.PaymentCompleted, rec.Status)
	assert.NotNil(t, rec.PaidAt)

	// Redelivery is a no-op.
	w = suite.signedWebhook(t, "payment_intent.succeeded", intentID)
	require.Equal(t, http.StatusOK, w.Code)
	var cnt int64
	suite.db.Model(&domain.PaymentRecord{}).Where("booking_id = ?", bookingID).Count(&cnt)
	assert.Equal(t, int64(1), cnt)

	// Overlapping dates on the confirmed booking are rejected.
	other := suite.registerClient(t, "other@test.com")
	w = suite.createBooking(t, other, propertyID, futureDate(12), futureDate(16))
	assert.Equal(t, http.StatusConflict, w.Code, "overlap: %s", w.Body.String())

	// Same-day turnover is allowed.
	w = suite.createBooking(t, other, propertyID, futureDate(14), futureDate(18))
	assert.Equal(t, http.StatusCreated, w.Code, "adjacent: %s", w.Body.String())

	// Payment history is owner-or-admin.
	w = suite.makeRequest("GET", fmt.Sprintf("/api/v1/bookings/%d/payments", bookingID), nil, other)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = suite.makeRequest("GET", fmt.Sprintf("/api/v1/bookings/%d/payments", bookingID), nil, adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookSecurity(t *testing.T) {
	suite := setupTestSuite(t)
	adminToken := suite.adminToken(t)
	clientToken := suite.registerClient(t, "sec@test.com")
	propertyID := suite.createProperty(t, adminToken)

	w := suite.createBooking(t, clientToken, propertyID, futureDate(10), futureDate(12))
	require.Equal(t, http.StatusCreated, w.Code)
	bookingID := int64(parseResponse(t, w).Data["id"].(float64))

	w = suite.makeRequest("POST", "/api/v1/payments/stripe/create-intent", map[string]interface{}{
		"bookingId": bookingID,
		"amount":    290,
	}, clientToken)
	require.Equal(t, http.StatusOK, w.Code)
	intentID := parseResponse(t, w).Data["paymentIntentId"].(string)

	// Forged signature is rejected and changes nothing.
	body := []byte(fmt.Sprintf(`{"type":"payment_intent.succeeded","data":{"object":{"id":%q}}}`, intentID))
	req := httptest.NewRequest("POST", "/api/v1/webhooks/stripe", bytes.NewReader(body))
	req.Header.Set("Stripe-Signature", "t=12345,v1=deadbeef")
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var b domain.Booking
	require.NoError(t, suite.db.First(&b, bookingID).Error)
	assert.Equal(t, domain.BookingPending, b.Status)

	// An event for an unknown transaction is acknowledged but dropped.
	w = suite.signedWebhook(t, "payment_intent.succeeded", "pi_never_created")
	assert.Equal(t, http.StatusOK, w.Code)
	var cnt int64
	suite.db.Model(&domain.PaymentRecord{}).Where("provider_transaction_id = ?", "pi_never_created").Count(&cnt)
	assert.Equal(t, int64(0), cnt)

	// A failure event marks the payment failed but leaves the booking
	// pending for retry.
	w = suite.signedWebhook(t, "payment_intent.payment_failed", intentID)
	require.Equal(t, http.StatusOK, w.Code)
	var pr domain.PaymentRecord
	require.NoError(t, suite.db.Where("provider_transaction_id = ?", intentID).First(&pr).Error)
	assert.Equal(t, domain.PaymentFailed, pr.Status)
	require.NoError(t, suite.db.First(&b, bookingID).Error)
	assert.Equal(t, domain.BookingPending, b.Status)
}

func TestRefundedPaymentSurvivesRedelivery(t *testing.T) {
	suite := setupTestSuite(t)
	adminToken := suite.adminToken(t)
	clientToken := suite.registerClient(t, "refund@test.com")
	propertyID := suite.createProperty(t, adminToken)

	w := suite.createBooking(t, clientToken, propertyID, futureDate(30), futureDate(33))
	require.Equal(t, http.StatusCreated, w.Code, "booking: %s", w.Body.String())
	bookingID := int64(parseResponse(t, w).Data["id"].(float64))

	w = suite.makeRequest("POST", "/api/v1/payments/stripe/create-intent", map[string]interface{}{
		"bookingId": bookingID,
		"amount":    435,
	}, clientToken)
	require.Equal(t, http.StatusOK, w.Code)
	intentID := parseResponse(t, w).Data["paymentIntentId"].(string)

	w = suite.signedWebhook(t, "payment_intent.succeeded", intentID)
	require.Equal(t, http.StatusOK, w.Code)

	// An admin refund moves the record to its terminal state.
	paymentRepo := repository.NewPaymentRepository(suite.db)
	require.NoError(t, paymentRepo.MarkRefunded(context.Background(), intentID, `{"refund":"re_1"}`))

	// Providers redeliver old events; the original success must not pull the
	// record back to completed.
	w = suite.signedWebhook(t, "payment_intent.succeeded", intentID)
	require.Equal(t, http.StatusOK, w.Code, "redelivery must still be acknowledged")

	var rec domain.PaymentRecord
	require.NoError(t, suite.db.Where("provider_transaction_id = ?", intentID).First(&rec).Error)
	assert.Equal(t, domain.PaymentRefunded, rec.Status)
}

func TestConcurrentBookingRace(t *testing.T) {
	suite := setupTestSuite(t)
	adminToken := suite.adminToken(t)
	propertyID := suite.createProperty(t, adminToken)

	tokenA := suite.registerClient(t, "race-a@test.com")
	tokenB := suite.registerClient(t, "race-b@test.com")

	checkIn, checkOut := futureDate(20), futureDate(25)

	var wg sync.WaitGroup
	codes := make([]int, 2)
	for i, token := range []string{tokenA, tokenB} {
		wg.Add(1)
		go func(i int, token string) {
			defer wg.Done()
			w := suite.createBooking(t, token, propertyID, checkIn, checkOut)
			codes[i] = w.Code
		}(i, token)
	}
	wg.Wait()

	created, conflicted := 0, 0
	for _, code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicted++
		}
	}
	assert.Equal(t, 1, created, "exactly one racing booking must win (codes: %v)", codes)
	assert.Equal(t, 1, conflicted, "the loser must get a conflict (codes: %v)", codes)

	var cnt int64
	suite.db.Model(&domain.Booking{}).Where("property_id = ?", propertyID).Count(&cnt)
	assert.Equal(t, int64(1), cnt)
}

func TestPublicConfigEndpoints(t *testing.T) {
	suite := setupTestSuite(t)

	w := suite.makeRequest("GET", "/api/v1/tenant/config", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, "StayBook", resp.Data["companyName"])
	assert.Equal(t, false, resp.Data["isTenant"])

	w = suite.makeRequest("GET", "/api/v1/config/payments", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	resp = parseResponse(t, w)
	assert.Equal(t, true, resp.Data["stripeEnabled"])
	assert.Equal(t, false, resp.Data["paypalEnabled"])
}

func TestRoleEnforcement(t *testing.T) {
	suite := setupTestSuite(t)
	clientToken := suite.registerClient(t, "client-role@test.com")

	// Clients cannot reach admin surfaces.
	w := suite.makeRequest("POST", "/api/v1/properties", map[string]interface{}{
		"title": "X", "pricePerNight": 10,
	}, clientToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = suite.makeRequest("GET", "/api/v1/stats", nil, clientToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = suite.makeRequest("POST", "/api/v1/payments/webpay/refund", map[string]interface{}{
		"token": "tok", "amount": 10,
	}, clientToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// No token at all is unauthorized.
	w = suite.makeRequest("GET", "/api/v1/bookings", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
