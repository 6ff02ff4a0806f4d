package payment

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"staybook/internal/domain"
	"staybook/internal/middleware"
	"staybook/internal/pkg/response"
)

type Handler struct {
	service  *Service
	currency string
	loggerf  func(format string, args ...interface{})
}

func NewHandler(service *Service, currency string, loggerf func(format string, args ...interface{})) *Handler {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Handler{service: service, currency: currency, loggerf: loggerf}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/stripe", h.StripeWebhook)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/stripe/create-intent", h.CreateStripeIntent)
	rg.POST("/payments/paypal/create-order", h.CreatePayPalOrder)
	rg.POST("/payments/paypal/capture-order", h.CapturePayPalOrder)
	rg.POST("/payments/webpay/create", h.CreateWebpayTransaction)
	rg.POST("/payments/webpay/confirm", h.ConfirmWebpayTransaction)
	rg.GET("/payments/webpay/status/:token", h.WebpayStatus)
	rg.GET("/bookings/:id/payments", h.ListBookingPayments)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/webpay/refund", middleware.Require(domain.ActionRefundPayments), h.RefundWebpayTransaction)
}

func (h *Handler) CreateStripeIntent(c *gin.Context) {
	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	userID, _ := middleware.Principal(c)
	res, err := h.service.Initiate(c.Request.Context(), userID, domain.ProviderStripe, CreateRequest{
		BookingID: req.BookingID,
		Amount:    req.Amount,
		Currency:  h.currencyOr(req.Currency),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, CreateIntentResponse{
		ClientSecret:    res.ClientSecret,
		PaymentIntentID: res.TransactionID,
	})
}

// StripeWebhook handles asynchronous payment outcomes. The signature is
// verified over the raw body before anything is parsed. An unknown
// transaction id still acknowledges with 200 so the provider stops
// redelivering; storage errors return 500 so it retries.
func (h *Handler) StripeWebhook(c *gin.Context) {
	verifier, ok := h.service.registry.Get(domain.ProviderStripe)
	if !ok {
		response.Error(c, http.StatusServiceUnavailable, "PROVIDER_NOT_CONFIGURED", "stripe is not configured")
		return
	}
	wv, ok := verifier.(WebhookVerifier)
	if !ok {
		response.Error(c, http.StatusServiceUnavailable, "PROVIDER_NOT_CONFIGURED", "stripe is not configured")
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "cannot read request body")
		return
	}

	if !wv.VerifySignature(body, c.GetHeader("Stripe-Signature")) {
		h.loggerf("level=warn msg=stripe webhook signature rejected remote=%s", c.ClientIP())
		response.Error(c, http.StatusBadRequest, "INVALID_SIGNATURE", "webhook signature verification failed")
		return
	}

	ev, err := wv.ParseEvent(body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "malformed webhook event")
		return
	}

	if err := h.service.ProcessWebhookEvent(c.Request.Context(), ev); err != nil {
		h.loggerf("level=error msg=stripe webhook processing failed type=%s err=%v", ev.Type, err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "event processing failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *Handler) CreatePayPalOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	userID, _ := middleware.Principal(c)
	res, err := h.service.Initiate(c.Request.Context(), userID, domain.ProviderPayPal, CreateRequest{
		BookingID: req.BookingID,
		Amount:    req.Amount,
		Currency:  h.currencyOr(req.Currency),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, CreateOrderResponse{
		OrderID:     res.TransactionID,
		Status:      "CREATED",
		ApprovalURL: res.RedirectURL,
	})
}

func (h *Handler) CapturePayPalOrder(c *gin.Context) {
	var req CaptureOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	out, err := h.service.Capture(c.Request.Context(), domain.ProviderPayPal, req.OrderID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !out.OK {
		response.Error(c, http.StatusBadRequest, "PAYMENT_DECLINED", "payment was not completed")
		return
	}

	response.Success(c, http.StatusOK, CaptureOrderResponse{
		Status:    out.Detail,
		CaptureID: out.AuthCode,
		Amount:    out.Amount,
	})
}

func (h *Handler) CreateWebpayTransaction(c *gin.Context) {
	var req WebpayCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	userID, _ := middleware.Principal(c)
	res, err := h.service.Initiate(c.Request.Context(), userID, domain.ProviderWebpay, CreateRequest{
		BookingID: req.BookingID,
		Amount:    req.Amount,
		Currency:  h.currency,
		ReturnURL: req.ReturnURL,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, WebpayCreateResponse{
		Token:    res.TransactionID,
		URL:      res.RedirectURL,
		BuyOrder: res.BuyOrder,
	})
}

func (h *Handler) ConfirmWebpayTransaction(c *gin.Context) {
	var req WebpayConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	out, err := h.service.Capture(c.Request.Context(), domain.ProviderWebpay, req.Token)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !out.OK {
		response.Error(c, http.StatusBadRequest, "PAYMENT_DECLINED", "Payment was not authorized")
		return
	}

	response.Success(c, http.StatusOK, WebpayOutcomeResponse{
		Status:            out.Detail,
		Amount:            out.Amount,
		AuthorizationCode: out.AuthCode,
	})
}

func (h *Handler) WebpayStatus(c *gin.Context) {
	out, err := h.service.Status(c.Request.Context(), domain.ProviderWebpay, c.Param("token"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, WebpayOutcomeResponse{
		Status:            out.Detail,
		Amount:            out.Amount,
		AuthorizationCode: out.AuthCode,
	})
}

func (h *Handler) RefundWebpayTransaction(c *gin.Context) {
	var req WebpayRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	out, err := h.service.Refund(c.Request.Context(), domain.ProviderWebpay, req.Token, req.Amount)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !out.OK {
		response.Error(c, http.StatusBadRequest, "REFUND_REJECTED", "refund was not accepted")
		return
	}

	response.Success(c, http.StatusOK, WebpayOutcomeResponse{
		Status:            out.Detail,
		Amount:            out.Amount,
		AuthorizationCode: out.AuthCode,
	})
}

func (h *Handler) ListBookingPayments(c *gin.Context) {
	bookingID, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid booking id")
		return
	}

	userID, role := middleware.Principal(c)
	records, err := h.service.ListForBooking(c.Request.Context(), userID, role, bookingID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, records)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", err.Error())
	case errors.Is(err, ErrUnknownTransaction):
		response.Error(c, http.StatusNotFound, "TRANSACTION_NOT_FOUND", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrNotRefundable):
		response.Error(c, http.StatusConflict, "NOT_REFUNDABLE", err.Error())
	case errors.Is(err, ErrProviderNotConfigured), errors.Is(err, ErrProviderUnavailable):
		response.Error(c, http.StatusServiceUnavailable, "PROVIDER_UNAVAILABLE", err.Error())
	default:
		h.loggerf("level=error msg=payment request failed err=%v", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func (h *Handler) currencyOr(currency string) string {
	if currency != "" {
		return currency
	}
	return h.currency
}
