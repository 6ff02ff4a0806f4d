package payment

type CreateIntentRequest struct {
	BookingID int64   `json:"bookingId" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Currency  string  `json:"currency"`
}

type CreateIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

type CreateOrderRequest struct {
	BookingID int64   `json:"bookingId" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Currency  string  `json:"currency"`
}

type CreateOrderResponse struct {
	OrderID     string `json:"orderId"`
	Status      string `json:"status"`
	ApprovalURL string `json:"approvalUrl,omitempty"`
}

type CaptureOrderRequest struct {
	OrderID string `json:"orderId" binding:"required"`
}

type CaptureOrderResponse struct {
	Status    string  `json:"status"`
	CaptureID string  `json:"captureId,omitempty"`
	Amount    float64 `json:"amount,omitempty"`
}

type WebpayCreateRequest struct {
	BookingID int64   `json:"bookingId" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	ReturnURL string  `json:"returnUrl" binding:"required"`
}

type WebpayCreateResponse struct {
	Token    string `json:"token"`
	URL      string `json:"url"`
	BuyOrder string `json:"buyOrder"`
}

type WebpayConfirmRequest struct {
	Token string `json:"token" binding:"required"`
}

type WebpayOutcomeResponse struct {
	Status            string  `json:"status"`
	Amount            float64 `json:"amount,omitempty"`
	AuthorizationCode string  `json:"authorizationCode,omitempty"`
}

type WebpayRefundRequest struct {
	Token  string  `json:"token" binding:"required"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
}
