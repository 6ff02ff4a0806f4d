package domain

import "time"

type PaymentProvider string

const (
	ProviderStripe PaymentProvider = "stripe"
	ProviderPayPal PaymentProvider = "paypal"
	ProviderWebpay PaymentProvider = "webpay"
)

type PaymentRecordStatus string

const (
	PaymentPending   PaymentRecordStatus = "pending"
	PaymentCompleted PaymentRecordStatus = "completed"
	PaymentFailed    PaymentRecordStatus = "failed"
	PaymentRefunded  PaymentRecordStatus = "refunded"
)

// PaymentRecord is one payment attempt against a booking. A booking may carry
// several attempts; the TransactionID is the correlation key every provider
// callback must present. Records are created only by the outbound
// create-payment step and never deleted; refunds transition status, they do
// not append a new record.
type PaymentRecord struct {
	ID            int64               `json:"id"`
	BookingID     int64               `json:"bookingId" gorm:"index;not null"`
	Amount        float64             `json:"amount" gorm:"not null"`
	Currency      string              `json:"currency" gorm:"type:varchar(8)"`
	Provider      PaymentProvider     `json:"provider" gorm:"type:varchar(20);not null"`
	TransactionID string              `json:"-" gorm:"column:provider_transaction_id;uniqueIndex;not null"`
	Status        PaymentRecordStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	RawPayload    string              `json:"-" gorm:"type:text"`
	PaidAt        *time.Time          `json:"paidAt,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

func (PaymentRecord) TableName() string { return "payments" }
