package domain

import "time"

// Setting is a keyed config value. Encrypted values are stored as ciphertext
// and decrypted on read by the admin module; the plaintext of an encrypted
// setting must never be logged.
type Setting struct {
	ID          int64     `json:"id"`
	Key         string    `json:"key" gorm:"uniqueIndex;not null"`
	Value       string    `json:"value" gorm:"type:text"`
	Category    string    `json:"category" gorm:"index"`
	IsEncrypted bool      `json:"isEncrypted"`
	Description string    `json:"description,omitempty"`
	UpdatedBy   *int64    `json:"-"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Setting) TableName() string { return "settings" }
