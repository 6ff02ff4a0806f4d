package crypto

import (
	"errors"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c, err := New("deployment-key")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ct, err := c.Encrypt("sk_live_secret")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if ct == "sk_live_secret" {
		t.Fatal("ciphertext equals plaintext")
	}

	pt, err := c.Decrypt(ct)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if pt != "sk_live_secret" {
		t.Fatalf("round trip = %q", pt)
	}

	// Nonce is random, so the same plaintext never repeats.
	ct2, _ := c.Encrypt("sk_live_secret")
	if ct == ct2 {
		t.Fatal("ciphertexts must not repeat")
	}
}

func TestDecryptRejectsTampering(t *testing.T) {
	c, _ := New("deployment-key")

	for _, bad := range []string{"", "not base64!!", "YWJjZGVm", "YQ=="} {
		if _, err := c.Decrypt(bad); !errors.Is(err, ErrDecrypt) {
			t.Fatalf("Decrypt(%q): expected ErrDecrypt, got %v", bad, err)
		}
	}

	other, _ := New("different-key")
	ct, _ := c.Encrypt("value")
	if _, err := other.Decrypt(ct); !errors.Is(err, ErrDecrypt) {
		t.Fatalf("wrong key must fail with ErrDecrypt, got %v", err)
	}
}

func TestNewRejectsEmptyKey(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("empty key must be rejected")
	}
}
