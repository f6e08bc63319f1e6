package hipaa

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestPHIEncryptor_RoundTrip(t *testing.T) {
	enc, err := NewPHIEncryptor(testKey)
	if err != nil {
		t.Fatalf("NewPHIEncryptor: %v", err)
	}

	plaintext := "client@example.com"
	ciphertext, err := enc.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if ciphertext == plaintext {
		t.Fatal("ciphertext equals plaintext")
	}

	got, err := enc.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if got != plaintext {
		t.Errorf("round trip = %q, want %q", got, plaintext)
	}
}

func TestPHIEncryptor_NonDeterministic(t *testing.T) {
	enc, _ := NewPHIEncryptor(testKey)
	a, _ := enc.Encrypt("same value")
	b, _ := enc.Encrypt("same value")
	if a == b {
		t.Error("two encryptions of the same plaintext produced identical ciphertext")
	}
}

func TestPHIEncryptor_BadKeyLength(t *testing.T) {
	if _, err := NewPHIEncryptor([]byte("too short")); err == nil {
		t.Error("expected error for short key")
	}
}

func TestPHIEncryptor_TamperedCiphertext(t *testing.T) {
	enc, _ := NewPHIEncryptor(testKey)
	ciphertext, _ := enc.Encrypt("secret")
	tampered := strings.Replace(ciphertext, string(ciphertext[4]), "A", 1)
	if tampered == ciphertext {
		tampered = "A" + ciphertext[1:]
	}
	if _, err := enc.Decrypt(tampered); err == nil {
		t.Error("expected error decrypting tampered ciphertext")
	}
}

func TestEncryptionService_DisabledPassthrough(t *testing.T) {
	svc, err := NewEncryptionService("", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEncryptionService: %v", err)
	}
	if svc.IsEnabled() {
		t.Fatal("service enabled without a key")
	}
	got, err := svc.EncryptField("plain")
	if err != nil || got != "plain" {
		t.Errorf("EncryptField passthrough = %q, %v", got, err)
	}
	if svc.Encryptor() != nil {
		t.Error("expected nil encryptor when disabled")
	}
}

func TestEncryptionService_Enabled(t *testing.T) {
	svc, err := NewEncryptionService(hex.EncodeToString(testKey), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEncryptionService: %v", err)
	}
	if !svc.IsEnabled() {
		t.Fatal("service not enabled with valid key")
	}
	ciphertext, err := svc.EncryptField("555-0100")
	if err != nil {
		t.Fatalf("EncryptField: %v", err)
	}
	got, err := svc.DecryptField(ciphertext)
	if err != nil || got != "555-0100" {
		t.Errorf("DecryptField = %q, %v", got, err)
	}
}

func TestEncryptionService_RejectsBadKeys(t *testing.T) {
	if _, err := NewEncryptionService("not hex", zerolog.Nop()); err == nil {
		t.Error("expected error for non-hex key")
	}
	if _, err := NewEncryptionService("abcd", zerolog.Nop()); err == nil {
		t.Error("expected error for short key")
	}
}
