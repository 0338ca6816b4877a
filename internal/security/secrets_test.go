package security

import (
	"bytes"
	"os"
	"testing"

	apperrors "dataengine/internal/errors"
)

func TestStaticSecretProviderDerivesStableKey(t *testing.T) {
	p := NewStaticSecretProvider("test-secret")

	key1, err := p.PseudonymKey()
	if err != nil {
		t.Fatalf("PseudonymKey failed: %v", err)
	}
	key2, err := p.PseudonymKey()
	if err != nil {
		t.Fatalf("PseudonymKey failed: %v", err)
	}

	if len(key1) != 32 {
		t.Errorf("Expected 32-byte key, got %d bytes", len(key1))
	}
	if !bytes.Equal(key1, key2) {
		t.Error("Key derivation should be deterministic")
	}
}

func TestStaticSecretProviderDifferentSecrets(t *testing.T) {
	key1, err := NewStaticSecretProvider("secret-a").PseudonymKey()
	if err != nil {
		t.Fatalf("PseudonymKey failed: %v", err)
	}
	key2, err := NewStaticSecretProvider("secret-b").PseudonymKey()
	if err != nil {
		t.Fatalf("PseudonymKey failed: %v", err)
	}

	if bytes.Equal(key1, key2) {
		t.Error("Different secrets should derive different keys")
	}
}

func TestStaticSecretProviderEmptySecret(t *testing.T) {
	_, err := NewStaticSecretProvider("").PseudonymKey()
	if err == nil {
		t.Fatal("Expected error for empty secret")
	}

	appErr := apperrors.GetAppError(err)
	if appErr == nil || appErr.Code != apperrors.ErrCodeMissingSecret {
		t.Errorf("Expected MISSING_SECRET error, got %v", err)
	}
}

func TestEnvSecretProvider(t *testing.T) {
	const envVar = "DATAENGINE_TEST_SECRET"
	os.Setenv(envVar, "env-secret")
	defer os.Unsetenv(envVar)

	p := NewEnvSecretProvider(envVar)
	key, err := p.PseudonymKey()
	if err != nil {
		t.Fatalf("PseudonymKey failed: %v", err)
	}
	if len(key) != 32 {
		t.Errorf("Expected 32-byte key, got %d bytes", len(key))
	}

	os.Unsetenv(envVar)
	if _, err := p.PseudonymKey(); err == nil {
		t.Error("Expected error when environment variable is unset")
	}
}
