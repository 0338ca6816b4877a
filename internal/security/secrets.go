package security

import (
	"os"

	"golang.org/x/crypto/scrypt"

	apperrors "dataengine/internal/errors"
)

// SecretProvider supplies the keyed material used for deterministic
// pseudonymization. The key must stay stable across process restarts
// so pseudonyms remain joinable.
type SecretProvider interface {
	PseudonymKey() ([]byte, error)
}

// EnvSecretProvider reads the pseudonymization secret from an
// environment variable and stretches it with scrypt.
type EnvSecretProvider struct {
	EnvVar string
	Salt   string
}

// NewEnvSecretProvider creates a provider backed by an environment variable
func NewEnvSecretProvider(envVar string) *EnvSecretProvider {
	if envVar == "" {
		envVar = "DATAENGINE_PSEUDONYM_SECRET"
	}
	return &EnvSecretProvider{
		EnvVar: envVar,
		Salt:   "dataengine-pseudonym",
	}
}

// PseudonymKey derives a 32-byte key from the configured secret
func (p *EnvSecretProvider) PseudonymKey() ([]byte, error) {
	secret := os.Getenv(p.EnvVar)
	if secret == "" {
		return nil, apperrors.NewAppError(apperrors.ErrCodeMissingSecret,
			"pseudonymization secret is not set", nil).WithContext("env_var", p.EnvVar)
	}
	return deriveKey(secret, p.Salt)
}

// StaticSecretProvider holds an explicit secret, mainly for tests and
// tooling where the environment is not available.
type StaticSecretProvider struct {
	Secret string
	Salt   string
}

// NewStaticSecretProvider creates a provider around a fixed secret
func NewStaticSecretProvider(secret string) *StaticSecretProvider {
	return &StaticSecretProvider{
		Secret: secret,
		Salt:   "dataengine-pseudonym",
	}
}

// PseudonymKey derives a 32-byte key from the fixed secret
func (p *StaticSecretProvider) PseudonymKey() ([]byte, error) {
	if p.Secret == "" {
		return nil, apperrors.NewAppError(apperrors.ErrCodeMissingSecret,
			"pseudonymization secret is empty", nil)
	}
	return deriveKey(p.Secret, p.Salt)
}

// deriveKey stretches the secret into key material
func deriveKey(secret, salt string) ([]byte, error) {
	key, err := scrypt.Key([]byte(secret), []byte(salt), 32768, 8, 1, 32)
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrCodeInternal, "key derivation failed")
	}
	return key, nil
}
