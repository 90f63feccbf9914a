package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/config"
)

func newTestHasherConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth = &config.AuthConfig{BcryptCost: 4} // minimum cost keeps tests fast
	cfg.PasswordStrength = &config.PasswordStrengthConfig{
		MinLength:        8,
		MaxLength:        72,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireNumbers:   true,
	}

	return cfg
}

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasher(newTestHasherConfig())

	password := "StrongPass123"
	hash, err := hasher.Hash(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	assert.True(t, hasher.Check(password, hash))
	assert.False(t, hasher.Check("WrongPass123", hash))
	assert.False(t, hasher.Check("", hash))
	assert.False(t, hasher.Check(password, "invalid_hash"))
}

func TestBcryptHasher_ValidatePasswordStrength(t *testing.T) {
	hasher := NewBcryptHasher(newTestHasherConfig())

	validPasswords := []string{
		"StrongPass123",
		"MySecurePass1",
		"ComplexSecret9",
	}
	for _, password := range validPasswords {
		err := hasher.ValidatePasswordStrength(password)
		assert.NoError(t, err, "expected no error for password: %s", password)
	}

	testCases := []struct {
		password    string
		expectedErr string
	}{
		{"Aa1", "at least 8 characters"},
		{"PASSWORD123", "lowercase letter"},
		{"password123", "uppercase letter"},
		{"PasswordABC", "contain a number"},
	}
	for _, tc := range testCases {
		err := hasher.ValidatePasswordStrength(tc.password)
		assert.Error(t, err, "expected error for password: %s", tc.password)
		assert.Contains(t, err.Error(), tc.expectedErr)
	}
}

func TestBcryptHasher_RequireSpecial(t *testing.T) {
	cfg := newTestHasherConfig()
	cfg.PasswordStrength.RequireSpecial = true
	hasher := NewBcryptHasher(cfg)

	assert.Error(t, hasher.ValidatePasswordStrength("StrongPass123"))
	assert.NoError(t, hasher.ValidatePasswordStrength("StrongPass123!"))
}

func TestBcryptHasher_DefaultPolicy(t *testing.T) {
	// Without an explicit policy the hasher falls back to sane defaults.
	hasher := NewBcryptHasher(&config.Config{})

	assert.Error(t, hasher.ValidatePasswordStrength("short"))
	assert.NoError(t, hasher.ValidatePasswordStrength("StrongPass123"))
}
