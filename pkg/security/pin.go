package security

import (
	"fmt"
	"unicode"

	"github.com/djmax1976/nuvana-backoffice/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

// ValidatePin enforces the numeric PIN policy before hashing.
func ValidatePin(pin string, cfg config.PinConfig) error {
	if len(pin) < cfg.MinLength || len(pin) > cfg.MaxLength {
		return fmt.Errorf("pin must be %d-%d digits", cfg.MinLength, cfg.MaxLength)
	}
	for _, r := range pin {
		if !unicode.IsDigit(r) {
			return fmt.Errorf("pin must contain only digits")
		}
	}
	return nil
}

// HashPin returns a bcrypt hash of the cashier PIN. Bcrypt already salts,
// so equal PINs across cashiers still produce distinct hashes.
func HashPin(pin string, cfg config.PinConfig) (string, error) {
	if err := ValidatePin(pin, cfg); err != nil {
		return "", err
	}
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), cost)
	if err != nil {
		return "", fmt.Errorf("hash pin: %w", err)
	}
	return string(hash), nil
}

// VerifyPin reports whether the PIN matches the stored hash.
func VerifyPin(pin, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
