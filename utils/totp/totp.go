package totp

import (
	"fmt"
	"net/url"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// Config holds TOTP configuration
type Config struct {
	Issuer    string // e.g., "AuthGate"
	Digits    int    // Default: 6
	Period    int    // Default: 30 (seconds)
	Algorithm string // Default: SHA1
	Window    int    // Validation window (default: 1 = +/- 30 seconds)
}

// DefaultConfig returns standard TOTP configuration compatible with Google Authenticator
func DefaultConfig() Config {
	return Config{
		Issuer:    "AuthGate",
		Digits:    6,
		Period:    30,
		Algorithm: "SHA1",
		Window:    1,
	}
}

// GenerateSecret generates a new TOTP secret using the pquerna/otp library
func GenerateSecret(accountName string, cfg Config) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      cfg.Issuer,
		AccountName: accountName,
		Period:      uint(cfg.Period),
		Digits:      otp.Digits(cfg.Digits),
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate TOTP key: %w", err)
	}
	return key.Secret(), nil
}

// GenerateQRCodeURL generates the otpauth:// URL for QR code generation
func GenerateQRCodeURL(secret, accountName string, cfg Config) string {
	return fmt.Sprintf(
		"otpauth://totp/%s:%s?secret=%s&issuer=%s&algorithm=%s&digits=%d&period=%d",
		url.QueryEscape(cfg.Issuer),
		url.QueryEscape(accountName),
		secret,
		url.QueryEscape(cfg.Issuer),
		cfg.Algorithm,
		cfg.Digits,
		cfg.Period,
	)
}

// ValidateCode validates a TOTP code against the secret with window tolerance
func ValidateCode(secret, code string, cfg Config) bool {
	valid, err := totp.ValidateCustom(code, secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    uint(cfg.Period),
		Skew:      uint(cfg.Window),
		Digits:    otp.Digits(cfg.Digits),
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false
	}
	return valid
}
