// Package auth resolves the bearer credential the transport client attaches
// to every request. The core never inspects it; this package only decides
// where it comes from and warns early when it is already expired.
package auth

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"todochat/internal/infra/config"
)

// ResolveToken returns the bearer token, in priority order: the TODOCHAT_TOKEN
// environment variable, the config token value (already decrypted by the
// config loader), then the token file.
func ResolveToken(cfg config.AuthConfig) (string, error) {
	if tok := strings.TrimSpace(os.Getenv(config.TokenEnv)); tok != "" {
		return tok, nil
	}
	if cfg.Token != "" {
		return cfg.Token, nil
	}
	if cfg.TokenFile != "" {
		data, err := os.ReadFile(cfg.TokenFile)
		if err != nil {
			return "", fmt.Errorf("read token file: %w", err)
		}
		tok := strings.TrimSpace(string(data))
		if tok == "" {
			return "", fmt.Errorf("token file %s is empty", cfg.TokenFile)
		}
		return tok, nil
	}
	return "", fmt.Errorf("no bearer token configured (set %s, auth.token, or auth.token_file)", config.TokenEnv)
}

// Expiry parses the token without verifying its signature (verification is
// the server's job) and returns the exp claim. ok is false when the token is
// not a JWT or carries no expiry.
func Expiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// WarnIfExpired logs when the token is expired or about to expire, so the
// user learns before the first request comes back 401.
func WarnIfExpired(token string, logger *slog.Logger) {
	exp, ok := Expiry(token)
	if !ok {
		return
	}
	switch remaining := time.Until(exp); {
	case remaining <= 0:
		logger.Warn("bearer token is expired, requests will be rejected", "expired_at", exp)
	case remaining < 5*time.Minute:
		logger.Warn("bearer token expires soon", "expires_at", exp)
	}
}
