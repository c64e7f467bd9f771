package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type FlashPayload struct {
	Error   string `json:"error,omitempty"`
	Success string `json:"success,omitempty"`
}

const (
	sessionTokenTTL    = 30 * 24 * time.Hour
	loginAttemptLimit  = 5
	loginAttemptWindow = 15 * time.Minute
	maxUploadBytes     = 5 << 20
)

type sessionClaims struct {
	jwt.RegisteredClaims
}
