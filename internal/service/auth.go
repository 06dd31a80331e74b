package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"coinhealth-api/internal/config"
	"coinhealth-api/internal/errs"
)

// Auth issues admin tokens. Verification of incoming tokens is handled by the
// JWT middleware on the admin route group, which shares the same secret.
type Auth struct {
	password string
	secret   string
	expiry   time.Duration
	now      func() time.Time
}

// NewAuth builds the admin auth service from configuration.
func NewAuth(c *config.Config) *Auth {
	return &Auth{
		password: c.Admin.Password,
		secret:   c.Admin.JwtSecret,
		expiry:   time.Duration(c.Admin.JwtExpirySeconds) * time.Second,
		now:      time.Now,
	}
}

// Login checks the admin password and returns a signed HS256 token.
func (a *Auth) Login(password string) (string, error) {
	if a.password == "" {
		return "", errors.New("auth: admin password is not configured")
	}
	if a.secret == "" {
		return "", errors.New("auth: jwt secret is not configured")
	}
	if password != a.password {
		return "", errs.Unauthorized("invalid admin password")
	}

	now := a.now()
	claims := jwt.MapClaims{
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(a.expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(a.secret))
	if err != nil {
		return "", err
	}
	return signed, nil
}
