// internal/app/auth.go
package app

import (
	"errors"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/quizdrop/internal/models"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Auth checks the admin login against one configured pair. The token it
// hands out is fixed and nothing verifies it later.
type Auth struct {
	username string
	password string
	token    string
}

func NewAuth(config *Config) *Auth {
	return &Auth{
		username: config.Admin.Username,
		password: config.Admin.Password,
		token:    config.Admin.Token,
	}
}

func (a *Auth) Login(creds models.Credentials) (string, error) {
	if creds.Username != a.username || creds.Password != a.password {
		logger.Debug.Printf("Login mismatch for username %v", creds.Username)
		return "", ErrInvalidCredentials
	}
	return a.token, nil
}
