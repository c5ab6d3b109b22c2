package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/tuannvm/gobooks/internal/config"
	"github.com/tuannvm/gobooks/internal/services/books"
)

// Verifier runs a search to prove an API key is accepted.
type Verifier interface {
	SearchLimit(ctx context.Context, query string, limit int) (*books.Page, error)
}

// Service manages the Google Books API key stored in the config file.
type Service struct {
	config *config.Config
}

// NewService creates a new credential service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// Login stores apiKey. When verifier is not nil the key is first checked
// with a one-result search.
func (s *Service) Login(ctx context.Context, apiKey string, verifier Verifier) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return ErrInvalidKey
	}

	if verifier != nil {
		if _, err := verifier.SearchLimit(ctx, s.config.DefaultQuery, 1); err != nil {
			var e *books.Error
			if errors.As(err, &e) && e.Kind == books.NetworkFailure {
				return err
			}
			return &AuthError{message: "api key rejected: " + err.Error()}
		}
	}

	return s.config.SaveAPIKey(apiKey)
}

// APIKey returns the key in effect, from the environment or the config file.
func (s *Service) APIKey() (string, error) {
	if s.config.APIKey == "" {
		return "", ErrNotAuthenticated
	}
	return s.config.APIKey, nil
}

// IsAuthenticated checks if an API key is configured
func (s *Service) IsAuthenticated() bool {
	_, err := s.APIKey()
	return err == nil
}

// Logout removes the stored API key
func (s *Service) Logout() error {
	return s.config.SaveAPIKey("")
}

// Errors
var (
	ErrNotAuthenticated = NewAuthError("no Google Books API key configured")
	ErrInvalidKey       = NewAuthError("api key must not be empty")
)

type AuthError struct {
	message string
}

func NewAuthError(message string) *AuthError {
	return &AuthError{message: message}
}

func (e *AuthError) Error() string {
	return e.message
}
