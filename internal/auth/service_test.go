package auth

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannvm/gobooks/internal/config"
	"github.com/tuannvm/gobooks/internal/services/books"
)

type stubVerifier struct {
	err   error
	calls int
	limit int
}

func (s *stubVerifier) SearchLimit(_ context.Context, _ string, limit int) (*books.Page, error) {
	s.calls++
	s.limit = limit
	if s.err != nil {
		return nil, s.err
	}
	return &books.Page{Items: []books.Volume{{}}, Total: 1}, nil
}

func newConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GOBOOKS_API_KEY", "")
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "gobooks", "config.yaml"))
	require.NoError(t, err)
	return cfg
}

func TestLoginStoresKey(t *testing.T) {
	cfg := newConfig(t)
	svc := NewService(cfg)
	assert.False(t, svc.IsAuthenticated())

	v := &stubVerifier{}
	require.NoError(t, svc.Login(context.Background(), "  abc123 ", v))
	assert.Equal(t, 1, v.calls)
	assert.Equal(t, 1, v.limit)

	key, err := svc.APIKey()
	require.NoError(t, err)
	assert.Equal(t, "abc123", key)

	reloaded, err := config.LoadFrom(cfg.Path())
	require.NoError(t, err)
	assert.Equal(t, "abc123", reloaded.APIKey)
}

func TestLoginRejectsEmptyKey(t *testing.T) {
	svc := NewService(newConfig(t))
	assert.ErrorIs(t, svc.Login(context.Background(), "   ", nil), ErrInvalidKey)
}

func TestLoginRejectedByAPI(t *testing.T) {
	cfg := newConfig(t)
	svc := NewService(cfg)

	v := &stubVerifier{err: &books.Error{Kind: books.HTTPStatusFailure, StatusCode: 400, Message: "search failed: HTTP 400"}}
	err := svc.Login(context.Background(), "bad", v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key rejected")
	assert.False(t, svc.IsAuthenticated())
}

func TestLogout(t *testing.T) {
	cfg := newConfig(t)
	svc := NewService(cfg)
	require.NoError(t, svc.Login(context.Background(), "abc123", nil))

	require.NoError(t, svc.Logout())
	_, err := svc.APIKey()
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
