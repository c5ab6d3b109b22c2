package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tuannvm/gobooks/internal/services/books"
)

const volumesBody = `{"totalItems":37,"items":[
	{"id":"1","volumeInfo":{"title":"Dune","authors":["Frank Herbert"],"publishedDate":"1965","pageCount":412}},
	{"id":"2","volumeInfo":{"title":"Emma"}}
]}`

// setupEnv points config and the API base URL at temporary locations.
func setupEnv(t *testing.T, h http.HandlerFunc) string {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("GOBOOKS_BASE_URL", srv.URL)
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GOBOOKS_API_KEY", "")
	return filepath.Join(dir, "gobooks", "config.yaml")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSearchJSON(t *testing.T) {
	var gotQuery, gotLimit string
	setupEnv(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotLimit = r.URL.Query().Get("maxResults")
		_, _ = w.Write([]byte(volumesBody))
	})

	out, err := execute(t, "search", "--format", "json", "--limit", "5", "dune", "messiah")
	require.NoError(t, err)

	var page books.Page
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, 37, page.Total)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, "dune messiah", gotQuery)
	assert.Equal(t, "5", gotLimit)
}

func TestSearchYAMLUsesDefaultQuery(t *testing.T) {
	var gotQuery, gotLimit string
	setupEnv(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotLimit = r.URL.Query().Get("maxResults")
		_, _ = w.Write([]byte(volumesBody))
	})

	out, err := execute(t, "search", "-f", "yaml")
	require.NoError(t, err)

	var page books.Page
	require.NoError(t, yaml.Unmarshal([]byte(out), &page))
	assert.Equal(t, 37, page.Total)
	assert.Equal(t, "Dune", page.Items[0].VolumeInfo.Title)
	assert.Equal(t, "top books", gotQuery)
	assert.Equal(t, "12", gotLimit)
}

func TestSearchCards(t *testing.T) {
	setupEnv(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(volumesBody))
	})

	out, err := execute(t, "search", "dune")
	require.NoError(t, err)
	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, "By Frank Herbert")
	assert.Contains(t, out, "By Unknown Author")
	assert.Contains(t, out, `Showing 2 of 37 results for "dune"`)
}

func TestSearchEmpty(t *testing.T) {
	setupEnv(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalItems":0}`))
	})

	out, err := execute(t, "search", "zzqx")
	require.NoError(t, err)
	assert.Contains(t, out, "No books found")
}

func TestSearchFailure(t *testing.T) {
	setupEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := execute(t, "search", "dune")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 403")
}

func TestSearchRejectsBadFlags(t *testing.T) {
	calls := 0
	setupEnv(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(volumesBody))
	})

	_, err := execute(t, "search", "--format", "xml", "dune")
	assert.ErrorContains(t, err, "unknown format")

	_, err = execute(t, "search", "--limit", "100", "dune")
	assert.ErrorContains(t, err, "--limit")
	assert.Zero(t, calls, "invalid flags are rejected before any request")
}

func TestLoginAndLogout(t *testing.T) {
	var gotKey string
	path := setupEnv(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		_, _ = w.Write([]byte(volumesBody))
	})

	out, err := execute(t, "login", "my-key")
	require.NoError(t, err)
	assert.Contains(t, out, "API key saved")
	assert.Equal(t, "my-key", gotKey)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "my-key"))

	_, err = execute(t, "logout")
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "my-key")
}

func TestLoginRejectedKeyIsNotSaved(t *testing.T) {
	path := setupEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := execute(t, "login", "bad-key")
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
