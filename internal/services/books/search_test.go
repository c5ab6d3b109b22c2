package books

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannvm/gobooks/internal/client"
	"github.com/tuannvm/gobooks/internal/config"
)

func newTestService(t *testing.T, h http.HandlerFunc) (*Service, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := &config.Config{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		MaxResults: 12,
		Timeout:    5 * time.Second,
	}
	return NewService(cfg, client.WithHTTPClient(srv.Client())), srv
}

func TestBuildURL(t *testing.T) {
	got := BuildURL("https://www.googleapis.com/books/v1/", "go & rust/c++", 12, "k")
	assert.Equal(t,
		"https://www.googleapis.com/books/v1/volumes?q=go+%26+rust%2Fc%2B%2B&printType=books&orderBy=relevance&maxResults=12&key=k",
		got)

	u, err := url.Parse(got)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "go & rust/c++", q.Get("q"))
	assert.Equal(t, "books", q.Get("printType"))
	assert.Equal(t, "relevance", q.Get("orderBy"))
	assert.Equal(t, "12", q.Get("maxResults"))
	assert.Equal(t, "k", q.Get("key"))
}

func TestBuildURLEmptyKey(t *testing.T) {
	got := BuildURL("http://example.test", "top books", 10, "")
	assert.Equal(t, "http://example.test/volumes?q=top+books&printType=books&orderBy=relevance&maxResults=10&key=", got)
}

func TestSearchSuccess(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes", r.URL.Path)
		assert.Equal(t, "dune", r.URL.Query().Get("q"))
		assert.Equal(t, "12", r.URL.Query().Get("maxResults"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"kind":"books#volumes","totalItems":37,"items":[
			{"id":"a","volumeInfo":{"title":"Dune","authors":["Frank Herbert"],"pageCount":412,"publishedDate":"1965-08-01"}},
			{"id":"b","volumeInfo":{}}
		]}`))
	})

	page, err := svc.Search(context.Background(), "dune")
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 37, page.Total)
	assert.Equal(t, "Dune", page.Items[0].DisplayTitle())
	assert.Equal(t, UnknownTitle, page.Items[1].DisplayTitle())
}

func TestSearchMissingItems(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"kind":"books#volumes"}`))
	})

	page, err := svc.Search(context.Background(), "zzzz")
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.Total)
}

func TestSearchNullFieldsAreAbsent(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		items int
		total int
	}{
		{"null items", `{"items":null,"totalItems":0}`, 0, 0},
		{"null total", `{"totalItems":null}`, 0, 0},
		{"null error", `{"totalItems":1,"items":[{"id":"x"}],"error":null}`, 1, 1},
		{"null authors", `{"totalItems":1,"items":[{"volumeInfo":{"authors":null,"title":"X"}}]}`, 1, 1},
		{"null nested objects", `{"totalItems":1,"items":[{"id":null,"volumeInfo":{"imageLinks":null,"pageCount":null},"searchInfo":null}]}`, 1, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			})

			page, err := svc.Search(context.Background(), "x")
			require.NoError(t, err)
			assert.NotNil(t, page.Items)
			assert.Len(t, page.Items, tc.items)
			assert.Equal(t, tc.total, page.Total)
		})
	}
}

func TestSearchNullAuthorsUseDefaults(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalItems":1,"items":[{"volumeInfo":{"authors":null,"title":"X","imageLinks":null}}]}`))
	})

	page, err := svc.Search(context.Background(), "x")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	v := page.Items[0]
	assert.Equal(t, "X", v.DisplayTitle())
	assert.Equal(t, []string{UnknownAuthor}, v.DisplayAuthors())
	assert.Empty(t, v.Thumbnail())
}

func TestSearchAPIReportedError(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded"}}`))
	})

	_, err := svc.Search(context.Background(), "dune")
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, APIReportedFailure, e.Kind)
	assert.Equal(t, "quota exceeded", e.Error())
}

func TestSearchHTTPStatus(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"should not be read"}}`))
	})

	_, err := svc.Search(context.Background(), "dune")
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, HTTPStatusFailure, e.Kind)
	assert.Equal(t, 500, e.StatusCode)
	assert.Contains(t, e.Error(), "500")
	assert.NotContains(t, e.Error(), "should not be read")
}

func TestSearchMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"empty body", ``},
		{"wrong items type", `{"items":"nope"}`},
		{"wrong total type", `{"totalItems":"many"}`},
		{"wrong page count", `{"items":[{"volumeInfo":{"pageCount":"lots"}}]}`},
		{"array root", `[]`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := svc.Search(context.Background(), "dune")
			var e *Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, MalformedResponseFailure, e.Kind)
		})
	}
}

func TestSearchNetworkFailure(t *testing.T) {
	svc, srv := newTestService(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := svc.Search(context.Background(), "dune")
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, NetworkFailure, e.Kind)
	assert.NotNil(t, errors.Unwrap(e))
}
