package books

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tuannvm/gobooks/internal/client"
	"github.com/tuannvm/gobooks/internal/config"
	"github.com/tuannvm/gobooks/internal/logger"
	"github.com/tuannvm/gobooks/internal/metrics"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 8 << 20

// Service searches the Google Books volumes endpoint.
type Service struct {
	client     *client.Client
	apiKey     string
	maxResults int
}

// NewService creates a volume search service from cfg.
func NewService(cfg *config.Config, opts ...client.Option) *Service {
	opts = append([]client.Option{
		client.WithTimeout(cfg.Timeout),
		client.WithLogger(logrus.WithField("component", "books")),
	}, opts...)
	return &Service{
		client:     client.New(cfg.BaseURL, opts...),
		apiKey:     cfg.APIKey,
		maxResults: cfg.MaxResults,
	}
}

// BuildURL returns the volume-search URL for query. It never fails: the query
// and key are percent-encoded, whatever they contain.
//
//	{base}/volumes?q=...&printType=books&orderBy=relevance&maxResults=N&key=...
func BuildURL(baseURL, query string, maxResults int, key string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSuffix(baseURL, "/"))
	b.WriteString("/volumes?q=")
	b.WriteString(url.QueryEscape(query))
	b.WriteString("&printType=books&orderBy=relevance&maxResults=")
	b.WriteString(strconv.Itoa(maxResults))
	b.WriteString("&key=")
	b.WriteString(url.QueryEscape(key))
	return b.String()
}

// volumesResponse is the subset of the API payload that is decoded.
type volumesResponse struct {
	Items      []Volume  `json:"items"`
	TotalItems int       `json:"totalItems"`
	Error      *apiFault `json:"error"`
}

type apiFault struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Search runs one search for query with the configured page size.
func (s *Service) Search(ctx context.Context, query string) (*Page, error) {
	return s.SearchLimit(ctx, query, s.maxResults)
}

// SearchLimit runs one search for query returning at most limit items.
// Every failure is returned as *Error.
func (s *Service) SearchLimit(ctx context.Context, query string, limit int) (page *Page, err error) {
	if _, ok := ctx.Value(logger.RequestIDKey).(string); !ok {
		ctx = logger.WithNewID(ctx)
	}
	log := logger.For(ctx).WithField("query", query)
	defer logger.Track(ctx, "volume search")()

	start := time.Now()
	defer func() {
		metrics.SearchDuration.Observe(time.Since(start).Seconds())
		outcome := "ok"
		var e *Error
		if errors.As(err, &e) {
			outcome = e.Kind.String()
			log.WithField("kind", outcome).Warn(e.Message)
		}
		metrics.SearchRequestsTotal.WithLabelValues(outcome).Inc()
	}()

	endpoint := BuildURL(s.client.BaseURL(), query, limit, s.apiKey)
	resp, err := s.client.GetURL(ctx, endpoint, nil)
	if err != nil {
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, networkError(fmt.Errorf("read body: %w", err))
	}

	decoded, err := decodeVolumes(body)
	if err != nil {
		return nil, malformedError(err)
	}
	if decoded.Error != nil {
		return nil, apiError(decoded.Error.Code, decoded.Error.Message)
	}

	page = &Page{Items: decoded.Items, Total: decoded.TotalItems}
	if page.Items == nil {
		page.Items = []Volume{}
	}
	log.WithFields(logrus.Fields{"items": len(page.Items), "total": page.Total}).Debug("volume search succeeded")
	return page, nil
}

func decodeVolumes(body []byte) (*volumesResponse, error) {
	if err := validateVolumes(body); err != nil {
		return nil, err
	}
	var r volumesResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &r, nil
}
