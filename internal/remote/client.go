package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	json "github.com/go-json-experiment/json"

	apperrors "github.com/moodmarkapp/moodmark-sync/internal/errors"
	"github.com/moodmarkapp/moodmark-sync/internal/ratelimit"
	"github.com/moodmarkapp/moodmark-sync/internal/wire"
)

const (
	defaultRPS     = 5.0
	defaultBurst   = 10
	defaultTimeout = 30 * time.Second
)

// ClientConfig configures the HTTP remote store client.
type ClientConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	RPS     float64
	Burst   int
}

// Client is a rate-limited HTTP client for the remote store API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
}

// NewClient creates a remote store client. Zero config values fall back to
// defaults.
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := cfg.RPS
	if rps <= 0 {
		rps = defaultRPS
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}

	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
		limiter: ratelimit.New(rps, burst),
		logger:  logger,
	}
}

// UpsertBook writes a book row, replacing any existing row with the same ID.
func (c *Client) UpsertBook(ctx context.Context, book wire.Book) error {
	_, err := c.doRequest(ctx, http.MethodPut, "/v1/books/"+url.PathEscape(book.ID), nil, book)
	return err
}

// ListBooks returns every book row belonging to the owner.
func (c *Client) ListBooks(ctx context.Context, ownerID string) ([]wire.Book, error) {
	query := url.Values{"owner_id": {ownerID}}
	body, err := c.doRequest(ctx, http.MethodGet, "/v1/books", query, nil)
	if err != nil {
		return nil, err
	}

	var books []wire.Book
	if err := json.Unmarshal(body, &books); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "decode books response")
	}
	return books, nil
}

// DeleteBook removes a book row. Absent rows are treated as already deleted.
func (c *Client) DeleteBook(ctx context.Context, id string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/v1/books/"+url.PathEscape(id), nil, nil)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	return err
}

// UpsertCollage writes a collage row, replacing any existing row with the same ID.
func (c *Client) UpsertCollage(ctx context.Context, collage wire.Collage) error {
	_, err := c.doRequest(ctx, http.MethodPut, "/v1/collages/"+url.PathEscape(collage.ID), nil, collage)
	return err
}

// ListCollages returns every collage row belonging to the owner.
func (c *Client) ListCollages(ctx context.Context, ownerID string) ([]wire.Collage, error) {
	query := url.Values{"owner_id": {ownerID}}
	body, err := c.doRequest(ctx, http.MethodGet, "/v1/collages", query, nil)
	if err != nil {
		return nil, err
	}

	var collages []wire.Collage
	if err := json.Unmarshal(body, &collages); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "decode collages response")
	}
	return collages, nil
}

// DeleteCollage removes a collage row. Absent rows are treated as already deleted.
func (c *Client) DeleteCollage(ctx context.Context, id string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/v1/collages/"+url.PathEscape(id), nil, nil)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	return err
}

// doRequest executes a rate-limited HTTP request and maps the response status
// to a domain error.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	if err := c.limiter.Wait(ctx, c.baseURL); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("remote request", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		// Connection refused, DNS failure, timeout: the remote is unreachable,
		// not broken. Callers defer and retry on the next pass.
		return nil, apperrors.ErrUnavailable.WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.ErrUnavailable.WithCause(err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperrors.NotFound("remote record not found")
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, apperrors.ErrUnauthorized
	case resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, apperrors.Validationf("remote rejected request: %s", string(body))
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, apperrors.Unavailable("remote rate limit exceeded")
	case resp.StatusCode >= 500:
		return nil, apperrors.Unavailable(fmt.Sprintf("remote returned %d", resp.StatusCode))
	default:
		return nil, apperrors.Internal(fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)))
	}
}
