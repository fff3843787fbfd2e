// Package client is a Go client for the mdview HTTP API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/starford/mdview/internal/checksum"
	"github.com/starford/mdview/internal/parser"
	"github.com/starford/mdview/internal/storage"
	"github.com/starford/mdview/pkg/models"
)

// ErrNotFound is matched by errors returned for 404 responses.
var ErrNotFound = errors.New("client: not found")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Code)
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// Unwrap maps 404 onto ErrNotFound.
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// Config holds client configuration.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	MaxAttempts int           // attempts for network errors and 5xx responses
	RetryWait   time.Duration // wait between attempts, doubled each time
}

// Client talks to an mdview server.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	maxAttempts int
	retryWait   time.Duration
}

// New creates a new client.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryWait == 0 {
		cfg.RetryWait = 200 * time.Millisecond
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		maxAttempts: cfg.MaxAttempts,
		retryWait:   cfg.RetryWait,
	}
}

// Ping checks that the server is alive.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, "/health/live")
	return err
}

// FetchTree fetches the document tree, with metadata when detailed is set.
func (c *Client) FetchTree(ctx context.Context, detailed bool) ([]models.Entry, error) {
	target := "/api/files"
	if detailed {
		target += "?detailed=true"
	}
	var entries []models.Entry
	if err := c.getJSON(ctx, target, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// FetchDetails fetches the detailed view of one directory. An empty path
// means the root; depth 0 means unlimited.
func (c *Client) FetchDetails(ctx context.Context, path string, depth int) (*models.Entry, error) {
	q := url.Values{}
	q.Set("path", path)
	q.Set("depth", strconv.Itoa(depth))

	var entry models.Entry
	if err := c.getJSON(ctx, "/api/directory-details?"+q.Encode(), &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// FetchRaw fetches the unparsed text of a document.
func (c *Client) FetchRaw(ctx context.Context, path string) ([]byte, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.get(ctx, "/api/content"+escapePath(path))
}

// FetchDocument fetches a document's raw text and splits its front matter
// locally. The leading slash of path is optional.
func (c *Client) FetchDocument(ctx context.Context, path string) (*models.Document, error) {
	data, err := c.FetchRaw(ctx, path)
	if err != nil {
		return nil, err
	}
	res := parser.Parse(data)
	return &models.Document{
		Path:     storage.NormalizePath(path),
		Body:     res.Body,
		Metadata: res.Frontmatter,
		Title:    res.Title,
		Headings: res.Headings,
		Checksum: checksum.Sum(data),
	}, nil
}

func (c *Client) getJSON(ctx context.Context, target string, v any) error {
	data, err := c.get(ctx, target)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", target, err)
	}
	return nil
}

// get performs a GET, retrying network errors and 5xx responses.
func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	wait := c.retryWait
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		data, err := c.getOnce(ctx, target)
		if err == nil {
			return data, nil
		}
		lastErr = err

		var se *StatusError
		if errors.As(err, &se) && se.Code < http.StatusInternalServerError {
			return nil, err
		}
		if attempt == c.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
	return nil, lastErr
}

func (c *Client) getOnce(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Code: resp.StatusCode}
		var body struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &body) == nil {
			se.Message = body.Error
		}
		return nil, se
	}
	return data, nil
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}
