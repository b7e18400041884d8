package neocities

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/hammamikhairi/recipebook/internal/logger"
)

// DefaultEndpoint is the public neocities API host.
const DefaultEndpoint = "https://neocities.org"

// APIError is an error response from the neocities API.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("neocities: %s: %s (status %d)", e.Type, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("neocities: %s (status %d)", e.Message, e.StatusCode)
}

// RemoteFile is one entry of a list response.
type RemoteFile struct {
	Path        string `json:"path"`
	IsDirectory bool   `json:"is_directory"`
	Size        int64  `json:"size"`
	UpdatedAt   string `json:"updated_at"`
	SHA1        string `json:"sha1_hash"`
}

// ModTime parses UpdatedAt. Unparseable values yield the zero time, which
// makes the file look older than any local copy.
func (f RemoteFile) ModTime() time.Time {
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC3339} {
		if t, err := time.Parse(layout, f.UpdatedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}

type apiResponse struct {
	Result    string       `json:"result"`
	ErrorType string       `json:"error_type"`
	Message   string       `json:"message"`
	Files     []RemoteFile `json:"files"`
}

// Client talks to the neocities API with an API key.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker
	log      *logger.Logger
}

// NewClient creates an API client. An empty endpoint uses DefaultEndpoint.
func NewClient(endpoint, apiKey string, timeout time.Duration, log *logger.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "neocities",
		Timeout: time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker %q: %s -> %s", name, from, to)
		},
		IsSuccessful: func(err error) bool {
			// API-level rejections mean the service is up.
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.StatusCode < 500
			}
			return err == nil
		},
	})
	return c
}

// List returns the files under dir. An empty dir lists the whole site.
func (c *Client) List(ctx context.Context, dir string) ([]RemoteFile, error) {
	u := c.endpoint + "/api/list"
	if dir != "" {
		u += "?path=" + url.QueryEscape(dir)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building list request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("listing %q: %w", dir, err)
	}
	return resp.Files, nil
}

// Upload sends the local file to remotePath.
func (c *Client) Upload(ctx context.Context, remotePath, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", localPath, err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(remotePath, remotePath)
	if err != nil {
		return fmt.Errorf("building upload: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("reading %s: %w", localPath, err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("building upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/upload", &body)
	if err != nil {
		return fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	if _, err := c.do(req); err != nil {
		return fmt.Errorf("uploading %s: %w", remotePath, err)
	}
	return nil
}

// Delete removes remote files.
func (c *Client) Delete(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	form := url.Values{}
	for _, p := range paths {
		form.Add("filenames[]", p)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/delete", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building delete request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if _, err := c.do(req); err != nil {
		return fmt.Errorf("deleting %d files: %w", len(paths), err)
	}
	return nil
}

func (c *Client) do(req *http.Request) (*apiResponse, error) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	c.log.Debug("%s %s", req.Method, req.URL.Path)

	out, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		var body apiResponse
		if err := json.NewDecoder(io.LimitReader(resp.Body, 16<<20)).Decode(&body); err != nil {
			if resp.StatusCode >= 300 {
				return nil, &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
			}
			return nil, fmt.Errorf("decoding response: %w", err)
		}
		if resp.StatusCode >= 300 || body.Result != "success" {
			return nil, &APIError{StatusCode: resp.StatusCode, Type: body.ErrorType, Message: body.Message}
		}
		return &body, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(*apiResponse), nil
}
