// Package fileflow is a thin client for the FileFlow backend REST API.
package fileflow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kudzaitsapo/fileflow-web/internal/constants"
	"github.com/kudzaitsapo/fileflow-web/internal/logging"
)

// Client talks to the FileFlow backend on behalf of one signed-in user.
type Client struct {
	URL        string
	parsedURL  *url.URL
	token      string
	requestID  string
	captureDir string
	httpClient *http.Client
}

// resolveURL builds a full URL from the base API URL and the given path segments.
// If the last segment contains a query string (e.g. "projects?limit=10"), it is
// split so JoinPath only receives the path portion and the query is appended.
func (c *Client) resolveURL(pathSegments ...string) string {
	if len(pathSegments) == 0 {
		return c.parsedURL.String()
	}
	last := pathSegments[len(pathSegments)-1]
	if pathPart, query, ok := strings.Cut(last, "?"); ok {
		pathSegments[len(pathSegments)-1] = pathPart
		result := c.parsedURL.JoinPath(pathSegments...)
		result.RawQuery = query
		return result.String()
	}
	return c.parsedURL.JoinPath(pathSegments...).String()
}

func newClient(rawURL string) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(rawURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid FileFlow URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid FileFlow URL %q: scheme and host are required", rawURL)
	}
	return &Client{
		URL:        parsed.String(),
		parsedURL:  parsed,
		httpClient: &http.Client{Timeout: constants.DefaultBackendTimeout},
	}, nil
}

// NewFromToken creates a client that authenticates with an existing access token.
func NewFromToken(rawURL, token string) (*Client, error) {
	c, err := newClient(rawURL)
	if err != nil {
		return nil, err
	}
	c.token = token
	return c, nil
}

// Token returns the client's access token.
func (c *Client) Token() string {
	return c.token
}

// SetTimeout changes the per-request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.httpClient.Timeout = d
	}
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(hc *http.Client) {
	if hc != nil {
		c.httpClient = hc
	}
}

// SetRequestID forwards id as X-Request-ID on every backend call.
func (c *Client) SetRequestID(id string) {
	c.requestID = id
}

// SetCaptureDir enables API response capturing to the specified directory.
// Pass an empty string to disable capturing.
func (c *Client) SetCaptureDir(dir string) error {
	if dir == "" {
		c.captureDir = ""
		return nil
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("could not create capture directory: %w", err)
	}
	c.captureDir = dir
	return nil
}

// captureResponse saves the API response body to a file if capturing is enabled.
func (c *Client) captureResponse(endpoint string, body []byte) {
	if c.captureDir == "" {
		return
	}

	name, _, _ := strings.Cut(endpoint, "?")
	name = strings.TrimPrefix(strings.ReplaceAll(name, "/", "_"), "_")
	name = fmt.Sprintf("%s_%s.json", name, time.Now().Format("20060102_150405"))
	path := filepath.Join(c.captureDir, name)

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err == nil {
		body = pretty.Bytes()
	}

	if err := os.WriteFile(path, body, 0600); err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("failed to capture backend response")
	}
}
