// Package client is the typed query layer the back-office application
// consumes its data through. It is agnostic to whether responses come from
// the interception server or a real backend: the difference is only which
// http.Client it is given.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/storeops/backoffice-mock/fixtures"
	"github.com/storeops/backoffice-mock/framework"
	"github.com/storeops/backoffice-mock/framework/helpers"
	"github.com/storeops/backoffice-mock/interceptor"
	"github.com/storeops/backoffice-mock/mockapi"
)

// MockAPIEnvVar enables mock interception in the development runtime when
// set to "1" or "true". Tests do not use it; they wire an interception
// server explicitly.
const MockAPIEnvVar = "BACKOFFICE_MOCK_API"

// placeholder host used when the mock transport answers everything anyway
const mockedBaseURL = "http://backoffice.invalid"

// APIError is a non-2xx response surfaced to the view layer, which renders
// it as an error state. There is no retry or backoff at this level.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

// Client issues typed queries against the back-office API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     framework.Logger
}

// ClientOption is a configuration option for New.
type ClientOption helpers.ConfigOption[Client]

type clientOptionHTTPClient struct {
	httpClient *http.Client
}

func (o clientOptionHTTPClient) Configure(c *Client) error {
	c.httpClient = o.httpClient
	return nil
}

// WithHTTPClient injects the transport, normally either a plain client for a
// real backend or interceptor.Server.Client().
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return clientOptionHTTPClient{httpClient}
}

type clientOptionLogger struct {
	logger framework.Logger
}

func (o clientOptionLogger) Configure(c *Client) error {
	c.logger = o.logger
	return nil
}

// WithLogger sets the debug logger. The default discards output.
func WithLogger(logger framework.Logger) ClientOption {
	return clientOptionLogger{logger}
}

// New creates a Client for the given base URL.
func New(baseURL string, options ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		logger:     framework.NullLogger(),
	}
	_ = helpers.ApplyOptions(c, options...)
	return c
}

// NewFromEnv creates a Client for the development runtime. With MockAPIEnvVar
// set, it stands up an interception server over the default fixtures and
// routes all queries through it; otherwise it talks to baseURL over the
// network.
func NewFromEnv(baseURL string, options ...ClientOption) *Client {
	if !mockEnabled() {
		return New(baseURL, options...)
	}
	server := interceptor.NewServer()
	mockapi.MountAll(server, fixtures.Default())
	server.Listen()
	if baseURL == "" {
		baseURL = mockedBaseURL
	}
	return New(baseURL, append([]ClientOption{WithHTTPClient(server.Client())}, options...)...)
}

func mockEnabled() bool {
	v := os.Getenv(MockAPIEnvVar)
	return v == "1" || strings.EqualFold(v, "true")
}

func (c *Client) get(ctx context.Context, path string, query url.Values, target interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return err
	}
	return c.do(req, target)
}

func (c *Client) post(ctx context.Context, path string, payload, target interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, target)
}

func (c *Client) do(req *http.Request, target interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	c.logger.Printf("%s %s -> %d", req.Method, req.URL.Path, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &envelope) == nil {
			apiErr.Message = envelope.Error
		}
		return apiErr
	}
	if target == nil {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to parse response from %s: %w", req.URL.Path, err)
	}
	return nil
}
