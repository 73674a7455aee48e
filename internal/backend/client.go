// Package backend is the typed client of the remote storefront API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const DefaultTimeout = 10 * time.Second

// ErrUnavailable is wrapped into errors for calls that got no usable answer.
var ErrUnavailable = errors.New("backend unavailable")

type Client struct {
	baseURL    string
	httpClient *http.Client
	origin     string
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithOrigin sets the Origin header sent on order creation; the backend
// builds the payment return URL from it.
func WithOrigin(origin string) Option {
	return func(c *Client) {
		c.origin = origin
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient talks to the API under baseURL + "/api". Outbound requests are
// traced through otelhttp.
func NewClient(baseURL string, opts ...Option) *Client {
	base := strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	c := &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type request struct {
	method   string
	path     string
	endpoint string
	query    url.Values
	body     any
	token    string
	header   http.Header
	raw      io.Reader
	rawType  string
}

// do performs the call and decodes a 2xx JSON body into out when out is
// not nil. Failures come back as AppErrors.
func (c *Client) do(ctx context.Context, req request, out any) error {
	u := c.baseURL + "/api/" + strings.TrimLeft(req.path, "/")
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	contentType := ""

	switch {
	case req.raw != nil:
		body = req.raw
		contentType = req.rawType
	case req.body != nil:
		payload, err := json.Marshal(req.body)
		if err != nil {
			return appErrors.InternalError("Failed to encode request").WithError(err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return appErrors.InternalError("Failed to build request").WithError(err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}
	for k, vs := range req.header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	endpoint := req.endpoint
	if endpoint == "" {
		endpoint = req.path
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		metrics.ObserveBackendRequest(req.method, endpoint, 0, time.Since(start))
		c.logger.Warn("Backend request failed",
			slog.String("method", req.method),
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
		)
		return appErrors.ThirdPartyError("Backend unavailable").WithError(fmt.Errorf("%w: %w", ErrUnavailable, err)).WithDetail(req.method + " " + endpoint)
	}
	defer resp.Body.Close()

	metrics.ObserveBackendRequest(req.method, endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(resp, req.method, endpoint)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return appErrors.ThirdPartyError("Malformed backend response").WithError(fmt.Errorf("%w: decode response: %w", ErrUnavailable, err)).WithDetail(req.method + " " + endpoint)
	}

	return nil
}

// backendError is the FastAPI style error body, {"detail": "..."}.
type backendError struct {
	Detail json.RawMessage `json:"detail"`
}

func (c *Client) statusError(resp *http.Response, method, endpoint string) error {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	detail := ""
	var be backendError
	if json.Unmarshal(payload, &be) == nil && len(be.Detail) > 0 {
		var s string
		if json.Unmarshal(be.Detail, &s) == nil {
			detail = s
		} else {
			detail = string(be.Detail)
		}
	}

	c.logger.Warn("Backend returned an error",
		slog.String("method", method),
		slog.String("endpoint", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.String("detail", detail),
	)

	cause := fmt.Errorf("unexpected status: %d", resp.StatusCode)

	var appErr *appErrors.AppError
	switch resp.StatusCode {
	case http.StatusNotFound:
		appErr = appErrors.NotFoundError("Resource not found")
	case http.StatusUnauthorized:
		appErr = appErrors.UnauthorizedError("Authentication required")
	case http.StatusForbidden:
		appErr = appErrors.ForbiddenError("Access denied")
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		appErr = appErrors.ValidationError("Request rejected by backend")
	case http.StatusConflict:
		appErr = appErrors.ConflictError("Conflicting resource")
	case http.StatusTooManyRequests:
		appErr = appErrors.TooManyRequestsError("Too many requests")
	default:
		appErr = appErrors.ThirdPartyError("Backend error")
	}

	appErr = appErr.WithError(cause)
	if detail != "" {
		appErr = appErr.WithDetail(detail)
	}

	return appErr
}

// IsNotFound reports whether err is the backend answering 404.
func IsNotFound(err error) bool {
	return appErrors.HasCode(err, appErrors.ErrCodeNotFound)
}

// IsUnavailable reports a transport or decoding failure, as opposed to an
// answer from the backend.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
