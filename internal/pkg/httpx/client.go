package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"ecommerce-platform/internal/pkg/apperr"
)

// Client is a thin JSON-over-HTTP client for peer service calls. Every
// request propagates the caller's request id and W3C trace context.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client rooted at baseURL. The 5 second timeout matches
// the budget given to peer calls throughout the platform; the core carries
// no timeout policy of its own.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout:   5 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Patch issues a PATCH with a JSON body and decodes the response into out.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE. out may be nil.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		req.Header.Set("X-Request-Id", reqID)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.KindDependencyUnavailable, err, "%s %s", method, path)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return errorFromResponse(res, method, path)
	}

	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return apperr.Wrap(apperr.KindDependencyUnavailable, err, "decode response from %s %s", method, path)
	}
	return nil
}

// errorFromResponse reconstructs an apperr from a peer's error payload so
// the taxonomy survives one hop of proxying.
func errorFromResponse(res *http.Response, method, path string) error {
	var payload ErrorResponse
	_ = json.NewDecoder(res.Body).Decode(&payload)
	msg := payload.Message
	if msg == "" {
		msg = payload.Error
	}
	if msg == "" {
		msg = fmt.Sprintf("%s %s: status %d", method, path, res.StatusCode)
	}

	switch res.StatusCode {
	case http.StatusBadRequest:
		return apperr.Validation(msg, payload.Details...)
	case http.StatusUnauthorized:
		return apperr.New(apperr.KindUnauthenticated, "%s", msg)
	case http.StatusForbidden:
		return apperr.New(apperr.KindUnauthorized, "%s", msg)
	case http.StatusNotFound:
		return apperr.New(apperr.KindNotFound, "%s", msg)
	case http.StatusConflict:
		return apperr.New(apperr.KindConflict, "%s", msg)
	case http.StatusPaymentRequired:
		return apperr.New(apperr.KindPaymentDeclined, "%s", msg)
	default:
		return apperr.New(apperr.KindDependencyUnavailable, "%s %s: status %d: %s", method, path, res.StatusCode, msg)
	}
}
