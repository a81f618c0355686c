package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// APIError is a non-2xx backend response.
type APIError struct {
	// Status is the HTTP status code.
	Status int
	// Message is the body's "message" field, when present.
	Message string
	// Body is the raw response body.
	Body []byte
}

// Error implements error.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// Message returns the backend message carried by err, or fallback.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// API issues JSON requests against the backend REST API.
type API struct {
	baseURL string
	client  *http.Client
}

// NewAPI creates an API rooted at baseURL.
func NewAPI(baseURL string, client *http.Client) *API {
	return &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Request describes one backend call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is encoded as JSON when non-nil.
	Body interface{}
	// Cookies are forwarded to the backend.
	Cookies []*http.Cookie
}

// URL builds the absolute URL of path with an optional query.
func (a *API) URL(path string, query url.Values) string {
	u := a.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

// Do executes the request and returns the body of a 2xx response.
// Non-2xx responses return *APIError.
func (a *API) Do(ctx context.Context, r Request) ([]byte, error) {
	var body io.Reader
	if r.Body != nil {
		payload, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, a.URL(r.Path, r.Query), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range r.Cookies {
		req.AddCookie(c)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: extractMessage(data),
			Body:    data,
		}
	}

	return data, nil
}

// DoJSON executes the request and decodes a 2xx body into out.
// An empty body leaves out untouched.
func (a *API) DoJSON(ctx context.Context, r Request, out interface{}) error {
	data, err := a.Do(ctx, r)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// extractMessage reads {"message": "..."}; validation errors may carry a
// list of strings, which are joined.
func extractMessage(body []byte) string {
	var envelope struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Message) == 0 {
		return ""
	}

	var single string
	if err := json.Unmarshal(envelope.Message, &single); err == nil {
		return single
	}

	var list []string
	if err := json.Unmarshal(envelope.Message, &list); err == nil {
		return strings.Join(list, "; ")
	}

	return ""
}
