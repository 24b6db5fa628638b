// Package apiclient talks to the hostel REST backend on behalf of the console and page models.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"hostel-admin/config"
)

// GenericMessage is shown when the server gives no usable explanation.
const GenericMessage = "Something went wrong. Please try again."

// ErrNoTenant is returned by admin-scoped calls on a client without a selected hostel.
var ErrNoTenant = errors.New("no hostel selected")

// Tenant scopes admin requests to one hostel.
type Tenant struct {
	HostelID int64
}

// Error is the normalized form of every failed request.
type Error struct {
	Status  int // 0 for transport failures
	Title   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Title + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Client is safe for concurrent use. ForTenant and WithToken return copies.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	tenant  Tenant
}

// New creates a client for the backend rooted at baseURL (without the /api suffix).
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// NewFromConfig builds the HTTP transport from the client config, honouring the optional proxy.
func NewFromConfig(cfg config.ClientConfig) *Client {
	var transport http.RoundTripper = http.DefaultTransport
	if cfg.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.HTTPProxy)
		if err != nil {
			log.Printf("Warning: Invalid proxy URL %q: %v. Client will not use a proxy.", cfg.HTTPProxy, err)
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}
	return New(cfg.BaseURL, &http.Client{Transport: transport, Timeout: cfg.Timeout})
}

// WithToken returns a copy that sends token as a bearer credential.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// ForTenant returns a copy whose admin-scoped calls carry t's hostel.
func (c *Client) ForTenant(t Tenant) *Client {
	cp := *c
	cp.tenant = t
	return &cp
}

// Tenant returns the hostel scope of this client.
func (c *Client) Tenant() Tenant {
	return c.tenant
}

type request struct {
	method string
	path   string
	scoped bool
	query  url.Values
	body   any
}

func (c *Client) url(r request) (string, error) {
	q := url.Values{}
	for k, v := range r.query {
		q[k] = v
	}
	if r.scoped {
		if c.tenant.HostelID <= 0 {
			return "", ErrNoTenant
		}
		q.Set("hostelId", strconv.FormatInt(c.tenant.HostelID, 10))
	}
	u := c.baseURL + "/api" + r.path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u, nil
}

// send performs the request and returns the response for a 2xx status.
// Callers own the body.
func (c *Client) send(ctx context.Context, r request) (*http.Response, error) {
	u, err := c.url(r)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if r.body != nil {
		buf, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// A cancelled caller gets its own error back, not a network notice.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &Error{Title: "Network error", Message: GenericMessage, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}
	return resp, nil
}

// do sends r and decodes a JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, r request, out any) error {
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &Error{Status: resp.StatusCode, Title: "Unexpected response", Message: GenericMessage, Err: err}
	}
	return nil
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode, Title: titleFor(resp.StatusCode), Message: GenericMessage}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		apiErr.Err = err
		return apiErr
	}
	var body errorBody
	if json.Unmarshal(raw, &body) == nil {
		switch {
		case strings.TrimSpace(body.Message) != "":
			apiErr.Message = body.Message
		case strings.TrimSpace(body.Error) != "":
			apiErr.Message = body.Error
		}
	}
	return apiErr
}

func titleFor(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return "Invalid request"
	case status == http.StatusUnauthorized:
		return "Not signed in"
	case status == http.StatusForbidden:
		return "Not allowed"
	case status == http.StatusNotFound:
		return "Not found"
	case status == http.StatusConflict:
		return "Conflict"
	case status == http.StatusTooManyRequests:
		return "Too many requests"
	case status >= 500:
		return "Server error"
	default:
		return "Request failed"
	}
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}
