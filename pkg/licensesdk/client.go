package licensesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a client for the keygate licensing service. The zero AdminKey is
// fine for registration and login; admin operations require it.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// AdminKey, when set, is sent in the X-Admin-Key header on admin
	// operations. It is never sent on register or login calls.
	AdminKey string
}

// NewClient creates a new licensing service client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates a new pending account for the given identity.
func (c *Client) Register(ctx context.Context, id, pw string) (*RegisterResponse, error) {
	var out RegisterResponse
	if err := c.postJSON(ctx, "/v1/register", RegisterRequest{ID: id, PW: pw}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login performs a license check-in. The response reports either the expiry
// date (ok=true) or the denial reason.
func (c *Client) Login(ctx context.Context, id, pw string) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.postJSON(ctx, "/v1/login", LoginRequest{ID: id, PW: pw}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetApproval approves an account through the given expiry date, or revokes
// it when approved is false (expireAt is ignored and cleared on revoke).
func (c *Client) SetApproval(ctx context.Context, id string, approved bool, expireAt string) (*ApprovalResponse, error) {
	req := ApprovalRequest{
		ID:       id,
		Approved: json.RawMessage(fmt.Sprintf("%t", approved)),
		ExpireAt: expireAt,
	}

	var out ApprovalResponse
	if err := c.postJSON(ctx, "/v1/admin/approval", req, c.adminHeaders(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAccounts returns the admin view of all registered accounts.
func (c *Client) ListAccounts(ctx context.Context) (*AccountListResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/admin/accounts", nil, c.adminHeaders())
	if err != nil {
		return nil, err
	}

	var out AccountListResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetHealth checks if the service is alive.
func (c *Client) GetHealth(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/healthz", nil, nil)
	if err != nil {
		return nil, err
	}

	var out HealthResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetReadiness checks if the service is ready, including store connectivity.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/readyz", nil, nil)
	if err != nil {
		return nil, err
	}

	var out HealthResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) adminHeaders() map[string]string {
	if c.AdminKey == "" {
		return nil
	}
	return map[string]string{AdminKeyHeader: c.AdminKey}
}

// url builds a complete URL by appending the path to the base URL.
func (c *Client) url(path string) string {
	return c.BaseURL + path
}

func (c *Client) postJSON(ctx context.Context, path string, in any, headers map[string]string, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	if headers == nil {
		headers = map[string]string{}
	}
	headers["Content-Type"] = "application/json"

	resp, err := c.doRequest(ctx, http.MethodPost, path, bytes.NewReader(body), headers)
	if err != nil {
		return err
	}

	return decodeJSON(resp, out)
}

// doRequest performs an HTTP request with the Client's HTTP client.
func (c *Client) doRequest(
	ctx context.Context,
	method, path string,
	body io.Reader,
	headers map[string]string,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return resp, nil
}

// decodeJSON decodes a response body into target. Domain failures arrive with
// 2xx status and ok=false, so only non-2xx responses become an *APIError.
func decodeJSON(resp *http.Response, target any) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}

		var envelope struct {
			Reason string `json:"reason"`
		}
		if err := json.Unmarshal(bodyBytes, &envelope); err == nil {
			apiErr.Reason = envelope.Reason
		}
		return apiErr
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
