package jofotara

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmahdy/jofotara-api/internal/domain/entity"
)

// DefaultTimeout bounds each submission request. The portal is slow under
// load but anything past this means the caller should inspect manually rather
// than keep the request in flight.
const DefaultTimeout = 15 * time.Second

// maxResponseBytes caps how much of the portal response is read and persisted.
const maxResponseBytes = 1 << 20 // 1 MB

// Submitter is the outbound port for invoice submission. The HTTP client is
// the concrete implementation; tests inject a mock.
type Submitter interface {
	// Submit performs one synchronous submission of a built XML document.
	// It always returns a SubmitResult — configuration problems, transport
	// failures and portal rejections are reported through Result.Err, never
	// as a panic or an escaping error.
	Submit(ctx context.Context, xmlDoc string, creds Credentials) *SubmitResult
}

// Client submits invoices to the JoFotara portal over HTTPS. One call per
// invoice, no retries: duplicate submission to a fiscal authority is a
// business risk, so retrying is the caller's deliberate decision.
type Client struct {
	httpClient *http.Client
}

// NewClient builds the client with the given request timeout (DefaultTimeout
// when zero or negative).
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// ── Portal response envelope ──────────────────────────────────────────────────

type portalResponse struct {
	QR          string         `json:"EINV_QR"`
	InvoiceUUID string         `json:"EINV_INV_UUID"`
	Results     *portalResults `json:"EINV_RESULTS"`
}

type portalResults struct {
	Info   []portalMessage `json:"INFO"`
	Errors []portalMessage `json:"ERRORS"`
}

type portalMessage struct {
	Code    string `json:"EINV_CODE"`
	Message string `json:"EINV_MESSAGE"`
}

// ── Submit ────────────────────────────────────────────────────────────────────

// Submit implements Submitter.
func (c *Client) Submit(ctx context.Context, xmlDoc string, creds Credentials) *SubmitResult {
	now := time.Now()

	if err := validateCredentials(creds); err != nil {
		return &SubmitResult{Status: "error", Err: err, SubmittedAt: now}
	}

	req, err := c.buildRequest(ctx, xmlDoc, creds)
	if err != nil {
		return &SubmitResult{Status: "error", Err: &TransportError{Err: err}, SubmittedAt: now}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &SubmitResult{Status: "error", Err: &TransportError{Err: err}, SubmittedAt: now}
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &SubmitResult{
			Status: "error", HTTPStatus: resp.StatusCode,
			Err: &TransportError{Err: err}, SubmittedAt: now,
		}
	}

	return c.interpretResponse(creds.Mode, resp.StatusCode, rawBody, now)
}

// validateCredentials enforces the no-call-without-config rule.
func validateCredentials(creds Credentials) error {
	if strings.TrimSpace(creds.Endpoint) == "" {
		return &ConfigError{Reason: "endpoint URL is not configured"}
	}
	switch creds.Mode {
	case entity.AuthModeToken:
		if strings.TrimSpace(creds.Token) == "" {
			return &ConfigError{Reason: "API token is not configured"}
		}
	case entity.AuthModeClientSecret:
		if strings.TrimSpace(creds.ClientID) == "" || strings.TrimSpace(creds.SecretKey) == "" {
			return &ConfigError{Reason: "client id or secret key is not configured"}
		}
	default:
		return &ConfigError{Reason: "unknown auth mode " + quoteMode(creds.Mode)}
	}
	return nil
}

// buildRequest constructs the outbound call for the credential mode:
//
//	token:         raw XML body, Content-Type application/xml, bearer token
//	client_secret: {"invoice": base64(xml)} JSON, Client-Id / Secret-Key headers
func (c *Client) buildRequest(ctx context.Context, xmlDoc string, creds Credentials) (*http.Request, error) {
	endpoint := strings.TrimSpace(creds.Endpoint)

	if creds.Mode == entity.AuthModeToken {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
			strings.NewReader(xmlDoc))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/xml")
		req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(creds.Token))
		return req, nil
	}

	encoded := base64.StdEncoding.EncodeToString([]byte(xmlDoc))
	payload, err := json.Marshal(map[string]string{"invoice": encoded})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Client-Id", strings.TrimSpace(creds.ClientID))
	req.Header.Set("Secret-Key", strings.TrimSpace(creds.SecretKey))
	return req, nil
}

// interpretResponse normalizes the portal response into a SubmitResult.
// Diagnostic codes from EINV_RESULTS are preserved verbatim: fiscal-authority
// error codes are authoritative and must not be summarized away.
func (c *Client) interpretResponse(mode string, status int, rawBody []byte, now time.Time) *SubmitResult {
	result := &SubmitResult{
		HTTPStatus:  status,
		Response:    string(rawBody),
		SubmittedAt: now,
	}

	var parsed portalResponse
	parseErr := json.Unmarshal(rawBody, &parsed)
	if parseErr == nil && parsed.Results != nil {
		for _, m := range parsed.Results.Errors {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{Code: m.Code, Message: m.Message})
		}
	}

	if status < 200 || status >= 300 {
		result.Status = "error"
		result.Err = &RejectedError{StatusCode: status, Body: string(rawBody), Diagnostics: result.Diagnostics}
		return result
	}

	if mode == entity.AuthModeClientSecret {
		if parseErr != nil {
			// A 2xx with an unreadable body still cannot be trusted as accepted.
			result.Status = "error"
			result.Err = &RejectedError{StatusCode: status, Body: string(rawBody)}
			return result
		}
		result.QRCode = parsed.QR
		result.RemoteUUID = parsed.InvoiceUUID
	}

	result.Status = "success"
	return result
}

func quoteMode(s string) string {
	if s == "" {
		return "(empty)"
	}
	return "\"" + s + "\""
}
