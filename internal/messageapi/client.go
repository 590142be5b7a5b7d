package messageapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/msgview/internal/logging"
	"github.com/muurk/msgview/internal/version"
)

const (
	// MessageField is the JSON key carrying the display text
	MessageField = "message"

	// RequestIDHeader carries the per-fetch correlation id
	RequestIDHeader = "X-Request-ID"

	// maxBodySize caps how much of a response is read
	maxBodySize = 1 << 20

	// closeGrace bounds the websocket close handshake
	closeGrace = time.Second
)

// Payload is the decoded backend response.
type Payload struct {
	Message string `json:"message"`
}

// Client fetches a message from a single endpoint.
type Client struct {
	// Endpoint is the resolved absolute address
	Endpoint *url.URL

	// HTTPClient is used for http and https endpoints
	HTTPClient *http.Client

	// Dialer is used for ws and wss endpoints
	Dialer *websocket.Dialer

	// Logger receives debug-level request tracing
	Logger *zap.Logger

	// UserAgent is sent with every request
	UserAgent string
}

// NewClient creates a client for an already resolved endpoint.
// No request timeout is applied; see SetTimeout.
func NewClient(endpoint *url.URL) *Client {
	dialer := *websocket.DefaultDialer
	return &Client{
		Endpoint:   endpoint,
		HTTPClient: &http.Client{},
		Dialer:     &dialer,
		Logger:     logging.GetLogger(),
		UserAgent:  version.UserAgent(),
	}
}

// SetTimeout bounds each fetch. Zero removes the bound.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
	c.Dialer.HandshakeTimeout = timeout
}

// Fetch performs one fetch under a fresh request id.
func (c *Client) Fetch(ctx context.Context) (*Payload, error) {
	return c.FetchMessage(ctx, uuid.NewString())
}

// FetchMessage performs exactly one request to the endpoint and decodes
// the message. It never retries.
func (c *Client) FetchMessage(ctx context.Context, requestID string) (*Payload, error) {
	if c.Endpoint == nil {
		return nil, NewValidationError("", "client has no endpoint")
	}

	endpoint := c.Endpoint.String()
	logging.LogFetchStart(c.Logger, requestID, endpoint)

	if IsWebSocket(c.Endpoint) {
		return c.fetchWebSocket(ctx, endpoint, requestID)
	}
	return c.fetchHTTP(ctx, endpoint, requestID)
}

// fetchHTTP issues a GET. The status code alone does not fail the fetch:
// a body carrying a message is displayed whatever the status. A non-2xx
// status is reported only when the body is unusable.
func (c *Client) fetchHTTP(ctx context.Context, endpoint, requestID string) (*Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, NewValidationError(endpoint, "failed to create GET request: "+err.Error())
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, NewNetworkError(endpoint, "GET request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, NewNetworkError(endpoint, "failed to read response body", err)
	}

	logging.LogFetchResponse(c.Logger, requestID, resp.StatusCode, body)

	payload, err := DecodePayload(body)
	if err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, NewHTTPError(endpoint, resp.StatusCode,
				fmt.Sprintf("unexpected status code: %d", resp.StatusCode), err)
		}
		withEndpoint(err, endpoint)
		return nil, err
	}

	return payload, nil
}

// fetchWebSocket dials the endpoint and reads exactly one frame.
func (c *Client) fetchWebSocket(ctx context.Context, endpoint, requestID string) (*Payload, error) {
	header := http.Header{}
	header.Set(RequestIDHeader, requestID)
	if c.UserAgent != "" {
		header.Set("User-Agent", c.UserAgent)
	}

	conn, resp, err := c.Dialer.DialContext(ctx, endpoint, header)
	if err != nil {
		if resp != nil {
			return nil, NewHTTPError(endpoint, resp.StatusCode, "websocket handshake rejected", err)
		}
		return nil, NewNetworkError(endpoint, "websocket dial failed", err)
	}
	defer func() { _ = conn.Close() }()

	// ReadMessage does not observe ctx; closing the conn unblocks it.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if c.HTTPClient != nil && c.HTTPClient.Timeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(c.HTTPClient.Timeout))
	}

	_, data, err := conn.ReadMessage()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, NewNetworkError(endpoint, "failed to read websocket message", err)
	}

	logging.LogFetchResponse(c.Logger, requestID, http.StatusSwitchingProtocols, data)

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(closeGrace))

	payload, err := DecodePayload(data)
	if err != nil {
		withEndpoint(err, endpoint)
		return nil, err
	}
	return payload, nil
}

// DecodePayload parses a backend body. The body must be a JSON object
// whose message field is a string. An absent or null field is a
// missing-field error; an empty string is a valid payload.
func DecodePayload(body []byte) (*Payload, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, NewParseError("response is not a JSON object", err)
	}

	raw, ok := fields[MessageField]
	if !ok || string(raw) == "null" {
		return nil, NewMissingFieldError(MessageField)
	}

	var message string
	if err := json.Unmarshal(raw, &message); err != nil {
		return nil, NewParseError(fmt.Sprintf("%q field is not text", MessageField), err)
	}

	return &Payload{Message: message}, nil
}

func withEndpoint(err error, endpoint string) {
	if fetchErr, ok := err.(*FetchError); ok && fetchErr.Endpoint == "" {
		fetchErr.Endpoint = endpoint
	}
}
