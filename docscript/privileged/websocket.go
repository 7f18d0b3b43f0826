// File: websocket.go
// Title: Privileged Executor WebSocket Client
// Description: Implements the WebSocket transport variant of the
//              privileged executor client. Each execute call opens a
//              connection, sends an execute envelope, and waits for the
//              matching result or error envelope.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial WebSocket client implementation

package privileged

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	mdserror "github.com/msto63/mDS/core/error"
	mdslog "github.com/msto63/mDS/core/log"
)

// Envelope message types on the executor stream
const (
	msgTypeExecute = "execute"
	msgTypeResult  = "result"
	msgTypeError   = "error"
)

// wsEnvelope frames every message on the stream
type wsEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   *RemoteError    `json:"error,omitempty"`
}

// WSClient is the WebSocket implementation of Executor
type WSClient struct {
	url     string
	timeout time.Duration
	dialer  *websocket.Dialer
	logger  *mdslog.Logger
}

// WSOptions configures WebSocket client creation
type WSOptions struct {
	URL     string         // Executor stream URL, e.g. ws://localhost:8710/v1/stream
	Timeout time.Duration  // Per-call timeout (default: 30s)
	Logger  *mdslog.Logger // Logger (default: package default)
}

// NewWSClient creates a WebSocket executor client
func NewWSClient(options WSOptions) (*WSClient, error) {
	if options.URL == "" {
		return nil, mdserror.New("privileged executor URL is required").
			WithCode(mdserror.CodeValidationFailed).
			WithOperation("privileged.NewWSClient")
	}
	if options.Logger == nil {
		options.Logger = mdslog.GetDefault().WithName("privileged-ws")
	}
	if options.Timeout <= 0 {
		options.Timeout = DefaultTimeout
	}

	return &WSClient{
		url:     options.URL,
		timeout: options.Timeout,
		dialer: &websocket.Dialer{
			HandshakeTimeout: DefaultProbeTimeout,
		},
		logger: options.Logger,
	}, nil
}

// Probe dials the executor stream and closes it again
func (c *WSClient) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultProbeTimeout)
	defer cancel()

	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return c.dialError(err, "privileged.Probe")
	}
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return conn.Close()
}

// Execute runs a script over a fresh stream connection
func (c *WSClient) Execute(ctx context.Context, req ExecuteRequest) (*ExecuteResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return nil, c.dialError(err, "privileged.Execute")
	}
	defer conn.Close()

	deadline, ok := ctx.Deadline()
	if ok {
		_ = conn.SetWriteDeadline(deadline)
		_ = conn.SetReadDeadline(deadline)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, mdserror.Wrap(err, "encoding execute request").
			WithCode(mdserror.CodeInternal).
			WithOperation("privileged.Execute")
	}

	if err := conn.WriteJSON(wsEnvelope{Type: msgTypeExecute, Payload: payload}); err != nil {
		return nil, c.transportFailure(err, "sending execute envelope")
	}

	// Read envelopes until the result arrives; anything not understood
	// is logged and skipped so protocol additions stay compatible
	for {
		var envelope wsEnvelope
		if err := conn.ReadJSON(&envelope); err != nil {
			return nil, c.transportFailure(err, "reading executor stream")
		}

		switch envelope.Type {
		case msgTypeResult:
			var result ExecuteResponse
			if err := json.Unmarshal(envelope.Payload, &result); err != nil {
				return nil, mdserror.Wrap(err, "decoding result envelope").
					WithCode(mdserror.CodePrivilegedUnavailable).
					WithOperation("privileged.Execute")
			}
			return &result, nil

		case msgTypeError:
			message := "executor reported an error"
			if envelope.Error != nil {
				message = envelope.Error.Message
			}
			return nil, mdserror.New(message).
				WithCode(mdserror.CodePrivilegedRejected).
				WithOperation("privileged.Execute")

		default:
			c.logger.Debug("skipping unknown stream envelope", mdslog.Fields{
				"type": envelope.Type,
			})
		}
	}
}

func (c *WSClient) dialError(err error, operation string) error {
	code := mdserror.CodePrivilegedUnavailable
	if isTimeout(err) {
		code = mdserror.CodePrivilegedTimeout
	}
	return mdserror.Wrap(err, "executor stream unreachable").
		WithCode(code).
		WithOperation(operation)
}

func (c *WSClient) transportFailure(err error, message string) error {
	code := mdserror.CodePrivilegedUnavailable
	if isTimeout(err) {
		code = mdserror.CodePrivilegedTimeout
	}
	return mdserror.Wrap(err, message).
		WithCode(code).
		WithOperation("privileged.Execute")
}
