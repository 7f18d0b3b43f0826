// File: client.go
// Title: Privileged Executor HTTP Client
// Description: Implements the HTTP client for delegating privileged
//              scripts to the remote executor. Carries the full script
//              source and the current state document; the executor's
//              response state replaces the local document wholesale.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial HTTP client implementation

// Package privileged provides clients for the remote privileged executor.
package privileged

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	mdserror "github.com/msto63/mDS/core/error"
	mdslog "github.com/msto63/mDS/core/log"
)

const (
	// DefaultTimeout bounds a single execute call
	DefaultTimeout = 30 * time.Second

	// DefaultProbeTimeout bounds a health probe
	DefaultProbeTimeout = 2 * time.Second

	executePath = "/v1/execute"
	healthPath  = "/v1/health"
)

// ExecuteRequest is the payload sent to the privileged executor
type ExecuteRequest struct {
	Source string                 `json:"source"`
	State  map[string]interface{} `json:"state"`
}

// RemoteError carries a structured failure from the executor
type RemoteError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ExecuteResponse is the executor's reply. State is the full replacement
// state document, never a delta.
type ExecuteResponse struct {
	Success     bool                   `json:"success"`
	OutputLines []string               `json:"output_lines"`
	State       map[string]interface{} `json:"state"`
	Error       *RemoteError           `json:"error,omitempty"`
}

// Executor abstracts the privileged execution backend so the router can
// work against HTTP, WebSocket, or a test double
type Executor interface {
	// Probe checks executor reachability without running anything
	Probe(ctx context.Context) error

	// Execute runs a script remotely and returns the full response
	Execute(ctx context.Context, req ExecuteRequest) (*ExecuteResponse, error)
}

// Client is the HTTP implementation of Executor
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *mdslog.Logger
}

// Options configures client creation
type Options struct {
	Endpoint   string         // Executor base URL, e.g. http://localhost:8710
	Timeout    time.Duration  // Per-call timeout (default: 30s)
	Logger     *mdslog.Logger // Logger (default: package default)
	HTTPClient *http.Client   // Custom transport (default: timeout-bound client)
}

// NewClient creates an HTTP executor client
func NewClient(options Options) (*Client, error) {
	if options.Endpoint == "" {
		return nil, mdserror.New("privileged executor endpoint is required").
			WithCode(mdserror.CodeValidationFailed).
			WithOperation("privileged.NewClient")
	}
	if options.Logger == nil {
		options.Logger = mdslog.GetDefault().WithName("privileged")
	}
	if options.Timeout <= 0 {
		options.Timeout = DefaultTimeout
	}
	if options.HTTPClient == nil {
		options.HTTPClient = &http.Client{Timeout: options.Timeout}
	}

	return &Client{
		endpoint:   strings.TrimRight(options.Endpoint, "/"),
		httpClient: options.HTTPClient,
		logger:     options.Logger,
	}, nil
}

// Probe checks the executor health endpoint
func (c *Client) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+healthPath, nil)
	if err != nil {
		return mdserror.Wrap(err, "building health request").
			WithCode(mdserror.CodeInternal).
			WithOperation("privileged.Probe")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(err, "privileged.Probe")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return mdserror.Newf("executor health check returned %d", resp.StatusCode).
			WithCode(mdserror.CodePrivilegedUnavailable).
			WithOperation("privileged.Probe").
			WithDetail("status", resp.StatusCode)
	}

	return nil
}

// Execute runs a script on the remote executor
func (c *Client) Execute(ctx context.Context, req ExecuteRequest) (*ExecuteResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, mdserror.Wrap(err, "encoding execute request").
			WithCode(mdserror.CodeInternal).
			WithOperation("privileged.Execute")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint+executePath, bytes.NewReader(payload))
	if err != nil {
		return nil, mdserror.Wrap(err, "building execute request").
			WithCode(mdserror.CodeInternal).
			WithOperation("privileged.Execute")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.transportError(err, "privileged.Execute")
	}
	defer resp.Body.Close()

	c.logger.Debug("executor call finished", mdslog.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(started),
	})

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, mdserror.Newf("executor rejected the script: %s", readBodySnippet(resp.Body)).
			WithCode(mdserror.CodePrivilegedRejected).
			WithOperation("privileged.Execute").
			WithDetail("status", resp.StatusCode)
	default:
		return nil, mdserror.Newf("executor returned status %d", resp.StatusCode).
			WithCode(mdserror.CodePrivilegedUnavailable).
			WithOperation("privileged.Execute").
			WithDetail("status", resp.StatusCode)
	}

	var result ExecuteResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, mdserror.Wrap(err, "decoding executor response").
			WithCode(mdserror.CodePrivilegedUnavailable).
			WithOperation("privileged.Execute")
	}

	return &result, nil
}

// transportError maps network failures to the timeout/unavailable codes
func (c *Client) transportError(err error, operation string) error {
	code := mdserror.CodePrivilegedUnavailable
	if isTimeout(err) {
		code = mdserror.CodePrivilegedTimeout
	}
	return mdserror.Wrap(err, "executor unreachable").
		WithCode(code).
		WithOperation(operation)
}

// isTimeout reports whether err is a deadline or network timeout
func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// readBodySnippet reads a short error body for diagnostics
func readBodySnippet(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 256))
	if err != nil || len(raw) == 0 {
		return "no details"
	}
	return string(bytes.TrimSpace(raw))
}
