// File: client_test.go
// Title: Privileged Client Unit Tests
// Description: Tests for the HTTP executor client against an httptest
//              server, covering success, rejection, unavailability, and
//              timeouts.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial test suite

package privileged

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	mdserror "github.com/msto63/mDS/core/error"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Options{Endpoint: server.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client, server
}

func TestNewClient_RequiresEndpoint(t *testing.T) {
	if _, err := NewClient(Options{}); err == nil {
		t.Fatal("NewClient accepted empty endpoint")
	}
}

func TestExecute_Success(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/execute" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}

		var req ExecuteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Source == "" {
			t.Error("request carried no source")
		}

		json.NewEncoder(w).Encode(ExecuteResponse{
			Success:     true,
			OutputLines: []string{"file contents"},
			State:       map[string]interface{}{"last_read": "notes.txt"},
		})
	}))

	resp, err := client.Execute(context.Background(), ExecuteRequest{
		Source: `PRINT FILE.READ("notes.txt")`,
		State:  map[string]interface{}{},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !resp.Success {
		t.Error("response not successful")
	}
	if !reflect.DeepEqual(resp.OutputLines, []string{"file contents"}) {
		t.Errorf("output = %v", resp.OutputLines)
	}
	if resp.State["last_read"] != "notes.txt" {
		t.Errorf("state = %v", resp.State)
	}
}

func TestExecute_RemoteFailureCarriesError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ExecuteResponse{
			Success: false,
			Error:   &RemoteError{Kind: "CapabilityDenied", Message: "FILE.DELETE is not allowed"},
		})
	}))

	resp, err := client.Execute(context.Background(), ExecuteRequest{Source: "x"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if resp.Success || resp.Error == nil || resp.Error.Kind != "CapabilityDenied" {
		t.Errorf("response = %+v, want structured remote error", resp)
	}
}

func TestExecute_Rejected4xx(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad script", http.StatusBadRequest)
	}))

	_, err := client.Execute(context.Background(), ExecuteRequest{Source: "x"})
	if !mdserror.HasCode(err, mdserror.CodePrivilegedRejected) {
		t.Errorf("error code = %v, want %v", mdserror.CodeOf(err), mdserror.CodePrivilegedRejected)
	}
}

func TestExecute_ServerError5xx(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.Execute(context.Background(), ExecuteRequest{Source: "x"})
	if !mdserror.HasCode(err, mdserror.CodePrivilegedUnavailable) {
		t.Errorf("error code = %v, want %v", mdserror.CodeOf(err), mdserror.CodePrivilegedUnavailable)
	}
}

func TestExecute_NoServer(t *testing.T) {
	client, err := NewClient(Options{Endpoint: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.Execute(context.Background(), ExecuteRequest{Source: "x"})
	if err == nil {
		t.Fatal("Execute succeeded with no server")
	}
	if !mdserror.HasCode(err, mdserror.CodePrivilegedUnavailable) {
		t.Errorf("error code = %v, want %v", mdserror.CodeOf(err), mdserror.CodePrivilegedUnavailable)
	}
}

func TestExecute_Timeout(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(ExecuteResponse{Success: true})
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Execute(ctx, ExecuteRequest{Source: "x"})
	if !mdserror.HasCode(err, mdserror.CodePrivilegedTimeout) {
		t.Errorf("error code = %v, want %v", mdserror.CodeOf(err), mdserror.CodePrivilegedTimeout)
	}
}

func TestProbe(t *testing.T) {
	healthy := true
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/health" {
			t.Errorf("unexpected probe path %s", r.URL.Path)
		}
		if healthy {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))

	if err := client.Probe(context.Background()); err != nil {
		t.Errorf("Probe on healthy executor failed: %v", err)
	}

	healthy = false
	err := client.Probe(context.Background())
	if !mdserror.HasCode(err, mdserror.CodePrivilegedUnavailable) {
		t.Errorf("error code = %v, want %v", mdserror.CodeOf(err), mdserror.CodePrivilegedUnavailable)
	}
}

func TestEndpointTrailingSlashTrimmed(t *testing.T) {
	client, err := NewClient(Options{Endpoint: "http://localhost:8710/"})
	if err != nil {
		t.Fatal(err)
	}
	if client.endpoint != "http://localhost:8710" {
		t.Errorf("endpoint = %q", client.endpoint)
	}
}
