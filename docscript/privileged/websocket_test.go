// File: websocket_test.go
// Title: WebSocket Client Unit Tests
// Description: Tests for the WebSocket executor client against an
//              httptest server speaking the envelope protocol.
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
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	mdserror "github.com/msto63/mDS/core/error"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func newWSTestClient(t *testing.T, handler func(conn *websocket.Conn)) *WSClient {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	client, err := NewWSClient(WSOptions{URL: url})
	if err != nil {
		t.Fatalf("NewWSClient failed: %v", err)
	}
	return client
}

func TestWSExecute_Success(t *testing.T) {
	client := newWSTestClient(t, func(conn *websocket.Conn) {
		var envelope wsEnvelope
		if err := conn.ReadJSON(&envelope); err != nil {
			t.Errorf("reading envelope: %v", err)
			return
		}
		if envelope.Type != msgTypeExecute {
			t.Errorf("envelope type = %q, want execute", envelope.Type)
		}

		var req ExecuteRequest
		if err := json.Unmarshal(envelope.Payload, &req); err != nil {
			t.Errorf("decoding payload: %v", err)
		}

		payload, _ := json.Marshal(ExecuteResponse{
			Success:     true,
			OutputLines: []string{"sent"},
			State:       map[string]interface{}{"mesh": map[string]interface{}{"last": "peer-1"}},
		})
		_ = conn.WriteJSON(wsEnvelope{Type: msgTypeResult, Payload: payload})
	})

	resp, err := client.Execute(context.Background(), ExecuteRequest{
		Source: `MESH.SEND("peer-1", "hello")`,
		State:  map[string]interface{}{},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !reflect.DeepEqual(resp.OutputLines, []string{"sent"}) {
		t.Errorf("output = %v", resp.OutputLines)
	}
}

func TestWSExecute_SkipsUnknownEnvelopes(t *testing.T) {
	client := newWSTestClient(t, func(conn *websocket.Conn) {
		var envelope wsEnvelope
		_ = conn.ReadJSON(&envelope)

		_ = conn.WriteJSON(wsEnvelope{Type: "progress"})
		payload, _ := json.Marshal(ExecuteResponse{Success: true})
		_ = conn.WriteJSON(wsEnvelope{Type: msgTypeResult, Payload: payload})
	})

	resp, err := client.Execute(context.Background(), ExecuteRequest{Source: "x"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !resp.Success {
		t.Error("result lost behind unknown envelope")
	}
}

func TestWSExecute_ErrorEnvelope(t *testing.T) {
	client := newWSTestClient(t, func(conn *websocket.Conn) {
		var envelope wsEnvelope
		_ = conn.ReadJSON(&envelope)
		_ = conn.WriteJSON(wsEnvelope{
			Type:  msgTypeError,
			Error: &RemoteError{Kind: "Rejected", Message: "script refused"},
		})
	})

	_, err := client.Execute(context.Background(), ExecuteRequest{Source: "x"})
	if !mdserror.HasCode(err, mdserror.CodePrivilegedRejected) {
		t.Errorf("error code = %v, want %v", mdserror.CodeOf(err), mdserror.CodePrivilegedRejected)
	}
}

func TestWSExecute_NoServer(t *testing.T) {
	client, err := NewWSClient(WSOptions{URL: "ws://127.0.0.1:1/v1/stream"})
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

func TestWSProbe(t *testing.T) {
	client := newWSTestClient(t, func(conn *websocket.Conn) {
		// wait for the client's close frame
		_, _, _ = conn.ReadMessage()
	})

	if err := client.Probe(context.Background()); err != nil {
		t.Errorf("Probe failed: %v", err)
	}
}

func TestNewWSClient_RequiresURL(t *testing.T) {
	if _, err := NewWSClient(WSOptions{}); err == nil {
		t.Fatal("NewWSClient accepted empty URL")
	}
}
