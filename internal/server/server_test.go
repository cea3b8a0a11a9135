package server

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ironsheep/raster-bridge/internal/bridge"
	"github.com/ironsheep/raster-bridge/internal/commands"
	"github.com/ironsheep/raster-bridge/internal/host"
	"github.com/ironsheep/raster-bridge/internal/runtime/jsmodule"
)

// newTestServer returns a server over a running JavaScript session and an
// empty host.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	env := commands.NewEnv(host.New(host.Options{}), "1.0.0")
	table := commands.Default()

	var anchor bridge.Anchor
	session, err := anchor.Open(
		bridge.Config{Modules: []string{"js"}, Interactive: true},
		bridge.Services{Env: env, Table: table},
		map[string]bridge.Factory{"js": jsmodule.Factory{}},
	)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := session.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() { session.Stop() })
	return New(session, table, "test")
}

func TestMCPRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantID     interface{}
		wantMethod string
	}{
		{
			"string id",
			`{"jsonrpc":"2.0","id":"test-1","method":"tools/list"}`,
			"test-1",
			"tools/list",
		},
		{
			"number id",
			`{"jsonrpc":"2.0","id":42,"method":"ping"}`,
			float64(42), // JSON numbers decode as float64
			"ping",
		},
		{
			"null id",
			`{"jsonrpc":"2.0","id":null,"method":"initialize"}`,
			nil,
			"initialize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MCPRequest
			if err := json.Unmarshal([]byte(tt.json), &req); err != nil {
				t.Fatalf("Failed to unmarshal: %v", err)
			}
			if req.ID != tt.wantID {
				t.Errorf("ID: got %v (%T), want %v (%T)", req.ID, req.ID, tt.wantID, tt.wantID)
			}
			if req.Method != tt.wantMethod {
				t.Errorf("Method: got %s, want %s", req.Method, tt.wantMethod)
			}
		})
	}
}

func TestHandleRequest_Initialize(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "initialize"})

	if resp == nil || resp.Error != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	if result["protocolVersion"] != ProtocolVersion {
		t.Errorf("protocolVersion: got %v", result["protocolVersion"])
	}
	serverInfo := result["serverInfo"].(map[string]interface{})
	if serverInfo["name"] != "raster-bridge" || serverInfo["version"] != "test" {
		t.Errorf("serverInfo: got %v", serverInfo)
	}
}

func TestHandleRequest_Ping(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: "ping-1", Method: "ping"})
	if resp == nil || resp.Error != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.ID != "ping-1" {
		t.Errorf("ID: got %v, want ping-1", resp.ID)
	}
}

func TestHandleRequest_NotificationsInitialized(t *testing.T) {
	s := newTestServer(t)
	if resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", Method: "notifications/initialized"}); resp != nil {
		t.Error("notifications/initialized should return nil response")
	}
}

func TestHandleRequest_MethodNotFound(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "nonexistent/method"})
	if resp == nil || resp.Error == nil {
		t.Fatal("Expected error for unknown method")
	}
	if resp.Error.Code != -32601 {
		t.Errorf("Error code: got %d, want -32601", resp.Error.Code)
	}
}

func TestServe(t *testing.T) {
	s := newTestServer(t)
	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`not json`,
		``,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"script_execute","arguments":{"script":"report_progress({message: 'half', percent: 50, reporting_level: 'normal'}); print('done')"}}}`,
	}, "\n")
	var out bytes.Buffer

	if err := s.Serve(strings.NewReader(in), &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	var lines []map[string]interface{}
	dec := json.NewDecoder(&out)
	for dec.More() {
		var m map[string]interface{}
		if err := dec.Decode(&m); err != nil {
			t.Fatalf("bad output line: %v", err)
		}
		lines = append(lines, m)
	}
	// initialize response, progress notification, script response
	if len(lines) != 3 {
		t.Fatalf("got %d messages, want 3: %v", len(lines), lines)
	}
	if lines[1]["method"] != "notifications/message" {
		t.Errorf("second message should be a notification, got %v", lines[1])
	}
	if lines[2]["id"] != float64(2) {
		t.Errorf("last message should answer request 2, got %v", lines[2])
	}
	if s.notify != nil {
		t.Error("notify should be cleared after Serve")
	}
}
