package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wricardo/asteroids-relay/game/engine"
	"github.com/wricardo/asteroids-relay/game/service"
	"github.com/wricardo/asteroids-relay/transport/protocol"
)

func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func assertContains(t *testing.T, text string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(text, w) {
			t.Errorf("Expected %q in output, got: %s", w, text)
		}
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:3000/")

	if client.baseURL != "http://localhost:3000" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected JSON content type on body requests")
		}
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]interface{}{"echo": body["ping"]})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	if err := client.apiCall(context.Background(), "POST", "/api/x", map[string]string{"ping": "pong"}, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["echo"] != "pong" {
		t.Errorf("Unexpected response %v", response)
	}
}

func TestClient_apiCall_Errors(t *testing.T) {
	t.Run("unreachable", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1")
		if err := client.apiCall(context.Background(), "GET", "/api/health", nil, nil); err == nil {
			t.Error("Expected error for unreachable server")
		}
	})

	t.Run("error body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "room ZZZZ not found"})
		}))
		defer server.Close()

		err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api/rooms/ZZZZ", nil, nil)
		if err == nil || err.Error() != "room ZZZZ not found" {
			t.Errorf("Expected API error text, got %v", err)
		}
	})

	t.Run("plain status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Internal Server Error"))
		}))
		defer server.Close()

		err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api/health", nil, nil)
		if err == nil || !strings.Contains(err.Error(), "API error") {
			t.Errorf("Expected 'API error', got %v", err)
		}
	})
}

func TestClient_handleHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("Expected /api/health, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "healthy", "uptime": "5m0s", "rooms": 3, "players": 5, "connections": 7,
		})
	}))
	defer server.Close()

	result, err := NewClient(server.URL).handleHealth(context.Background(), toolRequest("relay_health", nil))
	if err != nil {
		t.Fatalf("handleHealth failed: %v", err)
	}
	assertContains(t, resultText(t, result), "healthy", "Rooms: 3", "Connections: 7")
}

func TestClient_handleListRooms(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("sort") != "created" || q.Get("limit") != "5" {
			t.Errorf("Expected query to be forwarded, got %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"count": 1,
			"total": 4,
			"rooms": []service.RoomInfo{{
				Code: "ABCD", Name: "Nebula", State: service.RoomLobby,
				MaxPlayers: 2, PlayerCount: 1, CreatedAt: time.Now(),
			}},
		})
	}))
	defer server.Close()

	args := map[string]interface{}{"sort": "created", "limit": float64(5)}
	result, err := NewClient(server.URL).handleListRooms(context.Background(), toolRequest("list_rooms", args))
	if err != nil {
		t.Fatalf("handleListRooms failed: %v", err)
	}
	assertContains(t, resultText(t, result), "1 of 4", "ABCD", "Nebula", "1/2")
}

func TestClient_handleGetRoom(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/rooms/ABCD" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(service.RoomInfo{
			Code: "ABCD", Name: "Nebula", State: service.RoomPlaying, PlayerCount: 1,
			Players: protocol.Players{
				"conn-1": {X: 400, Y: 300, Angle: -1.57, Color: "#00f2ff", Host: true},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleGetRoom(context.Background(), toolRequest("get_room", map[string]interface{}{"code": "ABCD"}))
	if err != nil {
		t.Fatalf("handleGetRoom failed: %v", err)
	}
	assertContains(t, resultText(t, result), "Room ABCD", "playing", "conn-1 (host)", "(400,300)")

	result, _ = client.handleGetRoom(context.Background(), toolRequest("get_room", map[string]interface{}{}))
	if !result.IsError {
		t.Error("Expected an error result without a code")
	}
}

func TestClient_handleConfigs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/configs":
			json.NewEncoder(w).Encode([]service.ConfigInfo{
				{ConfigID: "classic", Name: "Classic", Description: "The arcade rules", Lives: 3, BaseAsteroids: 3},
			})
		case "/api/configs/classic":
			cfg := engine.DefaultGameConfig()
			cfg.Name = "Classic"
			json.NewEncoder(w).Encode(cfg)
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "configuration not found"})
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	result, err := client.handleListConfigs(ctx, toolRequest("list_configs", nil))
	if err != nil {
		t.Fatalf("handleListConfigs failed: %v", err)
	}
	assertContains(t, resultText(t, result), "Classic", "config_id: classic", "Lives: 3")

	result, _ = client.handleGetConfig(ctx, toolRequest("get_config", map[string]interface{}{"config_id": "classic"}))
	assertContains(t, resultText(t, result), "Field: 800x600", "Scoring: 20 / 50 / 100")

	result, _ = client.handleGetConfig(ctx, toolRequest("get_config", map[string]interface{}{"config_id": "nope"}))
	if !result.IsError {
		t.Error("Expected an error result for a missing preset")
	}
}

func TestClient_handleSimulate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/simulate" {
			t.Errorf("Expected POST /api/simulate, got %s %s", r.Method, r.URL.Path)
		}
		var req service.SimulationRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.ConfigID != "hard" || req.Ticks != 600 || req.Seed != 42 {
			t.Errorf("Request not forwarded: %+v", req)
		}
		json.NewEncoder(w).Encode(service.SimulationResult{
			ConfigID: "hard", Seed: 42, TicksRequested: 600, TicksRun: 480,
			Score: 350, Level: 1, Lives: 0, GameOver: true,
			AsteroidsDestroyed: 5, ShotsFired: 10, ShipsLost: 3, Accuracy: 0.5,
		})
	}))
	defer server.Close()

	args := map[string]interface{}{"config_id": "hard", "ticks": float64(600), "seed": float64(42)}
	result, err := NewClient(server.URL).handleSimulate(context.Background(), toolRequest("simulate", args))
	if err != nil {
		t.Fatalf("handleSimulate failed: %v", err)
	}
	assertContains(t, resultText(t, result), "seed 42", "Score: 350", "accuracy 50%", "GAME OVER")
}

func TestClient_handleGameRules(t *testing.T) {
	result, err := NewClient("http://unused").handleGameRules(context.Background(), toolRequest("game_rules", nil))
	if err != nil {
		t.Fatalf("handleGameRules failed: %v", err)
	}
	assertContains(t, resultText(t, result), "split", "lives", "relay")
}

func TestFormatRoomList_Empty(t *testing.T) {
	if got := formatRoomList(nil, 0); !strings.Contains(got, "No live rooms") {
		t.Errorf("Unexpected output %q", got)
	}
}

func TestHTTPHandler(t *testing.T) {
	handler := NewClient("http://unused").HTTPHandler()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/mcp", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"0.0.1"}}}`
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/mcp", strings.NewReader(body)))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Asteroids Relay") {
		t.Errorf("Expected server info in response, got %s", w.Body.String())
	}
}
