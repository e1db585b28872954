package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abrezinsky/racenight/internal/authz"
	"github.com/abrezinsky/racenight/internal/logger"
	"github.com/abrezinsky/racenight/internal/models"
)

// mockSettingsService implements services.SettingsServicer for testing
type mockSettingsService struct {
	mu       sync.Mutex
	joinOpen bool
	settings map[string]string
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{
		joinOpen: true,
		settings: make(map[string]string),
	}
}

func (m *mockSettingsService) IsJoinOpen(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.joinOpen, nil
}

func (m *mockSettingsService) SetJoinOpen(ctx context.Context, p *authz.Principal, open bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.joinOpen = open
	return nil
}

func (m *mockSettingsService) GetSetting(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings[key], nil
}

func (m *mockSettingsService) SetSetting(ctx context.Context, p *authz.Principal, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[key] = value
	return nil
}

func (m *mockSettingsService) GetBaseURL(ctx context.Context) (string, error) { return "", nil }
func (m *mockSettingsService) SetBaseURL(ctx context.Context, p *authz.Principal, url string) error {
	return nil
}

func TestNew_CreatesHubWithDependencies(t *testing.T) {
	hub := New(logger.New(), newMockSettingsService())

	if hub == nil {
		t.Fatal("expected hub to be created")
	}
	if hub.clients == nil {
		t.Error("expected clients map to be initialized")
	}
	if hub.broadcast == nil {
		t.Error("expected broadcast channel to be initialized")
	}
	if hub.register == nil {
		t.Error("expected register channel to be initialized")
	}
	if hub.unregister == nil {
		t.Error("expected unregister channel to be initialized")
	}
}

// dialTestHub starts the hub, serves it over httptest, and dials one client
func dialTestHub(t *testing.T) (*Hub, *websocket.Conn) {
	t.Helper()
	hub := New(logger.New(), newMockSettingsService())
	hub.Start()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return hub, conn
}

func TestServeWs_SendsJoinStatusOnConnect(t *testing.T) {
	_, conn := dialTestHub(t)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg models.WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if msg.Type != "join_status" {
		t.Errorf("expected join_status, got %s", msg.Type)
	}
}

func TestBroadcastMessage_ReachesClient(t *testing.T) {
	hub, conn := dialTestHub(t)

	// Drain the welcome message first
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var welcome models.WSMessage
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("read welcome failed: %v", err)
	}

	hub.BroadcastMessage("race_updated", map[string]interface{}{"race_id": 7})

	var msg models.WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read broadcast failed: %v", err)
	}
	if msg.Type != "race_updated" {
		t.Errorf("expected race_updated, got %s", msg.Type)
	}
	payload, ok := msg.Payload.(map[string]interface{})
	if !ok || payload["race_id"] != float64(7) {
		t.Errorf("unexpected payload: %v", msg.Payload)
	}
}

func TestBroadcastMessage_MultipleClients(t *testing.T) {
	hub := New(logger.New(), newMockSettingsService())
	hub.Start()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	conns := make([]*websocket.Conn, 3)
	for i := range conns {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			t.Fatalf("dial %d failed: %v", i, err)
		}
		defer conn.Close()
		conns[i] = conn

		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var welcome models.WSMessage
		if err := conn.ReadJSON(&welcome); err != nil {
			t.Fatalf("read welcome %d failed: %v", i, err)
		}
	}

	hub.BroadcastMessage("score_recorded", map[string]interface{}{"value": 12.5})

	for i, conn := range conns {
		var msg models.WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("client %d read failed: %v", i, err)
		}
		if msg.Type != "score_recorded" {
			t.Errorf("client %d: expected score_recorded, got %s", i, msg.Type)
		}
	}
}

func TestClientDisconnect_Unregisters(t *testing.T) {
	hub, conn := dialTestHub(t)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var welcome models.WSMessage
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("read welcome failed: %v", err)
	}

	conn.Close()

	// The hub prunes the client asynchronously
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hub.mutex.RLock()
		n := len(hub.clients)
		hub.mutex.RUnlock()
		if n == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("expected the client to be unregistered after disconnect")
}
