package ws

import (
	"sync"

	"github.com/gorilla/websocket"
)

// WebSocketManager tracks one presence connection per driver. The HTTP gate
// authenticates the driver before the upgrade, so connections here are
// already trusted.
type WebSocketManager struct {
	connections map[string]*DriverConnection
	mu          sync.RWMutex
}

type DriverConnection struct {
	DriverID string
	SocketID string
	Conn     *websocket.Conn
	mu       sync.Mutex
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		connections: make(map[string]*DriverConnection),
	}
}

// RegisterDriver replaces any previous connection for the driver.
func (m *WebSocketManager) RegisterDriver(driverID, socketID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, exists := m.connections[driverID]; exists {
		existing.Conn.Close()
	}

	m.connections[driverID] = &DriverConnection{
		DriverID: driverID,
		SocketID: socketID,
		Conn:     conn,
	}
}

func (m *WebSocketManager) UnregisterDriver(driverID, socketID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Only drop the entry if it still belongs to this socket; a reconnect
	// may already have replaced it.
	if conn, exists := m.connections[driverID]; exists && conn.SocketID == socketID {
		conn.Conn.Close()
		delete(m.connections, driverID)
	}
}

func (m *WebSocketManager) IsDriverConnected(driverID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.connections[driverID]
	return exists
}

func (m *WebSocketManager) SendToDriver(driverID string, message []byte) error {
	m.mu.RLock()
	conn, exists := m.connections[driverID]
	m.mu.RUnlock()

	if !exists {
		return nil
	}

	conn.mu.Lock()
	defer conn.mu.Unlock()
	return conn.Conn.WriteMessage(websocket.TextMessage, message)
}
