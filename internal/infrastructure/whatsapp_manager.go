package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// WhatsAppManager manages one linked-device WhatsApp client per business
type WhatsAppManager struct {
	clients map[string]*WhatsAppClient
	mu      sync.RWMutex
	baseDir string
	handler InboundHandler
	logger  *slog.Logger
}

// NewWhatsAppManager creates a manager whose clients route every incoming
// message through handler. Device stores live under baseDir.
func NewWhatsAppManager(baseDir string, handler InboundHandler, logger *slog.Logger) *WhatsAppManager {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		logger.Warn("could not create devices directory", "dir", baseDir, "error", err)
	}
	return &WhatsAppManager{
		clients: make(map[string]*WhatsAppClient),
		baseDir: baseDir,
		handler: handler,
		logger:  logger,
	}
}

// GetClient returns the business's client or nil
func (m *WhatsAppManager) GetClient(businessID string) *WhatsAppClient {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.clients[businessID]
}

// GetOrCreateClient gets existing client or creates new one for a business
func (m *WhatsAppManager) GetOrCreateClient(ctx context.Context, businessID string) (*WhatsAppClient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if client, exists := m.clients[businessID]; exists {
		return client, nil
	}

	dbPath := filepath.Join(m.baseDir, businessID+".db")
	client, err := NewWhatsAppClient(ctx, dbPath, businessID, m.handler, m.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create WhatsApp client for %s: %w", businessID, err)
	}
	m.clients[businessID] = client
	return client, nil
}

// ConnectClient connects the business's client, creating it if needed
func (m *WhatsAppManager) ConnectClient(ctx context.Context, businessID string) (*WhatsAppClient, error) {
	client, err := m.GetOrCreateClient(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if client.Client.IsConnected() {
		return client, nil
	}
	if err := client.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect WhatsApp for %s: %w", businessID, err)
	}
	return client, nil
}

// DisconnectClient drops the session from memory; the device store stays so
// the next connect resumes without pairing.
func (m *WhatsAppManager) DisconnectClient(businessID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if client, exists := m.clients[businessID]; exists {
		client.Disconnect()
		delete(m.clients, businessID)
	}
}

// LogoutClient unlinks the device. A missing or already logged out client is
// not an error.
func (m *WhatsAppManager) LogoutClient(businessID string) error {
	m.mu.Lock()
	client, exists := m.clients[businessID]
	delete(m.clients, businessID)
	m.mu.Unlock()

	if !exists || client == nil {
		return nil
	}
	if !client.IsLoggedIn() {
		client.Disconnect()
		return nil
	}
	return client.Logout()
}

// ConnectedBusinesses lists businesses with a logged in session
func (m *WhatsAppManager) ConnectedBusinesses() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for id, client := range m.clients {
		if client.IsLoggedIn() {
			ids = append(ids, id)
		}
	}
	return ids
}

// DisconnectAll disconnects all clients (for graceful shutdown)
func (m *WhatsAppManager) DisconnectAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, client := range m.clients {
		client.Disconnect()
	}
	m.clients = make(map[string]*WhatsAppClient)
}
