package sse

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client is one connected stream. A client subscribed with a CategoryID
// receives task events for that category; a client without one receives the
// owner's category events. Done is closed exactly once on disconnect.
type Client struct {
	ID          string
	UserID      string
	CategoryID  string
	ConnectedAt time.Time
	Events      chan Event
	Done        chan struct{}
}

// Manager owns the set of connected clients and fans events out to them.
type Manager struct {
	logger *zap.Logger

	mu      sync.RWMutex
	clients map[string]*Client

	events chan Event

	shutdownMu sync.RWMutex
	shutdown   bool

	heartbeatInterval time.Duration
	wg                sync.WaitGroup
}

func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		logger:            logger,
		clients:           make(map[string]*Client),
		events:            make(chan Event, 256),
		heartbeatInterval: 30 * time.Second,
	}
}

// Start runs the broadcast loop until ctx is cancelled. Call once, in its
// own goroutine.
func (m *Manager) Start(ctx context.Context) {
	m.wg.Add(1)
	defer m.wg.Done()

	ticker := time.NewTicker(m.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-m.events:
			if !ok {
				return
			}
			m.broadcast(event)
		case <-ticker.C:
			m.broadcast(NewHeartbeatEvent())
		case <-ctx.Done():
			m.closeAllClients()
			return
		}
	}
}

// Emit queues an event for broadcast. Safe to call concurrently; events
// emitted after shutdown are dropped.
func (m *Manager) Emit(event Event) {
	m.shutdownMu.RLock()
	defer m.shutdownMu.RUnlock()
	if m.shutdown {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case m.events <- event:
	default:
		m.logger.Warn("event queue full, dropping event", zap.String("type", string(event.Type)))
	}
}

// Connect registers a new client for the given scope.
func (m *Manager) Connect(userID, categoryID string) *Client {
	client := &Client{
		ID:          uuid.NewString(),
		UserID:      userID,
		CategoryID:  categoryID,
		ConnectedAt: time.Now(),
		Events:      make(chan Event, 16),
		Done:        make(chan struct{}),
	}
	m.mu.Lock()
	m.clients[client.ID] = client
	m.mu.Unlock()
	return client
}

// Disconnect removes a client. Calling it again for the same id is a no-op,
// so unsubscribe handles are safe to invoke any number of times.
func (m *Manager) Disconnect(id string) {
	m.mu.Lock()
	client, ok := m.clients[id]
	if ok {
		delete(m.clients, id)
	}
	m.mu.Unlock()
	if ok {
		close(client.Done)
	}
}

// Shutdown stops accepting events, drains the queue and closes all clients.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.shutdownMu.Lock()
	if m.shutdown {
		m.shutdownMu.Unlock()
		return nil
	}
	m.shutdown = true
	close(m.events)
	m.shutdownMu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		m.logger.Warn("sse drain timed out")
	}
	m.closeAllClients()
	return nil
}

func (m *Manager) broadcast(event Event) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, client := range m.clients {
		if !m.wants(client, event) {
			continue
		}
		select {
		case client.Events <- event:
		default:
			// Slow consumer; skip rather than block the loop. The next
			// event for the scope carries a full snapshot anyway.
			m.logger.Debug("skipping slow sse client", zap.String("client_id", client.ID))
		}
	}
}

func (m *Manager) wants(client *Client, event Event) bool {
	switch event.Type {
	case EventHeartbeat:
		return true
	case EventCategoriesChanged:
		return client.CategoryID == "" && client.UserID == event.UserID
	case EventTasksChanged:
		if client.CategoryID != event.CategoryID {
			return false
		}
		return client.UserID == "" || event.UserID == "" || client.UserID == event.UserID
	case EventBoardChanged:
		return true
	default:
		return false
	}
}

func (m *Manager) closeAllClients() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, client := range m.clients {
		delete(m.clients, id)
		close(client.Done)
	}
}
