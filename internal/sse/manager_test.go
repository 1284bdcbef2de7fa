package sse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go m.Start(ctx)
	t.Cleanup(cancel)
	return m
}

func receive(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case event := <-client.Events:
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func assertNoEvent(t *testing.T, client *Client) {
	t.Helper()
	select {
	case event := <-client.Events:
		t.Fatalf("unexpected event %q", event.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCategoriesEventScopedToOwner(t *testing.T) {
	m := startManager(t)
	owner := m.Connect("user-1", "")
	other := m.Connect("user-2", "")
	taskClient := m.Connect("user-1", "cat-1")

	m.Emit(Event{Type: EventCategoriesChanged, UserID: "user-1"})

	got := receive(t, owner)
	assert.Equal(t, EventCategoriesChanged, got.Type)
	assertNoEvent(t, other)
	assertNoEvent(t, taskClient)
}

func TestTasksEventScopedToCategory(t *testing.T) {
	m := startManager(t)
	subscribed := m.Connect("user-1", "cat-1")
	elsewhere := m.Connect("user-1", "cat-2")

	m.Emit(Event{Type: EventTasksChanged, UserID: "user-1", CategoryID: "cat-1"})

	got := receive(t, subscribed)
	assert.Equal(t, "cat-1", got.CategoryID)
	assertNoEvent(t, elsewhere)
}

func TestBoardEventReachesEveryClient(t *testing.T) {
	m := startManager(t)
	a := m.Connect("", "")
	b := m.Connect("", "cat-1")

	m.Emit(Event{Type: EventBoardChanged})

	assert.Equal(t, EventBoardChanged, receive(t, a).Type)
	assert.Equal(t, EventBoardChanged, receive(t, b).Type)
}

func TestDisconnectClosesDoneOnce(t *testing.T) {
	m := startManager(t)
	client := m.Connect("user-1", "")

	m.Disconnect(client.ID)
	select {
	case <-client.Done:
	case <-time.After(time.Second):
		t.Fatal("done channel not closed")
	}

	// Repeated disconnects must not panic on a closed channel.
	m.Disconnect(client.ID)
	m.Disconnect(client.ID)
}

func TestDisconnectedClientReceivesNothing(t *testing.T) {
	m := startManager(t)
	client := m.Connect("user-1", "")
	m.Disconnect(client.ID)

	m.Emit(Event{Type: EventCategoriesChanged, UserID: "user-1"})
	assertNoEvent(t, client)
}

func TestEmitAfterShutdownIsDropped(t *testing.T) {
	m := NewManager(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go m.Start(ctx)
	defer cancel()

	require.NoError(t, m.Shutdown(context.Background()))
	m.Emit(Event{Type: EventBoardChanged})

	// Second shutdown is a no-op.
	require.NoError(t, m.Shutdown(context.Background()))
}

func TestShutdownClosesClients(t *testing.T) {
	m := NewManager(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go m.Start(ctx)
	defer cancel()

	client := m.Connect("user-1", "")
	require.NoError(t, m.Shutdown(context.Background()))

	select {
	case <-client.Done:
	case <-time.After(time.Second):
		t.Fatal("client not closed on shutdown")
	}
}

func TestSlowClientIsSkipped(t *testing.T) {
	m := startManager(t)
	slow := m.Connect("user-1", "")
	healthy := m.Connect("user-1", "")

	// Fill the slow client's buffer and one more.
	for i := 0; i < cap(slow.Events)+1; i++ {
		m.Emit(Event{Type: EventCategoriesChanged, UserID: "user-1"})
	}

	for i := 0; i < cap(healthy.Events); i++ {
		receive(t, healthy)
	}
	assert.Len(t, slow.Events, cap(slow.Events))
}
