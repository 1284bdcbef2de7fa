package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskit/internal/sse"
)

// SyncStreamer is the subscription surface the sync endpoints need.
type SyncStreamer interface {
	Connect(userID, categoryID string) *sse.Client
	Disconnect(id string)
}

// syncCategoriesHandler streams the owner's category snapshots. The client
// receives an initial snapshot on connect, then one event per change.
func syncCategoriesHandler(streamer SyncStreamer, svc BoardService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		client := streamer.Connect(u.ID, "")
		initial := sse.Event{
			Type:      sse.EventCategoriesChanged,
			Timestamp: time.Now(),
			Data:      svc.CategoriesSnapshot(c.Request.Context(), u.ID),
		}
		streamEvents(c, streamer, client, initial, logger)
	}
}

// syncTasksHandler streams task snapshots for one category.
func syncTasksHandler(streamer SyncStreamer, svc BoardService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		categoryID := c.Param("id")
		client := streamer.Connect(u.ID, categoryID)
		initial := sse.Event{
			Type:       sse.EventTasksChanged,
			Timestamp:  time.Now(),
			CategoryID: categoryID,
			Data:       svc.TasksSnapshot(c.Request.Context(), categoryID, u.ID),
		}
		streamEvents(c, streamer, client, initial, logger)
	}
}

func streamEvents(c *gin.Context, streamer SyncStreamer, client *sse.Client, initial sse.Event, logger *zap.Logger) {
	defer streamer.Disconnect(client.ID)

	w := c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	if err := writeEvent(w, sse.Event{
		Type:      sse.EventConnected,
		Timestamp: time.Now(),
		Data:      map[string]string{"clientId": client.ID},
	}); err != nil {
		return
	}
	if err := writeEvent(w, initial); err != nil {
		return
	}

	ctx := c.Request.Context()
	for {
		select {
		case event := <-client.Events:
			if err := writeEvent(w, event); err != nil {
				logger.Debug("sync client disconnected during send", zap.String("client_id", client.ID))
				return
			}
		case <-client.Done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func writeEvent(w gin.ResponseWriter, event sse.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload); err != nil {
		return err
	}
	w.Flush()
	return nil
}
