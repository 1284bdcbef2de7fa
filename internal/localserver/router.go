// Package localserver exposes the single-user local REST surface over a
// file-backed store. No authentication: the trust boundary is the local
// machine.
package localserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskit/internal/domain"
	"taskit/internal/filestore"
	"taskit/internal/sse"
)

type categoryBody struct {
	Hidden bool  `json:"hidden"`
	Tasks  []any `json:"tasks"`
}

// BuildRouter wires the local REST surface. events may be nil when no sync
// stream is wanted.
func BuildRouter(logger *zap.Logger, store *filestore.Store, events *sse.Manager) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")

	api.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	api.GET("/categories", func(c *gin.Context) {
		docs, err := store.List()
		if err != nil {
			logger.Error("list categories", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list categories"})
			return
		}
		c.JSON(http.StatusOK, docs)
	})

	api.GET("/category/:name", func(c *gin.Context) {
		doc, err := store.Get(c.Param("name"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
				return
			}
			logger.Error("read category", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Read failed"})
			return
		}
		c.JSON(http.StatusOK, doc)
	})

	api.POST("/category/:name", writeCategoryHandler(logger, store, events, http.StatusCreated, "Create failed"))
	api.PUT("/category/:name", writeCategoryHandler(logger, store, events, http.StatusOK, "Update failed"))

	api.DELETE("/category/:name", func(c *gin.Context) {
		if err := store.Delete(c.Param("name")); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
				return
			}
			logger.Error("delete category", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Delete failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	if events != nil {
		api.GET("/sync", syncHandler(events))
	}

	return router
}

// writeCategoryHandler covers POST (create/overwrite, 201) and PUT (full
// overwrite, 200); both replace the whole document.
func writeCategoryHandler(logger *zap.Logger, store *filestore.Store, events *sse.Manager, status int, failMsg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body categoryBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
			return
		}
		name := c.Param("name")
		err := store.Put(name, filestore.CategoryDoc{
			Name:   name,
			Hidden: body.Hidden,
			Tasks:  body.Tasks,
		})
		if err != nil {
			if errors.Is(err, filestore.ErrBadName) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category name"})
				return
			}
			logger.Error("write category", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": failMsg})
			return
		}
		if events != nil {
			events.Emit(sse.Event{Type: sse.EventBoardChanged, Timestamp: time.Now()})
		}
		c.JSON(status, gin.H{"ok": true})
	}
}

func syncHandler(events *sse.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		client := events.Connect("", "")
		defer events.Disconnect(client.ID)

		w := c.Writer
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		w.Flush()

		ctx := c.Request.Context()
		for {
			select {
			case event := <-client.Events:
				payload, err := json.Marshal(event)
				if err != nil {
					continue
				}
				if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload); err != nil {
					return
				}
				w.Flush()
			case <-client.Done:
				return
			case <-ctx.Done():
				return
			}
		}
	}
}
