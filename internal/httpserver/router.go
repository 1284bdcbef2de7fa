package httpserver

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"taskit/internal/domain"
	"taskit/internal/service/board"
)

// BoardService is the slice of the board service the handlers need.
type BoardService interface {
	ListCategories(ctx context.Context, userID string) ([]domain.Category, error)
	AddCategory(ctx context.Context, userID, name string, opts board.CategoryOptions) domain.Result
	UpdateCategory(ctx context.Context, id string, updates map[string]any) domain.Result
	DeleteCategory(ctx context.Context, id, ownerID string) domain.Result
	UnhideAllCategories(ctx context.Context, userID string) domain.Result
	ListTasks(ctx context.Context, categoryID, userID string) ([]domain.Task, error)
	AddTask(ctx context.Context, userID, categoryID, text string) domain.Result
	UpdateTask(ctx context.Context, id string, updates map[string]any) domain.Result
	DeleteTask(ctx context.Context, id string) domain.Result
	ToggleTaskCompletion(ctx context.Context, id string, current bool) domain.Result
	ToggleTaskHighlight(ctx context.Context, id string, current bool) domain.Result
	CategoriesSnapshot(ctx context.Context, userID string) []domain.Category
	TasksSnapshot(ctx context.Context, categoryID, userID string) []domain.Task
}

// AccountService is the slice of the account service the handlers need.
type AccountService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	AccessTTLSeconds() int
}

// Deps collects the services the router wires handlers to.
type Deps struct {
	Board   BoardService
	Account AccountService
	Sync    SyncStreamer
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())
	if len(corsOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = corsOrigins
		corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
		router.Use(cors.New(corsCfg))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")
	api.POST("/auth/register", registerHandler(deps.Account))
	api.POST("/auth/login", loginHandler(deps.Account))

	authed := api.Group("", authMiddleware(deps.Account))
	authed.GET("/me", meHandler())

	authed.GET("/categories", listCategoriesHandler(deps.Board))
	authed.POST("/categories", addCategoryHandler(deps.Board))
	authed.PATCH("/categories/:id", updateCategoryHandler(deps.Board))
	authed.DELETE("/categories/:id", deleteCategoryHandler(deps.Board))
	authed.POST("/categories/unhide_all", unhideAllHandler(deps.Board))

	authed.GET("/categories/:id/tasks", listTasksHandler(deps.Board))
	authed.POST("/categories/:id/tasks", addTaskHandler(deps.Board))
	authed.PATCH("/tasks/:id", updateTaskHandler(deps.Board))
	authed.DELETE("/tasks/:id", deleteTaskHandler(deps.Board))
	authed.POST("/tasks/:id/toggle_completed", toggleCompletedHandler(deps.Board))
	authed.POST("/tasks/:id/toggle_highlighted", toggleHighlightedHandler(deps.Board))

	if deps.Sync != nil {
		authed.GET("/sync/categories", syncCategoriesHandler(deps.Sync, deps.Board, logger))
		authed.GET("/sync/tasks/:id", syncTasksHandler(deps.Sync, deps.Board, logger))
	}

	return router, nil
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
		)
	}
}
