package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskit/internal/domain"
	"taskit/internal/service/board"
)

type addCategoryRequest struct {
	Name        string `json:"name"`
	Highlighted bool   `json:"highlighted"`
}

type updateCategoryRequest struct {
	Name        *string `json:"name"`
	Hidden      *bool   `json:"hidden"`
	Highlighted *bool   `json:"highlighted"`
}

type addTaskRequest struct {
	Text string `json:"text"`
}

type updateTaskRequest struct {
	Text        *string `json:"text"`
	Completed   *bool   `json:"completed"`
	Highlighted *bool   `json:"highlighted"`
}

type toggleRequest struct {
	Current bool `json:"current"`
}

// statusForResult maps failure codes to HTTP status; the uniform Result
// body is returned either way.
func statusForResult(res domain.Result) int {
	if res.Success {
		return http.StatusOK
	}
	switch res.Code {
	case domain.CodeAuthRequired:
		return http.StatusUnauthorized
	case domain.CodeValidationError:
		return http.StatusUnprocessableEntity
	case domain.CodeDuplicateCategory:
		return http.StatusConflict
	case domain.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respond(c *gin.Context, res domain.Result) {
	c.JSON(statusForResult(res), res)
}

func listCategoriesHandler(svc BoardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		categories, err := svc.ListCategories(c.Request.Context(), u.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, domain.Fail(domain.CodeDatabaseError, err.Error()))
			return
		}
		if categories == nil {
			categories = []domain.Category{}
		}
		c.JSON(http.StatusOK, categories)
	}
}

func addCategoryHandler(svc BoardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		var req addCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, domain.Fail(domain.CodeValidationError, "invalid request body"))
			return
		}
		res := svc.AddCategory(c.Request.Context(), u.ID, req.Name, board.CategoryOptions{Highlighted: req.Highlighted})
		if res.Success {
			c.JSON(http.StatusCreated, res)
			return
		}
		respond(c, res)
	}
}

func updateCategoryHandler(svc BoardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, domain.Fail(domain.CodeValidationError, "invalid request body"))
			return
		}
		updates := map[string]any{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Hidden != nil {
			updates["hidden"] = *req.Hidden
		}
		if req.Highlighted != nil {
			updates["highlighted"] = *req.Highlighted
		}
		if len(updates) == 0 {
			c.JSON(http.StatusBadRequest, domain.Fail(domain.CodeValidationError, "no fields to update"))
			return
		}
		respond(c, svc.UpdateCategory(c.Request.Context(), c.Param("id"), updates))
	}
}

func deleteCategoryHandler(svc BoardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		respond(c, svc.DeleteCategory(c.Request.Context(), c.Param("id"), u.ID))
	}
}

func unhideAllHandler(svc BoardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		respond(c, svc.UnhideAllCategories(c.Request.Context(), u.ID))
	}
}

func listTasksHandler(svc BoardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		tasks, err := svc.ListTasks(c.Request.Context(), c.Param("id"), u.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, domain.Fail(domain.CodeDatabaseError, err.Error()))
			return
		}
		if tasks == nil {
			tasks = []domain.Task{}
		}
		c.JSON(http.StatusOK, tasks)
	}
}

func addTaskHandler(svc BoardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		var req addTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, domain.Fail(domain.CodeValidationError, "invalid request body"))
			return
		}
		res := svc.AddTask(c.Request.Context(), u.ID, c.Param("id"), req.Text)
		if res.Success {
			c.JSON(http.StatusCreated, res)
			return
		}
		respond(c, res)
	}
}

func updateTaskHandler(svc BoardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, domain.Fail(domain.CodeValidationError, "invalid request body"))
			return
		}
		updates := map[string]any{}
		if req.Text != nil {
			updates["text"] = *req.Text
		}
		if req.Completed != nil {
			updates["completed"] = *req.Completed
		}
		if req.Highlighted != nil {
			updates["highlighted"] = *req.Highlighted
		}
		if len(updates) == 0 {
			c.JSON(http.StatusBadRequest, domain.Fail(domain.CodeValidationError, "no fields to update"))
			return
		}
		respond(c, svc.UpdateTask(c.Request.Context(), c.Param("id"), updates))
	}
}

func deleteTaskHandler(svc BoardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		respond(c, svc.DeleteTask(c.Request.Context(), c.Param("id")))
	}
}

func toggleCompletedHandler(svc BoardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req toggleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, domain.Fail(domain.CodeValidationError, "invalid request body"))
			return
		}
		respond(c, svc.ToggleTaskCompletion(c.Request.Context(), c.Param("id"), req.Current))
	}
}

func toggleHighlightedHandler(svc BoardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req toggleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, domain.Fail(domain.CodeValidationError, "invalid request body"))
			return
		}
		respond(c, svc.ToggleTaskHighlight(c.Request.Context(), c.Param("id"), req.Current))
	}
}
