package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskit/internal/domain"
)

const userContextKey = "taskit.user"

// authMiddleware resolves the Bearer token to a user and aborts with 401
// when it cannot.
func authMiddleware(account AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, domain.Fail(domain.CodeAuthRequired, "user not authenticated"))
			return
		}
		u, err := account.LookupByToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, domain.Fail(domain.CodeAuthRequired, "user not authenticated"))
			return
		}
		c.Set(userContextKey, u)
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}
