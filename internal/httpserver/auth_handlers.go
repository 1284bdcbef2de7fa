package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskit/internal/domain"
	"taskit/internal/service/account"
	"taskit/internal/validate"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User         domain.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresIn    int         `json:"expiresIn"`
}

func registerHandler(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, domain.Fail(domain.CodeValidationError, "invalid request body"))
			return
		}
		u, err := svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			switch {
			case isValidationErr(err):
				c.JSON(http.StatusUnprocessableEntity, domain.Fail(domain.CodeValidationError, err.Error()))
			case errors.Is(err, account.ErrEmailTaken):
				c.JSON(http.StatusConflict, domain.Fail(domain.CodeDatabaseError, err.Error()))
			default:
				c.JSON(http.StatusInternalServerError, domain.Fail(domain.CodeDatabaseError, err.Error()))
			}
			return
		}
		c.JSON(http.StatusCreated, gin.H{"user": u})
	}
}

func loginHandler(svc AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, domain.Fail(domain.CodeValidationError, "invalid request body"))
			return
		}
		u, accessToken, refreshToken, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, account.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, domain.Fail(domain.CodeAuthRequired, "invalid credentials"))
				return
			}
			c.JSON(http.StatusInternalServerError, domain.Fail(domain.CodeDatabaseError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, sessionResponse{
			User:         *u,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    svc.AccessTTLSeconds(),
		})
	}
}

func meHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": currentUser(c)})
	}
}

func isValidationErr(err error) bool {
	return errors.Is(err, validate.ErrInvalidEmail) ||
		errors.Is(err, validate.ErrWeakPassword) ||
		errors.Is(err, validate.ErrEmptyDisplay) ||
		errors.Is(err, validate.ErrDisplayTooLong)
}
