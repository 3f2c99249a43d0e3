package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"vibestays/internal/app/dto"
	authsvc "vibestays/internal/app/services/auth"
)

type AuthHTTP interface {
	Login(c *gin.Context)
	Logout(c *gin.Context)
	Me(c *gin.Context)
}

type AuthHandler struct {
	Service *authsvc.Service
	Logger  *slog.Logger
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h AuthHandler) Login(c *gin.Context) {
	if h.Service == nil {
		unavailable(c, "auth service")
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	result, err := h.Service.Login(c.Request.Context(), authsvc.LoginParams{Email: req.Email, Password: req.Password})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.AuthResponse{
		Token:     string(result.Session.Token),
		ExpiresAt: result.Session.ExpiresAt,
		Admin:     dto.MapAdminProfile(result.User),
	})
}

func (h AuthHandler) Logout(c *gin.Context) {
	if h.Service == nil {
		unavailable(c, "auth service")
		return
	}
	if err := h.Service.Logout(c.Request.Context(), bearerToken(c)); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h AuthHandler) Me(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return
	}
	c.JSON(http.StatusOK, dto.AdminProfile{ID: p.UserID, Email: p.Email, Name: p.Name, Role: p.Role})
}

var _ AuthHTTP = AuthHandler{}
