package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/the3rafas/cr7system/internal/service/auth"
)

// DeviceTokenCookie is the cookie carrying the device token issued at login.
const DeviceTokenCookie = "device_token"

// AuthHandler handles the shared-password gate endpoints.
type AuthHandler struct {
	svc            auth.Service
	sessionTTLDays int
	logger         *zap.Logger
}

// NewAuthHandler constructs the HTTP handler adapter.
func NewAuthHandler(svc auth.Service, sessionTTLDays int, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{svc: svc, sessionTTLDays: sessionTTLDays, logger: logger}
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login exchanges the shared password for a device token cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token, err := h.svc.Login(c.Request.Context(), req.Password)
	if err != nil {
		// Wrong password and storage trouble look the same to the client.
		h.logger.Warn("login refused", zap.Error(err))
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	maxAge := h.sessionTTLDays * 24 * 60 * 60
	c.SetCookie(DeviceTokenCookie, token, maxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Check verifies the device token found in the cookie or, for older clients,
// in the q query parameter.
func (h *AuthHandler) Check(c *gin.Context) {
	token := deviceToken(c)
	if err := h.svc.Verify(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}
	c.Status(http.StatusOK)
}

// RequireDevice is the middleware gating the API group behind a valid device
// token.
func (h *AuthHandler) RequireDevice(c *gin.Context) {
	token := deviceToken(c)
	if err := h.svc.Verify(c.Request.Context(), token); err != nil {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}
	c.Next()
}

func deviceToken(c *gin.Context) string {
	if token, err := c.Cookie(DeviceTokenCookie); err == nil && token != "" {
		return token
	}
	return c.Query("q")
}
