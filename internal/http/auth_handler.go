package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"srt-booking/internal/service"
)

// AuthHandler mantiene dependencias para login y logout contra SRT.
type AuthHandler struct {
	logger  *zap.Logger
	booking *service.BookingService
	tokens  *service.SessionTokenService
	cookie  *SessionCookie
}

// NewAuthHandler crea una instancia de AuthHandler con dependencias necesarias.
func NewAuthHandler(logger *zap.Logger, booking *service.BookingService, tokens *service.SessionTokenService, cookie *SessionCookie) *AuthHandler {
	return &AuthHandler{
		logger:  logger,
		booking: booking,
		tokens:  tokens,
		cookie:  cookie,
	}
}

// Login maneja POST /auth/:trainType/login.
func (h *AuthHandler) Login(c *gin.Context) {
	trainType, ok := trainTypeParam(c)
	if !ok {
		return
	}
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "아이디와 비밀번호를 입력해주세요"})
		return
	}

	// Reemplaza la sesion previa del navegador, si la hay.
	if prev, ok := GetSessionClaims(c); ok {
		h.booking.Logout(c.Request.Context(), prev.Handle)
		if err := h.tokens.Revoke(prev); err != nil {
			h.logger.Warn("session token revoke failed", zap.Error(err))
		}
	}

	result, err := h.booking.Login(c.Request.Context(), trainType, req.Username, req.Password)
	if err != nil {
		writeBookingError(c, h.logger, h.cookie, "login", err)
		return
	}

	token, err := h.tokens.Issue(result.Handle, trainType, result.OwnerHash)
	if err != nil {
		h.logger.Error("session token issue failed", zap.Error(err))
		h.booking.Logout(c.Request.Context(), result.Handle)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}
	h.cookie.set(c, token)
	c.JSON(http.StatusOK, gin.H{"status": "logged_in", "train_type": trainType})
}

// Status maneja GET /auth/status.
func (h *AuthHandler) Status(c *gin.Context) {
	claims, ok := GetSessionClaims(c)
	if !ok || !h.booking.IsAuthenticated(claims.Handle) {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "train_type": claims.TrainType})
}

// Logout maneja POST /auth/logout. Es idempotente.
func (h *AuthHandler) Logout(c *gin.Context) {
	if claims, ok := GetSessionClaims(c); ok {
		h.booking.Logout(c.Request.Context(), claims.Handle)
		if err := h.tokens.Revoke(claims); err != nil {
			h.logger.Warn("session token revoke failed", zap.Error(err))
		}
	}
	h.cookie.clear(c)
	c.Status(http.StatusNoContent)
}
