package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"srt-booking/internal/service"
)

const (
	sessionClaimsKey  = "session_claims"
	sessionCookieName = "train_session"
)

// SessionCookie describe la cookie de sesion local.
type SessionCookie struct {
	Secure bool
	tokens *service.SessionTokenService
}

func NewSessionCookie(tokens *service.SessionTokenService, secure bool) *SessionCookie {
	return &SessionCookie{Secure: secure, tokens: tokens}
}

func (s *SessionCookie) set(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, token, int(s.tokens.TTL().Seconds()), "/", "", s.Secure, true)
}

func (s *SessionCookie) clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, "", -1, "/", "", s.Secure, true)
}

// LoadSession lee la cookie si existe y guarda los claims en el contexto.
// No rechaza la request; para eso esta RequireSession.
func (s *SessionCookie) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s == nil || s.tokens == nil {
			c.Next()
			return
		}
		raw, err := c.Cookie(sessionCookieName)
		if err != nil || raw == "" {
			c.Next()
			return
		}
		claims, err := s.tokens.Parse(raw)
		if err != nil {
			s.clear(c)
			c.Next()
			return
		}
		c.Set(sessionClaimsKey, claims)
		c.Next()
	}
}

// RequireSession corta con 401 si no hay una cookie de sesion valida.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetSessionClaims(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetSessionClaims obtiene los claims de la cookie desde el contexto.
func GetSessionClaims(c *gin.Context) (service.SessionClaims, bool) {
	val, ok := c.Get(sessionClaimsKey)
	if !ok {
		return service.SessionClaims{}, false
	}
	claims, ok := val.(service.SessionClaims)
	return claims, ok
}
