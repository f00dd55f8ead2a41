package http

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"srt-booking/internal/domain"
	"srt-booking/internal/service"
	"srt-booking/internal/srt"
)

// writeBookingError traduce errores del cliente de SRT a respuestas HTTP.
func writeBookingError(c *gin.Context, logger *zap.Logger, cookie *SessionCookie, op string, err error) {
	var credErr *srt.CredentialsError
	switch {
	case errors.As(err, &credErr):
		c.JSON(http.StatusUnauthorized, gin.H{"error": credErr.Message})
	case errors.Is(err, srt.ErrVerificationFailed):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login could not be verified"})
	case errors.Is(err, service.ErrRateLimited):
		var rlErr *service.RateLimitError
		if errors.As(err, &rlErr) && rlErr.RetryAfter > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(rlErr.RetryAfter.Seconds()))))
		}
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many login attempts"})
	case errors.Is(err, srt.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
	case errors.Is(err, srt.ErrSessionExpired):
		cookie.clear(c)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired", "relogin": true})
	case errors.Is(err, srt.ErrUnknownStation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid station"})
	case errors.Is(err, service.ErrTrainTypeNotSupported):
		c.JSON(http.StatusNotImplemented, gin.H{"error": "train type not supported"})
	case errors.Is(err, srt.ErrTransport),
		errors.Is(err, srt.ErrUnexpectedResponse),
		errors.Is(err, srt.ErrNoInitialSession):
		logger.Warn(op+" upstream failure", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "ticketing site unavailable"})
	default:
		logger.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// trainTypeParam valida el tipo de tren de la ruta.
func trainTypeParam(c *gin.Context) (domain.TrainType, bool) {
	trainType, ok := domain.ParseTrainType(c.Param("trainType"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown train type"})
		return "", false
	}
	return trainType, true
}
