package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"srt-booking/internal/service"
	"srt-booking/internal/srt"
)

// BookingHandler expone los pasos de reserva: estaciones, fechas y horarios.
type BookingHandler struct {
	logger  *zap.Logger
	booking *service.BookingService
	cookie  *SessionCookie
	now     func() time.Time
}

func NewBookingHandler(logger *zap.Logger, booking *service.BookingService, cookie *SessionCookie) *BookingHandler {
	return &BookingHandler{
		logger:  logger,
		booking: booking,
		cookie:  cookie,
		now:     time.Now,
	}
}

// Stations maneja GET /stations/:trainType.
func (h *BookingHandler) Stations(c *gin.Context) {
	trainType, ok := trainTypeParam(c)
	if !ok {
		return
	}
	stations, err := h.booking.Stations(trainType)
	if err != nil {
		writeBookingError(c, h.logger, h.cookie, "stations", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stations": stations})
}

// Dates maneja GET /booking/:trainType/dates?dep=&arr=.
func (h *BookingHandler) Dates(c *gin.Context) {
	claims, ok := h.sessionFor(c)
	if !ok {
		return
	}
	dep, arr := c.Query("dep"), c.Query("arr")
	if dep == "" || arr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "출발역과 도착역이 필요합니다"})
		return
	}

	dates, err := h.booking.AvailableDates(c.Request.Context(), claims.Handle, dep, arr, h.now())
	if err != nil {
		writeBookingError(c, h.logger, h.cookie, "available dates", err)
		return
	}

	out := make([]gin.H, 0, len(dates))
	for _, d := range dates {
		out = append(out, gin.H{
			"date":         d.Date.In(srt.Seoul).Format("20060102"),
			"is_available": d.IsBookable,
		})
	}
	c.JSON(http.StatusOK, gin.H{"available_dates": out})
}

// Trains maneja POST /booking/:trainType/trains.
func (h *BookingHandler) Trains(c *gin.Context) {
	claims, ok := h.sessionFor(c)
	if !ok {
		return
	}
	var req struct {
		Departure string `json:"departure" binding:"required"`
		Arrival   string `json:"arrival" binding:"required"`
		Date      string `json:"date" binding:"required"`
		Time      string `json:"time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid train search request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "필수 정보가 누락되었습니다."})
		return
	}
	departAt, err := srt.ParseDeparture(req.Date, req.Time)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date or time"})
		return
	}

	trains, err := h.booking.SearchTrains(c.Request.Context(), claims.Handle, req.Departure, req.Arrival, departAt)
	if err != nil {
		writeBookingError(c, h.logger, h.cookie, "train search", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trains": trains})
}

// History maneja GET /booking/history.
func (h *BookingHandler) History(c *gin.Context) {
	claims, ok := GetSessionClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	records, err := h.booking.History(c.Request.Context(), claims.Handle, limit)
	if err != nil {
		writeBookingError(c, h.logger, h.cookie, "search history", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"searches": records})
}

// sessionFor valida el tipo de tren de la ruta y que la cookie le corresponda.
func (h *BookingHandler) sessionFor(c *gin.Context) (service.SessionClaims, bool) {
	trainType, ok := trainTypeParam(c)
	if !ok {
		return service.SessionClaims{}, false
	}
	if err := h.booking.CheckTrainType(trainType); err != nil {
		writeBookingError(c, h.logger, h.cookie, "train type", err)
		return service.SessionClaims{}, false
	}
	claims, ok := GetSessionClaims(c)
	if !ok || claims.TrainType != trainType {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return service.SessionClaims{}, false
	}
	return claims, true
}
