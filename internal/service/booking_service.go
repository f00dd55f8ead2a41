package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"srt-booking/internal/domain"
	"srt-booking/internal/repository"
	"srt-booking/internal/srt"
)

var (
	ErrRateLimited           = errors.New("rate limited")
	ErrTrainTypeNotSupported = errors.New("train type not supported")
	ErrBookingNotConfigured  = errors.New("booking service not configured")
)

const defaultHistoryLimit = 20

// RateLimitError indica cuanto esperar antes del proximo intento de login.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: retry after %s", ErrRateLimited, e.RetryAfter)
}

func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// BookingService coordina el cliente de SRT con el historial y el rate limit.
type BookingService struct {
	logger   *zap.Logger
	client   *srt.Client
	searches repository.SearchRepository
	limiter  LoginRateLimiter
	hasher   *OwnerHasher
}

func NewBookingService(logger *zap.Logger, client *srt.Client, searches repository.SearchRepository, limiter LoginRateLimiter, hasher *OwnerHasher) *BookingService {
	if limiter == nil {
		limiter = NewLoginRateLimiter(10*time.Minute, 5)
	}
	if searches == nil {
		searches = repository.NewMemorySearchRepository(0)
	}
	if hasher == nil {
		hasher = NewOwnerHasher("")
	}
	return &BookingService{
		logger:   logger,
		client:   client,
		searches: searches,
		limiter:  limiter,
		hasher:   hasher,
	}
}

type LoginResult struct {
	Handle    string
	OwnerHash string
}

func (s *BookingService) Login(ctx context.Context, trainType domain.TrainType, username, password string) (LoginResult, error) {
	if s.client == nil {
		return LoginResult{}, ErrBookingNotConfigured
	}
	if err := s.CheckTrainType(trainType); err != nil {
		return LoginResult{}, err
	}
	// Mismo dueno para toda escritura de la cuenta: limiter e historial
	// comparten la clave.
	owner := s.hasher.Hash(srt.NormalizeAccount(username))
	if ok, retryAfter := s.limiter.Allow(ctx, owner); !ok {
		s.logger.Warn("login rate limited", zap.String("owner", owner), zap.Duration("retry_after", retryAfter))
		return LoginResult{}, &RateLimitError{RetryAfter: retryAfter}
	}
	handle, err := s.client.Login(ctx, username, password)
	if err != nil {
		s.logger.Info("login failed", zap.String("owner", owner), zap.Error(err))
		return LoginResult{}, err
	}
	if err := s.limiter.Reset(ctx, owner); err != nil {
		s.logger.Warn("login limiter reset failed", zap.String("owner", owner), zap.Error(err))
	}
	return LoginResult{Handle: handle, OwnerHash: owner}, nil
}

// CheckTrainType rechaza los tipos de tren que aun no tienen cliente.
func (s *BookingService) CheckTrainType(trainType domain.TrainType) error {
	if trainType != domain.TrainTypeSRT {
		return ErrTrainTypeNotSupported
	}
	return nil
}

func (s *BookingService) Logout(ctx context.Context, handle string) {
	if s.client == nil || handle == "" {
		return
	}
	s.client.Logout(ctx, handle)
}

func (s *BookingService) IsAuthenticated(handle string) bool {
	return s.client != nil && s.client.IsAuthenticated(handle)
}

func (s *BookingService) Stations(trainType domain.TrainType) ([]domain.Station, error) {
	if err := s.CheckTrainType(trainType); err != nil {
		return nil, err
	}
	return srt.Stations(), nil
}

func (s *BookingService) AvailableDates(ctx context.Context, handle, departureCode, arrivalCode string, from time.Time) ([]domain.DateAvailability, error) {
	if s.client == nil {
		return nil, ErrBookingNotConfigured
	}
	return s.client.AvailableDates(ctx, handle, departureCode, arrivalCode, from)
}

// SearchTrains busca horarios y registra la busqueda. Una falla al guardar el
// historial no afecta la respuesta.
func (s *BookingService) SearchTrains(ctx context.Context, handle, departureCode, arrivalCode string, departAt time.Time) ([]domain.Train, error) {
	if s.client == nil {
		return nil, ErrBookingNotConfigured
	}
	trains, err := s.client.SearchTrains(ctx, handle, departureCode, arrivalCode, departAt)
	if err != nil {
		return nil, err
	}

	if session, ok := s.client.Session(handle); ok {
		record := domain.SearchRecord{
			ID:            uuid.NewString(),
			OwnerHash:     s.hasher.Hash(session.OwnerIdentity),
			DepartureCode: departureCode,
			ArrivalCode:   arrivalCode,
			TravelDate:    departAt.UTC(),
			ResultCount:   len(trains),
			CreatedAt:     time.Now().UTC(),
		}
		if err := s.searches.Create(ctx, record); err != nil {
			s.logger.Warn("search history insert failed", zap.Error(err))
		}
	}
	return trains, nil
}

// History devuelve las ultimas busquedas del dueno de la sesion.
func (s *BookingService) History(ctx context.Context, handle string, limit int) ([]domain.SearchRecord, error) {
	if s.client == nil {
		return nil, ErrBookingNotConfigured
	}
	session, ok := s.client.Session(handle)
	if !ok {
		return nil, srt.ErrNotAuthenticated
	}
	if limit <= 0 || limit > 100 {
		limit = defaultHistoryLimit
	}
	records, err := s.searches.ListByOwner(ctx, s.hasher.Hash(session.OwnerIdentity), limit)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.SearchRecord{}
	}
	return records, nil
}
