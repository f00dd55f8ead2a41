package srt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"srt-booking/internal/domain"
)

const (
	DefaultDateWindow      = 14
	defaultDateConcurrency = 4
	defaultTimeout         = 15 * time.Second
)

// Options configura el cliente. Los campos vacios toman valores por defecto.
type Options struct {
	BaseURL         string
	UserAgent       string
	Timeout         time.Duration
	DateWindow      int
	DateConcurrency int
	HTTPClient      HTTPDoer
}

// Client es la fachada del cliente de SRT: une store, login, dispatcher y
// consultas. Se construye explicitamente y se inyecta a quien lo use.
type Client struct {
	store           *SessionStore
	login           *LoginExecutor
	dispatcher      *Dispatcher
	logger          *zap.Logger
	dateWindow      int
	dateConcurrency int
	newID           func() string
}

func NewClient(opts Options, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.DateWindow <= 0 {
		opts.DateWindow = DefaultDateWindow
	}
	if opts.DateConcurrency <= 0 {
		opts.DateConcurrency = defaultDateConcurrency
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}

	s := &site{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		doer:      opts.HTTPClient,
	}
	store := NewSessionStore()
	return &Client{
		store: store,
		login: &LoginExecutor{
			site:   s,
			store:  store,
			logger: logger,
			now:    time.Now,
		},
		dispatcher:      &Dispatcher{site: s},
		logger:          logger,
		dateWindow:      opts.DateWindow,
		dateConcurrency: opts.DateConcurrency,
		newID:           uuid.NewString,
	}
}

// Login autentica contra el sitio y devuelve un handle opaco de sesion.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return "", &CredentialsError{Message: "아이디와 비밀번호를 입력해주세요"}
	}
	handle := c.newID()
	if _, err := c.login.Login(ctx, handle, username, password); err != nil {
		return "", err
	}
	c.logger.Info("srt session created", zap.String("local_id", handle))
	return handle, nil
}

// IsAuthenticated solo consulta el store; no hace llamadas remotas.
func (c *Client) IsAuthenticated(handle string) bool {
	session, ok := c.store.Get(handle)
	return ok && session.Usable()
}

// Session expone la sesion de un handle para quien necesite su dueno.
func (c *Client) Session(handle string) (domain.Session, bool) {
	return c.store.Get(handle)
}

func (c *Client) Stations() []domain.Station {
	return Stations()
}

// SearchTrains busca horarios para un par de estaciones desde departAt.
func (c *Client) SearchTrains(ctx context.Context, handle, departureCode, arrivalCode string, departAt time.Time) ([]domain.Train, error) {
	session, err := c.resolve(handle)
	if err != nil {
		return nil, err
	}
	if err := validatePair(departureCode, arrivalCode); err != nil {
		return nil, err
	}
	trains, err := c.searchTrains(ctx, session, TrainQuery{
		DepartureCode: departureCode,
		ArrivalCode:   arrivalCode,
		DepartAt:      departAt,
	})
	if errors.Is(err, ErrSessionExpired) {
		c.expire(handle)
	}
	return trains, err
}

// AvailableDates consulta cada dia de la ventana por separado, porque el sitio
// no admite consultas de varias fechas. Un dia que falla queda como no
// reservable en vez de fallar toda la llamada; el vencimiento de la sesion si
// corta la consulta completa.
func (c *Client) AvailableDates(ctx context.Context, handle, departureCode, arrivalCode string, from time.Time) ([]domain.DateAvailability, error) {
	session, err := c.resolve(handle)
	if err != nil {
		return nil, err
	}
	if err := validatePair(departureCode, arrivalCode); err != nil {
		return nil, err
	}

	local := from.In(Seoul)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Seoul)
	results := make([]domain.DateAvailability, c.dateWindow)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.dateConcurrency)
	for i := range results {
		day := start.AddDate(0, 0, i)
		results[i].Date = day
		g.Go(func() error {
			trains, err := c.searchTrains(gctx, session, TrainQuery{
				DepartureCode: departureCode,
				ArrivalCode:   arrivalCode,
				DepartAt:      day,
			})
			if errors.Is(err, ErrSessionExpired) {
				return err
			}
			if err != nil {
				c.logger.Warn("srt date lookup failed",
					zap.String("local_id", handle),
					zap.String("date", day.Format("20060102")),
					zap.Error(err),
				)
				return nil
			}
			results[i].IsBookable = len(trains) > 0
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.expire(handle)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, &TransportError{Op: "available dates", Err: err}
	}
	return results, nil
}

// Logout borra la sesion local y avisa al sitio. Es idempotente; la falla del
// aviso remoto solo se registra.
func (c *Client) Logout(ctx context.Context, handle string) {
	session, ok := c.store.Get(handle)
	if !ok {
		return
	}
	c.store.Remove(handle)
	_, err := c.dispatcher.Call(ctx, session, Request{Method: http.MethodGet, Path: logoutPath})
	if err != nil && !errors.Is(err, ErrSessionExpired) {
		c.logger.Warn("srt remote logout failed", zap.String("local_id", handle), zap.Error(err))
	}
	c.logger.Info("srt session closed", zap.String("local_id", handle))
}

func (c *Client) resolve(handle string) (domain.Session, error) {
	session, ok := c.store.Get(handle)
	if !ok || !session.Usable() {
		return domain.Session{}, ErrNotAuthenticated
	}
	return session, nil
}

func (c *Client) expire(handle string) {
	c.store.Remove(handle)
	c.logger.Info("srt session expired", zap.String("local_id", handle))
}

func (c *Client) searchTrains(ctx context.Context, session domain.Session, q TrainQuery) ([]domain.Train, error) {
	resp, err := c.dispatcher.Call(ctx, session, Request{
		Method:  http.MethodPost,
		Path:    searchPath,
		Form:    q.form(),
		Referer: landingPath,
	})
	if err != nil {
		return nil, err
	}
	trains, dropped, err := ParseTrainListing(resp.Body)
	if err != nil {
		return nil, err
	}
	// Las filas invalidas se omiten; la lista parcial es intencional.
	if dropped > 0 {
		c.logger.Warn("srt train rows dropped",
			zap.Int("dropped", dropped),
			zap.Int("kept", len(trains)),
			zap.String("date", q.DepartAt.In(Seoul).Format("20060102")),
		)
	}
	return trains, nil
}

func validatePair(departureCode, arrivalCode string) error {
	if _, ok := LookupStation(departureCode); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStation, departureCode)
	}
	if _, ok := LookupStation(arrivalCode); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStation, arrivalCode)
	}
	if departureCode == arrivalCode {
		return fmt.Errorf("%w: departure equals arrival", ErrUnknownStation)
	}
	return nil
}
