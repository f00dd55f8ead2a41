package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"srt-booking/internal/domain"
)

const defaultSessionTTL = 24 * time.Hour

// SessionTokenService firma la cookie de sesion local con el handle remoto.
type SessionTokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	store  SessionTokenStore
}

type SessionClaims struct {
	Handle    string           `json:"hdl"`
	TrainType domain.TrainType `json:"train_type"`
	OwnerHash string           `json:"owner"`
	jwt.RegisteredClaims
}

var (
	ErrSessionTokenInvalid = errors.New("session token invalid")
	ErrSessionTokenExpired = errors.New("session token expired")
)

func NewSessionTokenService(secret string, ttl time.Duration, store SessionTokenStore) *SessionTokenService {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if store == nil {
		store = NewMemorySessionTokenStore()
	}
	return &SessionTokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "srt-booking",
		store:  store,
	}
}

func (s *SessionTokenService) TTL() time.Duration {
	return s.ttl
}

// Issue emite un token para el handle y registra su jti.
func (s *SessionTokenService) Issue(handle string, trainType domain.TrainType, ownerHash string) (string, error) {
	if len(s.secret) == 0 || strings.TrimSpace(handle) == "" {
		return "", ErrSessionTokenInvalid
	}
	now := time.Now().UTC()
	jti := uuid.NewString()
	claims := SessionClaims{
		Handle:    handle,
		TrainType: trainType,
		OwnerHash: ownerHash,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.issuer,
			Subject:   handle,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}
	if err := s.store.Store(jti, handle, s.ttl); err != nil {
		return "", err
	}
	return signed, nil
}

// Parse valida firma, emisor y que el jti no haya sido revocado.
func (s *SessionTokenService) Parse(token string) (SessionClaims, error) {
	if len(s.secret) == 0 || strings.TrimSpace(token) == "" {
		return SessionClaims{}, ErrSessionTokenInvalid
	}
	claims, err := s.parseToken(token)
	if err != nil {
		return SessionClaims{}, err
	}
	if claims.Handle == "" || claims.Subject != claims.Handle || claims.Issuer != s.issuer || claims.ID == "" {
		return SessionClaims{}, ErrSessionTokenInvalid
	}
	ok, err := s.store.Exists(claims.ID)
	if err != nil || !ok {
		return SessionClaims{}, ErrSessionTokenInvalid
	}
	return claims, nil
}

func (s *SessionTokenService) Revoke(claims SessionClaims) error {
	if claims.ID == "" {
		return ErrSessionTokenInvalid
	}
	return s.store.Revoke(claims.ID)
}

func (s *SessionTokenService) parseToken(tokenString string) (SessionClaims, error) {
	var claims SessionClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return SessionClaims{}, ErrSessionTokenExpired
		}
		return SessionClaims{}, ErrSessionTokenInvalid
	}
	return claims, nil
}
