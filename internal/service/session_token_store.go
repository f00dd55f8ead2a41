package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionTokenStore guarda el jti de cada cookie de sesion emitida y permite
// revocarla al cerrar sesion.
type SessionTokenStore interface {
	Store(jti, handle string, ttl time.Duration) error
	Exists(jti string) (bool, error)
	Revoke(jti string) error
}

// issuedSession es lo que se recuerda de cada cookie emitida.
type issuedSession struct {
	handle    string
	expiresAt time.Time
}

// memorySessionTokenStore sirve cuando no hay redis. Las entradas vencidas se
// podan al emitir una cookie nueva, asi el mapa no crece con sesiones viejas.
type memorySessionTokenStore struct {
	mu       sync.Mutex
	sessions map[string]issuedSession
	now      func() time.Time
}

func NewMemorySessionTokenStore() SessionTokenStore {
	return &memorySessionTokenStore{
		sessions: make(map[string]issuedSession),
		now:      time.Now,
	}
}

func (s *memorySessionTokenStore) Store(jti, handle string, ttl time.Duration) error {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	for id, issued := range s.sessions {
		if !now.Before(issued.expiresAt) {
			delete(s.sessions, id)
		}
	}
	s.sessions[jti] = issuedSession{handle: handle, expiresAt: now.Add(ttl)}
	return nil
}

func (s *memorySessionTokenStore) Exists(jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	jti = strings.TrimSpace(jti)
	issued, ok := s.sessions[jti]
	if !ok {
		return false, nil
	}
	if !s.now().UTC().Before(issued.expiresAt) {
		delete(s.sessions, jti)
		return false, nil
	}
	return true, nil
}

func (s *memorySessionTokenStore) Revoke(jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, strings.TrimSpace(jti))
	return nil
}

type redisKV interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisSessionTokenStore struct {
	client redisKV
	prefix string
}

func NewRedisSessionTokenStore(client *redis.Client) SessionTokenStore {
	if client == nil {
		return nil
	}
	return &redisSessionTokenStore{
		client: client,
		prefix: "booking:session:",
	}
}

func (s *redisSessionTokenStore) Store(jti, handle string, ttl time.Duration) error {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return s.client.Set(ctx, s.prefix+jti, handle, ttl).Err()
}

func (s *redisSessionTokenStore) Exists(jti string) (bool, error) {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	n, err := s.client.Exists(ctx, s.prefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisSessionTokenStore) Revoke(jti string) error {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return s.client.Del(ctx, s.prefix+jti).Err()
}
