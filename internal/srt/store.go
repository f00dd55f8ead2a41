package srt

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"srt-booking/internal/domain"
)

const storeShards = 16

// SessionStore guarda la sesion remota de cada handle local. Solo vive en
// memoria; el sitio remoto es la unica autoridad sobre la validez del token.
type SessionStore struct {
	shards [storeShards]storeShard
}

type storeShard struct {
	mu    sync.RWMutex
	items map[string]domain.Session
}

func NewSessionStore() *SessionStore {
	s := &SessionStore{}
	for i := range s.shards {
		s.shards[i].items = make(map[string]domain.Session)
	}
	return s
}

func (s *SessionStore) shard(localID string) *storeShard {
	return &s.shards[xxhash.Sum64String(localID)%storeShards]
}

// Put inserta o reemplaza la sesion del handle.
func (s *SessionStore) Put(localID string, session domain.Session) {
	sh := s.shard(localID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.items[localID] = session
}

func (s *SessionStore) Get(localID string) (domain.Session, bool) {
	sh := s.shard(localID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	session, ok := sh.items[localID]
	return session, ok
}

// Remove es idempotente.
func (s *SessionStore) Remove(localID string) {
	sh := s.shard(localID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.items, localID)
}

func (s *SessionStore) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		n += len(sh.items)
		sh.mu.RUnlock()
	}
	return n
}
