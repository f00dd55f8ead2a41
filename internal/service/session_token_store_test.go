package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockRedisKVClient struct {
	lastSetKey string
	lastSetVal interface{}
	lastSetTTL time.Duration
	lastExists []string
	lastDel    []string

	setErr    error
	existsErr error
	delErr    error
	existsN   int64
}

func (m *mockRedisKVClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.lastSetKey = key
	m.lastSetVal = value
	m.lastSetTTL = expiration
	cmd := redis.NewStatusCmd(ctx)
	if m.setErr != nil {
		cmd.SetErr(m.setErr)
		return cmd
	}
	cmd.SetVal("OK")
	return cmd
}

func (m *mockRedisKVClient) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	m.lastExists = keys
	cmd := redis.NewIntCmd(ctx)
	if m.existsErr != nil {
		cmd.SetErr(m.existsErr)
		return cmd
	}
	cmd.SetVal(m.existsN)
	return cmd
}

func (m *mockRedisKVClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.lastDel = keys
	cmd := redis.NewIntCmd(ctx)
	if m.delErr != nil {
		cmd.SetErr(m.delErr)
		return cmd
	}
	cmd.SetVal(1)
	return cmd
}

func TestMemorySessionTokenStore_ExpiresAndRevokes(t *testing.T) {
	store := NewMemorySessionTokenStore()

	if ok, err := store.Exists("missing"); err != nil || ok {
		t.Fatalf("expected missing jti false,nil; got %v,%v", ok, err)
	}
	if err := store.Store("", "h1", time.Minute); err != nil {
		t.Fatalf("empty jti store should be no-op, got %v", err)
	}

	if err := store.Store("jti-1", "h1", 50*time.Millisecond); err != nil {
		t.Fatalf("store failed: %v", err)
	}
	if ok, _ := store.Exists("jti-1"); !ok {
		t.Fatalf("expected jti to exist")
	}
	time.Sleep(70 * time.Millisecond)
	if ok, _ := store.Exists("jti-1"); ok {
		t.Fatalf("expected jti expired")
	}

	if err := store.Store("jti-2", "h2", time.Minute); err != nil {
		t.Fatalf("store failed: %v", err)
	}
	if err := store.Revoke("jti-2"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if ok, _ := store.Exists("jti-2"); ok {
		t.Fatalf("expected revoked jti absent")
	}
}

func TestMemorySessionTokenStore_PrunesExpiredOnStore(t *testing.T) {
	clock := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	store := &memorySessionTokenStore{
		sessions: make(map[string]issuedSession),
		now:      func() time.Time { return clock },
	}

	_ = store.Store("old-1", "h1", time.Minute)
	_ = store.Store("old-2", "h2", time.Minute)
	clock = clock.Add(2 * time.Minute)
	_ = store.Store(" new ", "h3", 0)

	if len(store.sessions) != 1 {
		t.Fatalf("expected expired entries pruned, got %d", len(store.sessions))
	}
	issued, ok := store.sessions["new"]
	if !ok || issued.handle != "h3" {
		t.Fatalf("unexpected entry: %+v", store.sessions)
	}
	if !issued.expiresAt.Equal(clock.Add(defaultSessionTTL)) {
		t.Fatalf("expected default TTL, got %v", issued.expiresAt.Sub(clock))
	}
}

func TestRedisSessionTokenStore_KeysAndTTLFallback(t *testing.T) {
	mock := &mockRedisKVClient{existsN: 1}
	store := &redisSessionTokenStore{client: mock, prefix: "booking:session:"}

	if err := store.Store(" j1 ", "handle-1", 0); err != nil {
		t.Fatalf("store failed: %v", err)
	}
	if mock.lastSetKey != "booking:session:j1" || mock.lastSetVal != "handle-1" {
		t.Fatalf("unexpected set: %q=%v", mock.lastSetKey, mock.lastSetVal)
	}
	if mock.lastSetTTL != defaultSessionTTL {
		t.Fatalf("expected default TTL, got %v", mock.lastSetTTL)
	}

	ok, err := store.Exists(" j1 ")
	if err != nil || !ok {
		t.Fatalf("expected exists true,nil; got %v,%v", ok, err)
	}
	if len(mock.lastExists) != 1 || mock.lastExists[0] != "booking:session:j1" {
		t.Fatalf("unexpected exists key: %+v", mock.lastExists)
	}

	if err := store.Revoke("j1"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if len(mock.lastDel) != 1 || mock.lastDel[0] != "booking:session:j1" {
		t.Fatalf("unexpected del key: %+v", mock.lastDel)
	}
}

func TestRedisSessionTokenStore_Errors(t *testing.T) {
	mock := &mockRedisKVClient{
		setErr:    errors.New("set failed"),
		existsErr: errors.New("exists failed"),
		delErr:    errors.New("del failed"),
	}
	store := &redisSessionTokenStore{client: mock, prefix: "booking:session:"}

	if ok, err := store.Exists(""); err != nil || ok {
		t.Fatalf("empty jti exists should be false,nil; got %v,%v", ok, err)
	}
	if err := store.Store("j2", "h", time.Minute); err == nil {
		t.Fatalf("expected store error")
	}
	if _, err := store.Exists("j2"); err == nil {
		t.Fatalf("expected exists error")
	}
	if err := store.Revoke("j2"); err == nil {
		t.Fatalf("expected revoke error")
	}
}
