package service

import (
	"context"
	"sync"
	"time"
)

// LoginRateLimiter limita los intentos de login por cuenta. Evita que
// reintentos repetidos bloqueen la cuenta en el sitio remoto.
//
// Allow devuelve cuanto falta para el proximo intento cuando lo rechaza.
// Reset se llama tras un login exitoso y limpia el conteo de la cuenta.
type LoginRateLimiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration)
	Reset(ctx context.Context, key string) error
}

// Cada cuantas llamadas se barren las cuentas sin intentos vigentes.
const loginSweepEvery = 256

type loginRateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[string][]time.Time
	calls  int
	now    func() time.Time
}

// NewLoginRateLimiter crea un rate limiter en memoria con ventana deslizante.
func NewLoginRateLimiter(window time.Duration, max int) LoginRateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &loginRateLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

func (l *loginRateLimiter) Allow(_ context.Context, key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now().UTC()
	cutoff := now.Add(-l.window)
	l.calls++
	if l.calls%loginSweepEvery == 0 {
		l.sweep(cutoff)
	}

	kept := recentAttempts(l.hits[key], cutoff)
	if len(kept) >= l.max {
		l.hits[key] = kept
		// El intento mas viejo de la ventana es el proximo en liberarse.
		return false, kept[0].Sub(cutoff)
	}
	l.hits[key] = append(kept, now)
	return true, 0
}

func (l *loginRateLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.hits, key)
	return nil
}

// sweep borra las cuentas cuyos intentos ya salieron de la ventana.
func (l *loginRateLimiter) sweep(cutoff time.Time) {
	for key, entries := range l.hits {
		kept := recentAttempts(entries, cutoff)
		if len(kept) == 0 {
			delete(l.hits, key)
			continue
		}
		l.hits[key] = kept
	}
}

func recentAttempts(entries []time.Time, cutoff time.Time) []time.Time {
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	return kept
}
