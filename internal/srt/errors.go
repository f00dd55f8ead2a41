package srt

import (
	"errors"
	"fmt"
)

var (
	ErrNoInitialSession   = errors.New("srt: no initial session cookie")
	ErrInvalidCredentials = errors.New("srt: invalid credentials")
	ErrVerificationFailed = errors.New("srt: login verification failed")
	ErrTransport          = errors.New("srt: transport failure")
	ErrSessionExpired     = errors.New("srt: session expired")
	ErrNotAuthenticated   = errors.New("srt: not authenticated")
	ErrUnknownStation     = errors.New("srt: unknown station")
	ErrUnexpectedResponse = errors.New("srt: unexpected response")
)

// CredentialsError transporta el mensaje que el sitio muestra al rechazar un login.
// El mensaje no distingue entre usuario y contrasena; se muestra tal cual.
type CredentialsError struct {
	Message string
}

func (e *CredentialsError) Error() string {
	return "srt: login rejected: " + e.Message
}

func (e *CredentialsError) Is(target error) bool {
	return target == ErrInvalidCredentials
}

// TransportError envuelve fallas de red, timeouts y respuestas HTTP de error.
// Es seguro reintentar; no implica nada sobre el estado remoto.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("srt: %s: http status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("srt: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
