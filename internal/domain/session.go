package domain

import "time"

// Session representa una sesion autenticada contra el sitio de SRT.
// UpstreamToken vacio significa que la sesion no es utilizable.
type Session struct {
	LocalID       string    `json:"local_id"`
	UpstreamToken string    `json:"-"`
	OwnerIdentity string    `json:"owner_identity"`
	CreatedAt     time.Time `json:"created_at"`
}

// Usable indica si la sesion tiene un token remoto.
func (s Session) Usable() bool {
	return s.UpstreamToken != ""
}
