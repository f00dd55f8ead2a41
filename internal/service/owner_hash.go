package service

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// OwnerHasher deriva un identificador estable de la cuenta remota para logs,
// rate limiting e historial, sin guardar el usuario en claro.
type OwnerHasher struct {
	key []byte
}

func NewOwnerHasher(secret string) *OwnerHasher {
	key := []byte(secret)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum256(key)
		key = sum[:]
	}
	return &OwnerHasher{key: key}
}

func (h *OwnerHasher) Hash(identity string) string {
	identity = strings.ToLower(strings.TrimSpace(identity))
	mac, err := blake2b.New256(h.key)
	if err != nil {
		sum := blake2b.Sum256([]byte(identity))
		return hex.EncodeToString(sum[:16])
	}
	mac.Write([]byte(identity))
	return hex.EncodeToString(mac.Sum(nil)[:16])
}
