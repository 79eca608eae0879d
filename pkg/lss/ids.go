package lss

import (
	"crypto/sha1"
	"encoding/hex"
)

// MakeID deterministically derives a stable identity string from an
// ordered list of parts. Used wherever a structural node needs an ID
// before it has been persisted.
func MakeID(parts ...string) string {
	h := sha1.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{'|'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
