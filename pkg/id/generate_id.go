package id

import (
	"crypto/rand"
	"encoding/hex"
)

const rawLen = 16

// NewID32 returns a random identifier as 32 lowercase hex characters,
// the format every entity ID in the system uses (and what the hex32
// request validator accepts).
func NewID32() string {
	b := make([]byte, rawLen)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
