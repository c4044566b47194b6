package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Key derives a stable cache key from an input sentence and its reference
// instant. The instant participates because relative phrases ("sáng mai")
// resolve differently as the base moves.
func Key(text string, base time.Time) string {
	h := sha256.Sum256([]byte(text + "|" + base.Format(time.RFC3339)))
	return "vietcal:v1:" + hex.EncodeToString(h[:])
}
