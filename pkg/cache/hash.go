package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ScoreKey builds the cache key for one local-score evaluation.
//
// The key is namespace:sha256("v|p1,p2,..."), with parents in the order
// given by the caller. Callers must canonicalize the parent set (ascending
// order) before keying, so that {1,2} and {2,1} hit the same entry. The
// namespace isolates different data sets or score configurations sharing
// one backend.
func ScoreKey(namespace string, vertex int, parents []int) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(vertex))
	b.WriteByte('|')
	for i, p := range parents {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(p))
	}
	return fmt.Sprintf("%s:%s", namespace, Hash([]byte(b.String())))
}
