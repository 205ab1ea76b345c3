package lifecycle

import (
	"crypto/rand"
	"strconv"
	"strings"
	"time"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewRequestID generates a request id of the form REQ-<timestamp36><random4>:
// the creation time in base-36 milliseconds followed by four random
// alphanumeric characters.
func NewRequestID(now time.Time) string {
	return "REQ-" + strconv.FormatInt(now.UnixMilli(), 36) + randomString(4)
}

// randomString returns n random characters from the id alphabet.
func randomString(n int) string {
	buf := make([]byte, n)
	// rand.Read never fails on supported platforms
	_, _ = rand.Read(buf)

	var b strings.Builder
	b.Grow(n)
	for _, c := range buf {
		b.WriteByte(idAlphabet[int(c)%len(idAlphabet)])
	}
	return b.String()
}
