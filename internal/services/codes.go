package services

import "crypto/rand"

// codeAlphabet avoids visually ambiguous characters (0/O, 1/I/L) since
// access codes are typed by clients from an email.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// NewAccessCode generates a random alphanumeric access code
func NewAccessCode(length int) string {
	buf := make([]byte, length)
	// rand.Read never fails on supported platforms
	_, _ = rand.Read(buf)

	code := make([]byte, length)
	for i, b := range buf {
		code[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(code)
}
