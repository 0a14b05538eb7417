package room

import (
	"crypto/rand"
	"strings"
)

const (
	codeLength   = 6
	codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// CodeGenerator produces room codes.
type CodeGenerator func() string

// RandomCode returns a 6-character uppercase base-36 code.
func RandomCode() string {
	b := make([]byte, codeLength)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b)
}

// NormalizeCode trims and upper-cases user-typed codes so " abc123" finds "ABC123".
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
