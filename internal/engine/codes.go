package engine

import (
	"crypto/rand"
	"math/big"
)

// Room code alphabet excludes ambiguous characters: 0/O, I/L, 1.
const (
	codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	codeLength   = 6
)

// generateCode - builds a 6-character room code from the restricted
// alphabet. Uniqueness against live rooms is the registry's job.
func generateCode() (string, error) {
	code := make([]byte, codeLength)

	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}

		code[i] = codeAlphabet[n.Int64()]
	}

	return string(code), nil
}
