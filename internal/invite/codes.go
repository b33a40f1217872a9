// Package invite generates single-use access codes.
package invite

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// codeAlphabet excludes easily confused characters (0/O, 1/I/L).
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// CodeLength is the length of generated invite codes.
const CodeLength = 8

// MaxBatch caps how many codes can be generated in one request.
const MaxBatch = 20

// GenerateCode returns one random invite code.
func GenerateCode() (string, error) {
	buf := make([]byte, CodeLength)
	alphabetLen := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("generating invite code: %w", err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// GenerateCodes returns count random invite codes. Count is clamped to
// [1, MaxBatch].
func GenerateCodes(count int) ([]string, error) {
	if count < 1 {
		count = 1
	}
	if count > MaxBatch {
		count = MaxBatch
	}

	codes := make([]string, 0, count)
	for range count {
		code, err := GenerateCode()
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, nil
}
