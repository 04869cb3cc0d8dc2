package transfer

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	DepositCodeLength = 10
	codeAlphabet      = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewDepositCode returns DepositCodeLength random base-36 characters.
// Codes that would read as a legacy memo ("USERID123...") are redrawn.
func NewDepositCode() (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, DepositCodeLength)
	for {
		for i := range buf {
			n, err := rand.Int(rand.Reader, max)
			if err != nil {
				return "", fmt.Errorf("failed to generate deposit code: %w", err)
			}
			buf[i] = codeAlphabet[n.Int64()]
		}
		if !legacyCodeRe.Match(buf) {
			return string(buf), nil
		}
	}
}
