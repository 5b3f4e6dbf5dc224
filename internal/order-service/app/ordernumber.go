package app

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const suffixAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewOrderNumber generates a human-readable order number of the form
// ORD-<millis>-<9 random base36 chars>. Uniqueness is probabilistic: the
// timestamp plus 36^9 random suffixes makes collisions vanishingly rare,
// and no collision check is performed.
func NewOrderNumber() string {
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), randomSuffix(9))
}

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = suffixAlphabet[rand.IntN(len(suffixAlphabet))]
	}
	return string(b)
}
