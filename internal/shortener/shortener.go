package shortener

import (
	"crypto/rand"
	"math/big"
)

// Base62 character set (0-9, A-Z, a-z) - 62 characters total
// Using base62 instead of base64 avoids special characters that might cause URL issues
const base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// CodeGenerator generates unique short codes using cryptographically secure random numbers
// Thread-safe and collision-resistant
type CodeGenerator struct {
	length int // Length of generated codes
}

// NewCodeGenerator creates a new code generator with specified length
// Recommended length: 6-8 characters for good collision resistance
// - 6 chars = 62^6 = ~56 billion combinations
// - 7 chars = 62^7 = ~3.5 trillion combinations
func NewCodeGenerator(length int) *CodeGenerator {
	if length < 4 {
		length = 6 // Minimum safe length
	}
	if length > 12 {
		length = 12 // Maximum reasonable length
	}

	return &CodeGenerator{
		length: length,
	}
}

// Generate creates a random short code using base62 encoding
// Uses crypto/rand so generated codes are unpredictable
func (g *CodeGenerator) Generate() string {
	result := make([]byte, g.length)

	for i := 0; i < g.length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(base62Chars))))
		if err != nil {
			// Fallback if crypto/rand fails; should rarely happen in practice
			num = big.NewInt(int64(i % len(base62Chars)))
		}

		result[i] = base62Chars[num.Int64()]
	}

	return string(result)
}

// Length returns the configured code length
func (g *CodeGenerator) Length() int {
	return g.length
}
