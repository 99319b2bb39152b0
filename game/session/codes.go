package session

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/wricardo/asteroids-relay/game/service"
)

// Code generation defaults
const (
	DefaultAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	DefaultCodeLength = 4
	maxCodeAttempts   = 1000
)

var ErrInvalidAlphabet = errors.New("code alphabet must have between 2 and 256 distinct characters")

// CodeGenerator draws short room codes uniformly from an alphabet.
type CodeGenerator struct {
	alphabet []byte
	length   int
	source   io.Reader
}

// NewCodeGenerator creates a generator reading from crypto/rand. An empty
// alphabet or non-positive length falls back to the defaults.
func NewCodeGenerator(alphabet string, length int) (*CodeGenerator, error) {
	if alphabet == "" {
		alphabet = DefaultAlphabet
	}
	if length <= 0 {
		length = DefaultCodeLength
	}
	if len(alphabet) < 2 || len(alphabet) > 256 {
		return nil, ErrInvalidAlphabet
	}
	seen := make(map[byte]bool, len(alphabet))
	for i := 0; i < len(alphabet); i++ {
		if seen[alphabet[i]] {
			return nil, fmt.Errorf("%w: %q repeats", ErrInvalidAlphabet, alphabet[i])
		}
		seen[alphabet[i]] = true
	}

	return &CodeGenerator{
		alphabet: []byte(alphabet),
		length:   length,
		source:   rand.Reader,
	}, nil
}

// WithSource swaps the random source, used by tests.
func (g *CodeGenerator) WithSource(r io.Reader) *CodeGenerator {
	g.source = r
	return g
}

// Generate returns a code for which taken reports false, re-rolling on
// collision. It gives up with ErrCodeSpaceExhausted after a bounded number
// of attempts.
func (g *CodeGenerator) Generate(taken func(code string) bool) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := g.draw()
		if err != nil {
			return "", err
		}
		if taken == nil || !taken(code) {
			return code, nil
		}
	}
	return "", service.ErrCodeSpaceExhausted
}

// draw builds one code with rejection sampling so every symbol is equally
// likely.
func (g *CodeGenerator) draw() (string, error) {
	n := len(g.alphabet)
	limit := 256 - 256%n

	code := make([]byte, 0, g.length)
	buf := make([]byte, g.length*2)
	for len(code) < g.length {
		if _, err := io.ReadFull(g.source, buf); err != nil {
			return "", fmt.Errorf("failed to read randomness: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			code = append(code, g.alphabet[int(b)%n])
			if len(code) == g.length {
				break
			}
		}
	}
	return string(code), nil
}
