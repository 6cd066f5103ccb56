package shortcode

import (
	"regexp"

	"github.com/jaevor/go-nanoid"
)

const (
	// Alphabet is base58: letters and digits without 0, O, I and l.
	Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
	// Length is the fixed size of every generated code.
	Length = 8
)

var shapePattern = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{8}$`)

// Generator produces random short codes from Alphabet.
type Generator struct {
	next func() string
}

// NewGenerator builds a Generator backed by a crypto/rand nanoid source.
func NewGenerator() (*Generator, error) {
	next, err := nanoid.CustomASCII(Alphabet, Length)
	if err != nil {
		return nil, err
	}
	return &Generator{next: next}, nil
}

// Generate returns a fresh code of Length characters.
func (g *Generator) Generate() string {
	return g.next()
}

// Valid reports whether code has the shape of a generated code.
func Valid(code string) bool {
	return shapePattern.MatchString(code)
}
