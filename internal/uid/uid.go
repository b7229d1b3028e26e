// Package uid generates the customer-facing ticket identifiers.
package uid

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// Alphabet leaves out I, O, 0 and 1, which are easily confused when read back.
	Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	Length   = 8
)

// Generator produces uid candidates. Uniqueness is checked by the caller.
type Generator interface {
	Generate() (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func() (string, error)

func (f GeneratorFunc) Generate() (string, error) {
	return f()
}

// NanoID draws random uids from Alphabet.
type NanoID struct{}

func (NanoID) Generate() (string, error) {
	return gonanoid.Generate(Alphabet, Length)
}

// Valid reports whether s has the shape of a generated uid.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !inAlphabet(s[i]) {
			return false
		}
	}
	return true
}

func inAlphabet(c byte) bool {
	for i := 0; i < len(Alphabet); i++ {
		if Alphabet[i] == c {
			return true
		}
	}
	return false
}
