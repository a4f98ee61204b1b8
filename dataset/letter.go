// Package dataset holds the label alphabet shared by every stage of the
// synthetic dataset pipeline.
//
// A Letter is both the visual-style selector during generation and the
// classification target during loading. The alphabet is fixed: A through Z,
// with ordinal 0 through 25.
package dataset

import (
	"github.com/YuminosukeSato/synthasl/pkg/errors"
)

// Letter is one label token from the fixed A–Z alphabet.
type Letter byte

// NumLetters is the size of the alphabet.
const NumLetters = 26

const firstLetter Letter = 'A'

// Alphabet returns every letter in class-index order (A first).
func Alphabet() []Letter {
	letters := make([]Letter, NumLetters)
	for i := range letters {
		letters[i] = firstLetter + Letter(i)
	}
	return letters
}

// ParseLetter converts a single-character token into a Letter. Anything
// that is not exactly one upper-case character in A–Z is rejected.
func ParseLetter(s string) (Letter, error) {
	if len(s) != 1 {
		return 0, errors.NewInvalidLetterError(s)
	}
	l := Letter(s[0])
	if !l.Valid() {
		return 0, errors.NewInvalidLetterError(s)
	}
	return l, nil
}

// ParseLetters parses a list of tokens, failing on the first invalid one.
func ParseLetters(tokens []string) ([]Letter, error) {
	letters := make([]Letter, 0, len(tokens))
	for _, tok := range tokens {
		l, err := ParseLetter(tok)
		if err != nil {
			return nil, err
		}
		letters = append(letters, l)
	}
	return letters, nil
}

// Valid reports whether l lies in the alphabet.
func (l Letter) Valid() bool {
	return l >= firstLetter && l < firstLetter+NumLetters
}

// Ordinal is the 0-based alphabet position of l. It is also the dense class
// index used by consumers (A→0 … Z→25). Callers must validate l first.
func (l Letter) Ordinal() int {
	return int(l - firstLetter)
}

// String returns the letter as a one-character string.
func (l Letter) String() string {
	return string(rune(l))
}

// LetterFromOrdinal is the inverse of Ordinal.
func LetterFromOrdinal(i int) (Letter, error) {
	if i < 0 || i >= NumLetters {
		return 0, errors.NewValidationError("ordinal", "must be in [0, 26)", i)
	}
	return firstLetter + Letter(i), nil
}
