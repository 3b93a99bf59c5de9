package game

import (
	"fmt"
	"strings"
)

const (
	SlotCount  = 4
	MaxGuesses = 10
)

// Code is an ordered row of colors: either a secret or a guess.
type Code []Color

func (c Code) String() string {
	parts := make([]string, len(c))
	for i, col := range c {
		parts[i] = string(col)
	}
	return strings.Join(parts, " ")
}

func (c Code) clone() Code {
	return append(Code(nil), c...)
}

// validate checks slot count first, then every color.
func (c Code) validate() error {
	if len(c) != SlotCount {
		return fmt.Errorf("%w: got %d", ErrInvalidGuessLength, len(c))
	}
	for i, col := range c {
		if !col.Valid() {
			return fmt.Errorf("%w %q at slot %d", ErrUnknownColor, col, i)
		}
	}
	return nil
}

// ParseCode builds a Code from color names. It does not check the length.
func ParseCode(names []string) (Code, error) {
	out := make(Code, 0, len(names))
	for _, n := range names {
		c, err := ParseColor(n)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (c Code) distinct() bool {
	for i := range c {
		for j := i + 1; j < len(c); j++ {
			if c[i] == c[j] {
				return false
			}
		}
	}
	return true
}
