package game

import (
	"fmt"
	"strings"
)

// Color is a peg color. Only equality is meaningful.
type Color string

const (
	Red    Color = "red"
	Blue   Color = "blue"
	Green  Color = "green"
	Yellow Color = "yellow"
	Purple Color = "purple"
	Black  Color = "black"
)

var palette = [...]Color{Red, Blue, Green, Yellow, Purple, Black}

// Palette returns the six colors a code may be built from.
func Palette() []Color {
	out := make([]Color, len(palette))
	copy(out, palette[:])
	return out
}

func (c Color) Valid() bool {
	for _, p := range palette {
		if c == p {
			return true
		}
	}
	return false
}

func ParseColor(s string) (Color, error) {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownColor, s)
	}
	return c, nil
}
