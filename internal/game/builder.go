package game

// GuessBuilder collects colors one at a time until a guess is complete.
// The zero value is ready to use.
type GuessBuilder struct {
	colors Code
}

func (b *GuessBuilder) Add(c Color) error {
	if !c.Valid() {
		return ErrUnknownColor
	}
	if len(b.colors) >= SlotCount {
		return ErrGuessFull
	}
	b.colors = append(b.colors, c)
	return nil
}

func (b *GuessBuilder) Reset() { b.colors = nil }

func (b *GuessBuilder) Len() int { return len(b.colors) }

func (b *GuessBuilder) Complete() bool { return len(b.colors) == SlotCount }

// Guess returns the pending colors, complete or not.
func (b *GuessBuilder) Guess() Code { return b.colors.clone() }
