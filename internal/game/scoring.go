package game

import "fmt"

type Score struct {
	Bulls int `json:"bulls"`
	Cows  int `json:"cows"`
}

func (s Score) String() string {
	return fmt.Sprintf("%d bulls, %d cows", s.Bulls, s.Cows)
}

// Evaluate scores guess against secret. Every secret slot satisfies at most
// one bull or one cow.
func Evaluate(secret, guess Code) (Score, error) {
	if len(secret) != SlotCount || len(guess) != SlotCount {
		return Score{}, fmt.Errorf("%w: secret=%d guess=%d", ErrInvalidGuessLength, len(secret), len(guess))
	}

	var s Score
	var consumed [SlotCount]bool

	for i := 0; i < SlotCount; i++ {
		if guess[i] == secret[i] {
			s.Bulls++
			consumed[i] = true
		}
	}

	// bulls must all be settled before any cow is looked up
	for i := 0; i < SlotCount; i++ {
		if guess[i] == secret[i] {
			continue
		}
		for j := 0; j < SlotCount; j++ {
			if !consumed[j] && secret[j] == guess[i] {
				s.Cows++
				consumed[j] = true
				break
			}
		}
	}

	return s, nil
}
