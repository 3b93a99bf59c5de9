package game

import "fmt"

type State string

const (
	InProgress State = "in_progress"
	Won        State = "won"
	Lost       State = "lost"
)

func (s State) Finished() bool { return s == Won || s == Lost }

type Entry struct {
	Guess Code  `json:"guess"`
	Score Score `json:"score"`
}

// Round holds the secret and guess history of one round. History only grows,
// one entry per confirmed guess, and never past MaxGuesses.
type Round struct {
	secret  Code
	history []Entry
	state   State
}

func NewRound(secret Code) (*Round, error) {
	if err := secret.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}
	if !secret.distinct() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSecret, secret)
	}
	return &Round{
		secret:  secret.clone(),
		history: make([]Entry, 0, MaxGuesses),
		state:   InProgress,
	}, nil
}

// RestoreRound rebuilds a round by replaying guesses against secret, so the
// outcome is always derived rather than trusted.
func RestoreRound(secret Code, guesses []Code) (*Round, error) {
	r, err := NewRound(secret)
	if err != nil {
		return nil, err
	}
	for i, g := range guesses {
		if _, err := r.confirm(g); err != nil {
			return nil, fmt.Errorf("replay guess %d: %w", i+1, err)
		}
	}
	return r, nil
}

func (r *Round) confirm(guess Code) (Entry, error) {
	if r.state.Finished() {
		return Entry{}, fmt.Errorf("%w: state=%s", ErrInvalidTransition, r.state)
	}
	if err := guess.validate(); err != nil {
		return Entry{}, err
	}

	score, err := Evaluate(r.secret, guess)
	if err != nil {
		return Entry{}, err
	}

	e := Entry{Guess: guess.clone(), Score: score}
	r.history = append(r.history, e)

	switch {
	case score.Bulls == SlotCount:
		r.state = Won
	case len(r.history) == MaxGuesses:
		r.state = Lost
	}
	return e, nil
}

func (r *Round) State() State { return r.state }

// Score is the number of guesses used. Lower is better; it is final once the
// round has finished.
func (r *Round) Score() int { return len(r.history) }

func (r *Round) GuessesLeft() int { return MaxGuesses - len(r.history) }

func (r *Round) Secret() Code { return r.secret.clone() }

func (r *Round) History() []Entry {
	out := make([]Entry, len(r.history))
	for i, e := range r.history {
		out[i] = Entry{Guess: e.Guess.clone(), Score: e.Score}
	}
	return out
}
