package game

import "errors"

var (
	ErrInvalidGuessLength = errors.New("guess must have exactly 4 colors")
	ErrInvalidTransition  = errors.New("round already finished")
	ErrUnknownColor       = errors.New("unknown color")
	ErrGuessFull          = errors.New("guess already has 4 colors")
	ErrInvalidSecret      = errors.New("secret must be 4 distinct colors")
)
