package session

import (
	"encoding/json"

	"example.com/mastermind/internal/game"
)

// Envelope WS envelope: {"type":"...","payload":{...}}
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// incoming types
const (
	MsgPickColor    = "pick_color"
	MsgResetGuess   = "reset_guess"
	MsgConfirmGuess = "confirm_guess"
	MsgNewRound     = "new_round"
	MsgQuit         = "quit"
)

// outgoing types
const (
	MsgState          = "state"
	MsgGuessScored    = "guess_scored"
	MsgSecretRevealed = "secret_revealed"
	MsgError          = "error"
)

type PickColorPayload struct {
	Color string `json:"color"`
}

// ConfirmGuessPayload may carry the whole guess; when Guess is empty the
// colors picked so far are confirmed.
type ConfirmGuessPayload struct {
	Guess []string `json:"guess,omitempty"`
}

type GuessScoredPayload struct {
	Entry game.Entry `json:"entry"`
	State game.State `json:"state"`
}

type SecretRevealedPayload struct {
	Secret game.Code `json:"secret"`
}

type StatePayload struct {
	SessionID   string       `json:"sessionId"`
	Player      string       `json:"player"`
	State       game.State   `json:"state"`
	Round       int          `json:"round"`
	Series      Series       `json:"series"`
	Pending     game.Code    `json:"pending"`
	History     []game.Entry `json:"history"`
	GuessesLeft int          `json:"guessesLeft"`
	MaxGuesses  int          `json:"maxGuesses"`
	SlotCount   int          `json:"slotCount"`
	Palette     []game.Color `json:"palette"`
	Score       *int         `json:"score,omitempty"`  // only once finished
	Secret      game.Code    `json:"secret,omitempty"` // only once finished
}

// Series counts finished rounds within one session.
type Series struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func mustJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}
