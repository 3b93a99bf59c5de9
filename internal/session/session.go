package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"example.com/mastermind/internal/game"
)

var (
	ErrNotOwner   = errors.New("session belongs to another player")
	ErrNotPlaying = errors.New("round is finished, start a new round")
)

// Session is one player's game: a round controller, the guess being built
// and the player's live connection, if any.
type Session struct {
	id     string
	player string
	log    *slog.Logger

	mu      sync.Mutex
	ctl     *game.Controller
	pending game.GuessBuilder
	conn    *ClientConn
	round   int
	series  Series

	onPersist func(Snapshot)
}

type sessionDeps struct {
	secrets  game.SecretSource
	recorder game.ScoreRecorder
	log      *slog.Logger
}

func newSession(id, player string, deps sessionDeps, resume *game.Round) *Session {
	if deps.log == nil {
		deps.log = slog.Default()
	}
	s := &Session{
		id:     id,
		player: player,
		log:    deps.log.With("session", id),
		round:  1,
	}
	s.ctl = game.NewController(game.ControllerConfig{
		Player:   player,
		Secrets:  deps.secrets,
		Renderer: renderer{s},
		Recorder: deps.recorder,
		Log:      s.log,
		Round:    resume,
	})
	return s
}

func (s *Session) ID() string     { return s.id }
func (s *Session) Player() string { return s.player }

// Attach binds a connection. Reconnecting replaces the previous connection.
func (s *Session) Attach(player string, cc *ClientConn) error {
	if player != s.player {
		return ErrNotOwner
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil && s.conn != cc {
		s.conn.Close()
	}
	s.conn = cc
	return nil
}

// Detach drops cc if it is still the session's connection.
func (s *Session) Detach(cc *ClientConn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == cc {
		s.conn = nil
	}
}

func (s *Session) PickColor(name string) error {
	c, err := game.ParseColor(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctl.State().Finished() {
		return ErrNotPlaying
	}
	if err := s.pending.Add(c); err != nil {
		return err
	}

	s.sendStateLocked()
	s.persistLocked()
	return nil
}

func (s *Session) ResetGuess() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending.Reset()
	s.sendStateLocked()
	s.persistLocked()
}

// Confirm submits guess, or the picked colors when guess is empty.
func (s *Session) Confirm(ctx context.Context, guess []string) (game.State, game.Score, error) {
	var code game.Code
	if len(guess) > 0 {
		c, err := game.ParseCode(guess)
		if err != nil {
			return "", game.Score{}, err
		}
		code = c
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if code == nil {
		code = s.pending.Guess()
	}

	state, score, err := s.ctl.ConfirmGuess(ctx, code)
	if err != nil {
		return state, score, err
	}
	s.pending.Reset()

	switch state {
	case game.Won:
		s.series.Wins++
	case game.Lost:
		s.series.Losses++
	}

	s.sendStateLocked()
	s.persistLocked()
	return state, score, nil
}

func (s *Session) NewRound() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctl.StartNewRound()
	s.pending.Reset()
	s.round++
	s.log.Info("round started", "player", s.player, "round", s.round)

	s.sendStateLocked()
	s.persistLocked()
}

func (s *Session) State() StatePayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buildStateLocked()
}

func (s *Session) SendState() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendStateLocked()
}

func (s *Session) SendError(code, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendLocked(Envelope{
		Type:    MsgError,
		Payload: mustJSON(ErrorPayload{Code: code, Message: message}),
	})
}

func (s *Session) sendStateLocked() {
	s.sendLocked(Envelope{Type: MsgState, Payload: mustJSON(s.buildStateLocked())})
}

func (s *Session) buildStateLocked() StatePayload {
	r := s.ctl.Round()
	st := StatePayload{
		SessionID:   s.id,
		Player:      s.player,
		State:       r.State(),
		Round:       s.round,
		Series:      s.series,
		Pending:     s.pending.Guess(),
		History:     r.History(),
		GuessesLeft: r.GuessesLeft(),
		MaxGuesses:  game.MaxGuesses,
		SlotCount:   game.SlotCount,
		Palette:     game.Palette(),
	}
	if st.Pending == nil {
		st.Pending = game.Code{}
	}
	if r.State().Finished() {
		score := r.Score()
		st.Score = &score
		st.Secret = r.Secret()
	}
	return st
}

func (s *Session) sendLocked(env Envelope) {
	if s.conn == nil {
		return
	}
	b, err := json.Marshal(env)
	if err != nil {
		s.log.Error("encode envelope", "type", env.Type, "err", err)
		return
	}
	select {
	case s.conn.send <- b:
	default:
		s.log.Warn("client send buffer full, dropping message", "type", env.Type)
	}
}

func (s *Session) persistLocked() {
	if s.onPersist == nil {
		return
	}
	s.onPersist(s.snapshotLocked())
}

// renderer forwards controller output to the connection. The controller
// only calls it from Confirm, with s.mu held.
type renderer struct{ s *Session }

func (r renderer) GuessScored(e game.Entry, state game.State) {
	r.s.sendLocked(Envelope{
		Type:    MsgGuessScored,
		Payload: mustJSON(GuessScoredPayload{Entry: e, State: state}),
	})
}

func (r renderer) SecretRevealed(secret game.Code) {
	r.s.sendLocked(Envelope{
		Type:    MsgSecretRevealed,
		Payload: mustJSON(SecretRevealedPayload{Secret: secret}),
	})
}
