package game

import (
	"context"
	"log/slog"
)

// Renderer displays round progress. Calls are synchronous.
type Renderer interface {
	GuessScored(entry Entry, state State)
	SecretRevealed(secret Code)
}

// ScoreRecorder receives the final score of every finished round. It owns
// its storage and its failures.
type ScoreRecorder interface {
	RecordScore(ctx context.Context, player string, score int) error
}

type ControllerConfig struct {
	Player   string
	Secrets  SecretSource // nil => RandomSecrets
	Renderer Renderer
	Recorder ScoreRecorder
	Log      *slog.Logger

	// Round resumes an existing round instead of drawing a new one.
	Round *Round
}

// Controller drives rounds for one player. It is not safe for concurrent
// use; callers serialize access.
type Controller struct {
	player   string
	secrets  SecretSource
	round    *Round
	render   Renderer
	recorder ScoreRecorder
	log      *slog.Logger
}

func NewController(cfg ControllerConfig) *Controller {
	c := &Controller{
		player:   cfg.Player,
		secrets:  cfg.Secrets,
		render:   cfg.Renderer,
		recorder: cfg.Recorder,
		log:      cfg.Log,
	}
	if c.secrets == nil {
		c.secrets = RandomSecrets()
	}
	if c.render == nil {
		c.render = nopRenderer{}
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if cfg.Round != nil {
		c.round = cfg.Round
	} else {
		c.StartNewRound()
	}
	return c
}

// ConfirmGuess scores a complete guess and advances the round. A rejected
// guess leaves the round untouched.
func (c *Controller) ConfirmGuess(ctx context.Context, guess Code) (State, Score, error) {
	e, err := c.round.confirm(guess)
	if err != nil {
		return c.round.state, Score{}, err
	}

	state := c.round.state
	c.render.GuessScored(e, state)

	if state.Finished() {
		c.finish(ctx)
	}
	return state, e.Score, nil
}

func (c *Controller) finish(ctx context.Context) {
	score := c.round.Score()
	c.log.Info("round finished",
		"player", c.player,
		"state", c.round.state,
		"score", score,
	)

	c.render.SecretRevealed(c.round.Secret())

	if c.recorder == nil {
		return
	}
	if err := c.recorder.RecordScore(ctx, c.player, score); err != nil {
		c.log.Error("record score failed", "player", c.player, "score", score, "err", err)
	}
}

// StartNewRound discards the current round and draws a fresh secret.
func (c *Controller) StartNewRound() {
	r, err := NewRound(c.secrets())
	if err != nil {
		// a SecretSource must only yield drawable codes
		panic(err)
	}
	c.round = r
}

func (c *Controller) Score() int { return c.round.Score() }

func (c *Controller) State() State { return c.round.state }

func (c *Controller) Round() *Round { return c.round }

func (c *Controller) Player() string { return c.player }

type nopRenderer struct{}

func (nopRenderer) GuessScored(Entry, State) {}
func (nopRenderer) SecretRevealed(Code)      {}
