package session

import (
	"fmt"

	"example.com/mastermind/internal/game"
)

// Snapshot is the serializable state of a session. The round outcome is not
// stored; it is recomputed by replaying Guesses against Secret.
type Snapshot struct {
	SessionID string      `json:"sessionId"`
	Player    string      `json:"player"`
	Round     int         `json:"round"`
	Series    Series      `json:"series"`
	Secret    game.Code   `json:"secret"`
	Guesses   []game.Code `json:"guesses"`
	Pending   game.Code   `json:"pending"`
}

func (s *Session) snapshotLocked() Snapshot {
	r := s.ctl.Round()
	h := r.History()
	guesses := make([]game.Code, len(h))
	for i, e := range h {
		guesses[i] = e.Guess
	}
	return Snapshot{
		SessionID: s.id,
		Player:    s.player,
		Round:     s.round,
		Series:    s.series,
		Secret:    r.Secret(),
		Guesses:   guesses,
		Pending:   s.pending.Guess(),
	}
}

func restoreSession(snap Snapshot, deps sessionDeps) (*Session, error) {
	r, err := game.RestoreRound(snap.Secret, snap.Guesses)
	if err != nil {
		return nil, fmt.Errorf("restore session %s: %w", snap.SessionID, err)
	}

	s := newSession(snap.SessionID, snap.Player, deps, r)
	s.series = snap.Series
	if snap.Round > 0 {
		s.round = snap.Round
	}
	for _, c := range snap.Pending {
		if err := s.pending.Add(c); err != nil {
			return nil, fmt.Errorf("restore session %s: pending guess: %w", snap.SessionID, err)
		}
	}
	return s, nil
}
