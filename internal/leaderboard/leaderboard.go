// Package leaderboard stores each player's latest final score. Lower scores
// rank higher.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"example.com/mastermind/internal/game"
)

const DefaultLimit = 10

var (
	ErrInvalidPlayer = errors.New("player name is empty")
	ErrInvalidScore  = errors.New("score out of range")
)

type Entry struct {
	Player    string    `json:"player"`
	Score     int       `json:"score"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Board is a leaderboard backend. RecordScore replaces any earlier score of
// the same player.
type Board interface {
	game.ScoreRecorder
	Top(ctx context.Context, limit int) ([]Entry, error)
	Get(ctx context.Context, player string) (Entry, bool, error)
}

func validate(player string, score int) (string, error) {
	player = cleanName(player)
	if player == "" {
		return "", ErrInvalidPlayer
	}
	if score < 1 || score > game.MaxGuesses {
		return "", fmt.Errorf("%w: %d", ErrInvalidScore, score)
	}
	return player, nil
}

// cleanName folds line breaks so a name always fits on one line.
func cleanName(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	return strings.TrimSpace(s)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
