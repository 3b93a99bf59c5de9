package leaderboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresBoard keeps every player's latest score; Top ranks them by score,
// then by who reached it first.
type PostgresBoard struct {
	db *pgxpool.Pool
}

func NewPostgresBoard(db *pgxpool.Pool) *PostgresBoard {
	return &PostgresBoard{db: db}
}

func (b *PostgresBoard) RecordScore(ctx context.Context, player string, score int) error {
	player, err := validate(player, score)
	if err != nil {
		return err
	}

	_, err = b.db.Exec(ctx, `
		INSERT INTO leaderboard (player, score)
		VALUES ($1, $2)
		ON CONFLICT (player) DO UPDATE
		SET score = EXCLUDED.score, updated_at = now()
	`, player, score)
	if err != nil {
		return fmt.Errorf("record score for %q: %w", player, err)
	}
	return nil
}

func (b *PostgresBoard) Top(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := b.db.Query(ctx, `
		SELECT player, score, updated_at
		FROM leaderboard
		ORDER BY score ASC, updated_at ASC, player ASC
		LIMIT $1
	`, clampLimit(limit))
	if err != nil {
		return nil, err
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var e Entry
		err := row.Scan(&e.Player, &e.Score, &e.UpdatedAt)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	return out, nil
}

func (b *PostgresBoard) Get(ctx context.Context, player string) (Entry, bool, error) {
	var e Entry
	err := b.db.QueryRow(ctx, `
		SELECT player, score, updated_at
		FROM leaderboard
		WHERE player = $1
	`, cleanName(player)).Scan(&e.Player, &e.Score, &e.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}
