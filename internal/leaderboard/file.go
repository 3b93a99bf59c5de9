package leaderboard

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// FileBoard stores the board as "name: score" lines, best first, keeping at
// most limit entries.
type FileBoard struct {
	path  string
	limit int
	log   *slog.Logger

	mu sync.Mutex
}

func NewFileBoard(path string, limit int, log *slog.Logger) *FileBoard {
	if log == nil {
		log = slog.Default()
	}
	return &FileBoard{path: path, limit: clampLimit(limit), log: log}
}

func (b *FileBoard) RecordScore(_ context.Context, player string, score int) error {
	player, err := validate(player, score)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	entries, err := b.readLocked()
	if err != nil {
		return err
	}

	i := slices.IndexFunc(entries, func(e Entry) bool { return e.Player == player })
	if i >= 0 {
		entries[i].Score = score
	} else {
		entries = append(entries, Entry{Player: player, Score: score})
	}

	return b.writeLocked(b.rank(entries))
}

func (b *FileBoard) Top(_ context.Context, limit int) ([]Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries, err := b.readLocked()
	if err != nil {
		return nil, err
	}
	if limit = clampLimit(limit); len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (b *FileBoard) Get(ctx context.Context, player string) (Entry, bool, error) {
	entries, err := b.Top(ctx, b.limit)
	if err != nil {
		return Entry{}, false, err
	}
	player = cleanName(player)
	for _, e := range entries {
		if e.Player == player {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}

// rank sorts ascending, keeping earlier entries first on ties, and trims to
// the board size.
func (b *FileBoard) rank(entries []Entry) []Entry {
	slices.SortStableFunc(entries, func(x, y Entry) int { return x.Score - y.Score })
	if len(entries) > b.limit {
		entries = entries[:b.limit]
	}
	return entries
}

// readLocked treats a missing file as an empty board and skips lines it
// cannot parse.
func (b *FileBoard) readLocked() ([]Entry, error) {
	f, err := os.Open(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		b.log.Warn("leaderboard file not found, starting empty", "path", b.path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open leaderboard: %w", err)
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		e, ok := parseLine(line)
		if !ok {
			b.log.Warn("skipping malformed leaderboard line", "path", b.path, "line", n)
			continue
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	return b.rank(entries), nil
}

func parseLine(line string) (Entry, bool) {
	i := strings.LastIndex(line, ": ")
	if i <= 0 {
		return Entry{}, false
	}
	score, err := strconv.Atoi(strings.TrimSpace(line[i+2:]))
	if err != nil {
		return Entry{}, false
	}
	return Entry{Player: line[:i], Score: score}, true
}

// writeLocked replaces the file atomically.
func (b *FileBoard) writeLocked(entries []Entry) error {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".leaderboard-*")
	if err != nil {
		return fmt.Errorf("write leaderboard: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, e := range entries {
		fmt.Fprintf(w, "%s: %d\n", e.Player, e.Score)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("write leaderboard: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write leaderboard: %w", err)
	}
	if err := os.Rename(tmp.Name(), b.path); err != nil {
		return fmt.Errorf("write leaderboard: %w", err)
	}
	return nil
}
