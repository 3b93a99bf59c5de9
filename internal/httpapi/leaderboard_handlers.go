package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"

	"example.com/mastermind/internal/leaderboard"
)

const maxLeaderboardLimit = 100

type LeaderboardHandler struct {
	Board leaderboard.Board
	Limit int // default page size
	Log   *slog.Logger
}

type RankedEntry struct {
	Rank int `json:"rank"`
	leaderboard.Entry
}

type LeaderboardResponse struct {
	Entries []RankedEntry `json:"entries"`
}

// Top serves GET /api/leaderboard?limit=N.
func (h *LeaderboardHandler) Top(w http.ResponseWriter, r *http.Request) {
	limit := h.Limit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxLeaderboardLimit {
			writeError(w, http.StatusBadRequest, "bad_request", "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	entries, err := h.Board.Top(r.Context(), limit)
	if err != nil {
		log := h.Log
		if log == nil {
			log = slog.Default()
		}
		log.Error("read leaderboard", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to read leaderboard")
		return
	}

	resp := LeaderboardResponse{Entries: make([]RankedEntry, len(entries))}
	for i, e := range entries {
		resp.Entries[i] = RankedEntry{Rank: i + 1, Entry: e}
	}
	writeJSON(w, http.StatusOK, resp)
}
