package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRound_RejectsBadSecrets(t *testing.T) {
	cases := []struct {
		name   string
		secret Code
	}{
		{"short", Code{Red, Blue, Green}},
		{"repeat", Code{Red, Blue, Green, Red}},
		{"unknown color", Code{Red, Blue, Green, "white"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRound(tc.secret)
			require.ErrorIs(t, err, ErrInvalidSecret)
		})
	}
}

func TestRound_ConfirmRejectionsLeaveNoTrace(t *testing.T) {
	r, err := NewRound(documented)
	require.NoError(t, err)

	_, err = r.confirm(Code{Black, Red, Purple})
	require.ErrorIs(t, err, ErrInvalidGuessLength)

	_, err = r.confirm(Code{Black, Red, Purple, "white"})
	require.ErrorIs(t, err, ErrUnknownColor)

	assert.Equal(t, InProgress, r.State())
	assert.Empty(t, r.History())
	assert.Equal(t, MaxGuesses, r.GuessesLeft())
}

func TestRound_HistoryIsACopy(t *testing.T) {
	r, err := NewRound(documented)
	require.NoError(t, err)

	guess := Code{Black, Red, Yellow, Green}
	_, err = r.confirm(guess)
	require.NoError(t, err)

	guess[0] = Blue
	h := r.History()
	h[0].Guess[1] = Blue
	h[0].Score.Bulls = 4

	got := r.History()[0]
	assert.Equal(t, Code{Black, Red, Yellow, Green}, got.Guess)
	assert.Equal(t, Score{2, 0}, got.Score)

	s := r.Secret()
	s[0] = Green
	assert.Equal(t, documented, r.Secret())
}

func TestRestoreRound(t *testing.T) {
	cases := []struct {
		name      string
		guesses   []Code
		wantState State
		wantScore int
		wantErr   error
	}{
		{
			name:      "empty",
			wantState: InProgress,
		},
		{
			name:      "mid round",
			guesses:   []Code{{Black, Red, Yellow, Green}, {Purple, Red, Black, Blue}},
			wantState: InProgress,
			wantScore: 2,
		},
		{
			name:      "won",
			guesses:   []Code{{Purple, Black, Blue, Red}, {Black, Red, Purple, Blue}},
			wantState: Won,
			wantScore: 2,
		},
		{
			name:    "guess after win",
			guesses: []Code{{Black, Red, Purple, Blue}, {Black, Red, Purple, Blue}},
			wantErr: ErrInvalidTransition,
		},
		{
			name:    "corrupt guess",
			guesses: []Code{{Black, Red}},
			wantErr: ErrInvalidGuessLength,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := RestoreRound(documented, tc.guesses)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantState, r.State())
			assert.Equal(t, tc.wantScore, r.Score())
		})
	}
}
