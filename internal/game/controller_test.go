package game

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) GuessScored(entry Entry, state State) {
	m.Called(entry, state)
}

func (m *mockRenderer) SecretRevealed(secret Code) {
	m.Called(secret)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) RecordScore(ctx context.Context, player string, score int) error {
	args := m.Called(ctx, player, score)
	return args.Error(0)
}

var miss = Code{Yellow, Green, Yellow, Green}

func newTestController(t *testing.T, rec ScoreRecorder, rend Renderer) *Controller {
	t.Helper()
	return NewController(ControllerConfig{
		Player:   "alice",
		Secrets:  FixedSecret(documented),
		Renderer: rend,
		Recorder: rec,
	})
}

func TestController_Scenarios(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "starts in progress with empty history",
			run: func(t *testing.T) {
				c := newTestController(t, nil, nil)
				assert.Equal(t, InProgress, c.State())
				assert.Empty(t, c.Round().History())
				assert.Equal(t, documented, c.Round().Secret())
				assert.Equal(t, "alice", c.Player())
			},
		},
		{
			name: "documented guesses then win",
			run: func(t *testing.T) {
				c := newTestController(t, nil, nil)

				steps := []struct {
					guess Code
					score Score
					state State
				}{
					{Code{Black, Red, Yellow, Green}, Score{2, 0}, InProgress},
					{Code{Purple, Red, Black, Blue}, Score{2, 2}, InProgress},
					{Code{Purple, Black, Blue, Red}, Score{0, 4}, InProgress},
					{Code{Black, Red, Purple, Blue}, Score{4, 0}, Won},
				}
				for i, s := range steps {
					state, score, err := c.ConfirmGuess(ctx, s.guess)
					require.NoError(t, err, "step %d", i)
					assert.Equal(t, s.score, score, "step %d", i)
					assert.Equal(t, s.state, state, "step %d", i)
				}
				assert.Equal(t, 4, c.Score())
				assert.Len(t, c.Round().History(), 4)
			},
		},
		{
			name: "won is terminal",
			run: func(t *testing.T) {
				c := newTestController(t, nil, nil)
				_, _, err := c.ConfirmGuess(ctx, documented)
				require.NoError(t, err)

				state, _, err := c.ConfirmGuess(ctx, miss)
				require.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, Won, state)
				assert.Equal(t, 1, c.Score())
			},
		},
		{
			name: "incomplete guess rejected without advancing",
			run: func(t *testing.T) {
				c := newTestController(t, nil, nil)
				_, _, err := c.ConfirmGuess(ctx, Code{Black, Red, Purple})
				require.ErrorIs(t, err, ErrInvalidGuessLength)
				assert.Equal(t, 0, c.Score())
				assert.Equal(t, InProgress, c.State())
			},
		},
		{
			name: "ten misses lose on the tenth",
			run: func(t *testing.T) {
				c := newTestController(t, nil, nil)
				for i := 1; i < MaxGuesses; i++ {
					state, _, err := c.ConfirmGuess(ctx, miss)
					require.NoError(t, err)
					require.Equal(t, InProgress, state, "guess %d", i)
				}
				state, _, err := c.ConfirmGuess(ctx, miss)
				require.NoError(t, err)
				assert.Equal(t, Lost, state)
				assert.Equal(t, MaxGuesses, c.Score())

				_, _, err = c.ConfirmGuess(ctx, documented)
				require.ErrorIs(t, err, ErrInvalidTransition)
				assert.Len(t, c.Round().History(), MaxGuesses)
			},
		},
		{
			name: "win on the tenth guess is a win",
			run: func(t *testing.T) {
				c := newTestController(t, nil, nil)
				for i := 1; i < MaxGuesses; i++ {
					_, _, err := c.ConfirmGuess(ctx, miss)
					require.NoError(t, err)
				}
				state, _, err := c.ConfirmGuess(ctx, documented)
				require.NoError(t, err)
				assert.Equal(t, Won, state)
				assert.Equal(t, MaxGuesses, c.Score())
			},
		},
		{
			name: "new round replaces state",
			run: func(t *testing.T) {
				c := NewController(ControllerConfig{Player: "bob", Secrets: SeededSecrets(7)})
				before := c.Round()
				_, _, err := c.ConfirmGuess(ctx, miss)
				require.NoError(t, err)

				c.StartNewRound()
				assert.NotSame(t, before, c.Round())
				assert.Equal(t, InProgress, c.State())
				assert.Empty(t, c.Round().History())
				assert.Equal(t, "bob", c.Player())
			},
		},
		{
			name: "resumes a given round",
			run: func(t *testing.T) {
				r, err := RestoreRound(documented, []Code{miss})
				require.NoError(t, err)
				c := NewController(ControllerConfig{Player: "alice", Round: r})
				assert.Same(t, r, c.Round())
				assert.Equal(t, 1, c.Score())
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, tc.run)
	}
}

func TestController_CollaboratorsOnWin(t *testing.T) {
	ctx := context.Background()
	rend := &mockRenderer{}
	rec := &mockRecorder{}

	first := Entry{Guess: Code{Purple, Red, Black, Blue}, Score: Score{2, 2}}
	win := Entry{Guess: documented, Score: Score{4, 0}}

	rend.On("GuessScored", first, InProgress).Once()
	rend.On("GuessScored", win, Won).Once()
	rend.On("SecretRevealed", documented).Once()
	rec.On("RecordScore", ctx, "alice", 2).Return(nil).Once()

	c := newTestController(t, rec, rend)
	_, _, err := c.ConfirmGuess(ctx, first.Guess)
	require.NoError(t, err)
	rec.AssertNotCalled(t, "RecordScore", mock.Anything, mock.Anything, mock.Anything)
	rend.AssertNotCalled(t, "SecretRevealed", mock.Anything)

	_, _, err = c.ConfirmGuess(ctx, documented)
	require.NoError(t, err)

	rend.AssertExpectations(t)
	rec.AssertExpectations(t)
}

func TestController_CollaboratorsOnLoss(t *testing.T) {
	ctx := context.Background()
	rend := &mockRenderer{}
	rec := &mockRecorder{}

	rend.On("GuessScored", mock.Anything, InProgress).Times(MaxGuesses - 1)
	rend.On("GuessScored", mock.Anything, Lost).Once()
	rend.On("SecretRevealed", documented).Once()
	rec.On("RecordScore", ctx, "alice", MaxGuesses).Return(errors.New("disk full")).Once()

	c := newTestController(t, rec, rend)
	for i := 0; i < MaxGuesses; i++ {
		_, _, err := c.ConfirmGuess(ctx, miss)
		require.NoError(t, err, "recorder failures must not reach the caller")
	}

	assert.Equal(t, Lost, c.State())
	rend.AssertExpectations(t)
	rec.AssertExpectations(t)
}

func TestController_RejectedGuessSkipsCollaborators(t *testing.T) {
	rend := &mockRenderer{}
	rec := &mockRecorder{}

	c := newTestController(t, rec, rend)
	_, _, err := c.ConfirmGuess(context.Background(), Code{Black})
	require.ErrorIs(t, err, ErrInvalidGuessLength)

	rend.AssertNotCalled(t, "GuessScored", mock.Anything, mock.Anything)
	rec.AssertNotCalled(t, "RecordScore", mock.Anything, mock.Anything, mock.Anything)
}
