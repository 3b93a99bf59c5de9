package session

import (
	"context"
	"errors"
	"testing"

	"example.com/mastermind/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	*MemoryStore
	saveErr, loadErr error
}

func (f *failingStore) Save(ctx context.Context, id string, snap Snapshot) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.MemoryStore.Save(ctx, id, snap)
}

func (f *failingStore) Load(ctx context.Context, id string) (Snapshot, bool, error) {
	if f.loadErr != nil {
		return Snapshot{}, false, f.loadErr
	}
	return f.MemoryStore.Load(ctx, id)
}

func TestService_RestoreAfterRestart(t *testing.T) {
	ctx := context.Background()
	persist := NewMemoryStore()
	cfg := ServiceConfig{Persist: persist, Secrets: game.FixedSecret(testSecret)}

	svc1 := NewService(cfg)
	sess, err := svc1.Create(ctx, "alice")
	require.NoError(t, err)

	_, _, err = sess.Confirm(ctx, []string{"purple", "red", "black", "blue"})
	require.NoError(t, err)
	require.NoError(t, sess.PickColor("green"))

	svc2 := NewService(cfg)
	restored, ok, err := svc2.GetOrLoad(ctx, sess.ID())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sess.State(), restored.State())

	again, ok, err := svc2.GetOrLoad(ctx, sess.ID())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, restored, again)

	// the restored session keeps persisting
	state, _, err := restored.Confirm(ctx, []string{"black", "red", "purple", "blue"})
	require.NoError(t, err)
	assert.Equal(t, game.Won, state)

	snap, ok, err := persist.Load(ctx, sess.ID())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, snap.Guesses, 2)
}

func TestService_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown session", func(t *testing.T) {
		svc := NewService(ServiceConfig{})
		_, ok, err := svc.GetOrLoad(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("create fails when first save fails", func(t *testing.T) {
		svc := NewService(ServiceConfig{Persist: &failingStore{MemoryStore: NewMemoryStore(), saveErr: errors.New("boom")}})
		_, err := svc.Create(ctx, "alice")
		require.Error(t, err)
	})

	t.Run("load error surfaces", func(t *testing.T) {
		svc := NewService(ServiceConfig{Persist: &failingStore{MemoryStore: NewMemoryStore(), loadErr: errors.New("boom")}})
		_, _, err := svc.GetOrLoad(ctx, "s1")
		require.Error(t, err)
	})

	t.Run("later save errors are logged, not returned", func(t *testing.T) {
		store := &failingStore{MemoryStore: NewMemoryStore()}
		svc := NewService(ServiceConfig{Persist: store, Secrets: game.FixedSecret(testSecret)})
		sess, err := svc.Create(ctx, "alice")
		require.NoError(t, err)

		store.saveErr = errors.New("boom")
		_, _, err = sess.Confirm(ctx, []string{"black", "red", "purple", "blue"})
		require.NoError(t, err)
	})
}
