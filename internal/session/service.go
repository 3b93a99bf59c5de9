package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"example.com/mastermind/internal/game"
	"github.com/google/uuid"
)

type ServiceConfig struct {
	Persist        Persistence
	Secrets        game.SecretSource  // nil => random
	Recorder       game.ScoreRecorder // receives final scores
	Log            *slog.Logger
	PersistTimeout time.Duration // 0 => 2s
}

// Service caches live sessions and restores them from persistence after a
// restart.
type Service struct {
	mu sync.Mutex
	in map[string]*Session

	persist        Persistence
	persistTimeout time.Duration
	deps           sessionDeps
	log            *slog.Logger
}

func NewService(cfg ServiceConfig) *Service {
	if cfg.Persist == nil {
		cfg.Persist = NewMemoryStore()
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	if cfg.PersistTimeout <= 0 {
		cfg.PersistTimeout = 2 * time.Second
	}
	return &Service{
		in:             make(map[string]*Session),
		persist:        cfg.Persist,
		persistTimeout: cfg.PersistTimeout,
		deps: sessionDeps{
			secrets:  cfg.Secrets,
			recorder: cfg.Recorder,
			log:      cfg.Log,
		},
		log: cfg.Log,
	}
}

func (s *Service) Create(ctx context.Context, player string) (*Session, error) {
	sess := newSession(uuid.NewString(), player, s.deps, nil)

	sess.mu.Lock()
	snap := sess.snapshotLocked()
	sess.mu.Unlock()
	if err := s.persist.Save(ctx, sess.id, snap); err != nil {
		return nil, fmt.Errorf("save new session: %w", err)
	}

	s.attachHook(sess)

	s.mu.Lock()
	s.in[sess.id] = sess
	s.mu.Unlock()

	s.log.Info("session created", "session", sess.id, "player", player)
	return sess, nil
}

func (s *Service) GetOrLoad(ctx context.Context, sessionID string) (*Session, bool, error) {
	s.mu.Lock()
	sess, ok := s.in[sessionID]
	s.mu.Unlock()
	if ok {
		return sess, true, nil
	}

	snap, found, err := s.persist.Load(ctx, sessionID)
	if err != nil {
		return nil, false, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if !found {
		return nil, false, nil
	}

	sess, err = restoreSession(snap, s.deps)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.in[sessionID]; ok {
		// lost a race with another loader
		return existing, true, nil
	}
	s.attachHook(sess)
	s.in[sessionID] = sess

	s.log.Info("session restored", "session", sessionID, "player", sess.player)
	return sess, true, nil
}

// attachHook saves a snapshot after every change. The request context may be
// gone by then, so each save gets its own deadline.
func (s *Service) attachHook(sess *Session) {
	sess.onPersist = func(snap Snapshot) {
		ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
		defer cancel()
		if err := s.persist.Save(ctx, snap.SessionID, snap); err != nil {
			s.log.Error("save session snapshot", "session", snap.SessionID, "err", err)
		}
	}
}
