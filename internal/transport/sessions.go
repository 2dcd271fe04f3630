package transport

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/goodnatureofminers/subnameclaim-backend/internal/clock"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

const DefaultSessionTTL = 30 * time.Minute

type session struct {
	workflow Workflow
	seen     time.Time
}

// Sessions owns the live claim workflows. Idle sessions are closed by Sweep.
type Sessions struct {
	factory WorkflowFactory
	ttl     time.Duration
	logger  *zap.Logger
	now     func() time.Time
	newID   func() uuid.UUID

	mu    sync.Mutex
	items map[uuid.UUID]*session
}

// NewSessions creates a session registry. A non-positive ttl uses DefaultSessionTTL.
func NewSessions(factory WorkflowFactory, ttl time.Duration, logger *zap.Logger) (*Sessions, error) {
	if factory == nil {
		return nil, errors.New("workflow factory is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{
		factory: factory,
		ttl:     ttl,
		logger:  logger.Named("sessions"),
		now:     time.Now,
		newID:   uuid.New,
		items:   make(map[uuid.UUID]*session),
	}, nil
}

func (s *Sessions) Create(account model.Account) (uuid.UUID, Workflow, error) {
	wf, err := s.factory(account)
	if err != nil {
		return uuid.Nil, nil, err
	}

	id := s.newID()
	s.mu.Lock()
	s.items[id] = &session{workflow: wf, seen: s.now()}
	s.mu.Unlock()

	s.logger.Debug("session created", zap.String("session", id.String()), zap.String("account", account.Address.Hex()))
	return id, wf, nil
}

// Get returns the session workflow and marks it as used.
func (s *Sessions) Get(id uuid.UUID) (Workflow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.items[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.seen = s.now()
	return sess.workflow, nil
}

func (s *Sessions) Delete(id uuid.UUID) error {
	s.mu.Lock()
	sess, ok := s.items[id]
	delete(s.items, id)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	sess.workflow.Close()
	return nil
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep closes sessions idle for longer than the ttl and returns how many it closed.
func (s *Sessions) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	var expired []Workflow
	s.mu.Lock()
	for id, sess := range s.items {
		if sess.seen.Before(cutoff) {
			expired = append(expired, sess.workflow)
			delete(s.items, id)
		}
	}
	s.mu.Unlock()

	for _, wf := range expired {
		wf.Close()
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done, then closes every session.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	_ = clock.Every(ctx, interval, func() {
		if n := s.Sweep(); n > 0 {
			s.logger.Info("idle sessions closed", zap.Int("count", n))
		}
	})
	s.closeAll()
}

func (s *Sessions) closeAll() {
	s.mu.Lock()
	items := s.items
	s.items = make(map[uuid.UUID]*session)
	s.mu.Unlock()

	for _, sess := range items {
		sess.workflow.Close()
	}
}
