package sessionrepofake

import (
	"context"
	"sync"

	consoleerrors "github.com/jrsteele09/product-console/internal/errors"
	"github.com/jrsteele09/product-console/session"
)

var _ session.Repo = (*FakeSessionRepo)(nil)

// FakeSessionRepo keeps the persisted session in memory.
type FakeSessionRepo struct {
	lock   sync.RWMutex
	stored *session.Session
	saves  int
	err    error
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{}
}

// Seed stores s as if it had been saved by an earlier process.
func (r *FakeSessionRepo) Seed(s session.Session) {
	r.lock.Lock()
	defer r.lock.Unlock()
	c := s.Clone()
	r.stored = &c
}

// FailWith makes every later call return err.
func (r *FakeSessionRepo) FailWith(err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.err = err
}

func (r *FakeSessionRepo) Load(_ context.Context) (*session.Session, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	if r.stored == nil {
		return nil, consoleerrors.ErrSessionNotFound
	}
	c := r.stored.Clone()
	return &c, nil
}

func (r *FakeSessionRepo) Save(_ context.Context, s session.Session) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.err != nil {
		return r.err
	}
	c := s.Clone()
	r.stored = &c
	r.saves++
	return nil
}

// Stored returns the last saved session, or nil.
func (r *FakeSessionRepo) Stored() *session.Session {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.stored == nil {
		return nil
	}
	c := r.stored.Clone()
	return &c
}

func (r *FakeSessionRepo) Saves() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.saves
}
