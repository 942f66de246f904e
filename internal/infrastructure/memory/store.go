// Package memory is an in-process implementation of the repository
// contracts. It backs STORE_DRIVER=memory and the service and handler tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/internal/domain/repository"
)

type userRow struct {
	entity.User
	seq int64
}

type farmerRow struct {
	entity.FarmerProfile
	seq int64
}

type cropRow struct {
	entity.Crop
	seq int64
}

type tables struct {
	users   map[string]userRow
	farmers map[string]farmerRow
	crops   map[string]cropRow
	audit   []entity.AuditLog
	seq     int64
}

func newTables() *tables {
	return &tables{
		users:   make(map[string]userRow),
		farmers: make(map[string]farmerRow),
		crops:   make(map[string]cropRow),
	}
}

func (t *tables) clone() *tables {
	c := &tables{
		users:   make(map[string]userRow, len(t.users)),
		farmers: make(map[string]farmerRow, len(t.farmers)),
		crops:   make(map[string]cropRow, len(t.crops)),
		audit:   append([]entity.AuditLog(nil), t.audit...),
		seq:     t.seq,
	}
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.farmers {
		c.farmers[k] = v
	}
	for k, v := range t.crops {
		c.crops[k] = v
	}
	return c
}

func (t *tables) next() int64 {
	t.seq++
	return t.seq
}

// Store is safe for concurrent use. A transaction holds the write lock for
// its whole duration and restores a snapshot when fn fails.
type Store struct {
	mu   *sync.RWMutex
	t    *tables
	inTx bool

	// Now is the clock used for created_at/updated_at.
	Now func() time.Time
}

func NewStore() *Store {
	return &Store{mu: &sync.RWMutex{}, t: newTables(), Now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) rlock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now()
}

func (s *Store) Users() repository.UserRepository     { return &userRepo{s} }
func (s *Store) Farmers() repository.FarmerRepository { return &farmerRepo{s} }
func (s *Store) Crops() repository.CropRepository     { return &cropRepo{s} }
func (s *Store) Audit() repository.AuditRepository    { return &auditRepo{s} }

func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.t.clone()
	tx := &Store{mu: s.mu, t: s.t, inTx: true, Now: s.Now}
	err := fn(tx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		*s.t = *snapshot
	}
	return err
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// AuditLogs returns a copy of every recorded audit entry.
func (s *Store) AuditLogs() []entity.AuditLog {
	defer s.rlock()()
	return append([]entity.AuditLog(nil), s.t.audit...)
}

var _ repository.Store = (*Store)(nil)
