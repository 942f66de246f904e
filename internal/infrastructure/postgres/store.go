package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/shamba-farm/internal/domain/repository"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so repositories run
// unchanged inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	pool *pgxpool.Pool
	db   DBTX
	inTx bool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, db: pool}
}

func (s *Store) Users() repository.UserRepository     { return &UserRepository{db: s.db} }
func (s *Store) Farmers() repository.FarmerRepository { return &FarmerRepository{db: s.db} }
func (s *Store) Crops() repository.CropRepository     { return &CropRepository{db: s.db} }
func (s *Store) Audit() repository.AuditRepository    { return &AuditRepository{db: s.db} }

// WithinTx runs fn in a single transaction. Nested calls join the outer one.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&Store{pool: s.pool, db: tx, inTx: true})
	})
	if err != nil {
		return fmt.Errorf("postgres tx: %w", err)
	}
	return nil
}

// Ping reports datastore health.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// validID guards uuid columns so malformed ids read as missing rows instead
// of a 22P02 error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

var _ repository.Store = (*Store)(nil)
