package repository

import "context"

// Store groups the relational repositories and runs units of work.
type Store interface {
	Users() UserRepository
	Farmers() FarmerRepository
	Crops() CropRepository
	Audit() AuditRepository

	// WithinTx runs fn against a transaction-scoped Store. fn returning an
	// error rolls back every write made through tx.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
