package ports

import "context"

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary. Every Advance and
// Import call runs inside exactly one unit of work, so a failure partway
// through a multi-entity mutation leaves no partial state visible to
// concurrent readers. Client code must explicitly manage the transaction
// lifecycle.
//
// Two concurrent calls against the same order are not coordinated here; the
// expected external discipline is per-order serialization (row-level lock or
// a single-writer queue keyed by order id).
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current transaction.
	OrderRepository() OrderRepository

	// PatientRepository returns a PatientRepository bound to the current transaction.
	PatientRepository() PatientRepository

	// CatalogRepository returns a CatalogRepository bound to the current transaction.
	CatalogRepository() CatalogRepository

	// SampleRepository returns a SampleRepository bound to the current transaction.
	SampleRepository() SampleRepository

	// UserRepository returns a UserRepository bound to the current transaction.
	UserRepository() UserRepository
}
