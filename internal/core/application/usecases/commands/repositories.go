// Package commands contains the business operations that mutate the order
// aggregate: the step-advance engine and the external import reconciler.
// All commands follow a consistent pattern: constructor validation,
// transaction management through a unit of work, and persistence via ports.
package commands

import (
	"context"

	"github.com/arvni/provider-panel-sub000/internal/core/ports"
)

type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// UoW manages one atomic unit across the full aggregate graph. Both the
	// step engine and the import reconciler touch several entity families in
	// a single call, so they always take the full unit of work.
	UoW interface {
		TxManager

		OrderRepository() ports.OrderRepository
		PatientRepository() ports.PatientRepository
		CatalogRepository() ports.CatalogRepository
		SampleRepository() ports.SampleRepository
		UserRepository() ports.UserRepository
	}

	// UoWFactory creates new unit of work instances, one per call.
	UoWFactory interface {
		Create() UoW
	}
)
