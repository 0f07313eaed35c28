package resource

import "context"

// Store is the persistence collaborator for one domain-object kind. The
// engine never reaches past this interface; relationship declaration and
// query semantics stay with the implementation.
type Store interface {
	// NewInstance allocates a fresh, unsaved domain object.
	NewInstance() any

	// Lookup finds the single object exactly matching every given
	// attribute value. found is false when no object matches.
	Lookup(ctx context.Context, keys map[string]any) (instance any, found bool, err error)

	// Save persists the object, assigning its identity on first save.
	Save(ctx context.Context, instance any) error

	// Delete removes the object.
	Delete(ctx context.Context, instance any) error

	// ReplaceRelation sets the full member set of a multi-valued
	// relation on an already-persisted object.
	ReplaceRelation(ctx context.Context, instance any, attribute string, members []any) error

	// EachInstance streams every stored object one at a time, in a
	// stable order, bounding memory for large exports.
	EachInstance(ctx context.Context, fn func(instance any) error) error
}

// Transactor is implemented by stores that support batch transactions.
type Transactor interface {
	Store

	// Begin opens a transaction and returns a store scoped to it. The
	// engine guarantees exactly one Commit or Rollback per Begin.
	Begin(ctx context.Context) (TxStore, error)
}

// TxStore is a Store bound to an open transaction.
type TxStore interface {
	Store

	// Commit makes the batch's changes durable.
	Commit() error

	// Rollback discards the batch's changes.
	Rollback() error
}
