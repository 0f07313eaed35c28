// Package resource reconciles rows of a tabular dataset against persisted
// domain objects: each row resolves an existing object or allocates a new
// one, applies widget-converted field values, detects no-op changes,
// renders a per-field diff, and commits or discards the result. Per-row
// failures are isolated so a batch of thousands of rows survives
// individual bad records.
//
// # Architecture
//
// The package consists of five cooperating parts:
//
//  1. Field/Widget: a Field binds an external column name to a dotted
//     attribute path through a Widget, the stateless converter between raw
//     cell values and native attribute values. Fields live in an ordered
//     FieldRegistry built explicitly at construction time.
//
//  2. Options: the frozen per-resource configuration (field selection,
//     identification fields, transaction mode, skip-unchanged, column
//     order), read once when the Resource is built.
//
//  3. InstanceResolver: maps a row's identification fields to an existing
//     stored object, memoizing within a batch.
//
//  4. Store: the persistence collaborator. A gorm-backed implementation is
//     provided (GormStore); Transactor-capable stores get all-or-nothing
//     batch semantics with a single commit-or-rollback exit path.
//
//  5. Resource: the engine orchestrating the per-row state machine
//     (resolve, snapshot, delete check, mutate, skip-or-save, diff,
//     record) and the reverse export pipeline.
//
// # Row lifecycle
//
// Each row resolves to an UPDATE candidate (object found) or a NEW
// candidate (fresh unsaved object). A snapshot of exported field values is
// taken before mutation; it is the baseline for both no-op detection and
// the rendered diff. A pluggable ForDelete predicate can divert the row
// into deletion. Multi-valued relations are persisted in a second pass
// after the object has an identity, and never on dry runs.
//
// # Usage Example
//
//	store := resource.NewGormStore(db, func() any { return &Book{} })
//	fields := resource.NewFieldRegistry().
//	    MustAdd("id", resource.Field{Widget: resource.IntWidget{}}).
//	    MustAdd("title", resource.Field{Widget: resource.StringWidget{}})
//
//	res, err := resource.New(resource.Config{
//	    Store:   store,
//	    Fields:  fields,
//	    Options: resource.Options{SkipUnchanged: true},
//	})
//
//	result, err := res.ImportData(ctx, ds, resource.ImportOptions{DryRun: true})
package resource
