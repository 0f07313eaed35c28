package resource

import (
	"context"
	"fmt"

	"rowsync/core/dataset"
	"rowsync/core/diff"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Hooks are the engine's extension points. Every hook is optional; a nil
// hook is a no-op. Hook failures are classified as HookError and follow
// the per-row failure policy.
type Hooks struct {
	// BeforeImport runs once before any row is processed. A failure is
	// recorded as a base error.
	BeforeImport func(ctx context.Context, ds *dataset.Dataset, dryRun bool) error

	// ForDelete marks a row for deletion instead of create/update.
	ForDelete func(row dataset.Row, instance any) bool

	// BeforeSave and AfterSave bracket persistence of one instance.
	BeforeSave func(ctx context.Context, instance any, dryRun bool) error
	AfterSave  func(ctx context.Context, instance any, dryRun bool) error

	// BeforeDelete and AfterDelete bracket deletion of one instance.
	BeforeDelete func(ctx context.Context, instance any, dryRun bool) error
	AfterDelete  func(ctx context.Context, instance any, dryRun bool) error
}

// ExportFunc substitutes a custom exporter for one field. The export
// override table replaces per-field override-by-naming-convention with an
// explicit mapping resolved once per resource.
type ExportFunc func(instance any) (string, error)

// InstanceIterator streams domain objects one at a time into fn.
type InstanceIterator func(ctx context.Context, fn func(instance any) error) error

// Config assembles a Resource.
type Config struct {
	// Store is the persistence collaborator. Required.
	Store Store

	// Fields is the declared field registry. Required, non-empty.
	Fields *FieldRegistry

	// Options is the frozen per-resource configuration.
	Options Options

	// Hooks are the optional extension points.
	Hooks Hooks

	// Exporters maps field names to custom exporters.
	Exporters map[string]ExportFunc

	// Resolver overrides the default store-backed instance resolver.
	Resolver ResolverFactory

	// DefaultUseTransactions is the process-wide transaction default
	// consulted when neither the batch nor the options decide.
	DefaultUseTransactions bool

	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Resource reconciles dataset rows against the store's domain objects. It
// owns the field mapping and orchestrates the per-row state machine:
// resolve, mutate, skip-or-save, diff, record.
type Resource struct {
	store       Store
	fields      *FieldRegistry
	order       []string
	idFields    []*Field
	opts        Options
	hooks       Hooks
	exporters   map[string]ExportFunc
	newResolver ResolverFactory
	differ      *diff.Differ
	defaultTx   bool
	log         *zap.Logger
}

// New builds a Resource, applying the field whitelist/blacklist and
// validating identification fields and column order once, up front.
func New(cfg Config) (*Resource, error) {
	if cfg.Store == nil {
		return nil, errors.New("resource: store is required")
	}
	if cfg.Fields == nil || cfg.Fields.Len() == 0 {
		return nil, errors.New("resource: at least one field is required")
	}

	opts := cfg.Options.normalized()
	fields, err := cfg.Fields.subset(opts.Fields, opts.Exclude)
	if err != nil {
		return nil, err
	}
	if fields.Len() == 0 {
		return nil, errors.New("resource: options excluded every field")
	}

	order := opts.columnOrder(fields)
	for _, name := range order {
		if _, ok := fields.Get(name); !ok {
			return nil, errors.Newf("resource: column order names unknown field %q", name)
		}
	}

	idFields := make([]*Field, 0, len(opts.ImportIDFields))
	for _, name := range opts.ImportIDFields {
		f, ok := fields.Get(name)
		if !ok {
			return nil, errors.Newf("resource: identification field %q is not declared", name)
		}
		idFields = append(idFields, f)
	}

	exporters := make(map[string]ExportFunc, len(cfg.Exporters))
	for name, fn := range cfg.Exporters {
		if _, ok := fields.Get(name); !ok {
			return nil, errors.Newf("resource: exporter for unknown field %q", name)
		}
		exporters[name] = fn
	}

	newResolver := cfg.Resolver
	if newResolver == nil {
		newResolver = newStoreResolver
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Resource{
		store:       cfg.Store,
		fields:      fields,
		order:       order,
		idFields:    idFields,
		opts:        opts,
		hooks:       cfg.Hooks,
		exporters:   exporters,
		newResolver: newResolver,
		differ:      diff.New(),
		defaultTx:   cfg.DefaultUseTransactions,
		log:         log,
	}, nil
}

// ColumnHeaders returns column display names in effective column order.
func (r *Resource) ColumnHeaders() []string {
	headers := make([]string, 0, len(r.order))
	for _, name := range r.order {
		f, _ := r.fields.Get(name)
		headers = append(headers, f.ColumnName)
	}
	return headers
}

// DiffHeaders returns the headers matching RowResult.Diff entries.
func (r *Resource) DiffHeaders() []string {
	return r.ColumnHeaders()
}

// ImportOptions controls one import batch.
type ImportOptions struct {
	// DryRun computes full outcomes and diffs without persisting.
	DryRun bool

	// RaiseErrors aborts on the first error instead of collecting
	// per-row errors, rolling back any open transaction.
	RaiseErrors bool

	// UseTransactions overrides the resource's transaction setting for
	// this batch; nil inherits.
	UseTransactions *bool
}

// ImportData reconciles every dataset row against the store, in dataset
// order, and returns the batch result. Per-row failures are isolated
// unless RaiseErrors is set. With transactions enabled, rows are applied
// for real inside the transaction regardless of DryRun, and the
// transaction is rolled back at the end when DryRun was requested or any
// error occurred; this lets diffs observe true post-mutation state
// without persisting it.
func (r *Resource) ImportData(ctx context.Context, ds *dataset.Dataset, opts ImportOptions) (*Result, error) {
	result := &Result{}
	useTx := r.opts.useTransactions(opts.UseTransactions, r.defaultTx)

	rowStore := r.store
	var tx TxStore
	if useTx {
		tr, ok := r.store.(Transactor)
		if !ok {
			return nil, wrapPersistence(errors.New("store does not support transactions"), "beginning batch")
		}
		t, err := tr.Begin(ctx)
		if err != nil {
			return nil, wrapPersistence(err, "beginning batch")
		}
		tx = t
		rowStore = t
	}

	// Inside a transaction rows are applied for real; the rollback at
	// the end undoes them for dry runs.
	realDryRun := opts.DryRun && !useTx

	resolver := r.newResolver(rowStore, r.idFields)

	if r.hooks.BeforeImport != nil {
		if err := r.hooks.BeforeImport(ctx, ds, realDryRun); err != nil {
			err = wrapHook(err, "before-import hook")
			result.BaseErrors = append(result.BaseErrors, NewError(err))
			if opts.RaiseErrors {
				if tx != nil {
					_ = tx.Rollback()
				}
				return result, err
			}
		}
	}

	for i, row := range ds.Rows() {
		rowResult, rowErr := r.importRow(ctx, rowStore, resolver, row, realDryRun)
		if rowErr != nil {
			r.log.Warn("row import failed",
				zap.Int("row", i),
				zap.Error(rowErr))
			if opts.RaiseErrors {
				if tx != nil {
					_ = tx.Rollback()
				}
				return result, rowErr
			}
		}
		if rowResult.ImportType != ImportTypeSkip || r.opts.reportSkipped() {
			result.Rows = append(result.Rows, rowResult)
		}
	}

	if tx != nil {
		if opts.DryRun || result.HasErrors() {
			if err := tx.Rollback(); err != nil {
				return result, wrapPersistence(err, "rolling back batch")
			}
		} else {
			if err := tx.Commit(); err != nil {
				return result, wrapPersistence(err, "committing batch")
			}
		}
	}

	r.log.Info("import finished",
		zap.Int("rows", ds.Len()),
		zap.Bool("dry_run", opts.DryRun),
		zap.Bool("transactional", useTx),
		zap.Bool("has_errors", result.HasErrors()))
	return result, nil
}

// importRow isolates one row: any failure, including a panic inside a
// widget or hook, becomes that row's Error and the outcome ERROR. The
// returned error is non-nil only to serve eager-failure propagation.
func (r *Resource) importRow(ctx context.Context, store Store, resolver InstanceResolver, row dataset.Row, dryRun bool) (rowResult RowResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Newf("panic during row processing: %v", p)
		}
		if err != nil {
			rowResult.Errors = append(rowResult.Errors, NewError(err))
			rowResult.ImportType = ImportTypeError
		}
	}()

	err = r.processRow(ctx, store, resolver, row, dryRun, &rowResult)
	return rowResult, err
}

// processRow runs the row state machine: resolve, snapshot, deletion
// check, field application, unchanged check, persist, diff.
func (r *Resource) processRow(ctx context.Context, store Store, resolver InstanceResolver, row dataset.Row, dryRun bool, rowResult *RowResult) error {
	instance, found, err := resolver.GetInstance(ctx, row)
	if err != nil {
		return err
	}
	isNew := !found
	if isNew {
		instance = store.NewInstance()
		rowResult.ImportType = ImportTypeNew
	} else {
		rowResult.ImportType = ImportTypeUpdate
	}

	// Snapshot before any mutation; field application works in place.
	original, err := r.snapshot(instance)
	if err != nil {
		return err
	}

	if r.hooks.ForDelete != nil && r.hooks.ForDelete(row, instance) {
		if isNew {
			// Nothing to delete.
			rowResult.ImportType = ImportTypeSkip
			rowResult.Diff = r.renderDiff(nil, nil)
			return nil
		}
		rowResult.ImportType = ImportTypeDelete
		if err := r.deleteInstance(ctx, store, instance, dryRun); err != nil {
			return err
		}
		rowResult.Diff = r.renderDiff(original, nil)
		return nil
	}

	if err := r.importInstance(ctx, instance, row); err != nil {
		return err
	}

	skipped := false
	if r.opts.SkipUnchanged {
		skipped, err = r.unchanged(ctx, row, instance, original)
		if err != nil {
			return err
		}
	}
	if skipped {
		rowResult.ImportType = ImportTypeSkip
	} else {
		if err := r.saveInstance(ctx, store, instance, dryRun); err != nil {
			return err
		}
		if err := r.saveRelations(ctx, store, instance, row, dryRun); err != nil {
			return err
		}
		rowResult.ObjectRepr = objectRepr(instance)
		if id, idErr := getAttr(instance, r.idFields[0].Attribute); idErr == nil {
			rowResult.ObjectID = id
		}
	}

	current, err := r.snapshot(instance)
	if err != nil {
		return err
	}
	rowResult.Diff = r.renderDiff(original, current)
	return nil
}

// importInstance applies every non-relation-collection field present in
// the row to the instance. Absent columns leave attributes untouched.
func (r *Resource) importInstance(ctx context.Context, instance any, row dataset.Row) error {
	for _, name := range r.order {
		f, _ := r.fields.Get(name)
		if f.isRelationSet() {
			continue
		}
		if err := f.Save(ctx, instance, row); err != nil {
			return err
		}
	}
	return nil
}

// unchanged compares the post-mutation instance against the original
// snapshot field by field. Multi-valued relation fields compare the
// row's full resolved member set against the original member set rather
// than object identity.
func (r *Resource) unchanged(ctx context.Context, row dataset.Row, instance any, original snapshot) (bool, error) {
	for _, name := range r.order {
		f, _ := r.fields.Get(name)

		if f.isRelationSet() && row.Has(f.ColumnName) {
			members, err := f.Widget.Clean(ctx, row[f.ColumnName])
			if err != nil {
				return false, errors.Wrapf(err, "field %q", f.ColumnName)
			}
			if f.Widget.Render(members) != original[name] {
				return false, nil
			}
			continue
		}

		current, err := r.exportField(name, f, instance)
		if err != nil {
			return false, err
		}
		if current != original[name] {
			return false, nil
		}
	}
	return true, nil
}

// saveInstance brackets the store save with the before/after hooks. The
// save itself is suppressed on dry runs; the hooks still observe the
// dry-run flag, matching their auditing use.
func (r *Resource) saveInstance(ctx context.Context, store Store, instance any, dryRun bool) error {
	if r.hooks.BeforeSave != nil {
		if err := r.hooks.BeforeSave(ctx, instance, dryRun); err != nil {
			return wrapHook(err, "before-save hook")
		}
	}
	if !dryRun {
		if err := store.Save(ctx, instance); err != nil {
			return wrapPersistence(err, "saving instance")
		}
	}
	if r.hooks.AfterSave != nil {
		if err := r.hooks.AfterSave(ctx, instance, dryRun); err != nil {
			return wrapHook(err, "after-save hook")
		}
	}
	return nil
}

func (r *Resource) deleteInstance(ctx context.Context, store Store, instance any, dryRun bool) error {
	if r.hooks.BeforeDelete != nil {
		if err := r.hooks.BeforeDelete(ctx, instance, dryRun); err != nil {
			return wrapHook(err, "before-delete hook")
		}
	}
	if !dryRun {
		if err := store.Delete(ctx, instance); err != nil {
			return wrapPersistence(err, "deleting instance")
		}
	}
	if r.hooks.AfterDelete != nil {
		if err := r.hooks.AfterDelete(ctx, instance, dryRun); err != nil {
			return wrapHook(err, "after-delete hook")
		}
	}
	return nil
}

// saveRelations applies multi-valued relation fields in a second pass,
// after the instance has a persisted identity. Skipped entirely on dry
// runs, where no identity exists to attach members to.
func (r *Resource) saveRelations(ctx context.Context, store Store, instance any, row dataset.Row, dryRun bool) error {
	if dryRun {
		return nil
	}
	for _, name := range r.order {
		f, _ := r.fields.Get(name)
		if !f.isRelationSet() || !row.Has(f.ColumnName) {
			continue
		}
		cleaned, err := f.Widget.Clean(ctx, row[f.ColumnName])
		if err != nil {
			return errors.Wrapf(err, "field %q", f.ColumnName)
		}
		members, ok := cleaned.([]any)
		if !ok {
			return conversionErrorf("field %q: relation widget produced %T, want a member set", f.ColumnName, cleaned)
		}
		if err := store.ReplaceRelation(ctx, instance, f.Attribute, members); err != nil {
			return wrapPersistence(err, "replacing relation "+f.Attribute)
		}
	}
	return nil
}

// snapshot is the value-semantics copy used for diffing and no-op
// detection: an ordered field-name to exported-value mapping, which
// avoids relying on generic object cloning.
type snapshot map[string]string

func (r *Resource) snapshot(instance any) (snapshot, error) {
	snap := make(snapshot, len(r.order))
	for _, name := range r.order {
		f, _ := r.fields.Get(name)
		value, err := r.exportField(name, f, instance)
		if err != nil {
			return nil, err
		}
		snap[name] = value
	}
	return snap, nil
}

// renderDiff produces one rendered per-field diff per declared field, in
// column order. A nil snapshot reads as all-empty, used for the delete
// and nothing-to-delete outcomes.
func (r *Resource) renderDiff(original, current snapshot) []string {
	diffs := make([]string, 0, len(r.order))
	for _, name := range r.order {
		diffs = append(diffs, r.differ.Render(original[name], current[name]))
	}
	return diffs
}

// exportField renders one field's value, going through the custom
// exporter when one is registered.
func (r *Resource) exportField(name string, f *Field, instance any) (string, error) {
	if fn, ok := r.exporters[name]; ok {
		value, err := fn(instance)
		if err != nil {
			return "", errors.Wrapf(err, "exporting field %q", name)
		}
		return value, nil
	}
	return f.Export(instance)
}

// Export renders every object yielded by the iterator as one dataset row
// in column order, under a header of column display names. Objects are
// exported lazily, one at a time; passing a nil iterator exports the
// whole store.
func (r *Resource) Export(ctx context.Context, iter InstanceIterator) (*dataset.Dataset, error) {
	if iter == nil {
		iter = r.store.EachInstance
	}
	data := dataset.New(r.ColumnHeaders()...)
	err := iter(ctx, func(instance any) error {
		values, err := r.exportInstance(instance)
		if err != nil {
			return err
		}
		return data.Append(values...)
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *Resource) exportInstance(instance any) ([]string, error) {
	values := make([]string, 0, len(r.order))
	for _, name := range r.order {
		f, _ := r.fields.Get(name)
		value, err := r.exportField(name, f, instance)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

func objectRepr(instance any) string {
	if s, ok := instance.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", instance)
}
