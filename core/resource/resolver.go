package resource

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
)

// InstanceResolver finds the existing domain object a row refers to. It
// never creates objects; within one batch it must return identical
// results for identical identification keys.
type InstanceResolver interface {
	// GetInstance resolves a row to an existing object via the
	// configured identification fields. found is false when no object
	// matches.
	GetInstance(ctx context.Context, row map[string]string) (instance any, found bool, err error)
}

// ResolverFactory builds the resolver for one batch, bound to the store
// the batch's rows go through (the transaction-scoped store when
// transactions are active).
type ResolverFactory func(store Store, idFields []*Field) InstanceResolver

// storeResolver is the default resolver: it cleans the identification
// fields' raw values and performs an exact-match store lookup, memoizing
// hits for the duration of the batch.
type storeResolver struct {
	store    Store
	idFields []*Field
	cache    map[string]any
}

func newStoreResolver(store Store, idFields []*Field) InstanceResolver {
	return &storeResolver{
		store:    store,
		idFields: idFields,
		cache:    make(map[string]any),
	}
}

func (r *storeResolver) GetInstance(ctx context.Context, row map[string]string) (any, bool, error) {
	keys := make(map[string]any, len(r.idFields))
	var cacheKey strings.Builder

	for _, f := range r.idFields {
		raw, ok := row[f.ColumnName]
		if !ok {
			return nil, false, wrapResolution(
				errors.Newf("identification column %q missing from row", f.ColumnName),
				"resolving instance")
		}
		value, err := f.Widget.Clean(ctx, raw)
		if err != nil {
			return nil, false, wrapResolution(err, "cleaning identification field "+f.ColumnName)
		}
		keys[f.Attribute] = value
		cacheKey.WriteString(f.Widget.Render(value))
		cacheKey.WriteByte(0)
	}

	if hit, ok := r.cache[cacheKey.String()]; ok {
		return hit, true, nil
	}

	instance, found, err := r.store.Lookup(ctx, keys)
	if err != nil {
		return nil, false, wrapResolution(err, "looking up instance")
	}
	if !found {
		return nil, false, nil
	}
	r.cache[cacheKey.String()] = instance
	return instance, true, nil
}
