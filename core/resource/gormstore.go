package resource

import (
	"context"
	"reflect"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"
)

const defaultExportBatchSize = 500

// GormStore is the gorm-backed Store for one model type. The model
// factory returns a fresh pointer to the model struct; gorm's naming
// conventions map the engine's snake_case attributes to columns and
// association names.
type GormStore struct {
	db        *gorm.DB
	newModel  func() any
	preloads  []string
	batchSize int
}

// GormStoreOption customizes a GormStore.
type GormStoreOption func(*GormStore)

// WithPreloads preloads the named associations on lookup and export, so
// relation fields have their members available for comparison and
// rendering.
func WithPreloads(associations ...string) GormStoreOption {
	return func(s *GormStore) {
		s.preloads = append(s.preloads, associations...)
	}
}

// WithExportBatchSize overrides the export batch size.
func WithExportBatchSize(n int) GormStoreOption {
	return func(s *GormStore) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// NewGormStore creates a Store over db for the model type produced by
// newModel.
func NewGormStore(db *gorm.DB, newModel func() any, opts ...GormStoreOption) *GormStore {
	s := &GormStore{
		db:        db,
		newModel:  newModel,
		batchSize: defaultExportBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GormStore) NewInstance() any {
	return s.newModel()
}

func (s *GormStore) Lookup(ctx context.Context, keys map[string]any) (any, bool, error) {
	instance := s.newModel()
	q := s.db.WithContext(ctx)
	for _, p := range s.preloads {
		q = q.Preload(p)
	}

	conds := make(map[string]any, len(keys))
	for attr, value := range keys {
		conds[toSnake(attr)] = value
	}

	err := q.Where(conds).First(instance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return instance, true, nil
}

func (s *GormStore) Save(ctx context.Context, instance any) error {
	return s.db.WithContext(ctx).Save(instance).Error
}

func (s *GormStore) Delete(ctx context.Context, instance any) error {
	return s.db.WithContext(ctx).Delete(instance).Error
}

func (s *GormStore) ReplaceRelation(ctx context.Context, instance any, attribute string, members []any) error {
	return s.db.WithContext(ctx).Model(instance).Association(goName(attribute)).Replace(members...)
}

// EachInstance streams the whole table in primary-key order, one batch
// at a time, invoking fn per object.
func (s *GormStore) EachInstance(ctx context.Context, fn func(instance any) error) error {
	model := s.newModel()
	dest := reflect.New(reflect.SliceOf(reflect.TypeOf(model)))

	q := s.db.WithContext(ctx).Model(model)
	for _, p := range s.preloads {
		q = q.Preload(p)
	}

	return q.FindInBatches(dest.Interface(), s.batchSize, func(_ *gorm.DB, _ int) error {
		batch := dest.Elem()
		for i := 0; i < batch.Len(); i++ {
			if err := fn(batch.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	}).Error
}

// Begin opens a database transaction and returns a store scoped to it.
func (s *GormStore) Begin(ctx context.Context) (TxStore, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &gormTxStore{GormStore: GormStore{
		db:        tx,
		newModel:  s.newModel,
		preloads:  s.preloads,
		batchSize: s.batchSize,
	}}, nil
}

type gormTxStore struct {
	GormStore
}

func (t *gormTxStore) Commit() error {
	return t.db.Commit().Error
}

func (t *gormTxStore) Rollback() error {
	return t.db.Rollback().Error
}

// GormRelatedLookup builds the lookup capability relation widgets need:
// it resolves a key against keyAttribute of the model produced by
// newModel, returning nil when no row matches.
func GormRelatedLookup(db *gorm.DB, newModel func() any, keyAttribute string) RelatedLookup {
	column := toSnake(keyAttribute)
	return func(ctx context.Context, key string) (any, error) {
		instance := newModel()
		err := db.WithContext(ctx).Where(map[string]any{column: key}).First(instance).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return instance, nil
	}
}
