package catalog

import (
	"rowsync/core/config"
	"rowsync/core/resource"
	"rowsync/feature/catalog/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewResource wires the book resource: the field-to-column mapping, the
// GORM-backed store with its association preloads, and the process-wide
// import defaults.
func NewResource(db *gorm.DB, defaults config.Import, log *zap.Logger) (*resource.Resource, error) {
	fields := resource.NewFieldRegistry().
		MustAdd("id", resource.Field{Widget: resource.IntWidget{}}).
		MustAdd("title", resource.Field{}).
		MustAdd("author", resource.Field{Widget: resource.ForeignKeyWidget{
			KeyAttribute: "name",
			Lookup:       resource.GormRelatedLookup(db, func() any { return &models.Author{} }, "name"),
		}}).
		MustAdd("categories", resource.Field{Widget: resource.ManyToManyWidget{
			KeyAttribute: "name",
			Lookup:       resource.GormRelatedLookup(db, func() any { return &models.Category{} }, "name"),
		}}).
		MustAdd("price", resource.Field{Widget: resource.DecimalWidget{}}).
		MustAdd("published", resource.Field{Widget: resource.DateWidget{}})

	store := resource.NewGormStore(db,
		func() any { return &models.Book{} },
		resource.WithPreloads("Author", "Categories"))

	return resource.New(resource.Config{
		Store:  store,
		Fields: fields,
		Options: resource.Options{
			SkipUnchanged: defaults.SkipUnchanged,
			ReportSkipped: resource.Bool(defaults.ReportSkipped),
		},
		DefaultUseTransactions: defaults.UseTransactions,
		Logger:                 log,
	})
}
