package resource

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type priced struct {
	ID        int64
	Title     string
	InPrint   bool
	Price     decimal.Decimal
	Published *time.Time
	AuthorID  *int64

	Tags    []string
	Related *priced

	hidden string
}

func TestFieldsForModel(t *testing.T) {
	reg := FieldsForModel(&priced{})

	assert.Equal(t, []string{"id", "title", "in_print", "price", "published", "author_id"}, reg.Names())

	cases := map[string]Widget{
		"id":        IntWidget{},
		"title":     StringWidget{},
		"in_print":  BoolWidget{},
		"price":     DecimalWidget{},
		"published": DateTimeWidget{},
		"author_id": IntWidget{},
	}
	for name, want := range cases {
		f, ok := reg.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, want, f.Widget, name)
		assert.Equal(t, name, f.ColumnName, name)
	}

	// Slices, nested structs and unexported attributes are not picked up.
	for _, name := range []string{"tags", "related", "hidden"} {
		_, ok := reg.Get(name)
		assert.False(t, ok, name)
	}
}

func TestFieldsForModelNonStruct(t *testing.T) {
	assert.Empty(t, FieldsForModel(42).Names())
	assert.Empty(t, FieldsForModel(nil).Names())
}
