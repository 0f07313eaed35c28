package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldSave(t *testing.T) {
	ctx := context.Background()
	f := Field{ColumnName: "pages", Attribute: "pages", Widget: IntWidget{}}

	b := &book{Pages: 100}

	require.NoError(t, f.Save(ctx, b, map[string]string{"pages": "310"}))
	assert.Equal(t, 310, b.Pages)

	// Absent column leaves the attribute alone.
	require.NoError(t, f.Save(ctx, b, map[string]string{"title": "x"}))
	assert.Equal(t, 310, b.Pages)

	// Present but empty zeroes it.
	require.NoError(t, f.Save(ctx, b, map[string]string{"pages": ""}))
	assert.Equal(t, 0, b.Pages)

	err := f.Save(ctx, b, map[string]string{"pages": "lots"})
	assert.Error(t, err)
}

func TestFieldExport(t *testing.T) {
	f := Field{ColumnName: "author", Attribute: "author", Widget: ForeignKeyWidget{KeyAttribute: "name"}}

	got, err := f.Export(&book{Author: &author{Name: "Tolkien"}})
	require.NoError(t, err)
	assert.Equal(t, "Tolkien", got)

	got, err = f.Export(&book{})
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestFieldRegistry(t *testing.T) {
	reg := NewFieldRegistry()
	require.NoError(t, reg.Add("id", Field{Widget: IntWidget{}}))
	require.NoError(t, reg.Add("name", Field{}))

	assert.Equal(t, []string{"id", "name"}, reg.Names())
	assert.Equal(t, 2, reg.Len())

	// Defaults: column name and attribute fall back to the field name,
	// the widget to a plain string widget.
	f, ok := reg.Get("name")
	require.True(t, ok)
	assert.Equal(t, "name", f.ColumnName)
	assert.Equal(t, "name", f.Attribute)
	assert.IsType(t, StringWidget{}, f.Widget)

	assert.Error(t, reg.Add("id", Field{}), "duplicate name")
	assert.Error(t, reg.Add("", Field{}), "empty name")
}

func TestFieldRegistrySubset(t *testing.T) {
	reg := NewFieldRegistry().
		MustAdd("id", Field{}).
		MustAdd("title", Field{}).
		MustAdd("pages", Field{})

	t.Run("whitelist", func(t *testing.T) {
		sub, err := reg.subset([]string{"id", "pages"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "pages"}, sub.Names())
	})

	t.Run("blacklist", func(t *testing.T) {
		sub, err := reg.subset(nil, []string{"pages"})
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "title"}, sub.Names())
	})

	t.Run("unknown whitelist entry", func(t *testing.T) {
		_, err := reg.subset([]string{"isbn"}, nil)
		assert.Error(t, err)
	})
}
