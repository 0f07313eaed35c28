package diff

import (
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
)

func TestCompare_Identical(t *testing.T) {
	d := New()

	diffs := d.Compare("Alice", "Alice")
	for _, df := range diffs {
		assert.Equal(t, diffmatchpatch.DiffEqual, df.Type)
	}
	assert.False(t, d.Changed("Alice", "Alice"))
}

func TestCompare_EmptyToEmpty(t *testing.T) {
	d := New()
	assert.False(t, d.Changed("", ""))
}

func TestRender_Insertion(t *testing.T) {
	d := New()

	html := d.Render("", "Alice")
	assert.Contains(t, html, "<ins")
	assert.Contains(t, html, "Alice")
	assert.NotContains(t, html, "<del")
}

func TestRender_Deletion(t *testing.T) {
	d := New()

	html := d.Render("Alice", "")
	assert.Contains(t, html, "<del")
}

func TestChanged(t *testing.T) {
	d := New()
	assert.True(t, d.Changed("9.99", "19.99"))
	assert.False(t, d.Changed("9.99", "9.99"))
}
