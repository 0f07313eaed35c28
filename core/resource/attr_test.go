package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAttr(t *testing.T) {
	b := &book{
		ID:     7,
		Title:  "The Hobbit",
		Author: &author{ID: 1, Name: "Tolkien"},
	}

	tests := []struct {
		path string
		want any
	}{
		{path: "id", want: int64(7)},
		{path: "title", want: "The Hobbit"},
		{path: "author", want: b.Author},
		{path: "author.name", want: "Tolkien"},
		{path: "author.id", want: int64(1)},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := getAttr(b, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetAttr_NilPointerAlongPath(t *testing.T) {
	b := &book{ID: 7}

	got, err := getAttr(b, "author.name")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetAttr_UnknownField(t *testing.T) {
	_, err := getAttr(&book{}, "isbn")
	assert.Error(t, err)
}

func TestSetAttr(t *testing.T) {
	b := &book{}

	require.NoError(t, setAttr(b, "title", "The Hobbit"))
	assert.Equal(t, "The Hobbit", b.Title)

	// Numeric width conversion: int64 from the widget into an int field.
	require.NoError(t, setAttr(b, "pages", int64(310)))
	assert.Equal(t, 310, b.Pages)

	require.NoError(t, setAttr(b, "id", int64(7)))
	assert.Equal(t, int64(7), b.ID)

	// Assigning nil zeroes the field.
	require.NoError(t, setAttr(b, "title", nil))
	assert.Equal(t, "", b.Title)
}

func TestSetAttr_AllocatesIntermediatePointers(t *testing.T) {
	b := &book{}

	require.NoError(t, setAttr(b, "author.name", "Tolkien"))
	require.NotNil(t, b.Author)
	assert.Equal(t, "Tolkien", b.Author.Name)
}

func TestSetAttr_PointerField(t *testing.T) {
	b := &book{}
	a := &author{Name: "Tolkien"}

	require.NoError(t, setAttr(b, "author", a))
	assert.Same(t, a, b.Author)

	require.NoError(t, setAttr(b, "author", nil))
	assert.Nil(t, b.Author)
}

func TestSetAttr_Errors(t *testing.T) {
	assert.Error(t, setAttr(book{}, "title", "x"), "non-pointer instance")
	assert.Error(t, setAttr((*book)(nil), "title", "x"), "nil instance")
	assert.Error(t, setAttr(&book{}, "isbn", "x"), "unknown field")
	assert.Error(t, setAttr(&book{}, "pages", "threehundred"), "incompatible type")
}

func TestToSnake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "ID", want: "id"},
		{in: "Title", want: "title"},
		{in: "AuthorID", want: "author_id"},
		{in: "PublishedAt", want: "published_at"},
		{in: "HTTPStatus", want: "http_status"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, toSnake(tt.in), tt.in)
	}
}

func TestGoName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "categories", want: "Categories"},
		{in: "author_id", want: "AuthorID"},
		{in: "id", want: "ID"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, goName(tt.in), tt.in)
	}
}
