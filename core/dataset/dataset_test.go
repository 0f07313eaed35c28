package dataset

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	in := "id,name,price\n1,Widget,9.99\n2,Gadget,\n"

	ds, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "price"}, ds.Headers())
	assert.Equal(t, 2, ds.Len())

	row := ds.Row(0)
	assert.Equal(t, "1", row["id"])
	assert.Equal(t, "Widget", row["name"])

	// Empty cells are present but empty
	row = ds.Row(1)
	assert.True(t, row.Has("price"))
	assert.Equal(t, "", row["price"])
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "ragged row", input: "id,name\n1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestAppend_ValueCountMismatch(t *testing.T) {
	ds := New("id", "name")
	assert.Error(t, ds.Append("1"))
	assert.NoError(t, ds.Append("1", "Widget"))
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	ds := New("id", "name")
	require.NoError(t, ds.Append("1", "Widget"))
	require.NoError(t, ds.Append("2", "Gadget"))

	var buf bytes.Buffer
	require.NoError(t, ds.WriteCSV(&buf))

	back, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, ds.Headers(), back.Headers())
	assert.Equal(t, ds.Rows(), back.Rows())
}
