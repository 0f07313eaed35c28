package dataset

import (
	"encoding/csv"
	"io"

	"github.com/cockroachdb/errors"
)

// Row is one record of a dataset: a mapping from column name to raw cell value.
type Row map[string]string

// Has reports whether the row carries a value for the given column.
// Absent columns are distinct from empty cells; partial-row updates
// rely on this distinction.
func (r Row) Has(column string) bool {
	_, ok := r[column]
	return ok
}

// Dataset is an ordered collection of rows sharing a header.
// It is the tabular container consumed by import and produced by export.
type Dataset struct {
	headers []string
	records [][]string
}

// New creates an empty dataset with the given header row.
func New(headers ...string) *Dataset {
	h := make([]string, len(headers))
	copy(h, headers)
	return &Dataset{headers: h}
}

// Headers returns the header row in declaration order.
func (d *Dataset) Headers() []string {
	h := make([]string, len(d.headers))
	copy(h, d.headers)
	return h
}

// Len returns the number of data rows.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Append adds one row of raw values. The value count must match the header.
func (d *Dataset) Append(values ...string) error {
	if len(values) != len(d.headers) {
		return errors.Newf("dataset: row has %d values, header has %d columns", len(values), len(d.headers))
	}
	rec := make([]string, len(values))
	copy(rec, values)
	d.records = append(d.records, rec)
	return nil
}

// Row returns the i-th row as a column-name keyed mapping.
func (d *Dataset) Row(i int) Row {
	row := make(Row, len(d.headers))
	for j, h := range d.headers {
		row[h] = d.records[i][j]
	}
	return row
}

// Rows materializes every row as a mapping, preserving dataset order.
func (d *Dataset) Rows() []Row {
	rows := make([]Row, d.Len())
	for i := range d.records {
		rows[i] = d.Row(i)
	}
	return rows
}

// ReadCSV parses CSV content into a dataset. The first record is the header.
// Ragged records are rejected by the underlying reader.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	headers, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("dataset: empty input, expected a header row")
	}
	if err != nil {
		return nil, errors.Wrap(err, "dataset: reading header")
	}

	ds := New(headers...)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "dataset: reading row")
		}
		if err := ds.Append(rec...); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// WriteCSV writes the dataset, header first, as CSV.
func (d *Dataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.headers); err != nil {
		return errors.Wrap(err, "dataset: writing header")
	}
	for _, rec := range d.records {
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(err, "dataset: writing row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "dataset: flushing")
}
