// Package dataset provides the tabular container shared by the import and
// export pipelines: an ordered sequence of rows, each a mapping from column
// name to raw cell value, with CSV as the interchange format.
//
// A Dataset is constructed either programmatically (export builds one row
// per exported object) or by parsing CSV input where the first record is
// the header row. Row order is preserved; the reconciliation engine depends
// on strict dataset-order processing.
package dataset
