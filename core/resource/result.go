package resource

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ImportType is the terminal outcome of one processed row.
type ImportType string

const (
	// ImportTypeNew marks a row that created a fresh object.
	ImportTypeNew ImportType = "new"
	// ImportTypeUpdate marks a row that modified an existing object.
	ImportTypeUpdate ImportType = "update"
	// ImportTypeDelete marks a row that deleted an existing object.
	ImportTypeDelete ImportType = "delete"
	// ImportTypeSkip marks a row whose object was left untouched.
	ImportTypeSkip ImportType = "skip"
	// ImportTypeError marks a row whose processing failed.
	ImportTypeError ImportType = "error"
)

// Error pairs a row-processing fault with the diagnostic trace captured
// when it was caught. Immutable value.
type Error struct {
	// Err is the triggering fault.
	Err error
	// Trace is the rendered diagnostic trace, including stack details.
	Trace string
}

// NewError captures an error together with its verbose rendering.
func NewError(err error) Error {
	return Error{Err: err, Trace: fmt.Sprintf("%+v", err)}
}

func (e Error) Error() string {
	return e.Err.Error()
}

// Is routes errors.Is through to the captured fault so callers can match
// on the taxonomy sentinels.
func (e Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// RowResult is the outcome record for a single row. The engine mutates it
// only while processing that row; once appended to the batch Result it is
// never touched again.
type RowResult struct {
	// ImportType is the terminal outcome.
	ImportType ImportType `json:"import_type"`

	// Diff holds one rendered per-field diff per declared field, in
	// column order.
	Diff []string `json:"diff,omitempty"`

	// Errors holds the faults caught while processing this row.
	Errors []Error `json:"errors,omitempty"`

	// ObjectRepr is the text representation of the saved object.
	ObjectRepr string `json:"object_repr,omitempty"`

	// ObjectID is the persisted identity of the saved object.
	ObjectID any `json:"object_id,omitempty"`
}

// HasErrors reports whether this row failed.
func (r *RowResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Result accumulates one RowResult per processed row plus batch-level
// errors raised outside row processing.
type Result struct {
	// Rows holds per-row outcomes in dataset order. SKIP rows are
	// omitted when skip reporting is disabled.
	Rows []RowResult `json:"rows"`

	// BaseErrors holds errors raised outside row processing, such as a
	// failing before-import hook.
	BaseErrors []Error `json:"base_errors,omitempty"`
}

// HasErrors is true iff any row carries an error or a base error was
// recorded.
func (r *Result) HasErrors() bool {
	if len(r.BaseErrors) > 0 {
		return true
	}
	for i := range r.Rows {
		if r.Rows[i].HasErrors() {
			return true
		}
	}
	return false
}

// Totals counts recorded rows per outcome.
func (r *Result) Totals() map[ImportType]int {
	totals := make(map[ImportType]int)
	for i := range r.Rows {
		totals[r.Rows[i].ImportType]++
	}
	return totals
}
