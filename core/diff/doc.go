// Package diff adapts the diff-match-patch text diff algorithm for
// field-level change reporting. The engine treats it as a black box: given
// two exported field values it produces a cleaned edit sequence and renders
// it as marked-up text for the per-row diff column.
package diff
