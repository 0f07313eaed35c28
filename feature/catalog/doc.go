// Package catalog wires the resource engine to the book domain.
//
// It owns the book field mapping (resource.go), a service running imports
// and exports against local streams or object storage (service.go), and
// the HTTP surface exposing both (handler.go).
//
// # Import flow
//
// A CSV dataset arrives via the request body or from the configured
// bucket, is parsed into a dataset, and handed to the resource engine.
// The resulting per-row report (outcome, diff, errors) is returned as
// JSON; outcomes are NEW, UPDATE, DELETE, SKIP or ERROR.
//
// # Export flow
//
// The books table is streamed through the field mapping into a CSV
// document, either as an HTTP download or as an object in the bucket.
package catalog
