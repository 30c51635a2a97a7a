// Package docstore abstracts the document database holding POS records and
// the daily archive. Callers see partitions of loosely typed documents, range
// queries over a single field, and field-preserving merge writes. Two
// implementations exist: a Postgres JSONB store and an in-memory store used
// as a test double.
package docstore

import (
	"context"
	"strings"
	"time"
)

// Partition names shared by the POS writers and this service.
const (
	PartitionSales         = "sales"
	PartitionDeferredSales = "deferred_sales"
	PartitionExpenses      = "expenses"
	PartitionArchiveDaily  = "archive_daily"
)

// Document is one stored record with its loosely typed field values.
type Document struct {
	ID     string
	Fields map[string]any
}

// Key addresses a document inside a partition. Path segments are joined to
// form the document id, mirroring the year/month/day layout of the archive.
type Key struct {
	Partition string
	Path      []string
}

// ID returns the flattened document id for the key.
func (k Key) ID() string {
	return strings.Join(k.Path, "/")
}

// serverTimestamp is a marker type; see ServerTimestamp.
type serverTimestamp struct{}

// ServerTimestamp marks a field whose value is assigned by the store at
// write time rather than by the caller.
var ServerTimestamp = serverTimestamp{}

// Store is the query and write surface consumed by the archive service.
type Store interface {
	// RangeQuery returns the documents in partition whose field value,
	// interpreted as an instant, falls in the half-open window [start, end).
	// Documents whose field is absent or unparseable never match.
	RangeQuery(ctx context.Context, partition, field string, start, end time.Time) ([]Document, error)

	// MergeSet upserts the document at key, overwriting only the given
	// fields and preserving any other fields already stored.
	MergeSet(ctx context.Context, key Key, fields map[string]any) error
}
