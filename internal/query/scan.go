package query

import (
	"github.com/joeandaverde/fdb/internal/heapseq"
	"github.com/joeandaverde/fdb/internal/page"
	"github.com/joeandaverde/fdb/internal/pager"
	"github.com/joeandaverde/fdb/internal/record"
	"github.com/joeandaverde/fdb/internal/value"
)

// LinearScan is a heap-sequence scan parameterized with a schematized-row
// decoder keyed on a table's schema (spec.md §4.11). It yields tombstoned
// records too; Select is the thin wrapper that filters them out.
type LinearScan struct {
	scan *heapseq.Scan[value.Schematized]
}

// NewLinearScan builds a scan over rootID's heap sequence, decoding each
// record's payload against schema.
func NewLinearScan(pgr *pager.Pager, schema value.Schema, rootID page.ID) *LinearScan {
	decode := func(rec *record.Record) (value.Schematized, error) {
		return value.ReadSchematized(rec.PayloadCursor(), schema)
	}
	return &LinearScan{scan: heapseq.New(pgr, rootID, decode)}
}

// Next decodes and consumes the next record, tombstoned or not.
func (s *LinearScan) Next() (value.Schematized, *record.Record, bool, error) {
	return s.scan.Next()
}
