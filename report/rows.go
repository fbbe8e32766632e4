// Package report turns registry records into the optimizer's outputs: the
// per-bucket CSV, the per-region cost chart and the metrics textfile.
package report

import (
	"time"

	"github.com/VAIBHAVSING/bucketwise/recommend"
	"github.com/VAIBHAVSING/bucketwise/registry"
)

// Row is a registry record with its computed recommendation and cost.
type Row struct {
	registry.Record
	Recommendation   recommend.Recommendation
	DeleteQueue      bool
	ArchiveGlacier   bool
	EstimatedCostUSD float64
}

// BuildRows evaluates every record at now, preserving registry order.
func BuildRows(records []registry.Record, now time.Time) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, NewRow(rec, now))
	}
	return rows
}

// NewRow evaluates a single record at now.
func NewRow(rec registry.Record, now time.Time) Row {
	action := recommend.ForRecord(rec, now)
	return Row{
		Record:           rec,
		Recommendation:   action,
		DeleteQueue:      action == recommend.Delete,
		ArchiveGlacier:   action == recommend.Archive,
		EstimatedCostUSD: recommend.EstimatedCostUSD(rec.SizeGB),
	}
}

// Actionable counts the rows whose recommendation is not None.
func Actionable(rows []Row) int {
	n := 0
	for _, r := range rows {
		if r.Recommendation != recommend.None {
			n++
		}
	}
	return n
}
