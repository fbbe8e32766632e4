// Package optimizer runs the full pipeline: fetch bucket metadata, merge it
// into the registry, evaluate every record and write the reports.
package optimizer

import (
	"context"
	"errors"
	"time"

	"github.com/VAIBHAVSING/bucketwise/inventory"
	"github.com/VAIBHAVSING/bucketwise/registry"
	"github.com/VAIBHAVSING/bucketwise/report"
	"github.com/VAIBHAVSING/bucketwise/services"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Options configures a Run.
type Options struct {
	Storage services.Storage

	// Fs holds the registry and report files. Nil means the OS filesystem.
	Fs afero.Fs

	RegistryFile  string
	ReportDir     string
	MetricsFile   string // empty skips the metrics textfile
	DefaultRegion string

	// Now is the clock for createdOn, ages and file names. Nil means time.Now.
	Now func() time.Time

	Logger *logrus.Entry
}

// Result describes a completed run.
type Result struct {
	RunID      string
	Stats      inventory.Stats
	Merge      registry.MergeResult
	Rows       []report.Row
	Actionable int
	Output     *report.Output
	// MetricsFile is the written textfile, or empty when none was requested.
	MetricsFile string
}

// Run executes one optimizer pass. Per-bucket and listing failures only
// shrink the fetched set; an unreadable registry or a failed write aborts
// the run.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Storage == nil {
		return nil, errors.New("optimizer: storage is required")
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	res := &Result{RunID: uuid.NewString()}
	log = log.WithFields(logrus.Fields{"component": "optimizer", "run_id": res.RunID})
	started := now()

	store := registry.NewStore(opts.Fs, opts.RegistryFile)
	reg, err := store.Load()
	if err != nil {
		return nil, err
	}

	descriptors, stats := inventory.NewFetcher(opts.Storage, opts.DefaultRegion, log).Fetch(ctx)
	res.Stats = stats

	res.Merge = registry.Merge(reg, descriptors, started)
	if err := store.Save(reg); err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"added":    res.Merge.Added,
		"updated":  res.Merge.Updated,
		"retained": res.Merge.Retained,
		"registry": store.Path(),
	}).Info("Bucket info merged into registry")

	res.Rows = report.BuildRows(reg.Buckets, started)
	res.Actionable = report.Actionable(res.Rows)

	res.Output, err = report.NewExporter(opts.Fs, opts.ReportDir).Export(res.Rows, started)
	if err != nil {
		return nil, err
	}

	if opts.MetricsFile != "" {
		if err := report.WriteMetricsFile(opts.MetricsFile, res.Rows); err != nil {
			return nil, err
		}
		res.MetricsFile = opts.MetricsFile
	}

	log.WithFields(logrus.Fields{
		"analysed":    len(res.Rows),
		"actionable":  res.Actionable,
		"skipped":     stats.Skipped,
		"csv":         res.Output.CSVPath,
		"chart":       res.Output.ChartPath,
		"duration_ms": now().Sub(started).Milliseconds(),
	}).Infof("Full report generated with %d buckets analysed, %d with recommendations", len(res.Rows), res.Actionable)

	return res, nil
}
