// Package inspector prints a quick per-bucket report with the size-only
// cleanup note. It reads from the storage service and writes nothing.
package inspector

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/VAIBHAVSING/bucketwise/inventory"
	"github.com/VAIBHAVSING/bucketwise/recommend"
	"github.com/VAIBHAVSING/bucketwise/services"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// BytesPerGiB converts byte counts to binary gigabytes.
const BytesPerGiB = 1 << 30

// Finding is the inspector's view of one bucket.
type Finding struct {
	Name       string
	Region     string
	Versioning bool
	Bytes      int64
	SizeGiB    float64
	// DaysUnused counts whole days since the newest object was modified, or
	// since the bucket was created when it is empty. Nil when unknown.
	DaysUnused *int
	Note       string
}

// Inspector walks every bucket of a storage service.
type Inspector struct {
	storage       services.Storage
	defaultRegion string
	log           *logrus.Entry
}

// New creates an Inspector. An empty defaultRegion means
// inventory.DefaultRegion.
func New(storage services.Storage, defaultRegion string, log *logrus.Entry) *Inspector {
	if defaultRegion == "" {
		defaultRegion = inventory.DefaultRegion
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Inspector{
		storage:       storage,
		defaultRegion: defaultRegion,
		log:           log.WithField("component", "inspector"),
	}
}

// Inspect is shorthand for New(storage, "", nil).Inspect(ctx, now).
func Inspect(ctx context.Context, storage services.Storage, now time.Time) ([]Finding, error) {
	return New(storage, "", nil).Inspect(ctx, now)
}

// Inspect returns one Finding per bucket in listing order. A bucket that
// cannot be read is logged and skipped; a failed listing is returned.
func (i *Inspector) Inspect(ctx context.Context, now time.Time) ([]Finding, error) {
	buckets, err := i.storage.ListBuckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}

	findings := make([]Finding, 0, len(buckets))
	for _, b := range buckets {
		f, err := i.inspect(ctx, b, now)
		if err != nil {
			i.log.WithFields(logrus.Fields{
				"bucket": b.Name,
				"error":  err.Error(),
			}).Warn("Could not inspect bucket")
			continue
		}
		findings = append(findings, f)
	}
	return findings, nil
}

func (i *Inspector) inspect(ctx context.Context, b services.Bucket, now time.Time) (Finding, error) {
	region, err := i.storage.GetBucketRegion(ctx, b.Name)
	if err != nil {
		return Finding{}, fmt.Errorf("failed to get region: %w", err)
	}
	if region == "" {
		region = i.defaultRegion
	}

	versioning, err := i.storage.GetBucketVersioning(ctx, b.Name)
	if err != nil {
		return Finding{}, fmt.Errorf("failed to get versioning: %w", err)
	}

	usage, err := i.storage.SumObjectSizes(ctx, b.Name)
	if err != nil {
		return Finding{}, fmt.Errorf("failed to sum object sizes: %w", err)
	}

	f := Finding{
		Name:       b.Name,
		Region:     region,
		Versioning: versioning,
		Bytes:      usage.Bytes,
		SizeGiB:    float64(usage.Bytes) / BytesPerGiB,
		DaysUnused: daysUnused(usage.LastModified, b.CreationDate, now),
	}
	f.Note = recommend.InspectorNote(f.SizeGiB, f.DaysUnused)
	return f, nil
}

func daysUnused(lastModified *time.Time, created, now time.Time) *int {
	var since time.Time
	switch {
	case lastModified != nil:
		since = *lastModified
	case !created.IsZero():
		since = created
	default:
		return nil
	}
	days := int(now.Sub(since).Hours() / 24)
	return &days
}

// Print writes one block per finding.
func Print(w io.Writer, findings []Finding) error {
	for _, f := range findings {
		days := "unknown"
		if f.DaysUnused != nil {
			days = fmt.Sprintf("%d", *f.DaysUnused)
		}

		if _, err := fmt.Fprintf(w, "Bucket: %s\nRegion: %s\nSize (GiB): %.2f (%s)\nVersioning Enabled: %t\nDays Unused: %s\n",
			f.Name, f.Region, f.SizeGiB, humanize.IBytes(uint64(f.Bytes)), f.Versioning, days); err != nil {
			return err
		}
		if f.Note != "" {
			if _, err := fmt.Fprintln(w, f.Note); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
