// Package inventory collects per-bucket metadata from a storage service.
package inventory

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/VAIBHAVSING/bucketwise"
	"github.com/VAIBHAVSING/bucketwise/services"
	"github.com/sirupsen/logrus"
)

// DefaultRegion is reported for buckets without a location constraint.
const DefaultRegion = "us-east-1"

// BytesPerGB converts byte counts to decimal gigabytes.
const BytesPerGB = 1e9

// Descriptor is the live view of one bucket.
type Descriptor struct {
	Name       string    `json:"name"`
	Region     string    `json:"region"`
	Versioning bool      `json:"versioning"`
	SizeGB     float64   `json:"sizeGB"`
	Objects    int64     `json:"-"`
	CreatedAt  time.Time `json:"-"`
}

// Stats summarises a Fetch call.
type Stats struct {
	Listed  int
	Fetched int
	Skipped int
	// ListError is set when the bucket listing itself failed.
	ListError error
}

// Fetcher reads descriptors for every bucket visible to a storage service.
type Fetcher struct {
	storage       services.Storage
	defaultRegion string
	log           *logrus.Entry
}

// NewFetcher creates a Fetcher. An empty defaultRegion means DefaultRegion.
func NewFetcher(storage services.Storage, defaultRegion string, log *logrus.Entry) *Fetcher {
	if defaultRegion == "" {
		defaultRegion = DefaultRegion
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Fetcher{
		storage:       storage,
		defaultRegion: defaultRegion,
		log:           log.WithField("component", "inventory_fetcher"),
	}
}

// Fetch lists all buckets and describes each one. A bucket whose region,
// versioning or size cannot be read is logged and left out. A failed bucket
// listing, missing credentials included, yields an empty result.
// Nothing is retried.
func (f *Fetcher) Fetch(ctx context.Context) ([]Descriptor, Stats) {
	var stats Stats
	descriptors := []Descriptor{}

	buckets, err := f.storage.ListBuckets(ctx)
	if err != nil {
		stats.ListError = err
		if bucketwise.IsErrorCode(err, bucketwise.ErrAuthentication) {
			f.log.WithError(err).Warn("AWS credentials not found or invalid; no buckets fetched")
		} else {
			f.log.WithError(err).Warn("Bucket listing failed; no buckets fetched")
		}
		return descriptors, stats
	}
	stats.Listed = len(buckets)

	for _, b := range buckets {
		d, err := f.describe(ctx, b)
		if err != nil {
			stats.Skipped++
			f.log.WithFields(logrus.Fields{
				"bucket": b.Name,
				"error":  err.Error(),
			}).Warn("Could not process bucket")
			continue
		}
		stats.Fetched++
		f.log.WithFields(logrus.Fields{
			"bucket":     d.Name,
			"region":     d.Region,
			"versioning": d.Versioning,
			"size_gb":    d.SizeGB,
			"objects":    d.Objects,
		}).Debug("Fetched bucket metadata")
		descriptors = append(descriptors, d)
	}

	return descriptors, stats
}

func (f *Fetcher) describe(ctx context.Context, b services.Bucket) (Descriptor, error) {
	region, err := f.storage.GetBucketRegion(ctx, b.Name)
	if err != nil {
		return Descriptor{}, fmt.Errorf("failed to get region: %w", err)
	}
	if region == "" {
		region = f.defaultRegion
	}

	versioning, err := f.storage.GetBucketVersioning(ctx, b.Name)
	if err != nil {
		return Descriptor{}, fmt.Errorf("failed to get versioning: %w", err)
	}

	usage, err := f.storage.SumObjectSizes(ctx, b.Name)
	if err != nil {
		return Descriptor{}, fmt.Errorf("failed to sum object sizes: %w", err)
	}

	return Descriptor{
		Name:       b.Name,
		Region:     region,
		Versioning: versioning,
		SizeGB:     SizeGB(usage.Bytes),
		Objects:    usage.Objects,
		CreatedAt:  b.CreationDate,
	}, nil
}

// SizeGB converts bytes to decimal gigabytes rounded to two decimals.
func SizeGB(bytes int64) float64 {
	return math.Round(float64(bytes)/BytesPerGB*100) / 100
}
