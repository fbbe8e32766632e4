package services

import (
	"context"
	"time"
)

// Bucket is a bucket as returned by the account-wide bucket listing.
type Bucket struct {
	// Name is the globally unique bucket name.
	Name string

	// CreationDate is when the provider reports the bucket was created.
	// Zero when the provider does not report it.
	CreationDate time.Time
}

// ObjectUsage summarises every object currently stored in a bucket.
// It is produced by a full scan of the object listing, so it costs one
// request per page (1000 keys on S3) for every bucket.
type ObjectUsage struct {
	// Bytes is the sum of the object sizes.
	Bytes int64

	// Objects is the number of objects seen.
	Objects int64

	// LastModified is the newest modification time across all objects.
	// Nil for an empty bucket.
	LastModified *time.Time
}

// Storage is the read-only slice of an object-storage API needed to inventory
// buckets. It deliberately has no write operations: recommendations are
// advisory and nothing in this module mutates a bucket.
//
// Error handling:
//   - All methods return *bucketwise.CloudError values from real providers
//   - ErrAuthentication: missing, partial or expired credentials
//   - ErrAuthorization: the credentials may list the bucket but not inspect it
//   - ErrResourceNotFound: the bucket disappeared between listing and inspection
//   - ErrRateLimit: the provider throttled the request (not retried)
//
// Example:
//
//	buckets, err := storage.ListBuckets(ctx)
//	if err != nil {
//	    return err
//	}
//	for _, b := range buckets {
//	    usage, err := storage.SumObjectSizes(ctx, b.Name)
//	    if err != nil {
//	        log.Printf("skipping %s: %v", b.Name, err)
//	        continue
//	    }
//	    fmt.Printf("%s: %d bytes in %d objects\n", b.Name, usage.Bytes, usage.Objects)
//	}
type Storage interface {
	// ListBuckets returns every bucket visible to the credentials.
	// Returns an empty slice if no buckets exist.
	ListBuckets(ctx context.Context) ([]Bucket, error)

	// GetBucketRegion returns the bucket's region.
	// Returns an empty string when the provider reports no location
	// constraint; callers substitute their default region.
	GetBucketRegion(ctx context.Context, bucket string) (string, error)

	// GetBucketVersioning reports whether object versioning is enabled.
	// A suspended configuration counts as disabled.
	GetBucketVersioning(ctx context.Context, bucket string) (bool, error)

	// SumObjectSizes scans every page of the object listing and returns the
	// totals. This is O(object count) per bucket.
	SumObjectSizes(ctx context.Context, bucket string) (*ObjectUsage, error)
}
