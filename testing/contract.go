package testing

import (
	"context"
	"testing"
	"time"

	"github.com/VAIBHAVSING/bucketwise"
	"github.com/VAIBHAVSING/bucketwise/services"
)

// ProviderContractSuite tests that providers correctly implement the expected interfaces
type ProviderContractSuite struct {
	t        *testing.T
	provider bucketwise.Provider
	client   *bucketwise.Client
	timeout  time.Duration
}

// NewProviderContractSuite creates a new provider contract test suite
func NewProviderContractSuite(t *testing.T, provider bucketwise.Provider) *ProviderContractSuite {
	return &ProviderContractSuite{
		t:        t,
		provider: provider,
		client:   bucketwise.New(provider, nil),
		timeout:  2 * time.Minute,
	}
}

// WithTimeout bounds every provider call made by the suite
func (s *ProviderContractSuite) WithTimeout(timeout time.Duration) *ProviderContractSuite {
	s.timeout = timeout
	return s
}

// RunAllTests runs all contract tests for the provider
func (s *ProviderContractSuite) RunAllTests() {
	s.t.Run("ProviderInterface", func(t *testing.T) { s.with(t).TestProviderInterface() })
	s.t.Run("ServiceAvailability", func(t *testing.T) { s.with(t).TestServiceAvailability() })
	s.t.Run("StorageService", func(t *testing.T) { s.with(t).TestStorageService() })
}

// with returns a copy of the suite reporting to t
func (s *ProviderContractSuite) with(t *testing.T) *ProviderContractSuite {
	c := *s
	c.t = t
	return &c
}

// TestProviderInterface tests the basic provider interface
func (s *ProviderContractSuite) TestProviderInterface() {
	if s.provider.Name() == "" {
		s.t.Error("Provider Name() returned empty string")
	}
	if s.provider.Region() == "" {
		s.t.Error("Provider Region() returned empty string")
	}

	for _, service := range s.provider.SupportedServices() {
		if service != bucketwise.ServiceStorage {
			s.t.Errorf("Provider returned invalid service type: %s", service)
		}
	}
}

// TestServiceAvailability tests that the client panics exactly when storage
// is not supported
func (s *ProviderContractSuite) TestServiceAvailability() {
	if s.isServiceSupported(bucketwise.ServiceStorage) {
		MustNotPanic(s.t, func() { s.client.Storage() })
	} else {
		MustPanic(s.t, func() { s.client.Storage() })
	}
}

// TestStorageService checks the read-only storage contract against whatever
// buckets the provider exposes
func (s *ProviderContractSuite) TestStorageService() {
	if !s.isServiceSupported(bucketwise.ServiceStorage) {
		s.t.Skip("Storage service not supported by provider")
	}

	storage := s.client.Storage()
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	// Buckets can be empty, but should be a valid slice
	buckets, err := storage.ListBuckets(ctx)
	if err != nil {
		s.t.Errorf("ListBuckets failed: %v", err)
		return
	}
	if buckets == nil {
		s.t.Error("ListBuckets returned nil slice")
	}

	seen := make(map[string]bool, len(buckets))
	for _, b := range buckets {
		if b.Name == "" {
			s.t.Error("ListBuckets returned a bucket without a name")
		}
		if seen[b.Name] {
			s.t.Errorf("ListBuckets returned %s twice", b.Name)
		}
		seen[b.Name] = true
		s.testBucketReads(ctx, storage, b)
	}

	s.testUnknownBucket(ctx, storage)
}

// testBucketReads checks the per-bucket reads for one listed bucket
func (s *ProviderContractSuite) testBucketReads(ctx context.Context, storage services.Storage, b services.Bucket) {
	if _, err := storage.GetBucketRegion(ctx, b.Name); err != nil {
		s.t.Errorf("GetBucketRegion(%s) failed: %v", b.Name, err)
	}
	if _, err := storage.GetBucketVersioning(ctx, b.Name); err != nil {
		s.t.Errorf("GetBucketVersioning(%s) failed: %v", b.Name, err)
	}

	usage, err := storage.SumObjectSizes(ctx, b.Name)
	if err != nil {
		s.t.Errorf("SumObjectSizes(%s) failed: %v", b.Name, err)
		return
	}
	if usage == nil {
		s.t.Errorf("SumObjectSizes(%s) returned nil usage", b.Name)
		return
	}
	if usage.Bytes < 0 || usage.Objects < 0 {
		s.t.Errorf("SumObjectSizes(%s) returned negative totals: %+v", b.Name, usage)
	}
	if usage.Objects == 0 && usage.LastModified != nil {
		s.t.Errorf("SumObjectSizes(%s) reported LastModified for an empty bucket", b.Name)
	}
	if usage.Objects > 0 && usage.LastModified == nil {
		s.t.Errorf("SumObjectSizes(%s) omitted LastModified", b.Name)
	}
}

// testUnknownBucket checks that reads of a missing bucket fail with a
// not-found CloudError
func (s *ProviderContractSuite) testUnknownBucket(ctx context.Context, storage services.Storage) {
	name := GenerateBucketName("contract-missing")

	_, err := storage.GetBucketRegion(ctx, name)
	AssertErrorCode(s.t, err, bucketwise.ErrResourceNotFound)

	_, err = storage.SumObjectSizes(ctx, name)
	AssertErrorCode(s.t, err, bucketwise.ErrResourceNotFound)
}

// isServiceSupported checks if the provider supports the given service type
func (s *ProviderContractSuite) isServiceSupported(serviceType bucketwise.ServiceType) bool {
	for _, service := range s.provider.SupportedServices() {
		if service == serviceType {
			return true
		}
	}
	return false
}

// RunProviderContractTests is a convenience function to run all contract tests
func RunProviderContractTests(t *testing.T, provider bucketwise.Provider) {
	NewProviderContractSuite(t, provider).RunAllTests()
}
