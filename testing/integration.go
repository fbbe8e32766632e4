package testing

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/VAIBHAVSING/bucketwise"
	"github.com/VAIBHAVSING/bucketwise/inventory"
	"github.com/VAIBHAVSING/bucketwise/providers/aws"
	"github.com/VAIBHAVSING/bucketwise/services"
)

// IntegrationSuite runs read-only checks against a live S3-compatible
// endpoint (MinIO, LocalStack or AWS itself).
//
// The endpoint comes from BUCKETWISE_TEST_ENDPOINT; credentials from
// BUCKETWISE_TEST_ACCESS_KEY and BUCKETWISE_TEST_SECRET_KEY, falling back to
// the SDK's default chain when unset. Tests are skipped without an endpoint.
type IntegrationSuite struct {
	t        testing.TB
	provider bucketwise.Provider
	client   *bucketwise.Client

	// Configuration
	timeout time.Duration
	region  string
}

// NewIntegrationSuite creates a new integration test suite
func NewIntegrationSuite(t testing.TB) *IntegrationSuite {
	endpoint := IntegrationEndpoint(t)

	s := &IntegrationSuite{
		t:       t,
		timeout: 5 * time.Minute,
		region:  "us-east-1",
	}
	if region := os.Getenv("BUCKETWISE_TEST_REGION"); region != "" {
		s.region = region
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	provider, err := aws.NewAWSProvider(ctx, aws.ProviderConfig{
		Region:          s.region,
		Endpoint:        endpoint,
		AccessKeyID:     os.Getenv("BUCKETWISE_TEST_ACCESS_KEY"),
		SecretAccessKey: os.Getenv("BUCKETWISE_TEST_SECRET_KEY"),
	})
	AssertNoError(t, err)

	return s.WithProvider(provider)
}

// WithProvider sets the cloud provider for the integration suite
func (s *IntegrationSuite) WithProvider(provider bucketwise.Provider) *IntegrationSuite {
	s.provider = provider
	s.client = bucketwise.New(provider, nil)
	s.region = provider.Region()
	return s
}

// WithTimeout sets the timeout for operations
func (s *IntegrationSuite) WithTimeout(timeout time.Duration) *IntegrationSuite {
	s.timeout = timeout
	return s
}

// Storage returns the suite's storage service
func (s *IntegrationSuite) Storage() services.Storage {
	return s.client.Storage()
}

// RunContract runs the provider contract suite against the live endpoint
func (s *IntegrationSuite) RunContract(t *testing.T) {
	NewProviderContractSuite(t, s.provider).WithTimeout(s.timeout).RunAllTests()
}

// Fetch runs the inventory fetcher and fails the test if the listing failed
func (s *IntegrationSuite) Fetch() []inventory.Descriptor {
	s.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	descriptors, stats := inventory.NewFetcher(s.Storage(), "", nil).Fetch(ctx)
	if stats.ListError != nil {
		s.t.Fatalf("Bucket listing failed: %v", stats.ListError)
	}
	return descriptors
}

// AssertBucketListed asserts that the endpoint lists bucketName
func (s *IntegrationSuite) AssertBucketListed(bucketName string) {
	s.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	buckets, err := s.Storage().ListBuckets(ctx)
	AssertNoError(s.t, err)
	for _, b := range buckets {
		if b.Name == bucketName {
			return
		}
	}
	s.t.Fatalf("Bucket %s not found in ListBuckets result", bucketName)
}
