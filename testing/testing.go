// Package testing provides helpers for testing code built on bucketwise.
//
// It offers assertion utilities, bucket fixture generators and a provider
// contract suite, so a new storage backend can be checked against the same
// expectations as the mock provider.
//
// FEATURES:
//   - Assertions for CloudError codes, registry records and mock call counts
//   - Random but valid descriptors, records and registries
//   - Seeding of the mock provider from generated descriptors
//   - A read-only contract suite for any bucketwise.Provider
//
// QUICK START:
//
// Seed a mock provider and run the pipeline against it:
//
//	func TestPipeline(t *testing.T) {
//	    provider, descriptors := testing.NewSeededProvider("us-east-1", 5, time.Now())
//	    got, _ := inventory.NewFetcher(provider.Storage(), "", nil).Fetch(ctx)
//	    testing.AssertProviderCalled(t, provider, "SumObjectSizes", len(descriptors))
//	}
//
// Provider contract testing:
//
//	func TestProviderContract(t *testing.T) {
//	    testing.RunProviderContractTests(t, mock.New("us-east-1").WithBucket("logs", "", false))
//	}
package testing

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/VAIBHAVSING/bucketwise"
	"github.com/VAIBHAVSING/bucketwise/providers/mock"
	"github.com/VAIBHAVSING/bucketwise/registry"
)

// TestHelper provides common testing utilities and assertions
type TestHelper struct {
	t testing.TB
}

// NewTestHelper creates a new test helper instance
func NewTestHelper(t testing.TB) *TestHelper {
	return &TestHelper{t: t}
}

// AssertNoError asserts that an error is nil
func (h *TestHelper) AssertNoError(err error) {
	h.t.Helper()
	if err != nil {
		h.t.Fatalf("Expected no error, got: %v", err)
	}
}

// AssertErrorCode asserts that err is, or wraps, a CloudError with the
// expected code
func (h *TestHelper) AssertErrorCode(err error, expectedCode bucketwise.ErrorCode) {
	h.t.Helper()
	if err == nil {
		h.t.Fatal("Expected an error, got nil")
	}

	var cloudErr *bucketwise.CloudError
	if !errors.As(err, &cloudErr) {
		h.t.Fatalf("Expected CloudError, got %T", err)
	}
	if cloudErr.Code != expectedCode {
		h.t.Fatalf("Expected error code %s, got %s", expectedCode, cloudErr.Code)
	}
}

// AssertRecordValid asserts that a registry record is fit to be saved
func (h *TestHelper) AssertRecordValid(rec registry.Record) {
	h.t.Helper()
	if rec.Name == "" {
		h.t.Fatal("Record Name is empty")
	}
	if rec.Region == "" {
		h.t.Fatalf("Record %s has no region", rec.Name)
	}
	if rec.CreatedOn.IsZero() {
		h.t.Fatalf("Record %s has no createdOn", rec.Name)
	}
	if rec.Tags == nil || rec.Policies == nil {
		h.t.Fatalf("Record %s has nil tags or policies", rec.Name)
	}
	if rec.SizeGB < 0 {
		h.t.Fatalf("Record %s has negative size %v", rec.Name, rec.SizeGB)
	}
}

// AssertProviderCalled asserts that a mock provider method was called a specific number of times
func (h *TestHelper) AssertProviderCalled(provider *mock.MockProvider, method string, expectedCount int) {
	h.t.Helper()
	actualCount := provider.CallCount(method)
	if actualCount != expectedCount {
		h.t.Fatalf("Expected %s to be called %d times, got %d", method, expectedCount, actualCount)
	}
}

// AssertProviderNotCalled asserts that a mock provider method was not called
func (h *TestHelper) AssertProviderNotCalled(provider *mock.MockProvider, method string) {
	h.t.Helper()
	if provider.WasCalled(method) {
		h.t.Fatalf("Expected %s not to be called, but it was", method)
	}
}

// Standalone helper functions for convenience

// AssertNoError is a standalone version of TestHelper.AssertNoError
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	NewTestHelper(t).AssertNoError(err)
}

// AssertErrorCode is a standalone version of TestHelper.AssertErrorCode
func AssertErrorCode(t testing.TB, err error, expectedCode bucketwise.ErrorCode) {
	t.Helper()
	NewTestHelper(t).AssertErrorCode(err, expectedCode)
}

// AssertRecordValid is a standalone version of TestHelper.AssertRecordValid
func AssertRecordValid(t testing.TB, rec registry.Record) {
	t.Helper()
	NewTestHelper(t).AssertRecordValid(rec)
}

// AssertProviderCalled is a standalone version of TestHelper.AssertProviderCalled
func AssertProviderCalled(t testing.TB, provider *mock.MockProvider, method string, expectedCount int) {
	t.Helper()
	NewTestHelper(t).AssertProviderCalled(provider, method, expectedCount)
}

// AssertProviderNotCalled is a standalone version of TestHelper.AssertProviderNotCalled
func AssertProviderNotCalled(t testing.TB, provider *mock.MockProvider, method string) {
	t.Helper()
	NewTestHelper(t).AssertProviderNotCalled(provider, method)
}

// WithTimeout runs a test function with a timeout
func WithTimeout(t testing.TB, timeout time.Duration, fn func()) {
	t.Helper()
	done := make(chan struct{})

	go func() {
		defer close(done)
		fn()
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatalf("Test timed out after %v", timeout)
	}
}

// MustNotPanic asserts that a function does not panic
func MustNotPanic(t testing.TB, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("Function panicked: %v", r)
		}
	}()
	fn()
}

// MustPanic asserts that a function panics
func MustPanic(t testing.TB, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("Expected function to panic, but it didn't")
		}
	}()
	fn()
}

// SkipIfShort skips a test if running in short mode
func SkipIfShort(t testing.TB) {
	if testing.Short() {
		t.Skip("Skipping test in short mode")
	}
}

// SkipIfCI skips a test if running in CI environment
func SkipIfCI(t testing.TB) {
	ciEnvVars := []string{"CI", "CONTINUOUS_INTEGRATION", "GITHUB_ACTIONS", "JENKINS_URL", "TRAVIS"}
	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			t.Skip("Skipping test in CI environment")
		}
	}
}

// IntegrationEndpoint returns the S3-compatible endpoint named by
// BUCKETWISE_TEST_ENDPOINT, skipping the test when it is unset or the test
// runs in short mode.
func IntegrationEndpoint(t testing.TB) string {
	SkipIfShort(t)
	endpoint := strings.TrimSpace(os.Getenv("BUCKETWISE_TEST_ENDPOINT"))
	if endpoint == "" {
		t.Skip("BUCKETWISE_TEST_ENDPOINT not set")
	}
	return endpoint
}
