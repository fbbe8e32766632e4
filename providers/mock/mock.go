// Package mock provides an in-memory provider for testing inventory code
// without touching a real object store.
//
// FEATURES:
//   - Implements the bucketwise.Provider interface
//   - Buckets and objects seeded through a fluent builder
//   - Error injection per operation, or per operation and bucket
//   - Operation recording for verification
//
// QUICK START:
//
//	provider := mock.New("us-east-1").
//	    WithBucket("logs", "eu-west-1", true).
//	    WithObject("logs", "2024/01/app.log", 2_000_000_000, lastWeek).
//	    WithBucketError("GetBucketVersioning", "secret", accessDenied)
//
//	client := bucketwise.New(provider, nil)
//	buckets, err := client.Storage().ListBuckets(ctx)
//
// VERIFICATION:
//
//	assert.True(t, provider.WasCalled("SumObjectSizes"))
//	assert.Equal(t, 2, provider.CallCount("GetBucketRegion"))
//	assert.Equal(t, []interface{}{"logs"}, provider.LastCallArgs("GetBucketRegion"))
package mock

import (
	"sort"
	"sync"
	"time"

	"github.com/VAIBHAVSING/bucketwise"
	"github.com/VAIBHAVSING/bucketwise/services"
)

// MockProvider implements the bucketwise.Provider interface for testing.
type MockProvider struct {
	// Configuration
	region            string
	supportedServices []bucketwise.ServiceType

	// Error injection
	errors       map[string]error
	bucketErrors map[string]map[string]error // operation -> bucket -> error
	delays       map[string]time.Duration

	// Operation recording
	mu           sync.RWMutex
	operations   []Operation
	callCounts   map[string]int
	lastCallArgs map[string][]interface{}

	// State management
	bucketState map[string]*BucketState
	bucketOrder []string
}

// Operation represents a recorded operation for verification
type Operation struct {
	Method    string
	Args      []interface{}
	Result    interface{}
	Error     error
	Timestamp time.Time
}

// BucketState represents the state of a mock bucket
type BucketState struct {
	Name       string
	Region     string
	Versioning bool
	CreatedAt  time.Time
	Objects    map[string]ObjectState
}

// ObjectState is a stored mock object; only its metadata is kept.
type ObjectState struct {
	Size         int64
	LastModified time.Time
}

// New creates a new mock provider with no buckets.
// The mock supports the storage service by default.
func New(region string) *MockProvider {
	return &MockProvider{
		region:            region,
		supportedServices: []bucketwise.ServiceType{bucketwise.ServiceStorage},
		errors:            make(map[string]error),
		bucketErrors:      make(map[string]map[string]error),
		delays:            make(map[string]time.Duration),
		operations:        make([]Operation, 0),
		callCounts:        make(map[string]int),
		lastCallArgs:      make(map[string][]interface{}),
		bucketState:       make(map[string]*BucketState),
	}
}

// WithSupportedServices configures which services the mock provider supports.
//
// Example:
//
//	// A provider that supports nothing; Client.Storage() will panic
//	provider := mock.New("us-east-1").WithSupportedServices()
func (m *MockProvider) WithSupportedServices(services ...bucketwise.ServiceType) *MockProvider {
	m.supportedServices = services
	return m
}

// WithBucket adds a bucket. An empty region mimics S3's empty location
// constraint for us-east-1. Buckets are listed in the order they were added.
func (m *MockProvider) WithBucket(name, region string, versioning bool) *MockProvider {
	return m.WithBucketCreatedAt(name, region, versioning, time.Time{})
}

// WithBucketCreatedAt adds a bucket with an explicit creation time.
func (m *MockProvider) WithBucketCreatedAt(name, region string, versioning bool, created time.Time) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.bucketState[name]; !exists {
		m.bucketOrder = append(m.bucketOrder, name)
	}
	m.bucketState[name] = &BucketState{
		Name:       name,
		Region:     region,
		Versioning: versioning,
		CreatedAt:  created,
		Objects:    make(map[string]ObjectState),
	}
	return m
}

// WithObject stores object metadata in an existing bucket. It creates the
// bucket with an empty region when it does not exist yet.
func (m *MockProvider) WithObject(bucket, key string, size int64, lastModified time.Time) *MockProvider {
	m.mu.RLock()
	_, exists := m.bucketState[bucket]
	m.mu.RUnlock()
	if !exists {
		m.WithBucket(bucket, "", false)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.bucketState[bucket].Objects[key] = ObjectState{Size: size, LastModified: lastModified}
	return m
}

// WithError configures the mock provider to return a specific error
// for every call of the specified operation.
//
// Example:
//
//	provider := mock.New("us-east-1").
//	    WithError("ListBuckets", bucketwise.NewAuthenticationError("mock", nil))
func (m *MockProvider) WithError(operation string, err error) *MockProvider {
	m.errors[operation] = err
	return m
}

// WithBucketError configures an error for one operation on one bucket only.
func (m *MockProvider) WithBucketError(operation, bucket string, err error) *MockProvider {
	if m.bucketErrors[operation] == nil {
		m.bucketErrors[operation] = make(map[string]error)
	}
	m.bucketErrors[operation][bucket] = err
	return m
}

// WithDelay configures the mock provider to introduce a delay
// for the specified operation.
func (m *MockProvider) WithDelay(operation string, delay time.Duration) *MockProvider {
	m.delays[operation] = delay
	return m
}

// recordOperation records an operation for later verification
func (m *MockProvider) recordOperation(method string, args []interface{}, result interface{}, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	operation := Operation{
		Method:    method,
		Args:      args,
		Result:    result,
		Error:     err,
		Timestamp: time.Now(),
	}

	m.operations = append(m.operations, operation)
	m.callCounts[method]++
	m.lastCallArgs[method] = args
}

// checkError returns any configured error for the operation
func (m *MockProvider) checkError(operation string) error {
	if err, exists := m.errors[operation]; exists {
		return err
	}
	return nil
}

// checkBucketError returns the operation-wide error or the bucket-specific one
func (m *MockProvider) checkBucketError(operation, bucket string) error {
	if err := m.checkError(operation); err != nil {
		return err
	}
	if err, exists := m.bucketErrors[operation][bucket]; exists {
		return err
	}
	return nil
}

// applyDelay applies any configured delay for the operation
func (m *MockProvider) applyDelay(operation string) {
	if delay, exists := m.delays[operation]; exists {
		time.Sleep(delay)
	}
}

// bucket returns the bucket state, or nil when it does not exist
func (m *MockProvider) bucket(name string) *BucketState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bucketState[name]
}

// WasCalled returns true if the specified operation was called
func (m *MockProvider) WasCalled(operation string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.callCounts[operation] > 0
}

// CallCount returns the number of times the specified operation was called
func (m *MockProvider) CallCount(operation string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.callCounts[operation]
}

// LastCallArgs returns the arguments from the last call to the specified operation
func (m *MockProvider) LastCallArgs(operation string) []interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastCallArgs[operation]
}

// AllOperations returns all recorded operations for verification
func (m *MockProvider) AllOperations() []Operation {
	m.mu.RLock()
	defer m.mu.RUnlock()

	operations := make([]Operation, len(m.operations))
	copy(operations, m.operations)
	return operations
}

// BucketNames returns the seeded bucket names in sorted order
func (m *MockProvider) BucketNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.bucketState))
	for name := range m.bucketState {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset clears all recorded operations and state
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.operations = make([]Operation, 0)
	m.callCounts = make(map[string]int)
	m.lastCallArgs = make(map[string][]interface{})
	m.bucketState = make(map[string]*BucketState)
	m.bucketOrder = nil
}

// Provider interface implementation

// Name returns the provider name identifier
func (m *MockProvider) Name() string {
	return "mock"
}

// Region returns the configured region
func (m *MockProvider) Region() string {
	return m.region
}

// SupportedServices returns the list of services supported by this mock provider
func (m *MockProvider) SupportedServices() []bucketwise.ServiceType {
	return m.supportedServices
}

// Storage returns the mock storage service
func (m *MockProvider) Storage() services.Storage {
	return &MockStorage{provider: m}
}
