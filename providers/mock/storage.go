package mock

import (
	"context"

	"github.com/VAIBHAVSING/bucketwise"
	"github.com/VAIBHAVSING/bucketwise/services"
)

// MockStorage implements the services.Storage interface for testing.
// It serves the state seeded on its MockProvider.
type MockStorage struct {
	provider *MockProvider
}

// ListBuckets returns the seeded buckets in insertion order.
//
// Error injection:
//   - Configure errors using WithError("ListBuckets", error)
func (m *MockStorage) ListBuckets(ctx context.Context) ([]services.Bucket, error) {
	m.provider.applyDelay("ListBuckets")

	if err := m.provider.checkError("ListBuckets"); err != nil {
		m.provider.recordOperation("ListBuckets", []interface{}{}, nil, err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		m.provider.recordOperation("ListBuckets", []interface{}{}, nil, err)
		return nil, err
	}

	m.provider.mu.RLock()
	buckets := make([]services.Bucket, 0, len(m.provider.bucketOrder))
	for _, name := range m.provider.bucketOrder {
		state := m.provider.bucketState[name]
		buckets = append(buckets, services.Bucket{Name: state.Name, CreationDate: state.CreatedAt})
	}
	m.provider.mu.RUnlock()

	m.provider.recordOperation("ListBuckets", []interface{}{}, buckets, nil)
	return buckets, nil
}

// GetBucketRegion returns the seeded region ("" for the default region).
//
// Error injection:
//   - WithError("GetBucketRegion", error) or WithBucketError("GetBucketRegion", bucket, error)
//   - Returns ErrResourceNotFound for unknown buckets
func (m *MockStorage) GetBucketRegion(ctx context.Context, bucket string) (string, error) {
	const op = "GetBucketRegion"
	m.provider.applyDelay(op)

	state, err := m.lookup(op, bucket)
	if err != nil {
		return "", err
	}

	m.provider.recordOperation(op, []interface{}{bucket}, state.Region, nil)
	return state.Region, nil
}

// GetBucketVersioning returns the seeded versioning flag.
//
// Error injection:
//   - WithError("GetBucketVersioning", error) or WithBucketError("GetBucketVersioning", bucket, error)
//   - Returns ErrResourceNotFound for unknown buckets
func (m *MockStorage) GetBucketVersioning(ctx context.Context, bucket string) (bool, error) {
	const op = "GetBucketVersioning"
	m.provider.applyDelay(op)

	state, err := m.lookup(op, bucket)
	if err != nil {
		return false, err
	}

	m.provider.recordOperation(op, []interface{}{bucket}, state.Versioning, nil)
	return state.Versioning, nil
}

// SumObjectSizes totals the seeded objects of the bucket.
//
// Error injection:
//   - WithError("SumObjectSizes", error) or WithBucketError("SumObjectSizes", bucket, error)
//   - Returns ErrResourceNotFound for unknown buckets
func (m *MockStorage) SumObjectSizes(ctx context.Context, bucket string) (*services.ObjectUsage, error) {
	const op = "SumObjectSizes"
	m.provider.applyDelay(op)

	state, err := m.lookup(op, bucket)
	if err != nil {
		return nil, err
	}

	usage := &services.ObjectUsage{}
	m.provider.mu.RLock()
	for _, obj := range state.Objects {
		usage.Bytes += obj.Size
		usage.Objects++
		if usage.LastModified == nil || obj.LastModified.After(*usage.LastModified) {
			t := obj.LastModified
			usage.LastModified = &t
		}
	}
	m.provider.mu.RUnlock()

	m.provider.recordOperation(op, []interface{}{bucket}, usage, nil)
	return usage, nil
}

// lookup applies error injection, cancellation and existence checks shared
// by the per-bucket operations. Failures are recorded before returning.
func (m *MockStorage) lookup(op, bucket string) (*BucketState, error) {
	if err := m.provider.checkBucketError(op, bucket); err != nil {
		m.provider.recordOperation(op, []interface{}{bucket}, nil, err)
		return nil, err
	}

	state := m.provider.bucket(bucket)
	if state == nil {
		err := bucketwise.NewResourceNotFoundError("mock", op, bucket)
		m.provider.recordOperation(op, []interface{}{bucket}, nil, err)
		return nil, err
	}
	return state, nil
}
