package mock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/VAIBHAVSING/bucketwise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockStorage_SeededState(t *testing.T) {
	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	provider := New("us-east-1").
		WithBucket("zeta", "eu-west-1", true).
		WithObject("zeta", "a", 100, older).
		WithObject("zeta", "b", 50, newer).
		WithBucket("alpha", "", false)

	storage := bucketwise.New(provider, nil).Storage()
	ctx := context.Background()

	buckets, err := storage.ListBuckets(ctx)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, "zeta", buckets[0].Name)
	assert.Equal(t, "alpha", buckets[1].Name)

	region, err := storage.GetBucketRegion(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, "", region)

	versioning, err := storage.GetBucketVersioning(ctx, "zeta")
	require.NoError(t, err)
	assert.True(t, versioning)

	usage, err := storage.SumObjectSizes(ctx, "zeta")
	require.NoError(t, err)
	assert.Equal(t, int64(150), usage.Bytes)
	assert.Equal(t, int64(2), usage.Objects)
	assert.Equal(t, newer, *usage.LastModified)

	assert.True(t, provider.WasCalled("ListBuckets"))
	assert.Equal(t, 1, provider.CallCount("SumObjectSizes"))
	assert.Equal(t, []interface{}{"zeta"}, provider.LastCallArgs("SumObjectSizes"))
	assert.Len(t, provider.AllOperations(), 4)
}

func TestMockStorage_ErrorInjection(t *testing.T) {
	denied := bucketwise.NewAuthorizationError("mock", "GetBucketVersioning", "private", nil)
	provider := New("us-east-1").
		WithBucket("public", "us-west-2", false).
		WithBucket("private", "us-west-2", false).
		WithBucketError("GetBucketVersioning", "private", denied)
	storage := provider.Storage()
	ctx := context.Background()

	_, err := storage.GetBucketVersioning(ctx, "public")
	assert.NoError(t, err)

	_, err = storage.GetBucketVersioning(ctx, "private")
	assert.True(t, bucketwise.IsErrorCode(err, bucketwise.ErrAuthorization))

	_, err = storage.GetBucketRegion(ctx, "missing")
	assert.True(t, bucketwise.IsErrorCode(err, bucketwise.ErrResourceNotFound))

	provider.WithError("ListBuckets", errors.New("boom"))
	_, err = storage.ListBuckets(ctx)
	assert.EqualError(t, err, "boom")
}

func TestMockProvider_Reset(t *testing.T) {
	provider := New("us-east-1").WithBucket("b1", "", false)
	_, _ = provider.Storage().ListBuckets(context.Background())

	provider.Reset()

	assert.False(t, provider.WasCalled("ListBuckets"))
	assert.Empty(t, provider.BucketNames())
}

func TestClient_StoragePanicsWhenUnsupported(t *testing.T) {
	client := bucketwise.New(New("us-east-1").WithSupportedServices(), nil)

	assert.Panics(t, func() { client.Storage() })
}
