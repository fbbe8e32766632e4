package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/VAIBHAVSING/bucketwise"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockS3Client is a mock implementation of the S3 client
type mockS3Client struct {
	listBucketsResponse *s3.ListBucketsOutput
	listBucketsError    error
	locations           map[string]types.BucketLocationConstraint
	locationError       error
	versioning          map[string]types.BucketVersioningStatus
	versioningError     error
	objectPages         map[string][]*s3.ListObjectsV2Output
	listObjectsError    error
	listObjectsCalls    int
	locationCalls       int

	// signedFor records, per operation, the region each call was signed for
	// once its options were applied to a client configured for us-east-1.
	signedFor map[string][]string
}

func (m *mockS3Client) record(operation string, opts []func(*s3.Options)) {
	o := s3.Options{Region: "us-east-1"}
	for _, fn := range opts {
		fn(&o)
	}
	if m.signedFor == nil {
		m.signedFor = map[string][]string{}
	}
	m.signedFor[operation] = append(m.signedFor[operation], o.Region)
}

func (m *mockS3Client) ListBuckets(ctx context.Context, input *s3.ListBucketsInput, opts ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	return m.listBucketsResponse, m.listBucketsError
}

func (m *mockS3Client) GetBucketLocation(ctx context.Context, input *s3.GetBucketLocationInput, opts ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error) {
	m.locationCalls++
	if m.locationError != nil {
		return nil, m.locationError
	}
	return &s3.GetBucketLocationOutput{LocationConstraint: m.locations[aws.ToString(input.Bucket)]}, nil
}

func (m *mockS3Client) GetBucketVersioning(ctx context.Context, input *s3.GetBucketVersioningInput, opts ...func(*s3.Options)) (*s3.GetBucketVersioningOutput, error) {
	m.record("GetBucketVersioning", opts)
	if m.versioningError != nil {
		return nil, m.versioningError
	}
	return &s3.GetBucketVersioningOutput{Status: m.versioning[aws.ToString(input.Bucket)]}, nil
}

// ListObjectsV2 serves pages keyed by the continuation token "page-<n>".
func (m *mockS3Client) ListObjectsV2(ctx context.Context, input *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	m.listObjectsCalls++
	m.record("ListObjectsV2", opts)
	if m.listObjectsError != nil {
		return nil, m.listObjectsError
	}
	pages := m.objectPages[aws.ToString(input.Bucket)]
	if len(pages) == 0 {
		return &s3.ListObjectsV2Output{}, nil
	}
	idx := 0
	if input.ContinuationToken != nil {
		_, err := fmt.Sscanf(*input.ContinuationToken, "page-%d", &idx)
		if err != nil {
			return nil, err
		}
	}
	out := *pages[idx]
	if idx+1 < len(pages) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(fmt.Sprintf("page-%d", idx+1))
	}
	return &out, nil
}

func TestAWSStorage_ListBuckets(t *testing.T) {
	created := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	mockClient := &mockS3Client{
		listBucketsResponse: &s3.ListBucketsOutput{
			Buckets: []types.Bucket{
				{Name: stringPtr("bucket1"), CreationDate: &created},
				{Name: stringPtr("bucket2")},
			},
		},
	}

	storage := NewWithClient(mockClient)

	buckets, err := storage.ListBuckets(context.Background())
	assert.NoError(t, err)
	assert.Len(t, buckets, 2)
	assert.Equal(t, "bucket1", buckets[0].Name)
	assert.Equal(t, created, buckets[0].CreationDate)
	assert.Equal(t, "bucket2", buckets[1].Name)
	assert.True(t, buckets[1].CreationDate.IsZero())
}

func TestAWSStorage_ListBuckets_Empty(t *testing.T) {
	storage := NewWithClient(&mockS3Client{listBucketsResponse: &s3.ListBucketsOutput{}})

	buckets, err := storage.ListBuckets(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, buckets)
	assert.Empty(t, buckets)
}

func TestAWSStorage_ListBuckets_CredentialError(t *testing.T) {
	mockClient := &mockS3Client{
		listBucketsError: errors.New("operation error S3: ListBuckets, failed to retrieve credentials: no valid providers in chain"),
	}

	_, err := NewWithClient(mockClient).ListBuckets(context.Background())
	assert.Error(t, err)
	assert.True(t, bucketwise.IsErrorCode(err, bucketwise.ErrAuthentication))
}

func TestAWSStorage_GetBucketRegion(t *testing.T) {
	mockClient := &mockS3Client{
		locations: map[string]types.BucketLocationConstraint{
			"eu-bucket":     types.BucketLocationConstraintEuWest2,
			"legacy-bucket": types.BucketLocationConstraintEu,
		},
	}
	storage := NewWithClient(mockClient)
	ctx := context.Background()

	region, err := storage.GetBucketRegion(ctx, "eu-bucket")
	assert.NoError(t, err)
	assert.Equal(t, "eu-west-2", region)

	region, err = storage.GetBucketRegion(ctx, "legacy-bucket")
	assert.NoError(t, err)
	assert.Equal(t, "eu-west-1", region)

	region, err = storage.GetBucketRegion(ctx, "us-east-1-bucket")
	assert.NoError(t, err)
	assert.Equal(t, "", region)
}

func TestAWSStorage_GetBucketVersioning(t *testing.T) {
	mockClient := &mockS3Client{
		versioning: map[string]types.BucketVersioningStatus{
			"on":        types.BucketVersioningStatusEnabled,
			"suspended": types.BucketVersioningStatusSuspended,
		},
	}
	storage := NewWithClient(mockClient)
	ctx := context.Background()

	enabled, err := storage.GetBucketVersioning(ctx, "on")
	assert.NoError(t, err)
	assert.True(t, enabled)

	enabled, err = storage.GetBucketVersioning(ctx, "suspended")
	assert.NoError(t, err)
	assert.False(t, enabled)

	enabled, err = storage.GetBucketVersioning(ctx, "never-configured")
	assert.NoError(t, err)
	assert.False(t, enabled)
}

func TestAWSStorage_SumObjectSizes_Paginates(t *testing.T) {
	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	mockClient := &mockS3Client{
		objectPages: map[string][]*s3.ListObjectsV2Output{
			"data": {
				{Contents: []types.Object{
					{Key: stringPtr("a"), Size: aws.Int64(400), LastModified: &older},
					{Key: stringPtr("b"), Size: aws.Int64(600), LastModified: &newer},
				}},
				{Contents: []types.Object{
					{Key: stringPtr("c"), Size: aws.Int64(1000), LastModified: &older},
				}},
			},
		},
	}

	usage, err := NewWithClient(mockClient).SumObjectSizes(context.Background(), "data")
	require.NoError(t, err)
	assert.Equal(t, int64(2000), usage.Bytes)
	assert.Equal(t, int64(3), usage.Objects)
	require.NotNil(t, usage.LastModified)
	assert.Equal(t, newer, *usage.LastModified)
	assert.Equal(t, 2, mockClient.listObjectsCalls)
}

func TestAWSStorage_SumObjectSizes_EmptyBucket(t *testing.T) {
	usage, err := NewWithClient(&mockS3Client{}).SumObjectSizes(context.Background(), "empty")
	require.NoError(t, err)
	assert.Equal(t, int64(0), usage.Bytes)
	assert.Nil(t, usage.LastModified)
}

func TestAWSStorage_PerBucketCallsUseBucketRegion(t *testing.T) {
	mockClient := &mockS3Client{
		locations: map[string]types.BucketLocationConstraint{
			"mumbai": types.BucketLocationConstraintApSouth1,
			"legacy": types.BucketLocationConstraintEu,
		},
		objectPages: map[string][]*s3.ListObjectsV2Output{
			"mumbai": {
				{Contents: []types.Object{{Key: stringPtr("a"), Size: aws.Int64(1)}}},
				{Contents: []types.Object{{Key: stringPtr("b"), Size: aws.Int64(2)}}},
			},
		},
	}
	storage := NewWithClient(mockClient)
	ctx := context.Background()

	region, err := storage.GetBucketRegion(ctx, "mumbai")
	require.NoError(t, err)
	assert.Equal(t, "ap-south-1", region)

	_, err = storage.GetBucketVersioning(ctx, "mumbai")
	require.NoError(t, err)
	_, err = storage.SumObjectSizes(ctx, "mumbai")
	require.NoError(t, err)

	assert.Equal(t, []string{"ap-south-1"}, mockClient.signedFor["GetBucketVersioning"])
	assert.Equal(t, []string{"ap-south-1", "ap-south-1"}, mockClient.signedFor["ListObjectsV2"])
	assert.Equal(t, 1, mockClient.locationCalls)

	_, err = storage.GetBucketRegion(ctx, "legacy")
	require.NoError(t, err)
	_, err = storage.GetBucketVersioning(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", mockClient.signedFor["GetBucketVersioning"][1])
}

func TestAWSStorage_EmptyConstraintSignsForUSEast1(t *testing.T) {
	mockClient := &mockS3Client{}
	storage := NewWithClient(mockClient)
	ctx := context.Background()

	region, err := storage.GetBucketRegion(ctx, "virginia")
	require.NoError(t, err)
	assert.Equal(t, "", region)

	_, err = storage.SumObjectSizes(ctx, "virginia")
	require.NoError(t, err)
	assert.Equal(t, []string{"us-east-1"}, mockClient.signedFor["ListObjectsV2"])
}

func TestAWSStorage_ResolvesRegionWhenNotCached(t *testing.T) {
	mockClient := &mockS3Client{
		locations: map[string]types.BucketLocationConstraint{
			"tokyo": types.BucketLocationConstraintApNortheast1,
		},
	}
	storage := NewWithClient(mockClient)
	ctx := context.Background()

	_, err := storage.GetBucketVersioning(ctx, "tokyo")
	require.NoError(t, err)
	_, err = storage.SumObjectSizes(ctx, "tokyo")
	require.NoError(t, err)

	assert.Equal(t, 1, mockClient.locationCalls)
	assert.Equal(t, []string{"ap-northeast-1"}, mockClient.signedFor["GetBucketVersioning"])
	assert.Equal(t, []string{"ap-northeast-1"}, mockClient.signedFor["ListObjectsV2"])
}

func TestAWSStorage_RegionLookupFailure(t *testing.T) {
	mockClient := &mockS3Client{
		locationError: &smithy.GenericAPIError{Code: "AccessDenied"},
	}
	storage := NewWithClient(mockClient)

	_, err := storage.GetBucketVersioning(context.Background(), "locked")
	require.Error(t, err)
	assert.True(t, bucketwise.IsErrorCode(err, bucketwise.ErrAuthorization))
	assert.Empty(t, mockClient.signedFor["GetBucketVersioning"])
}

func TestAWSStorage_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code bucketwise.ErrorCode
	}{
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied", Message: "Access Denied"}, bucketwise.ErrAuthorization},
		{"bad key", &smithy.GenericAPIError{Code: "InvalidAccessKeyId"}, bucketwise.ErrAuthentication},
		{"missing bucket", &smithy.GenericAPIError{Code: "NoSuchBucket"}, bucketwise.ErrResourceNotFound},
		{"throttled", &smithy.GenericAPIError{Code: "SlowDown"}, bucketwise.ErrRateLimit},
		{"other api error", &smithy.GenericAPIError{Code: "InternalError"}, bucketwise.ErrProviderError},
		{"deadline", context.DeadlineExceeded, bucketwise.ErrNetworkTimeout},
		{"plain error", errors.New("connection reset by peer"), bucketwise.ErrProviderError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := NewWithClient(&mockS3Client{locationError: tt.err})
			_, err := storage.GetBucketRegion(context.Background(), "some-bucket")
			require.Error(t, err)
			assert.True(t, bucketwise.IsErrorCode(err, tt.code), "got %v", err)
			assert.ErrorIs(t, err, tt.err)

			var ce *bucketwise.CloudError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, "GetBucketLocation", ce.Operation)
			assert.Equal(t, "some-bucket", ce.Resource)
		})
	}
}

func stringPtr(s string) *string {
	return &s
}
