package storage

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/VAIBHAVSING/bucketwise"
	"github.com/VAIBHAVSING/bucketwise/services"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

const providerName = "aws"

// usEast1 is where S3 places buckets with an empty location constraint.
const usEast1 = "us-east-1"

// S3ClientInterface defines methods we need from S3 client for testing
type S3ClientInterface interface {
	ListBuckets(ctx context.Context, input *s3.ListBucketsInput, opts ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	GetBucketLocation(ctx context.Context, input *s3.GetBucketLocationInput, opts ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error)
	GetBucketVersioning(ctx context.Context, input *s3.GetBucketVersioningInput, opts ...func(*s3.Options)) (*s3.GetBucketVersioningOutput, error)
	ListObjectsV2(ctx context.Context, input *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// AWSStorage implements the services.Storage interface on top of S3.
//
// The SDK does not follow S3's cross-region redirects, so per-bucket calls
// are signed for the bucket's own region. Regions resolved by
// GetBucketRegion are cached for the lifetime of the AWSStorage.
type AWSStorage struct {
	client S3ClientInterface

	mu      sync.Mutex
	regions map[string]string
}

// New creates a new AWSStorage instance with real AWS client
func New(cfg aws.Config) services.Storage {
	return NewWithClient(s3.NewFromConfig(cfg))
}

// NewWithClient creates a new AWSStorage instance with custom client (for testing)
func NewWithClient(client S3ClientInterface) services.Storage {
	return &AWSStorage{client: client, regions: make(map[string]string)}
}

// ListBuckets lists all S3 buckets, following continuation tokens
func (s *AWSStorage) ListBuckets(ctx context.Context) ([]services.Bucket, error) {
	var buckets []services.Bucket
	paginator := s3.NewListBucketsPaginator(s.client, &s3.ListBucketsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, wrapS3Error(err, "ListBuckets", "")
		}
		for _, b := range page.Buckets {
			bucket := services.Bucket{Name: aws.ToString(b.Name)}
			if b.CreationDate != nil {
				bucket.CreationDate = *b.CreationDate
			}
			buckets = append(buckets, bucket)
		}
	}
	if buckets == nil {
		buckets = []services.Bucket{}
	}
	return buckets, nil
}

// GetBucketRegion returns the bucket's location constraint.
// An empty constraint (us-east-1) is returned as "".
func (s *AWSStorage) GetBucketRegion(ctx context.Context, bucket string) (string, error) {
	out, err := s.client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return "", wrapS3Error(err, "GetBucketLocation", bucket)
	}
	region := normalizeLocation(out.LocationConstraint)

	signing := region
	if signing == "" {
		signing = usEast1
	}
	s.mu.Lock()
	s.regions[bucket] = signing
	s.mu.Unlock()

	return region, nil
}

// bucketRegion returns the region per-bucket calls must be signed for,
// looking it up when GetBucketRegion has not been called for the bucket.
func (s *AWSStorage) bucketRegion(ctx context.Context, bucket string) (string, error) {
	s.mu.Lock()
	region, ok := s.regions[bucket]
	s.mu.Unlock()
	if ok {
		return region, nil
	}

	if _, err := s.GetBucketRegion(ctx, bucket); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regions[bucket], nil
}

func withRegion(region string) func(*s3.Options) {
	return func(o *s3.Options) {
		o.Region = region
	}
}

// GetBucketVersioning reports whether versioning status is Enabled
func (s *AWSStorage) GetBucketVersioning(ctx context.Context, bucket string) (bool, error) {
	region, err := s.bucketRegion(ctx, bucket)
	if err != nil {
		return false, err
	}

	out, err := s.client.GetBucketVersioning(ctx, &s3.GetBucketVersioningInput{
		Bucket: aws.String(bucket),
	}, withRegion(region))
	if err != nil {
		return false, wrapS3Error(err, "GetBucketVersioning", bucket)
	}
	return out.Status == types.BucketVersioningStatusEnabled, nil
}

// SumObjectSizes walks every ListObjectsV2 page of the bucket
func (s *AWSStorage) SumObjectSizes(ctx context.Context, bucket string) (*services.ObjectUsage, error) {
	region, err := s.bucketRegion(ctx, bucket)
	if err != nil {
		return nil, err
	}

	usage := &services.ObjectUsage{}
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx, withRegion(region))
		if err != nil {
			return nil, wrapS3Error(err, "ListObjectsV2", bucket)
		}
		for _, obj := range page.Contents {
			usage.Bytes += aws.ToInt64(obj.Size)
			usage.Objects++
			if obj.LastModified != nil && (usage.LastModified == nil || obj.LastModified.After(*usage.LastModified)) {
				t := *obj.LastModified
				usage.LastModified = &t
			}
		}
	}
	return usage, nil
}

// normalizeLocation maps GetBucketLocation's legacy values onto region names.
func normalizeLocation(c types.BucketLocationConstraint) string {
	switch c {
	case "":
		return ""
	case types.BucketLocationConstraintEu:
		return "eu-west-1"
	default:
		return string(c)
	}
}

// wrapS3Error converts S3 errors to CloudError with helpful context
func wrapS3Error(err error, operation, bucket string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return bucketwise.NewCloudError(bucketwise.ErrNetworkTimeout, "Operation was cancelled", providerName, "storage", operation).
			WithResource(bucket).
			WithCause(err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return bucketwise.NewCloudError(bucketwise.ErrNetworkTimeout, "Operation timed out", providerName, "storage", operation).
			WithResource(bucket).
			WithCause(err).
			WithSuggestions("Check network connectivity", "Verify AWS S3 service status")
	}

	var ae smithy.APIError
	if errors.As(err, &ae) {
		var ce *bucketwise.CloudError
		switch ae.ErrorCode() {
		case "AccessDenied", "AllAccessDisabled", "AccountProblem":
			ce = bucketwise.NewAuthorizationError(providerName, operation, bucket, err)
		case "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken", "InvalidToken", "TokenRefreshRequired":
			ce = bucketwise.NewAuthenticationError(providerName, err)
			ce.Operation = operation
			ce.Resource = bucket
		case "NoSuchBucket":
			ce = bucketwise.NewResourceNotFoundError(providerName, operation, bucket).WithCause(err)
		case "SlowDown", "Throttling", "ThrottlingException", "RequestLimitExceeded", "TooManyRequestsException":
			ce = bucketwise.NewRateLimitError(providerName, operation, bucket, err)
		default:
			ce = bucketwise.NewCloudError(bucketwise.ErrProviderError, "S3 error: "+ae.ErrorMessage(), providerName, "storage", operation).
				WithResource(bucket).
				WithCause(err)
		}
		if rid := requestID(err); rid != "" {
			ce.WithContext(rid, map[string]string{"aws_error_code": ae.ErrorCode()})
		}
		return ce
	}

	if isCredentialError(err) {
		ce := bucketwise.NewAuthenticationError(providerName, err)
		ce.Operation = operation
		ce.Resource = bucket
		return ce
	}

	return bucketwise.NewCloudError(bucketwise.ErrProviderError, "Unexpected error occurred", providerName, "storage", operation).
		WithResource(bucket).
		WithCause(err)
}

// isCredentialError detects credential-resolution failures, which the SDK
// reports as plain wrapped errors rather than API errors.
func isCredentialError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"failed to retrieve credentials",
		"failed to refresh cached credentials",
		"no valid providers in chain",
		"no ec2 imds role found",
		"static credentials are empty",
		"anonymous credentials",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func requestID(err error) string {
	var re interface{ ServiceRequestID() string }
	if errors.As(err, &re) {
		return re.ServiceRequestID()
	}
	return ""
}
