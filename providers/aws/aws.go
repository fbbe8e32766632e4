package aws

import (
	"context"
	"fmt"

	"github.com/VAIBHAVSING/bucketwise"
	"github.com/VAIBHAVSING/bucketwise/providers/aws/storage"
	"github.com/VAIBHAVSING/bucketwise/services"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ProviderConfig is the explicit configuration for the AWS provider.
// Fields left empty fall back to the SDK's default resolution chain
// (environment, shared config files, instance metadata).
type ProviderConfig struct {
	// Region used to sign ListBuckets and GetBucketLocation. Other
	// per-bucket calls are signed for the bucket's own region. When neither
	// this nor the default chain yields a region, DefaultRegion is used.
	Region string

	// Profile selects a named profile from the shared config files.
	Profile string

	// Endpoint overrides the S3 endpoint (MinIO, LocalStack, ...).
	// Path-style addressing is used whenever it is set.
	Endpoint string

	// Static credentials. All three are optional; AccessKeyID and
	// SecretAccessKey must be set together.
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// DefaultRegion is used when no region is configured anywhere. It is the
// region of S3's global endpoint.
const DefaultRegion = "us-east-1"

// AWSProvider implements the bucketwise.Provider interface for AWS
type AWSProvider struct {
	cfg      aws.Config
	endpoint string
}

// NewAWSProvider creates a new AWS provider from the given configuration
func NewAWSProvider(ctx context.Context, pc ProviderConfig) (*AWSProvider, error) {
	if (pc.AccessKeyID == "") != (pc.SecretAccessKey == "") {
		return nil, bucketwise.NewInvalidConfigError("aws", "access_key_id",
			"access key id and secret access key must be provided together")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(pc.Region)}
	if pc.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(pc.Profile))
	}
	if pc.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(pc.AccessKeyID, pc.SecretAccessKey, pc.SessionToken),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	return &AWSProvider{cfg: cfg, endpoint: pc.Endpoint}, nil
}

// Create is shorthand for NewAWSProvider with only a region set
func Create(ctx context.Context, region string) (*AWSProvider, error) {
	return NewAWSProvider(ctx, ProviderConfig{Region: region})
}

// Storage returns the S3-backed storage service
func (p *AWSProvider) Storage() services.Storage {
	client := s3.NewFromConfig(p.cfg, func(o *s3.Options) {
		if p.endpoint != "" {
			o.BaseEndpoint = aws.String(p.endpoint)
			o.UsePathStyle = true
		}
	})
	return storage.NewWithClient(client)
}

// Name returns the provider name
func (p *AWSProvider) Name() string {
	return "aws"
}

// Region returns the region requests are signed for
func (p *AWSProvider) Region() string {
	return p.cfg.Region
}

// SupportedServices returns the services this provider implements
func (p *AWSProvider) SupportedServices() []bucketwise.ServiceType {
	return []bucketwise.ServiceType{bucketwise.ServiceStorage}
}
