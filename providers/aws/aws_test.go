package aws

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/VAIBHAVSING/bucketwise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAWSProvider(t *testing.T) {
	ctx := context.Background()

	provider, err := NewAWSProvider(ctx, ProviderConfig{Region: "us-east-1"})
	assert.NoError(t, err)
	assert.NotNil(t, provider)
	assert.NotNil(t, provider.Storage())
	assert.Equal(t, "aws", provider.Name())
	assert.Equal(t, "us-east-1", provider.Region())
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	provider, err := Create(ctx, "us-west-2")
	assert.NoError(t, err)
	assert.NotNil(t, provider)
	assert.Equal(t, "us-west-2", provider.Region())
	assert.Equal(t, []bucketwise.ServiceType{bucketwise.ServiceStorage}, provider.SupportedServices())
}

func TestNewAWSProvider_StaticCredentialsAndEndpoint(t *testing.T) {
	provider, err := NewAWSProvider(context.Background(), ProviderConfig{
		Region:          "us-east-1",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "AKIAEXAMPLE",
		SecretAccessKey: "secret",
	})
	assert.NoError(t, err)

	creds, err := provider.cfg.Credentials.Retrieve(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "AKIAEXAMPLE", creds.AccessKeyID)
	assert.Equal(t, "http://localhost:9000", provider.endpoint)
	assert.NotNil(t, provider.Storage())
}

func TestNewAWSProvider_NoRegionConfigured(t *testing.T) {
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_DEFAULT_REGION", "")
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(t.TempDir(), "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "credentials"))

	provider, err := NewAWSProvider(context.Background(), ProviderConfig{
		AccessKeyID:     "AKIAEXAMPLE",
		SecretAccessKey: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultRegion, provider.Region())
	assert.Equal(t, DefaultRegion, provider.cfg.Region)
	assert.NotNil(t, provider.Storage())
}

func TestNewAWSProvider_RegionFromEnvironment(t *testing.T) {
	t.Setenv("AWS_REGION", "eu-central-1")
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(t.TempDir(), "config"))

	provider, err := NewAWSProvider(context.Background(), ProviderConfig{
		AccessKeyID:     "AKIAEXAMPLE",
		SecretAccessKey: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "eu-central-1", provider.Region())
}

func TestNewAWSProvider_PartialStaticCredentials(t *testing.T) {
	_, err := NewAWSProvider(context.Background(), ProviderConfig{
		Region:      "us-east-1",
		AccessKeyID: "AKIAEXAMPLE",
	})
	assert.Error(t, err)
	assert.True(t, bucketwise.IsErrorCode(err, bucketwise.ErrInvalidConfig))
}
