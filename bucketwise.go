package bucketwise

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/VAIBHAVSING/bucketwise/services"
)

// Config holds the provider-independent client settings.
type Config struct {
	// Region defaults to the provider's signing region.
	Region string
}

// ServiceType represents the type of cloud service
type ServiceType string

const (
	ServiceStorage ServiceType = "storage"
)

// ErrorCode represents standardized error types across all providers
type ErrorCode string

const (
	// Authentication and authorization errors
	ErrAuthentication ErrorCode = "AUTHENTICATION_FAILED"
	ErrAuthorization  ErrorCode = "AUTHORIZATION_FAILED"

	// Service availability errors
	ErrServiceNotSupported ErrorCode = "SERVICE_NOT_SUPPORTED"

	// Resource errors
	ErrResourceNotFound ErrorCode = "RESOURCE_NOT_FOUND"

	// Network and rate limiting
	ErrRateLimit      ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrNetworkTimeout ErrorCode = "NETWORK_TIMEOUT"

	// Configuration errors
	ErrInvalidConfig ErrorCode = "INVALID_CONFIGURATION"
	ErrProviderError ErrorCode = "PROVIDER_ERROR"
)

// ErrorContext provides debugging information for troubleshooting
type ErrorContext struct {
	RequestID string            `json:"request_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Retryable bool              `json:"retryable"`
}

// CloudError provides structured error information with helpful context and suggestions.
// Every error returned by a provider's storage service is a *CloudError.
type CloudError struct {
	Code        ErrorCode    `json:"code"`
	Message     string       `json:"message"`
	Provider    string       `json:"provider"`
	Service     string       `json:"service"`
	Operation   string       `json:"operation"`
	Resource    string       `json:"resource,omitempty"`
	Suggestions []string     `json:"suggestions,omitempty"`
	Cause       error        `json:"-"`
	Context     ErrorContext `json:"context,omitempty"`
}

// Error implements the error interface with rich context
func (e *CloudError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	if e.Resource != "" {
		fmt.Fprintf(&b, " (resource: %s)", e.Resource)
	}
	if e.Provider != "" {
		fmt.Fprintf(&b, " (provider: %s)", e.Provider)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying cause error for error wrapping
func (e *CloudError) Unwrap() error {
	return e.Cause
}

// ServiceNotSupportedError is returned when a provider doesn't support a requested service.
type ServiceNotSupportedError struct {
	Provider string
	Service  ServiceType
}

// Error implements the error interface with helpful messaging
func (e *ServiceNotSupportedError) Error() string {
	return fmt.Sprintf("provider '%s' does not support '%s' service", e.Provider, e.Service)
}

// NewServiceNotSupportedError creates a new service not supported error
func NewServiceNotSupportedError(provider string, service ServiceType) *ServiceNotSupportedError {
	return &ServiceNotSupportedError{
		Provider: provider,
		Service:  service,
	}
}

// NewCloudError creates a new CloudError with the specified parameters
func NewCloudError(code ErrorCode, message string, provider string, service string, operation string) *CloudError {
	return &CloudError{
		Code:      code,
		Message:   message,
		Provider:  provider,
		Service:   service,
		Operation: operation,
		Context: ErrorContext{
			Timestamp: time.Now(),
			Retryable: isRetryableError(code),
		},
	}
}

// WithSuggestions adds helpful suggestions to a CloudError
func (e *CloudError) WithSuggestions(suggestions ...string) *CloudError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithCause adds the underlying cause error
func (e *CloudError) WithCause(cause error) *CloudError {
	e.Cause = cause
	return e
}

// WithResource records the bucket (or other resource) the operation targeted
func (e *CloudError) WithResource(resource string) *CloudError {
	e.Resource = resource
	return e
}

// WithContext adds debugging context
func (e *CloudError) WithContext(requestID string, metadata map[string]string) *CloudError {
	e.Context.RequestID = requestID
	if e.Context.Metadata == nil {
		e.Context.Metadata = make(map[string]string)
	}
	for k, v := range metadata {
		e.Context.Metadata[k] = v
	}
	return e
}

// isRetryableError determines if an error code represents a retryable condition.
// Nothing in this module retries; the flag is informational for callers.
func isRetryableError(code ErrorCode) bool {
	switch code {
	case ErrRateLimit, ErrNetworkTimeout:
		return true
	default:
		return false
	}
}

// IsErrorCode reports whether err wraps a *CloudError carrying code.
func IsErrorCode(err error, code ErrorCode) bool {
	var ce *CloudError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// Helper functions for common error scenarios

// NewAuthenticationError creates a new authentication error with helpful suggestions
func NewAuthenticationError(provider string, cause error) *CloudError {
	return NewCloudError(ErrAuthentication, "Authentication failed", provider, string(ServiceStorage), "authenticate").
		WithCause(cause).
		WithSuggestions(
			"Check your credentials are correctly configured",
			"Verify your access keys are not expired",
			"Set a profile with --profile or AWS_PROFILE",
		)
}

// NewAuthorizationError creates a new authorization error with helpful suggestions
func NewAuthorizationError(provider string, operation string, resource string, cause error) *CloudError {
	return NewCloudError(ErrAuthorization, "Authorization failed", provider, string(ServiceStorage), operation).
		WithResource(resource).
		WithCause(cause).
		WithSuggestions(
			"Check that your credentials have the required permissions",
			"Verify the bucket policy allows this operation",
		)
}

// NewResourceNotFoundError creates a new resource not found error
func NewResourceNotFoundError(provider string, operation string, resource string) *CloudError {
	return NewCloudError(ErrResourceNotFound, "Bucket not found", provider, string(ServiceStorage), operation).
		WithResource(resource).
		WithSuggestions(
			"The bucket may have been deleted after it was listed",
		)
}

// NewInvalidConfigError creates a new invalid configuration error
func NewInvalidConfigError(provider string, field string, reason string) *CloudError {
	message := fmt.Sprintf("Invalid configuration for field '%s': %s", field, reason)
	return NewCloudError(ErrInvalidConfig, message, provider, string(ServiceStorage), "validate")
}

// NewRateLimitError creates a new rate limit error
func NewRateLimitError(provider string, operation string, resource string, cause error) *CloudError {
	return NewCloudError(ErrRateLimit, "Rate limit exceeded", provider, string(ServiceStorage), operation).
		WithResource(resource).
		WithCause(cause).
		WithSuggestions("Reduce the frequency of API calls")
}

// Provider defines the interface for cloud providers.
// The only implementation shipped for production is AWS; the mock provider
// stands in for it in tests.
type Provider interface {
	// Storage returns the storage service used to inventory buckets.
	Storage() services.Storage

	// Name returns the provider name (e.g., "aws", "mock").
	Name() string

	// Region returns the configured region for this provider.
	Region() string

	// SupportedServices returns a list of services supported by this provider.
	SupportedServices() []ServiceType
}

// Client wraps a Provider and validates service availability at runtime.
type Client struct {
	provider Provider
	config   Config
}

// New creates a new client with the specified provider.
//
// Example:
//
//	provider, _ := aws.NewAWSProvider(ctx, aws.ProviderConfig{Region: "us-east-1"})
//	client := bucketwise.New(provider, &bucketwise.Config{Region: "us-east-1"})
func New(provider Provider, config *Config) *Client {
	c := &Client{provider: provider}
	if config != nil {
		c.config = *config
	}
	if c.config.Region == "" {
		c.config.Region = provider.Region()
	}
	return c
}

// Storage returns the storage service if supported by the provider.
// Panics with ServiceNotSupportedError if storage is not available.
func (c *Client) Storage() services.Storage {
	if !c.supportsService(ServiceStorage) {
		panic(NewServiceNotSupportedError(c.provider.Name(), ServiceStorage))
	}
	return c.provider.Storage()
}

// ProviderName returns the name of the wrapped provider
func (c *Client) ProviderName() string {
	return c.provider.Name()
}

// Config returns the effective client configuration
func (c *Client) Config() Config {
	return c.config
}

// supportsService checks if the provider supports the given service type
func (c *Client) supportsService(service ServiceType) bool {
	supported := c.provider.SupportedServices()
	for _, s := range supported {
		if s == service {
			return true
		}
	}
	return false
}
