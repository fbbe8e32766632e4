package config

import (
	"fmt"
	"strings"

	"github.com/VAIBHAVSING/bucketwise/inventory"
	"github.com/VAIBHAVSING/bucketwise/registry"
	"github.com/VAIBHAVSING/bucketwise/report"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config holds all configuration for bucketwise
type Config struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// Region reported for buckets without a location constraint
	DefaultRegion string `mapstructure:"default_region"`

	// Optimizer outputs
	RegistryFile string `mapstructure:"registry_file"`
	ReportDir    string `mapstructure:"report_dir"`
	MetricsFile  string `mapstructure:"metrics_file"` // empty disables the textfile

	AWS AWSConfig `mapstructure:"aws"`
}

// AWSConfig defines how the S3 client is built. Empty fields fall back to the
// SDK's default chain.
type AWSConfig struct {
	Region          string `mapstructure:"region"`
	Profile         string `mapstructure:"profile"`
	Endpoint        string `mapstructure:"endpoint"` // MinIO, LocalStack, ...
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	SessionToken    string `mapstructure:"session_token"`
}

// AddFlags registers the flags shared by every command.
func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP("config", "c", "", "Configuration file path")
	cmd.PersistentFlags().StringP("region", "r", "", "AWS region used to sign requests")
	cmd.PersistentFlags().StringP("profile", "p", "", "AWS shared config profile")
	cmd.PersistentFlags().StringP("endpoint", "", "", "S3 endpoint override (enables path-style addressing)")
	cmd.PersistentFlags().StringP("log-level", "", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringP("log-format", "", "text", "Log format (text, json)")
}

// AddOptimizeFlags registers the optimizer's output flags.
func AddOptimizeFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("registry", "", registry.DefaultFile, "Bucket registry JSON file")
	cmd.Flags().StringP("report-dir", "o", report.DefaultDir, "Directory for the CSV report and chart")
	cmd.Flags().StringP("metrics-file", "", "", "Write Prometheus textfile metrics to this path")
}

// Load builds the configuration from defaults, an optional config file,
// BUCKETWISE_* environment variables and the command's flags.
func Load(cmd *cobra.Command) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Bind command line flags
	if err := bindFlags(cmd, v); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	// Read from config file if specified
	if flag := cmd.Flag("config"); flag != nil && flag.Value.String() != "" {
		v.SetConfigFile(flag.Value.String())
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Read from environment variables
	v.SetEnvPrefix("BUCKETWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("default_region", inventory.DefaultRegion)

	v.SetDefault("registry_file", registry.DefaultFile)
	v.SetDefault("report_dir", report.DefaultDir)
	v.SetDefault("metrics_file", "")

	// Empty AWS settings defer to the SDK (AWS_REGION, ~/.aws/config, ...)
	v.SetDefault("aws.region", "")
	v.SetDefault("aws.profile", "")
	v.SetDefault("aws.endpoint", "")
	v.SetDefault("aws.access_key_id", "")
	v.SetDefault("aws.secret_access_key", "")
	v.SetDefault("aws.session_token", "")
}

// bindFlags binds whichever of the known flags the command defines.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	flags := map[string]string{
		"region":       "aws.region",
		"profile":      "aws.profile",
		"endpoint":     "aws.endpoint",
		"log-level":    "log_level",
		"log-format":   "log_format",
		"registry":     "registry_file",
		"report-dir":   "report_dir",
		"metrics-file": "metrics_file",
	}

	for flag, key := range flags {
		f := cmd.Flag(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}

	return nil
}

func validate(cfg *Config) error {
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", cfg.LogFormat)
	}

	if cfg.DefaultRegion == "" {
		return fmt.Errorf("default_region must not be empty")
	}
	if cfg.RegistryFile == "" {
		return fmt.Errorf("registry_file must not be empty")
	}
	if cfg.ReportDir == "" {
		return fmt.Errorf("report_dir must not be empty")
	}

	if (cfg.AWS.AccessKeyID == "") != (cfg.AWS.SecretAccessKey == "") {
		return fmt.Errorf("aws.access_key_id and aws.secret_access_key must be set together")
	}

	return nil
}
