package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommands(t *testing.T) (root, optimize, inspect *cobra.Command) {
	t.Helper()

	root = &cobra.Command{Use: "bucketwise"}
	AddFlags(root)

	optimize = &cobra.Command{Use: "optimize", RunE: func(*cobra.Command, []string) error { return nil }}
	AddOptimizeFlags(optimize)

	inspect = &cobra.Command{Use: "inspect", RunE: func(*cobra.Command, []string) error { return nil }}

	root.AddCommand(optimize, inspect)
	return root, optimize, inspect
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	assert.Equal(t, "info", v.GetString("log_level"))
	assert.Equal(t, "text", v.GetString("log_format"))
	assert.Equal(t, "us-east-1", v.GetString("default_region"))
	assert.Equal(t, "buckets.json", v.GetString("registry_file"))
	assert.Equal(t, "report_output", v.GetString("report_dir"))
	assert.Equal(t, "", v.GetString("metrics_file"))
	assert.Equal(t, "", v.GetString("aws.region"))
}

func TestLoad_Defaults(t *testing.T) {
	_, optimize, _ := newCommands(t)
	require.NoError(t, optimize.ParseFlags(nil))

	cfg, err := Load(optimize)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "buckets.json", cfg.RegistryFile)
	assert.Equal(t, "report_output", cfg.ReportDir)
	assert.Equal(t, "us-east-1", cfg.DefaultRegion)
	assert.Empty(t, cfg.AWS.Region)
}

func TestLoad_Flags(t *testing.T) {
	_, optimize, _ := newCommands(t)
	require.NoError(t, optimize.ParseFlags([]string{
		"--region", "eu-west-1",
		"--endpoint", "http://localhost:9000",
		"--log-level", "debug",
		"--registry", "/tmp/registry.json",
		"-o", "/tmp/reports",
		"--metrics-file", "/tmp/bucketwise.prom",
	}))

	cfg, err := Load(optimize)
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", cfg.AWS.Region)
	assert.Equal(t, "http://localhost:9000", cfg.AWS.Endpoint)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/registry.json", cfg.RegistryFile)
	assert.Equal(t, "/tmp/reports", cfg.ReportDir)
	assert.Equal(t, "/tmp/bucketwise.prom", cfg.MetricsFile)
}

func TestLoad_InspectHasNoOptimizeFlags(t *testing.T) {
	_, _, inspect := newCommands(t)
	require.NoError(t, inspect.ParseFlags([]string{"--profile", "audit"}))

	cfg, err := Load(inspect)
	require.NoError(t, err)
	assert.Equal(t, "audit", cfg.AWS.Profile)
	assert.Equal(t, "buckets.json", cfg.RegistryFile)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("BUCKETWISE_REPORT_DIR", "env-reports")
	t.Setenv("BUCKETWISE_AWS_PROFILE", "env-profile")

	_, optimize, _ := newCommands(t)
	require.NoError(t, optimize.ParseFlags(nil))

	cfg, err := Load(optimize)
	require.NoError(t, err)
	assert.Equal(t, "env-reports", cfg.ReportDir)
	assert.Equal(t, "env-profile", cfg.AWS.Profile)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bucketwise.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_format: json
default_region: eu-central-1
aws:
  region: ap-south-1
  endpoint: http://minio:9000
`), 0644))

	_, optimize, _ := newCommands(t)
	require.NoError(t, optimize.ParseFlags([]string{"--config", path, "--region", "us-west-2"}))

	cfg, err := Load(optimize)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "eu-central-1", cfg.DefaultRegion)
	assert.Equal(t, "http://minio:9000", cfg.AWS.Endpoint)
	// flags win over the file
	assert.Equal(t, "us-west-2", cfg.AWS.Region)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, optimize, _ := newCommands(t)
	require.NoError(t, optimize.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")}))

	_, err := Load(optimize)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			LogLevel:      "info",
			LogFormat:     "text",
			DefaultRegion: "us-east-1",
			RegistryFile:  "buckets.json",
			ReportDir:     "report_output",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"json format", func(c *Config) { c.LogFormat = "json" }, false},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"empty default region", func(c *Config) { c.DefaultRegion = "" }, true},
		{"empty registry", func(c *Config) { c.RegistryFile = "" }, true},
		{"empty report dir", func(c *Config) { c.ReportDir = "" }, true},
		{"partial static credentials", func(c *Config) { c.AWS.AccessKeyID = "AKIA" }, true},
		{"full static credentials", func(c *Config) {
			c.AWS.AccessKeyID = "AKIA"
			c.AWS.SecretAccessKey = "secret"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := validate(&cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
