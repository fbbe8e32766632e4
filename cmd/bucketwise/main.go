package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VAIBHAVSING/bucketwise"
	"github.com/VAIBHAVSING/bucketwise/config"
	"github.com/VAIBHAVSING/bucketwise/inspector"
	"github.com/VAIBHAVSING/bucketwise/optimizer"
	"github.com/VAIBHAVSING/bucketwise/providers/aws"
	"github.com/VAIBHAVSING/bucketwise/services"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bucketwise",
		Short: "bucketwise - S3 bucket inventory and lifecycle recommendations",
		Long: `bucketwise inspects the S3 buckets visible to your credentials, keeps a
JSON registry of them and suggests a lifecycle action for each one.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.AddFlags(rootCmd)

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print size, versioning and idle time for every bucket",
		Args:  cobra.NoArgs,
		RunE:  runInspect,
	}

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "Update the registry and write the CSV report and cost chart",
		Args:  cobra.NoArgs,
		RunE:  runOptimize,
	}
	config.AddOptimizeFlags(optimizeCmd)

	rootCmd.AddCommand(inspectCmd, optimizeCmd)
	return rootCmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	setupLogging(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := signalContext()
	defer cancel()

	storage, err := newStorage(ctx, cfg)
	if err != nil {
		return err
	}

	log := logrus.WithField("command", "inspect")
	findings, err := inspector.New(storage, cfg.DefaultRegion, log).Inspect(ctx, time.Now())
	if err != nil {
		return err
	}
	return inspector.Print(cmd.OutOrStdout(), findings)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	setupLogging(cfg.LogLevel, cfg.LogFormat)

	logrus.WithFields(logrus.Fields{
		"version": version,
		"commit":  commit,
	}).Debug("Starting bucketwise optimize")

	ctx, cancel := signalContext()
	defer cancel()

	storage, err := newStorage(ctx, cfg)
	if err != nil {
		return err
	}

	res, err := optimizer.Run(ctx, optimizer.Options{
		Storage:       storage,
		RegistryFile:  cfg.RegistryFile,
		ReportDir:     cfg.ReportDir,
		MetricsFile:   cfg.MetricsFile,
		DefaultRegion: cfg.DefaultRegion,
		Logger:        logrus.WithField("command", "optimize"),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Full report generated with %d buckets analysed\n", len(res.Rows))
	fmt.Fprintf(out, "%d buckets have recommendations\n", res.Actionable)
	fmt.Fprintf(out, "Files saved in: %s\n", cfg.ReportDir)
	fmt.Fprintf(out, "   - %s\n", res.Output.CSVPath)
	fmt.Fprintf(out, "   - %s\n", res.Output.ChartPath)
	if res.MetricsFile != "" {
		fmt.Fprintf(out, "   - %s\n", res.MetricsFile)
	}
	return nil
}

func newStorage(ctx context.Context, cfg *config.Config) (services.Storage, error) {
	provider, err := aws.NewAWSProvider(ctx, aws.ProviderConfig{
		Region:          cfg.AWS.Region,
		Profile:         cfg.AWS.Profile,
		Endpoint:        cfg.AWS.Endpoint,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		SessionToken:    cfg.AWS.SessionToken,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS provider: %w", err)
	}

	client := bucketwise.New(provider, &bucketwise.Config{Region: cfg.AWS.Region})
	logrus.WithFields(logrus.Fields{
		"provider": client.ProviderName(),
		"region":   client.Config().Region,
	}).Debug("Provider ready")

	return client.Storage(), nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(c)
		select {
		case <-c:
			logrus.Info("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

func setupLogging(level, format string) {
	switch format {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}
