package report

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "bucketwise"

// NewMetricsRegistry returns a Prometheus registry holding one gauge series per
// row for size, estimated cost and recommendation.
func NewMetricsRegistry(rows []Row) *prometheus.Registry {
	registry := prometheus.NewRegistry()

	sizeGauge := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "bucket",
			Name:      "size_gigabytes",
			Help:      "Bucket size in decimal gigabytes",
		},
		[]string{"bucket", "region"},
	)
	costGauge := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "bucket",
			Name:      "estimated_cost_usd",
			Help:      "Estimated monthly storage cost in USD",
		},
		[]string{"bucket", "region"},
	)
	recGauge := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "bucket",
			Name:      "recommendation",
			Help:      "Set to 1 for the recommendation currently given to the bucket",
		},
		[]string{"bucket", "region", "recommendation"},
	)

	for _, metric := range []prometheus.Collector{sizeGauge, costGauge, recGauge} {
		registry.MustRegister(metric)
	}

	for _, r := range rows {
		sizeGauge.WithLabelValues(r.Name, r.Region).Set(r.SizeGB)
		costGauge.WithLabelValues(r.Name, r.Region).Set(r.EstimatedCostUSD)
		recGauge.WithLabelValues(r.Name, r.Region, string(r.Recommendation)).Set(1)
	}

	return registry
}

// WriteMetricsFile writes the row gauges to path in the node_exporter
// textfile format.
func WriteMetricsFile(path string, rows []Row) error {
	if err := prometheus.WriteToTextfile(path, NewMetricsRegistry(rows)); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
