// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics exposes per-run gauges in the Prometheus text format so a
// node-exporter textfile collector can pick up batch results.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jwha-korea/rivet-gs/internal/report"
)

const namespace = "rivet_gs"

// RunMetrics holds the gauges describing one run.
type RunMetrics struct {
	reg *prometheus.Registry

	genes      *prometheus.GaugeVec
	tiers      *prometheus.GaugeVec
	cutoffs    *prometheus.GaugeVec
	duration   prometheus.Gauge
	completion prometheus.Gauge
}

// New creates run gauges on a private registry labelled with the disease.
func New(disease string) (*RunMetrics, error) {
	constLabels := prometheus.Labels{"disease": disease}
	m := &RunMetrics{
		reg: prometheus.NewRegistry(),
		genes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "genes",
			Help:        "Genes at each pipeline stage of the last run.",
			ConstLabels: constLabels,
		}, []string{"stage"}),
		tiers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "tier_genes",
			Help:        "Reported genes per tier in the last run.",
			ConstLabels: constLabels,
		}, []string{"tier"}),
		cutoffs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "cutoff",
			Help:        "Calibrated combined-score cutoffs of the last run.",
			ConstLabels: constLabels,
		}, []string{"threshold"}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "run_duration_seconds",
			Help:        "Wall time of the last run.",
			ConstLabels: constLabels,
		}),
		completion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "last_success_timestamp_seconds",
			Help:        "Unix time the last successful run started.",
			ConstLabels: constLabels,
		}),
	}

	for _, c := range []prometheus.Collector{m.genes, m.tiers, m.cutoffs, m.duration, m.completion} {
		if err := m.reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering collector: %w", err)
		}
	}
	return m, nil
}

// Observe sets every gauge from a finished run.
func (m *RunMetrics) Observe(meta report.RunMeta, elapsed time.Duration) {
	c := meta.Counts
	m.genes.WithLabelValues("candidates").Set(float64(c.Candidates))
	m.genes.WithLabelValues("scored").Set(float64(c.Scored))
	m.genes.WithLabelValues("dropped").Set(float64(c.Dropped))
	m.genes.WithLabelValues("tiered").Set(float64(c.Tiered))
	m.genes.WithLabelValues("reported").Set(float64(c.Reported))
	m.tiers.WithLabelValues("T1").Set(float64(c.TierOne))
	m.tiers.WithLabelValues("T2").Set(float64(c.TierTwo))
	m.cutoffs.WithLabelValues("best_f1").Set(meta.Thresholds.BestF1Cutoff)
	m.cutoffs.WithLabelValues("p95").Set(meta.Thresholds.P95Cutoff)
	if elapsed < 0 {
		elapsed = 0
	}
	m.duration.Set(elapsed.Seconds())
	m.completion.Set(float64(meta.Timestamp.Unix()))
}

// WriteTextfile writes the gauges to path in the Prometheus text format.
func (m *RunMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
