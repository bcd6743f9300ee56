// Package metrics exports lcx telemetry to Prometheus.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lcx"

// Recorder holds the lcx collectors. A nil *Recorder is valid and records nothing.
type Recorder struct {
	gatewayDuration *prometheus.HistogramVec
	gatewayErrors   *prometheus.CounterVec
	selections      *prometheus.CounterVec
	rollovers       *prometheus.CounterVec
	adjustments     *prometheus.CounterVec
	totalPoints     *prometheus.GaugeVec
}

// NewRecorder registers the lcx collectors with reg, reusing collectors that are
// already registered. A nil reg uses the default registerer.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &Recorder{
		gatewayDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_operation_duration_seconds",
			Help:      "Latency of snapshot persistence operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"backend", "operation"}),
		gatewayErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_operation_errors_total",
			Help:      "Failed snapshot persistence operations.",
		}, []string{"backend", "operation"}),
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tier_selections_total",
			Help:      "Tier selections applied, by tier.",
		}, []string{"tier"}),
		rollovers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rollovers_total",
			Help:      "Days closed out by rollover, by profile.",
		}, []string{"profile"}),
		adjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "manual_adjustments_total",
			Help:      "Manual point adjustments, by profile.",
		}, []string{"profile"}),
		totalPoints: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_points",
			Help:      "Current running HP total, by profile.",
		}, []string{"profile"}),
	}

	var err error
	r.gatewayDuration, err = register(reg, r.gatewayDuration)
	if err != nil {
		return nil, err
	}
	if r.gatewayErrors, err = register(reg, r.gatewayErrors); err != nil {
		return nil, err
	}
	if r.selections, err = register(reg, r.selections); err != nil {
		return nil, err
	}
	if r.rollovers, err = register(reg, r.rollovers); err != nil {
		return nil, err
	}
	if r.adjustments, err = register(reg, r.adjustments); err != nil {
		return nil, err
	}
	if r.totalPoints, err = register(reg, r.totalPoints); err != nil {
		return nil, err
	}
	return r, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register metric: %w", err)
	}
	return c, nil
}

// ObserveGateway records one persistence operation.
func (r *Recorder) ObserveGateway(backend, operation string, d time.Duration, err error) {
	if r == nil {
		return
	}
	r.gatewayDuration.WithLabelValues(backend, operation).Observe(d.Seconds())
	if err != nil {
		r.gatewayErrors.WithLabelValues(backend, operation).Inc()
	}
}

func (r *Recorder) Selection(tier string) {
	if r == nil {
		return
	}
	r.selections.WithLabelValues(tier).Inc()
}

func (r *Recorder) Rollovers(profile string, days int) {
	if r == nil || days <= 0 {
		return
	}
	r.rollovers.WithLabelValues(profile).Add(float64(days))
}

func (r *Recorder) Adjustment(profile string) {
	if r == nil {
		return
	}
	r.adjustments.WithLabelValues(profile).Inc()
}

func (r *Recorder) TotalPoints(profile string, points int) {
	if r == nil {
		return
	}
	r.totalPoints.WithLabelValues(profile).Set(float64(points))
}
