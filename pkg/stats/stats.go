package stats

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	releaseNamespace = "github_release"
)

func NewPrometheusMetricsProvider(ctx context.Context, registry *prometheus.Registry) MetricsProvider {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	return &metricsProvider{
		registry: registry,
	}
}

type MetricsProvider interface {
	NewIncrementCounter(name string, additionalLabels map[string]string, labelKeys ...string) IncrementInstrument
	NewGauge(name string, additionalLabels map[string]string, labelKeys ...string) SetInstrument
	// WriteTextfile dumps every registered metric in the Prometheus text
	// format, suitable for the node_exporter textfile collector.
	WriteTextfile(path string) error
}

type IncrementInstrument interface {
	Increment(ctx context.Context, labels map[string]string)
}

type SetInstrument interface {
	Set(ctx context.Context, val int64, labels map[string]string)
}

type metricsProvider struct {
	registry *prometheus.Registry
}

func (m *metricsProvider) NewIncrementCounter(name string, additionalLabels map[string]string, labelKeys ...string) IncrementInstrument {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   releaseNamespace,
		Name:        name,
		ConstLabels: additionalLabels,
	}, labelKeys)

	m.registry.MustRegister(counter)
	return &incrementCounter{
		counter: counter,
	}
}

func (m *metricsProvider) NewGauge(name string, additionalLabels map[string]string, labelKeys ...string) SetInstrument {
	gaugeVec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   releaseNamespace,
		Name:        name,
		ConstLabels: additionalLabels,
	}, labelKeys)

	m.registry.MustRegister(gaugeVec)
	return &gauge{
		gauge: gaugeVec,
	}
}

func (m *metricsProvider) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.Wrapf(err, "writing metrics to %s", path)
	}
	return nil
}

type incrementCounter struct {
	counter *prometheus.CounterVec
}

func (i *incrementCounter) Increment(
	ctx context.Context,
	labels map[string]string,
) {
	i.counter.With(prometheus.Labels(labels)).Inc()
}

type gauge struct {
	gauge *prometheus.GaugeVec
}

func (g *gauge) Set(
	ctx context.Context,
	intVal int64,
	labels map[string]string,
) {
	g.gauge.With(prometheus.Labels(labels)).Set(float64(intVal))
}
