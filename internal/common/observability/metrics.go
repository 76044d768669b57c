package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"
)

// Observability records view-model build metrics and hands out the tracer used
// around backend calls.
type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	tracer        trace.Tracer
	viewBuilds    otelmetric.Int64Counter
	viewDuration  otelmetric.Float64Histogram
}

// New registers an otel prometheus exporter on the default prometheus registry so
// these instruments appear on /metrics next to the promauto ones.
func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	o := &Observability{
		meterProvider: provider,
		meter:         provider.Meter(serviceName),
		tracer:        otel.Tracer(serviceName),
	}
	if err := o.initInstruments(); err != nil {
		return nil, err
	}
	return o, nil
}

// NewNoop is used by tests and by callers that run without a metrics endpoint.
func NewNoop() *Observability {
	o := &Observability{
		meter:  noop.NewMeterProvider().Meter("ats-console"),
		tracer: otel.Tracer("ats-console"),
	}
	_ = o.initInstruments()
	return o
}

func (o *Observability) initInstruments() error {
	var err error
	o.viewBuilds, err = o.meter.Int64Counter(
		"views.built",
		otelmetric.WithDescription("Number of view models built per view"),
	)
	if err != nil {
		return err
	}
	o.viewDuration, err = o.meter.Float64Histogram(
		"views.duration",
		otelmetric.WithDescription("View model build duration"),
		otelmetric.WithUnit("ms"),
	)
	return err
}

func (o *Observability) Tracer() trace.Tracer {
	if o == nil || o.tracer == nil {
		return otel.Tracer("ats-console")
	}
	return o.tracer
}

// RecordView counts one build of view and the time it took.
func (o *Observability) RecordView(ctx context.Context, view string, started time.Time) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.String("view", view))
	if o.viewBuilds != nil {
		o.viewBuilds.Add(ctx, 1, attrs)
	}
	if o.viewDuration != nil {
		o.viewDuration.Record(ctx, float64(time.Since(started).Microseconds())/1000, attrs)
	}
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil || o.meterProvider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return o.meterProvider.Shutdown(ctx)
}
