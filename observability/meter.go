package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/aopkit/logger"
	"github.com/kbukum/aopkit/version"
)

// MeterConfig configures the OTLP metric exporter.
type MeterConfig struct {
	// ServiceName identifies the instrumented application.
	ServiceName string
	// ServiceVersion is reported as a resource attribute.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port.
	Endpoint string
	// Insecure allows plain-HTTP export.
	Insecure bool
	// Interval is the export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns development defaults exporting to a local
// collector.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.Get().Version,
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter installs a global meter provider backed by an OTLP HTTP
// exporter. Shut the returned provider down on exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(config.Endpoint)}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
	))
	return mp, nil
}

// Meter returns the library's meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// CallMetrics holds the instruments recorded per intercepted call.
type CallMetrics struct {
	callTotal    metric.Int64Counter
	callDuration metric.Float64Histogram
	callActive   metric.Int64UpDownCounter
	errorTotal   metric.Int64Counter
}

// NewCallMetrics builds the per-call instruments on the given meter.
func NewCallMetrics(meter metric.Meter) (*CallMetrics, error) {
	callTotal, err := meter.Int64Counter("aop.call.total",
		metric.WithDescription("Total number of intercepted calls"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating call counter: %w", err)
	}
	callDuration, err := meter.Float64Histogram("aop.call.duration",
		metric.WithDescription("Intercepted call duration"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}
	callActive, err := meter.Int64UpDownCounter("aop.call.active",
		metric.WithDescription("Calls currently executing"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating active counter: %w", err)
	}
	errorTotal, err := meter.Int64Counter("aop.call.errors",
		metric.WithDescription("Intercepted calls that returned an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating error counter: %w", err)
	}
	return &CallMetrics{
		callTotal:    callTotal,
		callDuration: callDuration,
		callActive:   callActive,
		errorTotal:   errorTotal,
	}, nil
}

// CallStarted marks a call in flight.
func (m *CallMetrics) CallStarted(ctx context.Context) {
	m.callActive.Add(ctx, 1)
}

// CallEnded records the call outcome and duration.
func (m *CallMetrics) CallEnded(ctx context.Context, targetType, method string, err error, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("aop.target_type", targetType),
		attribute.String("aop.method", method),
	)
	m.callActive.Add(ctx, -1)
	m.callTotal.Add(ctx, 1, attrs)
	m.callDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	if err != nil {
		m.errorTotal.Add(ctx, 1, attrs)
	}
}
