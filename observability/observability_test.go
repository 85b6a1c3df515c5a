package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDefaultConfigs(t *testing.T) {
	tc := DefaultTracerConfig("svc")
	if tc.ServiceName != "svc" || tc.Endpoint != "localhost:4318" || !tc.Insecure {
		t.Errorf("unexpected tracer defaults: %+v", tc)
	}
	mc := DefaultMeterConfig("svc")
	if mc.ServiceName != "svc" || mc.Interval != 15*time.Second {
		t.Errorf("unexpected meter defaults: %+v", mc)
	}
}

func TestStartCallSpanRecordsAttributes(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	defer tp.Shutdown(context.Background())

	_, span := StartCallSpan(context.Background(), "*demo.greeter", "Greet")
	EndCallSpan(span, nil)

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("exported %d spans, want 1", len(spans))
	}
	if spans[0].Name != "*demo.greeter.Greet" {
		t.Errorf("span name = %q", spans[0].Name)
	}
}

func TestEndCallSpanRecordsError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	defer tp.Shutdown(context.Background())

	_, span := StartCallSpan(context.Background(), "t", "M")
	EndCallSpan(span, fmt.Errorf("boom"))

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("exported %d spans, want 1", len(spans))
	}
	if len(spans[0].Events) == 0 {
		t.Error("error not recorded as span event")
	}
}

func TestCallMetricsWithNoopMeter(t *testing.T) {
	m, err := NewCallMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("NewCallMetrics: %v", err)
	}
	ctx := context.Background()
	m.CallStarted(ctx)
	m.CallEnded(ctx, "t", "M", nil, 5*time.Millisecond)
	m.CallEnded(ctx, "t", "M", fmt.Errorf("boom"), time.Millisecond)
}
