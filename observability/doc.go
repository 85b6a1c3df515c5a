// Package observability wires OpenTelemetry tracing and metrics for
// proxied calls.
//
// InitTracer and InitMeter install global OTLP-backed providers; the
// tracing and metrics interceptors then record one span and one set of
// measurements per intercepted call. Both initializers are optional:
// without them the interceptors fall back to the no-op global providers.
package observability
