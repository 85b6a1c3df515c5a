package interceptor

import (
	"time"

	"github.com/kbukum/aopkit/advice"
	"github.com/kbukum/aopkit/observability"
)

// Metrics records call count, duration, in-flight count and error count
// per intercepted call.
type Metrics struct {
	metrics *observability.CallMetrics
}

// NewMetrics builds a metrics interceptor on the library's global
// meter.
func NewMetrics() (*Metrics, error) {
	m, err := observability.NewCallMetrics(observability.Meter())
	if err != nil {
		return nil, err
	}
	return &Metrics{metrics: m}, nil
}

func (m *Metrics) Invoke(inv advice.Invocation) ([]any, error) {
	ctx := callContext(inv)
	m.metrics.CallStarted(ctx)
	start := time.Now()
	results, err := inv.Proceed()
	m.metrics.CallEnded(ctx, targetTypeName(inv), inv.Method().Name, err, time.Since(start))
	return results, err
}
