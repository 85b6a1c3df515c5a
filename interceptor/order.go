package interceptor

// Default chain priorities for the built-in interceptors. Lower runs
// earlier (outermost). Recovery wraps everything so a panic anywhere in
// the chain is converted; validation runs last so inner behaviors never
// see rejected arguments.
const (
	OrderRecover        = -1000
	OrderLogging        = -900
	OrderTracing        = -800
	OrderMetrics        = -700
	OrderThrottle       = -600
	OrderRateLimit      = -500
	OrderCircuitBreaker = -400
	OrderRetry          = -300
	OrderValidateArgs   = -200
)

func (r *Recover) Order() int        { return OrderRecover }
func (l *Logging) Order() int        { return OrderLogging }
func (t *Tracing) Order() int        { return OrderTracing }
func (m *Metrics) Order() int        { return OrderMetrics }
func (t *Throttle) Order() int       { return OrderThrottle }
func (r *RateLimit) Order() int      { return OrderRateLimit }
func (c *CircuitBreaker) Order() int { return OrderCircuitBreaker }
func (r *Retry) Order() int          { return OrderRetry }
func (v *ValidateArgs) Order() int   { return OrderValidateArgs }
