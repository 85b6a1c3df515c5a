package interceptor

import (
	"fmt"

	"github.com/kbukum/aopkit/advice"
	"github.com/kbukum/aopkit/errors"
	"github.com/kbukum/aopkit/logger"
)

// Recover converts a panic in the remaining chain or the target method
// into an error return.
type Recover struct {
	log *logger.Logger
}

// NewRecover builds a panic-recovery interceptor. A nil logger uses the
// default.
func NewRecover(log *logger.Logger) *Recover {
	if log == nil {
		log = logger.NewDefault("interceptor.recover")
	}
	return &Recover{log: log}
}

func (r *Recover) Invoke(inv advice.Invocation) (results []any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			method := inv.Method().Name
			r.log.Error("call panicked", logger.Fields(
				logger.FieldTargetType, targetTypeName(inv),
				logger.FieldMethod, method,
				"panic", fmt.Sprint(rec),
			))
			results = nil
			err = errors.Invocation(method, fmt.Sprintf("panic: %v", rec))
		}
	}()
	return inv.Proceed()
}
