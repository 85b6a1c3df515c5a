package interceptor

import (
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/aopkit/advice"
	"github.com/kbukum/aopkit/logger"
)

// Logging emits one structured log pair per intercepted call, tagged
// with a fresh call id.
type Logging struct {
	log *logger.Logger
}

// NewLogging builds a logging interceptor. A nil logger uses the
// default.
func NewLogging(log *logger.Logger) *Logging {
	if log == nil {
		log = logger.NewDefault("interceptor.logging")
	}
	return &Logging{log: log}
}

func (l *Logging) Invoke(inv advice.Invocation) ([]any, error) {
	callID := uuid.NewString()
	fields := logger.Fields(
		logger.FieldCallID, callID,
		logger.FieldTargetType, targetTypeName(inv),
		logger.FieldMethod, inv.Method().Name,
	)
	l.log.Debug("call started", fields)

	start := time.Now()
	results, err := inv.Proceed()
	fields[logger.FieldDuration] = time.Since(start).String()

	if err != nil {
		l.log.Error("call failed", logger.MergeWithError(fields, err))
	} else {
		l.log.Debug("call completed", fields)
	}
	return results, err
}
