package validation

import (
	"fmt"

	"github.com/kbukum/aopkit/errors"
)

// Collector accumulates field errors from programmatic checks.
type Collector struct {
	fields []FieldError
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Check records a field error when ok is false.
func (c *Collector) Check(ok bool, field, message string) {
	if !ok {
		c.fields = append(c.fields, FieldError{Field: field, Message: message})
	}
}

// CheckUUID records a field error when the value is not a UUID.
func (c *Collector) CheckUUID(field, value string) {
	c.Check(IsUUID(value), field, "must be a valid UUID")
}

// HasErrors reports whether any check failed.
func (c *Collector) HasErrors() bool { return len(c.fields) > 0 }

// Fields returns the recorded field errors.
func (c *Collector) Fields() []FieldError { return c.fields }

// Err returns nil when every check passed, otherwise a validation error
// listing all collected violations.
func (c *Collector) Err() error {
	if !c.HasErrors() {
		return nil
	}
	messages := make([]string, len(c.fields))
	for i, f := range c.fields {
		messages[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	msg := messages[0]
	for _, m := range messages[1:] {
		msg += "; " + m
	}
	return errors.Validation(msg).WithDetail("fields", c.fields)
}
