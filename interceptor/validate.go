package interceptor

import (
	"github.com/kbukum/aopkit/advice"
	"github.com/kbukum/aopkit/validation"
)

// ValidateArgs checks every struct argument against its `validate` tags
// and aborts the call on the first violation. Non-struct arguments pass
// untouched.
type ValidateArgs struct{}

// NewValidateArgs builds an argument-validation interceptor.
func NewValidateArgs() *ValidateArgs { return &ValidateArgs{} }

func (v *ValidateArgs) Invoke(inv advice.Invocation) ([]any, error) {
	for _, arg := range inv.Args() {
		if err := validation.Struct(arg); err != nil {
			return nil, err
		}
	}
	return inv.Proceed()
}
