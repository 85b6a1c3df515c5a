// Package validation checks values against struct tags before a proxied
// method runs.
//
// Struct arguments carry constraints in `validate` tags:
//
//	type CreateOrder struct {
//	    ID    string `validate:"required,uuid"`
//	    Count int    `validate:"min=1"`
//	}
//	err := validation.Struct(cmd)
//
// The argument-validation interceptor applies Struct to every struct
// argument of a call and aborts the call on the first violation. A
// Collector supports programmatic checks with the same error shape.
package validation
