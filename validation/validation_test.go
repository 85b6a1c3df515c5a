package validation

import (
	"testing"

	"github.com/kbukum/aopkit/errors"
)

type createOrder struct {
	ID    string `json:"id" validate:"required,uuid"`
	Email string `validate:"omitempty,email"`
	Count int    `validate:"min=1"`
}

func TestStructPasses(t *testing.T) {
	cmd := createOrder{ID: "c6c2b07c-5efa-43b7-9f2b-6b9c4951b2f1", Count: 2}
	if err := Struct(cmd); err != nil {
		t.Errorf("Struct: %v", err)
	}
	if err := Struct(&cmd); err != nil {
		t.Errorf("Struct on pointer: %v", err)
	}
}

func TestStructReportsViolations(t *testing.T) {
	err := Struct(createOrder{Email: "not-an-email"})
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want validation error", err)
	}
	e := errors.AsError(err)
	fields, ok := e.Details["fields"].([]FieldError)
	if !ok || len(fields) != 3 {
		t.Errorf("fields = %v, want 3 violations", e.Details["fields"])
	}
}

func TestStructIgnoresNonStructs(t *testing.T) {
	if err := Struct(42); err != nil {
		t.Errorf("Struct(42): %v", err)
	}
	if err := Struct(nil); err != nil {
		t.Errorf("Struct(nil): %v", err)
	}
	var p *createOrder
	if err := Struct(p); err != nil {
		t.Errorf("Struct(nil pointer): %v", err)
	}
}

func TestFieldNamesUseSnakeCase(t *testing.T) {
	type widget struct {
		PartNumber string `validate:"required"`
	}
	err := Struct(widget{})
	e := errors.AsError(err)
	fields := e.Details["fields"].([]FieldError)
	if fields[0].Field != "part_number" {
		t.Errorf("field = %q, want part_number", fields[0].Field)
	}
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Check(true, "name", "unused")
	c.Check(false, "name", "is required")
	c.CheckUUID("id", "nope")
	if !c.HasErrors() {
		t.Fatal("collector has no errors")
	}
	err := c.Err()
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if len(c.Fields()) != 2 {
		t.Errorf("fields = %v, want 2", c.Fields())
	}
}

func TestCollectorEmptyIsNil(t *testing.T) {
	if err := NewCollector().Err(); err != nil {
		t.Errorf("Err = %v, want nil", err)
	}
}

func TestIsUUID(t *testing.T) {
	if !IsUUID("c6c2b07c-5efa-43b7-9f2b-6b9c4951b2f1") {
		t.Error("valid UUID rejected")
	}
	if IsUUID("hello") {
		t.Error("junk accepted as UUID")
	}
}
