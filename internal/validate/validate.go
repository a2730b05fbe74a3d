// Package validate checks user-entered forms before anything is sent to the
// catalog. A form that fails here never reaches the network.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var v *validator.Validate

func init() {
	v = validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil && !d.IsNegative()
	})
}

// FieldError is one message attached to one form field.
type FieldError struct {
	Field   string
	Message string
}

// Result collects every field error of one validation run.
type Result struct {
	Errors []FieldError
}

func (r Result) OK() bool { return len(r.Errors) == 0 }

// Message returns the first error for field, or "".
func (r Result) Message(field string) string {
	for _, fe := range r.Errors {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Err returns nil for a valid form, otherwise an *Error.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &Error{Fields: r.Errors}
}

// Error is a validation failure.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, fe := range e.Fields {
		msgs[i] = fe.Message
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

func check(form any) Result {
	err := v.Struct(form)
	if err == nil {
		return Result{}
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Result{Errors: []FieldError{{Message: err.Error()}}}
	}
	var res Result
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{Field: fe.Field(), Message: message(fe.Field(), fe.Tag(), fe.Param())})
	}
	return res
}

func checkVar(field string, value any, tag string) []FieldError {
	err := v.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: field, Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: field, Message: message(field, fe.Tag(), fe.Param())})
	}
	return out
}

func message(field, tag, param string) string {
	switch tag {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, param)
	case "price":
		return field + " must be a number of at least 0"
	}
	return field + " is invalid"
}
