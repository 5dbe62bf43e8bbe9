// Package validation checks path parameters and request bodies against a
// resource's rules. It performs no I/O.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"restaurant-menu-service/internal/domain"
)

// Failure is a single rejected input field.
type Failure struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Error carries every failure found in one request.
type Error struct {
	Failures []Failure
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.Field + " " + f.Reason
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator applies domain rules using go-playground/validator for the
// constraint tags.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator. decimal.Decimal is registered as a numeric type so
// tags like gte=0 work on money fields.
func New() *Validator {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return &Validator{validate: v}
}

// ID parses a path identifier. It must be written with ASCII digits only and
// be greater than zero; signs and padding are rejected.
func (v *Validator) ID(raw string) (int64, []Failure) {
	if v.validate.Var(raw, "required,number") != nil {
		return 0, []Failure{{Field: "id", Reason: "must be a positive integer"}}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v.validate.Var(id, "gt=0") != nil {
		return 0, []Failure{{Field: "id", Reason: "must be a positive integer"}}
	}
	return id, nil
}

// Body validates body against rules. With partial set, required flags are
// ignored and only present fields are checked. Keys without a rule are
// ignored. Returned values follow rule order.
func (v *Validator) Body(rules []domain.Rule, body map[string]any, partial bool) ([]domain.Value, []Failure) {
	var (
		values   []domain.Value
		failures []Failure
	)
	for _, rule := range rules {
		raw, present := body[rule.Field]
		if !present {
			if rule.Required && !partial {
				failures = append(failures, Failure{Field: rule.Field, Reason: "is required"})
			}
			continue
		}
		if raw == nil {
			if rule.Nullable {
				values = append(values, domain.Value{Column: rule.Field, Value: nil})
				continue
			}
			failures = append(failures, Failure{Field: rule.Field, Reason: "must not be null"})
			continue
		}

		converted, reason := convert(rule.Kind, raw)
		if reason != "" {
			failures = append(failures, Failure{Field: rule.Field, Reason: reason})
			continue
		}
		if rule.Tag != "" {
			if err := v.validate.Var(converted, rule.Tag); err != nil {
				failures = append(failures, Failure{Field: rule.Field, Reason: describe(err, rule.Kind)})
				continue
			}
		}
		values = append(values, domain.Value{Column: rule.Field, Value: converted})
	}
	if len(failures) > 0 {
		return nil, failures
	}
	return values, nil
}

func convert(kind domain.Kind, raw any) (any, string) {
	switch kind {
	case domain.KindInteger:
		return toInteger(raw)
	case domain.KindString:
		s, ok := raw.(string)
		if !ok {
			return nil, "must be a string"
		}
		return strings.TrimSpace(s), ""
	case domain.KindFloat:
		return toFloat(raw)
	case domain.KindDecimal:
		return toDecimal(raw)
	case domain.KindBoolean:
		return toBoolean(raw)
	}
	return nil, "has an unsupported type"
}

func toInteger(raw any) (any, string) {
	const reason = "must be an integer"
	var s string
	switch t := raw.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = strings.TrimSpace(t)
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) {
			return nil, reason
		}
		return int64(t), ""
	default:
		return nil, reason
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, reason
	}
	return n, ""
}

func toFloat(raw any) (any, string) {
	const reason = "must be a number"
	var f float64
	var err error
	switch t := raw.(type) {
	case json.Number:
		f, err = t.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	case float64:
		f = t
	default:
		return nil, reason
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, reason
	}
	return f, ""
}

func toDecimal(raw any) (any, string) {
	const reason = "must be a number"
	var s string
	switch t := raw.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = strings.TrimSpace(t)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, reason
		}
		return decimal.NewFromFloat(t), ""
	default:
		return nil, reason
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, reason
	}
	return d, ""
}

func toBoolean(raw any) (any, string) {
	const reason = "must be a boolean"
	switch t := raw.(type) {
	case bool:
		return t, ""
	case json.Number:
		switch t.String() {
		case "0":
			return false, ""
		case "1":
			return true, ""
		}
	case float64:
		switch t {
		case 0:
			return false, ""
		case 1:
			return true, ""
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1":
			return true, ""
		case "false", "0":
			return false, ""
		}
	}
	return nil, reason
}

func describe(err error, kind domain.Kind) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "is invalid"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "gt":
		return "must be greater than " + fe.Param()
	case "lt":
		return "must be less than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "max":
		if kind == domain.KindString {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}

// DecodeObject reads a JSON object, keeping numbers as json.Number. An empty
// body decodes to an empty object.
func DecodeObject(r io.Reader) (map[string]any, error) {
	if r == nil {
		return map[string]any{}, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if body == nil {
		return nil, errors.New("body must be a JSON object")
	}
	if dec.More() {
		return nil, errors.New("body must contain a single JSON object")
	}
	return body, nil
}
