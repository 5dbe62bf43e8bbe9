package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind is the value type a client-writable field accepts.
type Kind int

const (
	KindInteger Kind = iota
	KindString
	KindFloat
	KindDecimal // exact numeric, e.g. money
	KindBoolean
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindString:
		return "string"
	case KindFloat, KindDecimal:
		return "number"
	case KindBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Rule describes one client-writable column and how its input is checked.
// Tag holds extra go-playground/validator constraints applied after the
// value has been converted to its Kind (e.g. "gt=0", "required,max=100").
type Rule struct {
	Field    string
	Kind     Kind
	Required bool
	Nullable bool
	Tag      string
}

// Join enriches read results with a label from a referenced table.
// It is never persisted.
type Join struct {
	ForeignKey  string // column on the owning table
	Table       string // referenced table
	LabelColumn string // column of the referenced table to expose
	Alias       string // output field name
}

// Coercion transforms a validated value before it is written.
type Coercion func(any) any

// Value is a validated column assignment. Column always comes from a
// Resource's rule set, never from request keys.
type Value struct {
	Column string
	Value  any
}

// Row is one rendered record, keyed by output field name.
type Row map[string]any

// Resource is the static description of one manageable table.
type Resource struct {
	Path      string // route segment, e.g. "productos"
	Table     string
	Singular  string // human label used in messages
	Plural    string
	Rules     []Rule // create rules; order defines column order
	Joins     []Join
	Coercions map[string]Coercion
}

// Columns returns the persisted columns in projection order.
func (r *Resource) Columns() []string {
	cols := make([]string, 0, len(r.Rules)+3)
	cols = append(cols, "id")
	for _, rule := range r.Rules {
		cols = append(cols, rule.Field)
	}
	return append(cols, "created_at", "updated_at")
}

// CreateRules returns the rules used by create: required fields must be present.
func (r *Resource) CreateRules() []Rule {
	return r.Rules
}

// UpdateRules returns the rules used by partial update: every field is optional.
func (r *Resource) UpdateRules() []Rule {
	rules := make([]Rule, len(r.Rules))
	for i, rule := range r.Rules {
		rule.Required = false
		rules[i] = rule
	}
	return rules
}

// Writable reports whether column is part of the resource's allow-list.
func (r *Resource) Writable(column string) bool {
	for _, rule := range r.Rules {
		if rule.Field == column {
			return true
		}
	}
	return false
}

// Coerce applies the resource's write coercions in place and returns values.
func (r *Resource) Coerce(values []Value) []Value {
	for i, v := range values {
		if fn, ok := r.Coercions[v.Column]; ok && v.Value != nil {
			values[i].Value = fn(v.Value)
		}
	}
	return values
}

// Normalize converts storage representations into their API form:
// boolean fields become JSON booleans whatever the driver returned and
// decimal fields become JSON numbers.
func (r *Resource) Normalize(row Row) Row {
	for _, rule := range r.Rules {
		v, ok := row[rule.Field]
		if !ok || v == nil {
			continue
		}
		switch rule.Kind {
		case KindBoolean:
			if b, ok := toBool(v); ok {
				row[rule.Field] = b
			}
		case KindDecimal:
			if n, ok := toNumber(v); ok {
				row[rule.Field] = n
			}
		}
	}
	return row
}

// BoolToSmallint stores booleans as 0/1.
func BoolToSmallint(v any) any {
	if b, ok := v.(bool); ok {
		if b {
			return int64(1)
		}
		return int64(0)
	}
	return v
}

func toBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case int64:
		return t != 0, true
	case int32:
		return t != 0, true
	case int:
		return t != 0, true
	case float64:
		return t != 0, true
	case []byte:
		return toBool(string(t))
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return false, false
		}
		return b, true
	}
	return false, false
}

func toNumber(v any) (json.Number, bool) {
	var d decimal.Decimal
	var err error
	switch t := v.(type) {
	case decimal.Decimal:
		d = t
	case []byte:
		d, err = decimal.NewFromString(string(t))
	case string:
		d, err = decimal.NewFromString(t)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return "", false
		}
		d = decimal.NewFromFloat(t)
	case int64:
		d = decimal.NewFromInt(t)
	default:
		return "", false
	}
	if err != nil {
		return "", false
	}
	return json.Number(d.String()), true
}
