// Package validation evaluates declarative, pipe-delimited rule tables
// ("required|max:120|min:3") against flat request data and reports every
// failing rule as a {field, message, validation} triple, in rule-table
// order. The exists rule runs against the live database through an
// ExistsChecker so referential integrity is enforced before any write.
package validation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// FieldError is one failing rule on one field. A field can emit several.
type FieldError struct {
	Field      string `json:"field"`
	Message    string `json:"message"`
	Validation string `json:"validation"`
}

// Messages maps a rule kind ("required") or a field-scoped rule kind
// ("id.exists") to a localized message. Field-scoped entries win.
type Messages map[string]string

// FieldRules binds one field to its pipe-delimited rule tokens.
type FieldRules struct {
	Field string
	Rules string
}

// RuleSet is an ordered rule table. Order determines error order.
type RuleSet []FieldRules

// ExistsChecker confirms a referenced row exists. Implementations must
// query the live persistence layer, not a cache.
type ExistsChecker interface {
	Exists(ctx context.Context, table, column string, value interface{}) (bool, error)
}

// Validator evaluates rule sets. Safe for concurrent use.
type Validator struct {
	exists ExistsChecker
}

func New(exists ExistsChecker) *Validator {
	return &Validator{exists: exists}
}

// ValidateAll evaluates every rule of every field in order and returns the
// collected failures. The error return is reserved for infrastructure
// problems (an exists lookup that cannot be answered); callers map it to
// a generic 500, not a validation failure.
func (v *Validator) ValidateAll(ctx context.Context, data map[string]interface{}, rules RuleSet, messages Messages) ([]FieldError, error) {
	var failures []FieldError

	for _, fr := range rules {
		value, present := data[fr.Field]
		empty := !present || isEmpty(value)

		for _, token := range strings.Split(fr.Rules, "|") {
			name, args := parseToken(token)
			if name == "" {
				continue
			}

			if name == "required" {
				if empty {
					failures = append(failures, v.fail(fr.Field, name, messages))
				}
				continue
			}

			// Every other rule defers to required on empty input.
			if empty {
				continue
			}

			ok, err := v.check(ctx, data, fr.Field, value, name, args)
			if err != nil {
				return nil, err
			}
			if !ok {
				failures = append(failures, v.fail(fr.Field, name, messages))
			}
		}
	}

	return failures, nil
}

func (v *Validator) check(ctx context.Context, data map[string]interface{}, field string, value interface{}, name string, args []string) (bool, error) {
	switch name {
	case "min":
		return checkBound(value, args, func(have, want float64) bool { return have >= want }), nil
	case "max":
		return checkBound(value, args, func(have, want float64) bool { return have <= want }), nil
	case "integer":
		return isInteger(value), nil
	case "above":
		if len(args) != 1 {
			return false, nil
		}
		limit, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return false, nil
		}
		num, ok := toFloat(value)
		if !ok {
			// Not numeric at all; the integer rule reports that.
			return true, nil
		}
		return num > limit, nil
	case "range":
		if len(args) != 2 {
			return false, nil
		}
		lo, err1 := strconv.ParseFloat(args[0], 64)
		hi, err2 := strconv.ParseFloat(args[1], 64)
		if err1 != nil || err2 != nil {
			return false, nil
		}
		num, ok := toFloat(value)
		if !ok {
			return true, nil
		}
		return num >= lo && num <= hi, nil
	case "in":
		s := toString(value)
		for _, allowed := range args {
			if s == allowed {
				return true, nil
			}
		}
		return false, nil
	case "email":
		return is.EmailFormat.Validate(toString(value)) == nil, nil
	case "confirmed":
		confirmation, ok := data[field+"_confirmation"]
		return ok && toString(value) == toString(confirmation), nil
	case "exists":
		if v.exists == nil {
			return false, fmt.Errorf("validation: no exists checker configured")
		}
		table := ""
		column := field
		if len(args) > 0 {
			table = args[0]
		}
		if len(args) > 1 {
			column = args[1]
		}
		return v.exists.Exists(ctx, table, column, toString(value))
	default:
		return false, fmt.Errorf("validation: unknown rule %q on field %q", name, field)
	}
}

func (v *Validator) fail(field, rule string, messages Messages) FieldError {
	return FieldError{
		Field:      field,
		Message:    lookupMessage(field, rule, messages),
		Validation: rule,
	}
}

func lookupMessage(field, rule string, messages Messages) string {
	if msg, ok := messages[field+"."+rule]; ok {
		return msg
	}
	if msg, ok := messages[rule]; ok {
		return msg
	}
	return fmt.Sprintf("%s validation failed on %s", rule, field)
}

// Only copies the listed fields out of data, skipping absent ones, so
// unexpected request fields never reach validation or persistence.
func Only(data map[string]interface{}, fields ...string) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		if v, ok := data[f]; ok {
			out[f] = v
		}
	}
	return out
}

// ToString renders a request value the way rule checks see it.
func ToString(value interface{}) string {
	return toString(value)
}

// ToInt64 converts an integral request value (JSON number or numeric
// string) to int64.
func ToInt64(value interface{}) (int64, bool) {
	num, ok := toFloat(value)
	if !ok || num != float64(int64(num)) {
		return 0, false
	}
	return int64(num), true
}

func parseToken(token string) (string, []string) {
	token = strings.TrimSpace(token)
	name, raw, found := strings.Cut(token, ":")
	if !found || raw == "" {
		return name, nil
	}
	args := strings.Split(raw, ",")
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}
	return name, args
}

// checkBound applies min/max: string length for strings, numeric bound
// for numbers.
func checkBound(value interface{}, args []string, cmp func(have, want float64) bool) bool {
	if len(args) != 1 {
		return false
	}
	want, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return false
	}

	if s, ok := value.(string); ok {
		return cmp(float64(len([]rune(s))), want)
	}
	if num, ok := toFloat(value); ok {
		return cmp(num, want)
	}
	return false
}

func isEmpty(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []interface{}:
		return len(v) == 0
	default:
		return false
	}
}

func isInteger(value interface{}) bool {
	switch v := value.(type) {
	case int, int32, int64:
		return true
	case float64:
		return v == float64(int64(v))
	case string:
		_, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return err == nil
	default:
		return false
	}
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func toString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		// JSON numbers decode as float64; render integral values without
		// a fraction so "exists" lookups and "in" matches behave.
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
