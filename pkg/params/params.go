package params

import (
	"fmt"

	"github.com/goccy/go-json"

	"erpnext-mcp/pkg/erpnext"
)

// The tool protocol only carries scalars reliably, so structured arguments
// arrive as JSON-encoded strings. These helpers decode them and fail fast
// with a validation error naming the offending parameter, before any remote
// call is issued.

// Object decodes a JSON-string argument that must be an object. An empty
// string decodes to nil.
func Object(name, raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, invalid(name, "is not a valid JSON object: "+err.Error())
	}
	return out, nil
}

// Filters decodes a filter argument: either a field-to-value object or a
// list of [field, operator, value] triples. The expression is passed
// through opaquely once decoded.
func Filters(name, raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	var out any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, invalid(name, "is not valid JSON: "+err.Error())
	}
	switch out.(type) {
	case map[string]any, []any:
		return out, nil
	default:
		return nil, invalid(name, "must be a JSON object or array")
	}
}

// StringList reads an array-of-strings argument from raw tool arguments.
// Non-string elements are skipped.
func StringList(args map[string]any, name string) []string {
	switch v := args[name].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// OptionalBool reads a boolean argument that distinguishes "absent" from
// false. Returns nil when the argument is missing or not a boolean.
func OptionalBool(args map[string]any, name string) *bool {
	if v, ok := args[name].(bool); ok {
		return &v
	}
	return nil
}

func invalid(name, detail string) *erpnext.Error {
	return &erpnext.Error{
		Kind:    erpnext.KindValidation,
		Message: fmt.Sprintf("parameter %q %s", name, detail),
	}
}
