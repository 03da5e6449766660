package rest

import (
	"fmt"
	"strings"
)

// ValidateRequired raises before any network call when a required key is
// absent, nil or an empty string.
func ValidateRequired(params map[string]any, required ...string) error {
	var missing []string
	for _, key := range required {
		value, ok := params[key]
		if !ok || value == nil {
			missing = append(missing, key)
			continue
		}
		if s, isString := value.(string); isString && s == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &Error{
			Kind:    KindValidation,
			Message: fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")),
		}
	}
	return nil
}

// SanitizeBody returns a shallow copy of body with nil-valued keys dropped.
// Present-but-falsy values (0, false, "") are kept unchanged.
func SanitizeBody(body map[string]any) map[string]any {
	if body == nil {
		return nil
	}
	out := make(map[string]any, len(body))
	for key, value := range body {
		if value == nil {
			continue
		}
		out[key] = value
	}
	return out
}
