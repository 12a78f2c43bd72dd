package domain

import (
	"encoding/json"
	"fmt"
)

// APIError is reported when the dataset API answers with an explicit error envelope.
type APIError struct {
	Message string
}

func (e *APIError) Error() string { return e.Message }

// FormatError is reported when a response is not a sequence of records.
type FormatError struct {
	Expected string
	Actual   string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unexpected API response format: expected %s, got %s", e.Expected, e.Actual)
}

// DecodeResponse decodes a response body and validates it with ValidateResponse.
func DecodeResponse(body []byte) ([]RawRecord, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &FormatError{Expected: "array", Actual: "malformed JSON"}
	}
	return ValidateResponse(payload)
}

// ValidateResponse gates a decoded payload before any per-record processing.
// An error envelope yields *APIError with the server's text; anything other
// than a sequence yields *FormatError. Sequence elements that are not objects
// pass through as empty records and normalize to defaults.
func ValidateResponse(payload any) ([]RawRecord, error) {
	if obj, ok := payload.(map[string]any); ok {
		if msg, ok := errorMessage(obj["error"]); ok {
			return nil, &APIError{Message: msg}
		}
	}

	switch items := payload.(type) {
	case []any:
		out := make([]RawRecord, len(items))
		for i, item := range items {
			if m, ok := item.(map[string]any); ok {
				out[i] = RawRecord(m)
			}
		}
		return out, nil
	case []map[string]any:
		out := make([]RawRecord, len(items))
		for i, m := range items {
			out[i] = RawRecord(m)
		}
		return out, nil
	case []RawRecord:
		return items, nil
	default:
		return nil, &FormatError{Expected: "array", Actual: jsonKind(payload)}
	}
}

// errorMessage reports whether an "error" member is set to a truthy value and
// renders it as text.
func errorMessage(v any) (string, bool) {
	switch e := v.(type) {
	case nil:
		return "", false
	case string:
		return e, e != ""
	case bool:
		return "true", e
	default:
		if f, ok := asFloat(v); ok {
			return formatNumber(f), f != 0
		}
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v), true
		}
		return string(b), true
	}
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
