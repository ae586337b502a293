package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// OutputShape declares what structure a stage expects back from the model.
type OutputShape string

const (
	// ShapeObject expects a single JSON object.
	ShapeObject OutputShape = "object"
	// ShapeArray expects a JSON array of objects.
	ShapeArray OutputShape = "array"
	// ShapeText expects free prose; no normalization is applied.
	ShapeText OutputShape = "text"
)

// NormalizedResult is the outcome of normalizing a model response.
// Exactly one of Object or Array is set, matching the requested shape.
type NormalizedResult struct {
	Object json.RawMessage
	Array  json.RawMessage
}

// ParseError reports that a response could not be normalized into the
// requested shape. It carries the original raw text so callers can log it
// for offline inspection; malformed output is the common case with
// non-deterministic generation, not the exception.
type ParseError struct {
	Shape OutputShape
	Raw   string
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse failure (shape=%s): %v", e.Shape, e.Cause)
	}
	return fmt.Sprintf("parse failure (shape=%s)", e.Shape)
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// thinkTagPattern matches <think>...</think> tags that may appear at the start of LLM responses.
var thinkTagPattern = regexp.MustCompile(`(?s)^[\s]*<think>.*?</think>[\s]*`)

// Normalize extracts a single well-formed JSON value of the requested shape
// from arbitrary model output. It tolerates wrapping prose, markdown fences,
// and a single-object response where an array was requested (the object is
// wrapped in a one-element array: a partial result beats total failure).
// It never panics; failure is reported as a *ParseError.
func Normalize(raw string, shape OutputShape) (*NormalizedResult, error) {
	if shape == ShapeText {
		return nil, &ParseError{Shape: shape, Raw: raw, Cause: fmt.Errorf("text shape is not normalized")}
	}

	jsonStr, err := ExtractJSON(raw)
	if err != nil {
		return nil, &ParseError{Shape: shape, Raw: raw, Cause: err}
	}

	isArray := jsonStr[0] == '['

	switch shape {
	case ShapeArray:
		if isArray {
			return &NormalizedResult{Array: json.RawMessage(jsonStr)}, nil
		}
		// Single object where an array was requested: wrap it.
		return &NormalizedResult{Array: json.RawMessage("[" + jsonStr + "]")}, nil

	case ShapeObject:
		if !isArray {
			return &NormalizedResult{Object: json.RawMessage(jsonStr)}, nil
		}
		// Array where an object was requested: take the first element.
		var elems []json.RawMessage
		if err := json.Unmarshal([]byte(jsonStr), &elems); err == nil && len(elems) > 0 {
			if len(elems[0]) > 0 && elems[0][0] == '{' {
				return &NormalizedResult{Object: elems[0]}, nil
			}
		}
		return nil, &ParseError{Shape: shape, Raw: raw, Cause: fmt.Errorf("expected object, got array without object elements")}

	default:
		return nil, &ParseError{Shape: shape, Raw: raw, Cause: fmt.Errorf("unknown shape %q", shape)}
	}
}

// ExtractJSON extracts JSON content from an LLM response that may contain
// <think> tags, markdown code blocks, or other formatting.
func ExtractJSON(response string) (string, error) {
	// Strip <think>...</think> tags from the start of the response
	cleaned := thinkTagPattern.ReplaceAllString(response, "")

	// Find the first occurrence of { or [ to determine JSON type
	objStart := strings.IndexByte(cleaned, '{')
	arrStart := strings.IndexByte(cleaned, '[')

	// Try whichever comes first (or the one that exists)
	if objStart >= 0 && (arrStart < 0 || objStart < arrStart) {
		if jsonStr, ok := extractBalancedJSON(cleaned, '{', '}'); ok {
			if json.Valid([]byte(jsonStr)) {
				return jsonStr, nil
			}
		}
	}

	if arrStart >= 0 {
		if jsonStr, ok := extractBalancedJSON(cleaned, '[', ']'); ok {
			if json.Valid([]byte(jsonStr)) {
				return jsonStr, nil
			}
		}
	}

	// Last resort: check if the entire cleaned response is valid JSON
	trimmed := strings.TrimSpace(cleaned)
	if len(trimmed) > 0 && json.Valid([]byte(trimmed)) {
		return trimmed, nil
	}

	return "", fmt.Errorf("no valid JSON found in response")
}

// extractBalancedJSON finds the first balanced JSON structure starting with openChar.
// It handles nested structures by counting bracket depth.
func extractBalancedJSON(s string, openChar, closeChar byte) (string, bool) {
	start := strings.IndexByte(s, openChar)
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}

		if c == '\\' && inString {
			escaped = true
			continue
		}

		if c == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		if c == openChar {
			depth++
		} else if c == closeChar {
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}

// DecodeArray normalizes a response with ShapeArray and unmarshals the
// recovered array into a typed slice.
func DecodeArray[T any](response string) ([]T, error) {
	result, err := Normalize(response, ShapeArray)
	if err != nil {
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(result.Array, &items); err != nil {
		return nil, &ParseError{Shape: ShapeArray, Raw: response, Cause: fmt.Errorf("unmarshal array: %w", err)}
	}
	return items, nil
}

// DecodeObject normalizes a response with ShapeObject and unmarshals the
// recovered object into the target type.
func DecodeObject[T any](response string) (T, error) {
	var target T

	result, err := Normalize(response, ShapeObject)
	if err != nil {
		return target, err
	}

	if err := json.Unmarshal(result.Object, &target); err != nil {
		return target, &ParseError{Shape: ShapeObject, Raw: response, Cause: fmt.Errorf("unmarshal object: %w", err)}
	}
	return target, nil
}
