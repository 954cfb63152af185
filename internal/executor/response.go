package executor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmespath/go-jmespath"
)

// ErrUnusableJSON is returned when a body decodes to nothing usable
var ErrUnusableJSON = errors.New("could not parse JSON")

// Response is a successfully decoded JSON response body
type Response struct {
	Raw   []byte
	Value any
}

// ParseResponse decodes body. Empty, invalid and `null` bodies are rejected.
func ParseResponse(body []byte) (Response, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Response{}, ErrUnusableJSON
	}

	var value any
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrUnusableJSON, err)
	}
	if value == nil {
		return Response{}, ErrUnusableJSON
	}

	return Response{Raw: trimmed, Value: value}, nil
}

// Lookup evaluates a JMESPath expression against the decoded body
func (r Response) Lookup(expr string) (any, error) {
	result, err := jmespath.Search(expr, r.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid JMESPath expression '%s': %w", expr, err)
	}
	return result, nil
}

// String returns the string found at expr, or "" when absent or not a string
func (r Response) String(expr string) string {
	v, err := r.Lookup(expr)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Decode unmarshals the raw body into v
func (r Response) Decode(v any) error {
	return json.Unmarshal(r.Raw, v)
}
