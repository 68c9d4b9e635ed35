package applicant

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

var (
	// ErrNotObject is returned when an import payload is valid JSON but not an object.
	ErrNotObject = errors.New("payload is not a JSON object")
	// ErrInvalidRecord is returned for malformed JSON and for values that do
	// not fit the record's field types.
	ErrInvalidRecord = errors.New("invalid record")
)

// nestedKeys are merged key by key instead of being replaced wholesale.
var nestedKeys = map[string]bool{
	"ehegatte": true,
	"kinder":   true,
	"paket":    true,
}

// Merge applies a partial record, as returned by the extraction service, on
// top of rec and returns the result. Top-level keys replace the current
// value; the spouse and package objects are merged key by key and children
// are merged by position, with extra children appended.
//
// rec is never modified. Malformed or non-object payloads are rejected.
func Merge(rec Applicant, payload []byte) (Applicant, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return rec, fmt.Errorf("empty payload: %w", ErrNotObject)
	}

	var incoming any
	if err := json.Unmarshal(trimmed, &incoming); err != nil {
		return rec, fmt.Errorf("%w: malformed JSON payload: %w", ErrInvalidRecord, err)
	}
	patch, ok := incoming.(map[string]any)
	if !ok {
		return rec, ErrNotObject
	}

	base, err := toMap(rec)
	if err != nil {
		return rec, err
	}

	for key, value := range patch {
		if value == nil {
			continue
		}
		if !nestedKeys[key] {
			base[key] = value
			continue
		}
		base[key] = mergeNested(base[key], value)
	}

	raw, err := json.Marshal(base)
	if err != nil {
		return rec, fmt.Errorf("failed to encode merged record: %w", err)
	}
	var out Applicant
	if err := json.Unmarshal(raw, &out); err != nil {
		return rec, fmt.Errorf("%w: payload does not match the record shape: %w", ErrInvalidRecord, err)
	}
	return out, nil
}

// Decode parses a complete record.
func Decode(data []byte) (Applicant, error) {
	var rec Applicant
	if err := json.Unmarshal(data, &rec); err != nil {
		return Applicant{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return rec, nil
}

// Encode renders a record as indented JSON.
func Encode(rec Applicant) ([]byte, error) {
	return json.MarshalIndent(rec, "", "  ")
}

func toMap(rec Applicant) (map[string]any, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	m := make(map[string]any)
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return m, nil
}

func mergeNested(current, incoming any) any {
	switch in := incoming.(type) {
	case map[string]any:
		cur, ok := current.(map[string]any)
		if !ok {
			return in
		}
		out := make(map[string]any, len(cur)+len(in))
		for k, v := range cur {
			out[k] = v
		}
		for k, v := range in {
			if v == nil {
				continue
			}
			out[k] = v
		}
		return out
	case []any:
		cur, _ := current.([]any)
		out := make([]any, 0, max(len(cur), len(in)))
		for i := 0; i < max(len(cur), len(in)); i++ {
			switch {
			case i >= len(in):
				out = append(out, cur[i])
			case i >= len(cur):
				out = append(out, in[i])
			default:
				out = append(out, mergeNested(cur[i], in[i]))
			}
		}
		return out
	default:
		return incoming
	}
}
