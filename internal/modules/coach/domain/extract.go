package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyReply   = errors.New("empty reply")
	ErrNoJSONObject = errors.New("no json object found in reply")
	ErrInvalidJSON  = errors.New("invalid json structure in reply")
)

// ExtractJSON returns the JSON object embedded in a model reply. Code fences
// are dropped first; if the remainder is not valid JSON the span from the
// first '{' to the last '}' is tried.
func ExtractJSON(text string) (string, error) {
	return extract(text, '{', '}')
}

// ExtractJSONArray is ExtractJSON for replies carrying a top-level array.
func ExtractJSONArray(text string) (string, error) {
	return extract(text, '[', ']')
}

// Decode extracts the JSON object from text into v.
func Decode(text string, v any) error {
	raw, err := ExtractJSON(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return nil
}

// DecodeList extracts a JSON array from text into v. A reply wrapping the
// array in an object under a single key is accepted too.
func DecodeList(text string, v any) error {
	raw, err := ExtractJSONArray(text)
	if err == nil {
		if err := json.Unmarshal([]byte(raw), v); err == nil {
			return nil
		}
	}
	obj, objErr := ExtractJSON(text)
	if objErr != nil {
		if err != nil {
			return err
		}
		return objErr
	}
	wrapper := map[string]json.RawMessage{}
	if err := json.Unmarshal([]byte(obj), &wrapper); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	for _, inner := range wrapper {
		if err := json.Unmarshal(inner, v); err == nil {
			return nil
		}
	}
	return ErrInvalidJSON
}

func extract(text string, opening, closing byte) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyReply
	}
	clean := strings.ReplaceAll(text, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)
	if len(clean) > 0 && clean[0] == opening && json.Valid([]byte(clean)) {
		return clean, nil
	}
	first := strings.IndexByte(clean, opening)
	last := strings.LastIndexByte(clean, closing)
	if first < 0 || last < first {
		return "", ErrNoJSONObject
	}
	candidate := clean[first : last+1]
	if !json.Valid([]byte(candidate)) {
		return "", ErrInvalidJSON
	}
	return candidate, nil
}
