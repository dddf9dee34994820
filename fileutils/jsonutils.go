package fileutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DecodeModelJSON unmarshals a model reply into v. Strict-schema replies are
// plain JSON, but models occasionally wrap the object in a markdown fence or
// surrounding prose, so both wrappers are peeled before giving up.
func DecodeModelJSON(reply string, v any) error {
	s := strings.TrimSpace(reply)
	if body, fenced := stripFence(s); fenced {
		s = body
	}
	if s == "" {
		return errors.New("DecodeModelJSON: empty model reply")
	}

	if json.Unmarshal([]byte(s), v) == nil {
		return nil
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return errors.New("DecodeModelJSON: reply contains no JSON object")
	}
	if err := json.Unmarshal([]byte(s[start:end+1]), v); err != nil {
		return fmt.Errorf("DecodeModelJSON: %w", err)
	}
	return nil
}

// stripFence unwraps a ```json ... ``` (or bare ```) block.
func stripFence(s string) (string, bool) {
	if !strings.HasPrefix(s, "```") {
		return "", false
	}
	body := strings.TrimPrefix(s, "```json")
	body = strings.TrimPrefix(body, "```")
	body, ok := strings.CutSuffix(strings.TrimSpace(body), "```")
	if !ok {
		return "", false
	}
	return strings.TrimSpace(body), true
}
