package tool

import (
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"strings"
)

var (
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
	urlPattern    = regexp.MustCompile(`https?://[^\s"'<>]+`)
)

// DecodeArgs unmarshals tool call arguments into v, repairing the common
// ways models mangle them before giving up:
//
//   - empty arguments decode as {}
//   - markdown code fences are stripped
//   - a JSON object that was itself encoded as a JSON string is unwrapped
//   - text around the outermost {...} is discarded
//   - trailing commas before } or ] are removed
//   - a bare (or quoted) string fills the single required string field of v
//
// Returns *ErrInvalidArguments when none of the repairs yield valid input.
func DecodeArgs(raw string, v any) error {
	s := strings.TrimSpace(raw)
	if s == "" {
		s = "{}"
	}

	firstErr := json.Unmarshal([]byte(s), v)
	if firstErr == nil {
		return nil
	}

	s = stripFences(s)

	var inner string
	if err := json.Unmarshal([]byte(s), &inner); err == nil {
		s = strings.TrimSpace(inner)
	}

	if obj, ok := outermostObject(s); ok {
		obj = trailingComma.ReplaceAllString(obj, "$1")
		if err := json.Unmarshal([]byte(obj), v); err == nil {
			return nil
		}
	}

	if fillSingleRequired(s, v) {
		return nil
	}
	return &ErrInvalidArguments{Raw: raw, Err: firstErr}
}

func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.ContainsAny(s[:i], "{[\"") {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func outermostObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// fillSingleRequired assigns s to the only required string field of the
// struct v points to. It refuses anything that looks like JSON structure.
func fillSingleRequired(s string, v any) bool {
	if s == "" || strings.ContainsAny(s[:1], "{[") {
		return false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return false
	}
	elem := rv.Elem()
	t := elem.Type()

	idx := -1
	name := ""
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Tag.Get("required") != "true" {
			continue
		}
		if f.Type.Kind() != reflect.String || idx >= 0 {
			return false
		}
		idx = i
		name = strings.Split(f.Tag.Get("json"), ",")[0]
	}
	if idx < 0 {
		return false
	}

	value := strings.Trim(s, "\"'` ")
	if name == "url" {
		m := urlPattern.FindString(value)
		if m == "" {
			return false
		}
		value = strings.TrimRight(m, ".,;)")
	}
	if value == "" {
		return false
	}
	elem.Field(idx).SetString(value)
	return true
}

// IsInvalidArguments reports whether err came from DecodeArgs giving up.
func IsInvalidArguments(err error) bool {
	var target *ErrInvalidArguments
	return errors.As(err, &target)
}
