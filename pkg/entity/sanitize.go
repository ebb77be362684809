package entity

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/scrose/mle-api/pkg/schema"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// Sanitize coerces value according to its semantic type. The same rule set
// runs on every write path (create, update, move), so a value stored through
// any operation is indistinguishable from one stored through another.
//
// Rules: booleans coerce from common truthy forms; text has HTML tags
// stripped; integers and floats parse-or-nil; structured values are
// stringified as JSON; point tuples serialize as a parenthesized comma
// list; for every other type an empty string normalizes to nil.
func Sanitize(semantic schema.SemanticType, value any) any {
	if value == nil {
		return nil
	}
	switch semantic {
	case schema.SemanticBoolean:
		return sanitizeBoolean(value)
	case schema.SemanticInteger:
		return sanitizeInteger(value)
	case schema.SemanticFloat:
		return sanitizeFloat(value)
	case schema.SemanticText:
		return sanitizeText(value)
	case schema.SemanticJSON:
		return sanitizeJSON(value)
	case schema.SemanticPoint:
		return sanitizePoint(value)
	default:
		if s, ok := value.(string); ok && s == "" {
			return nil
		}
		return value
	}
}

func sanitizeBoolean(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "t", "1", "yes", "on":
			return true
		}
		return false
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	}
	return false
}

func sanitizeInteger(value any) any {
	switch v := value.(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case float32:
		return int64(math.Round(float64(v)))
	case float64:
		return int64(math.Round(v))
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil
		}
		return n
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return nil
		}
		return n
	}
	return nil
}

func sanitizeFloat(value any) any {
	switch v := value.(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return f
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil
		}
		return f
	}
	return nil
}

func sanitizeText(value any) any {
	s, ok := value.(string)
	if !ok {
		s = fmt.Sprintf("%v", value)
	}
	s = htmlTagPattern.ReplaceAllString(s, "")
	if s == "" {
		return nil
	}
	return s
}

func sanitizeJSON(value any) any {
	switch v := value.(type) {
	case string:
		if v == "" {
			return nil
		}
		if json.Valid([]byte(v)) {
			return v
		}
		// Treat a non-JSON string as a bare value to encode.
		raw, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		return string(raw)
	case []byte:
		if len(v) == 0 {
			return nil
		}
		if json.Valid(v) {
			return string(v)
		}
		return nil
	default:
		raw, err := json.Marshal(value)
		if err != nil {
			return nil
		}
		return string(raw)
	}
}

// sanitizePoint serializes coordinate tuples as "(x,y)". Strings already in
// tuple form pass through; anything unrecognizable drops to nil.
func sanitizePoint(value any) any {
	switch v := value.(type) {
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
			return s
		}
		return "(" + s + ")"
	case []float64:
		return formatTuple(toAnySlice(v))
	case []any:
		return formatTuple(v)
	}
	return nil
}

func toAnySlice(fs []float64) []any {
	out := make([]any, len(fs))
	for i, f := range fs {
		out[i] = f
	}
	return out
}

func formatTuple(parts []any) any {
	if len(parts) == 0 {
		return nil
	}
	strs := make([]string, len(parts))
	for i, p := range parts {
		strs[i] = fmt.Sprintf("%v", p)
	}
	return "(" + strings.Join(strs, ",") + ")"
}
