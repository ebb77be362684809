package entity

import (
	"testing"

	"github.com/scrose/mle-api/pkg/schema"
)

func TestSanitizeBoolean(t *testing.T) {
	truthy := []any{true, "true", "TRUE", "t", "1", "yes", "on", 1, int64(2), 1.5}
	for _, v := range truthy {
		if got := Sanitize(schema.SemanticBoolean, v); got != true {
			t.Fatalf("Sanitize(boolean, %v) = %v, want true", v, got)
		}
	}
	falsy := []any{false, "false", "0", "no", "", "anything", 0, int64(0), 0.0, []string{"x"}}
	for _, v := range falsy {
		if got := Sanitize(schema.SemanticBoolean, v); got != false {
			t.Fatalf("Sanitize(boolean, %v) = %v, want false", v, got)
		}
	}
}

func TestSanitizeInteger(t *testing.T) {
	if got := Sanitize(schema.SemanticInteger, "151"); got != int64(151) {
		t.Fatalf("parse string: got %v", got)
	}
	if got := Sanitize(schema.SemanticInteger, 42); got != int64(42) {
		t.Fatalf("coerce int: got %v", got)
	}
	if got := Sanitize(schema.SemanticInteger, 3.6); got != int64(4) {
		t.Fatalf("round float: got %v", got)
	}
	for _, v := range []any{"", "  ", "not a number", []int{1}} {
		if got := Sanitize(schema.SemanticInteger, v); got != nil {
			t.Fatalf("Sanitize(integer, %v) = %v, want nil", v, got)
		}
	}
}

func TestSanitizeFloat(t *testing.T) {
	if got := Sanitize(schema.SemanticFloat, "51.18"); got != 51.18 {
		t.Fatalf("parse string: got %v", got)
	}
	if got := Sanitize(schema.SemanticFloat, 7); got != 7.0 {
		t.Fatalf("coerce int: got %v", got)
	}
	if got := Sanitize(schema.SemanticFloat, "n/a"); got != nil {
		t.Fatalf("unparseable float: got %v, want nil", got)
	}
}

func TestSanitizeTextStripsHTML(t *testing.T) {
	got := Sanitize(schema.SemanticText, `<script>alert("x")</script>Mount <b>Rundle</b>`)
	if got != `alert("x")Mount Rundle` {
		t.Fatalf("strip markup: got %q", got)
	}
	if got := Sanitize(schema.SemanticText, "<br/>"); got != nil {
		t.Fatalf("markup-only text should reduce to nil, got %v", got)
	}
}

func TestSanitizeJSON(t *testing.T) {
	if got := Sanitize(schema.SemanticJSON, `{"a":1}`); got != `{"a":1}` {
		t.Fatalf("valid json passthrough: got %v", got)
	}
	if got := Sanitize(schema.SemanticJSON, map[string]any{"a": 1}); got != `{"a":1}` {
		t.Fatalf("encode map: got %v", got)
	}
	if got := Sanitize(schema.SemanticJSON, "plain"); got != `"plain"` {
		t.Fatalf("encode bare string: got %v", got)
	}
	if got := Sanitize(schema.SemanticJSON, ""); got != nil {
		t.Fatalf("empty json input: got %v, want nil", got)
	}
}

func TestSanitizePoint(t *testing.T) {
	if got := Sanitize(schema.SemanticPoint, []float64{51.18, -115.57}); got != "(51.18,-115.57)" {
		t.Fatalf("tuple from slice: got %v", got)
	}
	if got := Sanitize(schema.SemanticPoint, "(1,2)"); got != "(1,2)" {
		t.Fatalf("tuple passthrough: got %v", got)
	}
	if got := Sanitize(schema.SemanticPoint, "1,2"); got != "(1,2)" {
		t.Fatalf("wrap bare pair: got %v", got)
	}
	if got := Sanitize(schema.SemanticPoint, 12); got != nil {
		t.Fatalf("unrecognized point input: got %v, want nil", got)
	}
}

func TestSanitizeDefault(t *testing.T) {
	if got := Sanitize(schema.SemanticDefault, ""); got != nil {
		t.Fatalf("empty string should normalize to nil, got %v", got)
	}
	if got := Sanitize(schema.SemanticDefault, "2026-08-01"); got != "2026-08-01" {
		t.Fatalf("non-empty default passthrough: got %v", got)
	}
	if got := Sanitize(schema.SemanticText, nil); got != nil {
		t.Fatalf("nil input must stay nil, got %v", got)
	}
}
