package entity

import (
	"testing"

	"github.com/scrose/mle-api/pkg/schema"
)

type captureLogger struct {
	warnings []string
}

func (l *captureLogger) Debug(msg string, args ...any) {}
func (l *captureLogger) Info(msg string, args ...any)  {}
func (l *captureLogger) Warn(msg string, args ...any)  { l.warnings = append(l.warnings, msg) }
func (l *captureLogger) Error(msg string, args ...any) {}

func testFactory(t *testing.T) (*Factory, *captureLogger) {
	t.Helper()
	registry, err := schema.Default()
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}
	log := &captureLogger{}
	return NewFactory(registry, WithLogger(log)), log
}

func TestFactoryUnknownType(t *testing.T) {
	f, _ := testFactory(t)
	if _, err := f.New(schema.Type("widgets")); err == nil {
		t.Fatalf("expected unknown type error")
	}
}

func TestInstanceRoundTrip(t *testing.T) {
	f, _ := testFactory(t)
	ctor, err := f.New(schema.TypeStations)
	if err != nil {
		t.Fatalf("new constructor: %v", err)
	}
	inst := ctor(map[string]any{
		"name":      "Mount <b>Rundle</b>",
		"lat":       "51.18",
		"lng":       -115.57,
		"published": "true",
	})
	if got := inst.GetValue("name"); got != "Mount Rundle" {
		t.Fatalf("name = %v", got)
	}
	if got := inst.GetValue("lat"); got != 51.18 {
		t.Fatalf("lat = %v", got)
	}
	if got := inst.GetValue("published"); got != true {
		t.Fatalf("published = %v", got)
	}
	if got := inst.GetValue("elev"); got != nil {
		t.Fatalf("unset attribute should be nil, got %v", got)
	}
	data := inst.GetData()
	if len(data) != 8 {
		t.Fatalf("expected every schema attribute in output, got %d keys", len(data))
	}
	if _, present := data["elev"]; !present {
		t.Fatalf("unset attribute missing from serialized record")
	}
}

func TestInstanceDropsUnknownKeys(t *testing.T) {
	f, log := testFactory(t)
	ctor, err := f.New(schema.TypeStations)
	if err != nil {
		t.Fatalf("new constructor: %v", err)
	}
	inst := ctor(map[string]any{"name": "Test", "bogus": "value"})
	if got := inst.GetValue("bogus"); got != nil {
		t.Fatalf("unknown key must not be stored, got %v", got)
	}
	if len(log.warnings) != 1 {
		t.Fatalf("expected one dropped-attribute warning, got %d", len(log.warnings))
	}
	if _, present := inst.GetData()["bogus"]; present {
		t.Fatalf("unknown key leaked into serialized record")
	}
}

func TestInstanceFirstRowOfResultSet(t *testing.T) {
	f, _ := testFactory(t)
	ctor, err := f.New(schema.TypeStations)
	if err != nil {
		t.Fatalf("new constructor: %v", err)
	}
	inst := ctor([]map[string]any{
		{"name": "First"},
		{"name": "Second"},
	})
	if got := inst.GetValue("name"); got != "First" {
		t.Fatalf("expected first row only, got %v", got)
	}
}

func TestAddAttributeIsInstanceLocal(t *testing.T) {
	f, _ := testFactory(t)
	ctor, err := f.New(schema.TypeStations)
	if err != nil {
		t.Fatalf("new constructor: %v", err)
	}
	a := ctor(nil)
	a.AddAttribute("owner_type", schema.SemanticText, "survey_seasons")
	if got := a.GetValue("owner_type"); got != "survey_seasons" {
		t.Fatalf("extended attribute = %v", got)
	}

	b := ctor(nil)
	if got := b.GetValue("owner_type"); got != nil {
		t.Fatalf("extended attribute leaked across instances: %v", got)
	}

	data := a.GetData("owner_type")
	if _, present := data["owner_type"]; present {
		t.Fatalf("excluded key present in serialized record")
	}
}

func TestInstanceLabelFallsBackToKey(t *testing.T) {
	f, _ := testFactory(t)
	ctor, err := f.New(schema.TypeHistoricVisits)
	if err != nil {
		t.Fatalf("new constructor: %v", err)
	}
	inst := ctor(map[string]any{"nodes_id": 17})
	if got := inst.Label(); got != int64(17) {
		t.Fatalf("label fallback = %v, want 17", got)
	}
	if got := inst.ID(); got != int64(17) {
		t.Fatalf("id = %v, want 17", got)
	}
}
