package schema

import (
	"errors"
	"testing"
)

func minimalSchemas() []Schema {
	return []Schema{
		{
			TypeName:       TypeSurveyors,
			KeyAttribute:   "nodes_id",
			LabelAttribute: "last_name",
			IsRoot:         true,
			DepthClass:     2,
			Attributes: []Attribute{
				{Name: "nodes_id", Semantic: SemanticInteger},
				{Name: "last_name", Semantic: SemanticText},
			},
		},
		{
			TypeName:     TypeSurveys,
			KeyAttribute: "nodes_id",
			DepthClass:   1,
			OwnerTypes:   []Type{TypeSurveyors},
			Attributes: []Attribute{
				{Name: "nodes_id", Semantic: SemanticInteger},
				{Name: "name", Semantic: SemanticText},
			},
		},
	}
}

func TestNewRegistryValidates(t *testing.T) {
	if _, err := NewRegistry(minimalSchemas()); err != nil {
		t.Fatalf("valid schemas rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func([]Schema) []Schema
	}{
		{"empty type name", func(s []Schema) []Schema {
			s[0].TypeName = ""
			return s
		}},
		{"duplicate type", func(s []Schema) []Schema {
			dup := s[0]
			return append(s, dup)
		}},
		{"missing key attribute", func(s []Schema) []Schema {
			s[0].KeyAttribute = ""
			return s
		}},
		{"key attribute not declared", func(s []Schema) []Schema {
			s[0].KeyAttribute = "ghost"
			return s
		}},
		{"negative depth class", func(s []Schema) []Schema {
			s[0].DepthClass = -1
			return s
		}},
		{"root with owner list", func(s []Schema) []Schema {
			s[0].OwnerTypes = []Type{TypeSurveys}
			return s
		}},
		{"non-root without owner list", func(s []Schema) []Schema {
			s[1].OwnerTypes = nil
			return s
		}},
		{"unregistered owner type", func(s []Schema) []Schema {
			s[1].OwnerTypes = []Type{TypeStations}
			return s
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewRegistry(tc.mutate(minimalSchemas())); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestDescribeUnknownType(t *testing.T) {
	r, err := NewRegistry(minimalSchemas())
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	_, err = r.Describe(Type("widgets"))
	var unknown UnknownTypeError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownTypeError, got %v", err)
	}
	if unknown.Type != "widgets" {
		t.Fatalf("unexpected type in error: %q", unknown.Type)
	}
}

func TestDepthFallback(t *testing.T) {
	r, err := NewRegistry(minimalSchemas(), WithDefaultDepth(3), WithMaxDepth(5))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if got := r.DepthOf(TypeSurveyors); got != 2 {
		t.Fatalf("explicit depth = %d, want 2", got)
	}
	if got := r.DepthOf(Type("widgets")); got != 3 {
		t.Fatalf("fallback depth = %d, want 3", got)
	}
	if got := r.MaxDepth(); got != 5 {
		t.Fatalf("max depth = %d, want 5", got)
	}
}

func TestDefaultRegistry(t *testing.T) {
	r, err := Default()
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}
	if len(r.Types()) != 17 {
		t.Fatalf("expected 17 registered types, got %d", len(r.Types()))
	}
	if !r.IsRootType(TypeSurveyors) || !r.IsRootType(TypeProjects) || !r.IsRootType(TypeParticipants) {
		t.Fatalf("expected surveyors, projects, participants as roots")
	}
	if r.IsRootType(TypeStations) {
		t.Fatalf("stations must not be a root type")
	}

	stations, err := r.Describe(TypeStations)
	if err != nil {
		t.Fatalf("describe stations: %v", err)
	}
	if !stations.AllowsOwner(TypeProjects) || !stations.AllowsOwner(TypeSurveySeasons) {
		t.Fatalf("stations owner list incomplete: %v", stations.OwnerTypes)
	}
	if stations.AllowsOwner(TypeSurveys) {
		t.Fatalf("stations must not attach directly to surveys")
	}
	if stations.Label() != "name" {
		t.Fatalf("stations label = %q, want name", stations.Label())
	}

	if root, ok := r.FilesystemRoot(TypeModernCaptures); !ok || root != "modern_captures" {
		t.Fatalf("modern_captures filesystem root = %q, %v", root, ok)
	}
	if _, ok := r.FilesystemRoot(TypeSurveys); ok {
		t.Fatalf("surveys must not declare a filesystem root")
	}
}

func TestIsCapture(t *testing.T) {
	if !IsCapture(TypeHistoricCaptures) || !IsCapture(TypeModernCaptures) {
		t.Fatalf("capture types not classified as captures")
	}
	if IsCapture(TypeCaptureImages) || IsCapture(TypeStations) {
		t.Fatalf("non-capture types classified as captures")
	}
}
