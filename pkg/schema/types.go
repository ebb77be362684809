// Package schema defines the declarative entity-type registry for the
// archive's polymorphic node tree. Every node in the tree carries one of the
// entity types registered here; the registry records each type's attribute
// schema, tree position constraints, and filesystem mapping.
package schema

// Type identifies an entity type stored in the node tree.
type Type string

// Registered entity type identifiers. The names double as the relational
// table names for each type's attribute rows.
const (
	// TypeProjects identifies a project record grouping stations outside the
	// surveyor hierarchy.
	TypeProjects Type = "projects"
	// TypeSurveyors identifies a historical surveyor record.
	TypeSurveyors Type = "surveyors"
	// TypeSurveys identifies a survey conducted by a surveyor.
	TypeSurveys Type = "surveys"
	// TypeSurveySeasons identifies one field season within a survey.
	TypeSurveySeasons Type = "survey_seasons"
	// TypeStations identifies a camera station.
	TypeStations Type = "stations"
	// TypeHistoricVisits identifies the original visit to a station.
	TypeHistoricVisits Type = "historic_visits"
	// TypeModernVisits identifies a repeat-photography visit to a station.
	TypeModernVisits Type = "modern_visits"
	// TypeLocations identifies a camera location within a modern visit.
	TypeLocations Type = "locations"
	// TypeHistoricCaptures identifies a historic photograph capture.
	TypeHistoricCaptures Type = "historic_captures"
	// TypeModernCaptures identifies a repeat photograph capture.
	TypeModernCaptures Type = "modern_captures"
	// TypeCaptureImages identifies an image file attached to a capture.
	TypeCaptureImages Type = "capture_images"
	// TypeSupplementalImages identifies a scenic or contextual image.
	TypeSupplementalImages Type = "supplemental_images"
	// TypeGlassPlateListings identifies a glass plate negative listing.
	TypeGlassPlateListings Type = "glass_plate_listings"
	// TypeMaps identifies a survey map record.
	TypeMaps Type = "maps"
	// TypeParticipants identifies a field-team participant.
	TypeParticipants Type = "participants"
	// TypeParticipantGroups identifies participants attached to a visit.
	TypeParticipantGroups Type = "participant_groups"
	// TypeMetadataFiles identifies an ancillary metadata file.
	TypeMetadataFiles Type = "metadata_files"
)

// SemanticType classifies an attribute for sanitization. Values written
// through the entity factory are coerced according to this classification.
type SemanticType string

// Closed set of semantic types understood by the sanitizer.
const (
	SemanticBoolean SemanticType = "boolean"
	SemanticInteger SemanticType = "integer"
	SemanticFloat   SemanticType = "float"
	SemanticText    SemanticType = "text"
	SemanticJSON    SemanticType = "json"
	// SemanticPoint is a composite coordinate tuple serialized as a
	// parenthesized comma list, e.g. "(51.18,-115.57)".
	SemanticPoint SemanticType = "point"
	// SemanticDefault applies only empty-string-to-nil normalization.
	SemanticDefault SemanticType = "default"
)

// Attribute describes one field of an entity type's schema.
type Attribute struct {
	Name     string       `json:"name"`
	Semantic SemanticType `json:"semantic"`
	Label    string       `json:"label,omitempty"`
}

// Schema is the registry entry for one entity type.
type Schema struct {
	TypeName Type `json:"type"`
	// KeyAttribute names the attribute holding the node id once persisted.
	KeyAttribute string      `json:"key_attribute"`
	Attributes   []Attribute `json:"attributes"`
	// LabelAttribute names the attribute used for display labels and
	// filesystem slug derivation. Falls back to KeyAttribute when empty.
	LabelAttribute string `json:"label_attribute,omitempty"`
	IsRoot         bool   `json:"is_root"`
	// DepthClass is the number of dependent levels eagerly expanded when
	// reading a node of this type.
	DepthClass int `json:"depth_class"`
	// FilesystemRoot is the directory segment under which files owned by
	// nodes of this type are stored. Empty when the type owns no files.
	FilesystemRoot string `json:"filesystem_root,omitempty"`
	// OwnerTypes is the allow-list of types permitted to own a node of
	// this type. Empty for root types.
	OwnerTypes []Type `json:"owner_types,omitempty"`
}

// Attribute returns the named attribute descriptor when the schema defines it.
func (s Schema) Attribute(name string) (Attribute, bool) {
	for _, attr := range s.Attributes {
		if attr.Name == name {
			return attr, true
		}
	}
	return Attribute{}, false
}

// Label returns the attribute name used for display labels.
func (s Schema) Label() string {
	if s.LabelAttribute != "" {
		return s.LabelAttribute
	}
	return s.KeyAttribute
}

// AllowsOwner reports whether candidate is a permitted owner type.
func (s Schema) AllowsOwner(candidate Type) bool {
	for _, t := range s.OwnerTypes {
		if t == candidate {
			return true
		}
	}
	return false
}

// IsCapture reports whether t is one of the capture types participating in
// historic/modern comparison sets.
func IsCapture(t Type) bool {
	return t == TypeHistoricCaptures || t == TypeModernCaptures
}
