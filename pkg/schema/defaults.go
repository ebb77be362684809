package schema

// DefaultMaxDepth bounds owner-chain traversal. The deepest legal chain is
// surveyor > survey > season > station > visit > location > capture > image,
// so anything past nine ancestors indicates corrupted owner links.
const DefaultMaxDepth = 9

// Default builds the registry for the full archive entity set.
func Default() (*Registry, error) {
	return NewRegistry(defaultSchemas, WithDefaultDepth(1), WithMaxDepth(DefaultMaxDepth))
}

// MustDefault is Default for initialization paths where the built-in schema
// set is known to be valid.
func MustDefault() *Registry {
	r, err := Default()
	if err != nil {
		panic(err)
	}
	return r
}

var defaultSchemas = []Schema{
	{
		TypeName:       TypeProjects,
		KeyAttribute:   "nodes_id",
		LabelAttribute: "name",
		IsRoot:         true,
		DepthClass:     2,
		FilesystemRoot: "projects",
		Attributes: []Attribute{
			{Name: "nodes_id", Semantic: SemanticInteger},
			{Name: "name", Semantic: SemanticText, Label: "Project Name"},
			{Name: "description", Semantic: SemanticText, Label: "Description"},
		},
	},
	{
		TypeName:       TypeSurveyors,
		KeyAttribute:   "nodes_id",
		LabelAttribute: "last_name",
		IsRoot:         true,
		DepthClass:     2,
		FilesystemRoot: "surveyors",
		Attributes: []Attribute{
			{Name: "nodes_id", Semantic: SemanticInteger},
			{Name: "last_name", Semantic: SemanticText, Label: "Last Name"},
			{Name: "given_names", Semantic: SemanticText, Label: "Given Names"},
			{Name: "short_name", Semantic: SemanticText, Label: "Short Name"},
			{Name: "affiliation", Semantic: SemanticText, Label: "Affiliation"},
		},
	},
	{
		TypeName:       TypeSurveys,
		KeyAttribute:   "nodes_id",
		LabelAttribute: "name",
		DepthClass:     2,
		OwnerTypes:     []Type{TypeSurveyors},
		Attributes: []Attribute{
			{Name: "nodes_id", Semantic: SemanticInteger},
			{Name: "name", Semantic: SemanticText, Label: "Survey Name"},
			{Name: "historical_map_sheet", Semantic: SemanticText, Label: "Map Sheet"},
		},
	},
	{
		TypeName:       TypeSurveySeasons,
		KeyAttribute:   "nodes_id",
		LabelAttribute: "year",
		DepthClass:     2,
		OwnerTypes:     []Type{TypeSurveys},
		Attributes: []Attribute{
			{Name: "nodes_id", Semantic: SemanticInteger},
			{Name: "year", Semantic: SemanticInteger, Label: "Year"},
			{Name: "geographic_coverage", Semantic: SemanticText, Label: "Geographic Coverage"},
			{Name: "jurisdiction", Semantic: SemanticJSON, Label: "Jurisdiction"},
			{Name: "affiliation", Semantic: SemanticText, Label: "Affiliation"},
			{Name: "archive", Semantic: SemanticText, Label: "Archive"},
			{Name: "collection", Semantic: SemanticText, Label: "Collection"},
			{Name: "location", Semantic: SemanticText, Label: "Location"},
			{Name: "sources", Semantic: SemanticText, Label: "Sources"},
			{Name: "notes", Semantic: SemanticText, Label: "Notes"},
		},
	},
	{
		TypeName:       TypeStations,
		KeyAttribute:   "nodes_id",
		LabelAttribute: "name",
		DepthClass:     2,
		OwnerTypes:     []Type{TypeProjects, TypeSurveySeasons},
		Attributes: []Attribute{
			{Name: "nodes_id", Semantic: SemanticInteger},
			{Name: "name", Semantic: SemanticText, Label: "Station Name"},
			{Name: "lat", Semantic: SemanticFloat, Label: "Latitude"},
			{Name: "lng", Semantic: SemanticFloat, Label: "Longitude"},
			{Name: "elev", Semantic: SemanticFloat, Label: "Elevation"},
			{Name: "azim", Semantic: SemanticFloat, Label: "Azimuth"},
			{Name: "nts_sheet", Semantic: SemanticText, Label: "NTS Sheet"},
			{Name: "published", Semantic: SemanticBoolean, Label: "Published"},
		},
	},
	{
		TypeName:     TypeHistoricVisits,
		KeyAttribute: "nodes_id",
		DepthClass:   1,
		OwnerTypes:   []Type{TypeStations},
		Attributes: []Attribute{
			{Name: "nodes_id", Semantic: SemanticInteger},
			{Name: "date", Semantic: SemanticDefault, Label: "Visit Date"},
			{Name: "comments", Semantic: SemanticText, Label: "Comments"},
		},
	},
	{
		TypeName:       TypeModernVisits,
		KeyAttribute:   "nodes_id",
		LabelAttribute: "date",
		DepthClass:     1,
		OwnerTypes:     []Type{TypeStations},
		Attributes: []Attribute{
			{Name: "nodes_id", Semantic: SemanticInteger},
			{Name: "date", Semantic: SemanticDefault, Label: "Visit Date"},
			{Name: "start_time", Semantic: SemanticDefault, Label: "Start Time"},
			{Name: "finish_time", Semantic: SemanticDefault, Label: "Finish Time"},
			{Name: "pilot", Semantic: SemanticText, Label: "Pilot"},
			{Name: "rw_call_sign", Semantic: SemanticText, Label: "Call Sign"},
			{Name: "visit_narrative", Semantic: SemanticText, Label: "Narrative"},
			{Name: "illustration", Semantic: SemanticBoolean, Label: "Illustration"},
			{Name: "weather_narrative", Semantic: SemanticText, Label: "Weather"},
			{Name: "weather_temp", Semantic: SemanticFloat, Label: "Temperature"},
			{Name: "weather_ws", Semantic: SemanticFloat, Label: "Wind Speed"},
		},
	},
	{
		TypeName:       TypeLocations,
		KeyAttribute:   "nodes_id",
		LabelAttribute: "location_identity",
		DepthClass:     1,
		OwnerTypes:     []Type{TypeModernVisits},
		Attributes: []Attribute{
			{Name: "nodes_id", Semantic: SemanticInteger},
			{Name: "location_narrative", Semantic: SemanticText, Label: "Narrative"},
			{Name: "location_identity", Semantic: SemanticText, Label: "Identity"},
			{Name: "lat", Semantic: SemanticFloat, Label: "Latitude"},
			{Name: "lng", Semantic: SemanticFloat, Label: "Longitude"},
			{Name: "elev", Semantic: SemanticFloat, Label: "Elevation"},
			{Name: "legacy_photos_start", Semantic: SemanticInteger, Label: "Photos Start"},
			{Name: "legacy_photos_end", Semantic: SemanticInteger, Label: "Photos End"},
		},
	},
	{
		TypeName:       TypeHistoricCaptures,
		KeyAttribute:   "nodes_id",
		LabelAttribute: "fn_photo_reference",
		DepthClass:     1,
		FilesystemRoot: "historic_captures",
		OwnerTypes:     []Type{TypeProjects, TypeSurveys, TypeSurveySeasons, TypeHistoricVisits},
		Attributes: []Attribute{
			{Name: "nodes_id", Semantic: SemanticInteger},
			{Name: "fn_photo_reference", Semantic: SemanticText, Label: "Photo Reference"},
			{Name: "plate_id", Semantic: SemanticText, Label: "Plate ID"},
			{Name: "lac_ecopy", Semantic: SemanticText, Label: "LAC e-Copy"},
			{Name: "lac_wo", Semantic: SemanticText, Label: "LAC WO"},
			{Name: "lac_collection", Semantic: SemanticText, Label: "LAC Collection"},
			{Name: "lac_box", Semantic: SemanticText, Label: "LAC Box"},
			{Name: "condition", Semantic: SemanticText, Label: "Condition"},
			{Name: "digitization_location", Semantic: SemanticText, Label: "Digitization Location"},
			{Name: "digitization_datetime", Semantic: SemanticDefault, Label: "Digitization Time"},
			{Name: "comments", Semantic: SemanticText, Label: "Comments"},
		},
	},
	{
		TypeName:       TypeModernCaptures,
		KeyAttribute:   "nodes_id",
		LabelAttribute: "fn_photo_reference",
		DepthClass:     1,
		FilesystemRoot: "modern_captures",
		OwnerTypes: []Type{
			TypeProjects, TypeSurveys, TypeSurveySeasons,
			TypeStations, TypeModernVisits, TypeLocations,
		},
		Attributes: []Attribute{
			{Name: "nodes_id", Semantic: SemanticInteger},
			{Name: "fn_photo_reference", Semantic: SemanticText, Label: "Photo Reference"},
			{Name: "capture_datetime", Semantic: SemanticDefault, Label: "Capture Time"},
			{Name: "camera", Semantic: SemanticText, Label: "Camera"},
			{Name: "lens", Semantic: SemanticText, Label: "Lens"},
			{Name: "f_stop", Semantic: SemanticFloat, Label: "F-Stop"},
			{Name: "shutter_speed", Semantic: SemanticText, Label: "Shutter Speed"},
			{Name: "iso", Semantic: SemanticInteger, Label: "ISO"},
			{Name: "focal_length", Semantic: SemanticInteger, Label: "Focal Length"},
			{Name: "lat", Semantic: SemanticFloat, Label: "Latitude"},
			{Name: "lng", Semantic: SemanticFloat, Label: "Longitude"},
			{Name: "elev", Semantic: SemanticFloat, Label: "Elevation"},
			{Name: "azim", Semantic: SemanticFloat, Label: "Azimuth"},
			{Name: "comments", Semantic: SemanticText, Label: "Comments"},
			{Name: "alternate", Semantic: SemanticBoolean, Label: "Alternate"},
		},
	},
	{
		TypeName:       TypeCaptureImages,
		KeyAttribute:   "nodes_id",
		LabelAttribute: "image",
		DepthClass:     0,
		FilesystemRoot: "versions",
		OwnerTypes:     []Type{TypeHistoricCaptures, TypeModernCaptures},
		Attributes: []Attribute{
			{Name: "nodes_id", Semantic: SemanticInteger},
			{Name: "image", Semantic: SemanticText, Label: "Image"},
			{Name: "image_state", Semantic: SemanticText, Label: "Image State"},
			{Name: "file_size", Semantic: SemanticInteger, Label: "File Size"},
			{Name: "x_dim", Semantic: SemanticInteger, Label: "Width"},
			{Name: "y_dim", Semantic: SemanticInteger, Label: "Height"},
			{Name: "channels", Semantic: SemanticInteger, Label: "Channels"},
			{Name: "format", Semantic: SemanticText, Label: "Format"},
			{Name: "comments", Semantic: SemanticText, Label: "Comments"},
		},
	},
	{
		TypeName:       TypeSupplementalImages,
		KeyAttribute:   "nodes_id",
		LabelAttribute: "image",
		DepthClass:     0,
		FilesystemRoot: "supplemental",
		OwnerTypes:     []Type{TypeStations, TypeHistoricVisits, TypeModernVisits, TypeLocations},
		Attributes: []Attribute{
			{Name: "nodes_id", Semantic: SemanticInteger},
			{Name: "image", Semantic: SemanticText, Label: "Image"},
			{Name: "image_type", Semantic: SemanticText, Label: "Image Type"},
			{Name: "capture_datetime", Semantic: SemanticDefault, Label: "Capture Time"},
			{Name: "file_size", Semantic: SemanticInteger, Label: "File Size"},
			{Name: "x_dim", Semantic: SemanticInteger, Label: "Width"},
			{Name: "y_dim", Semantic: SemanticInteger, Label: "Height"},
			{Name: "comments", Semantic: SemanticText, Label: "Comments"},
		},
	},
	{
		TypeName:       TypeGlassPlateListings,
		KeyAttribute:   "nodes_id",
		LabelAttribute: "container",
		DepthClass:     0,
		OwnerTypes:     []Type{TypeSurveySeasons},
		Attributes: []Attribute{
			{Name: "nodes_id", Semantic: SemanticInteger},
			{Name: "container", Semantic: SemanticText, Label: "Container"},
			{Name: "plates", Semantic: SemanticText, Label: "Plates"},
			{Name: "notes", Semantic: SemanticText, Label: "Notes"},
		},
	},
	{
		TypeName:       TypeMaps,
		KeyAttribute:   "nodes_id",
		LabelAttribute: "nts_map",
		DepthClass:     0,
		OwnerTypes:     []Type{TypeSurveySeasons},
		Attributes: []Attribute{
			{Name: "nodes_id", Semantic: SemanticInteger},
			{Name: "nts_map", Semantic: SemanticText, Label: "NTS Map"},
			{Name: "historic_map", Semantic: SemanticText, Label: "Historic Map"},
			{Name: "links", Semantic: SemanticJSON, Label: "Links"},
		},
	},
	{
		TypeName:       TypeParticipants,
		KeyAttribute:   "nodes_id",
		LabelAttribute: "last_name",
		IsRoot:         true,
		DepthClass:     0,
		Attributes: []Attribute{
			{Name: "nodes_id", Semantic: SemanticInteger},
			{Name: "last_name", Semantic: SemanticText, Label: "Last Name"},
			{Name: "given_names", Semantic: SemanticText, Label: "Given Names"},
		},
	},
	{
		TypeName:     TypeParticipantGroups,
		KeyAttribute: "nodes_id",
		DepthClass:   0,
		OwnerTypes:   []Type{TypeModernVisits},
		Attributes: []Attribute{
			{Name: "nodes_id", Semantic: SemanticInteger},
			{Name: "group_type", Semantic: SemanticText, Label: "Group Type"},
			{Name: "participant_ids", Semantic: SemanticJSON, Label: "Participants"},
		},
	},
	{
		TypeName:       TypeMetadataFiles,
		KeyAttribute:   "nodes_id",
		LabelAttribute: "filename",
		DepthClass:     0,
		FilesystemRoot: "metadata",
		OwnerTypes:     []Type{TypeStations, TypeModernVisits},
		Attributes: []Attribute{
			{Name: "nodes_id", Semantic: SemanticInteger},
			{Name: "metadata_type", Semantic: SemanticText, Label: "Metadata Type"},
			{Name: "filename", Semantic: SemanticText, Label: "Filename"},
		},
	},
}
