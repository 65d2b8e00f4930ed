package domain

import (
	"fmt"
	"time"
)

// SourceKind tags the survey entity a derived record came from.
type SourceKind int

const (
	SourceCruise SourceKind = iota + 1
	SourceFishingSet
	SourceMixedCatch
)

func (k SourceKind) String() string {
	switch k {
	case SourceCruise:
		return "cruise"
	case SourceFishingSet:
		return "fishing_set"
	case SourceMixedCatch:
		return "mixed_catch"
	default:
		return "unknown"
	}
}

// Fixed geodetic reference for all published coordinates and footprints.
const spatialReferenceSystem = "EPSG:4326"

// maxAncestorDepth bounds the parent-chain walk during timezone resolution.
// A chain deeper than this can only be a cycle or corrupted linkage.
const maxAncestorDepth = 64

// Event is a dwc:Event: the cruise itself ("Project") or a single site visit
// by a fishing set ("SiteVisit"). Values are fully derived at construction
// and never mutated afterward; string renderings such as EventDate are
// computed on demand from the stored instants.
type Event struct {
	EventID string
	Parent  *Event

	Source SourceKind

	StartTime      time.Time
	StartPrecision Precision
	EndTime        *time.Time
	EndPrecision   Precision

	// Timezone is set only on cruise-rooted events; descendants resolve
	// theirs by walking the parent chain.
	Timezone *time.Location

	DecimalLatitude               *float64
	DecimalLongitude              *float64
	CoordinateUncertaintyInMeters *float64
	CoordinatePrecision           *float64
	FootprintWKT                  string

	MaximumDepthInMeters *float64
	MinimumDepthInMeters *float64

	EventType       string
	Continent       string
	Country         string
	CountryCode     string
	InstitutionID   string
	InstitutionCode string
	DatasetName     string
	FieldNumber     string
	EventRemarks    string

	License      string
	RightsHolder string
	Language     string
}

// ParentEventID returns the dwc:parentEventID, or empty for a root event.
func (e *Event) ParentEventID() string {
	if e.Parent == nil {
		return ""
	}
	return e.Parent.EventID
}

// Location resolves the event's effective timezone by walking up the parent
// chain to the cruise-rooted event. The walk is iterative and bounded; a
// broken chain is a configuration error, never a silent fallback.
func (e *Event) Location() (*time.Location, error) {
	cur := e
	for depth := 0; depth <= maxAncestorDepth; depth++ {
		if cur.Timezone != nil {
			return cur.Timezone, nil
		}
		if cur.Parent == nil {
			return nil, fmt.Errorf("event %q: %w", e.EventID, ErrNoCruiseAncestor)
		}
		cur = cur.Parent
	}
	return nil, fmt.Errorf("event %q: parent chain exceeds %d ancestors: %w",
		e.EventID, maxAncestorDepth, ErrNoCruiseAncestor)
}

// EventDate renders dwc:eventDate: the start instant, or "start/end" when the
// event spans an interval, each at its recorded precision in the cruise
// timezone.
func (e *Event) EventDate() (string, error) {
	loc, err := e.Location()
	if err != nil {
		return "", err
	}
	start, err := FormatDateTime(e.StartTime, e.StartPrecision, loc)
	if err != nil {
		return "", err
	}
	if e.EndTime == nil {
		return start, nil
	}
	end, err := FormatDateTime(*e.EndTime, e.EndPrecision, loc)
	if err != nil {
		return "", err
	}
	return start + "/" + end, nil
}

// EventTime renders dwc:eventTime, the time-of-day portion of the event.
// Date-precision events yield an empty string.
func (e *Event) EventTime() (string, error) {
	loc, err := e.Location()
	if err != nil {
		return "", err
	}
	start, err := FormatTimeOfDay(e.StartTime, e.StartPrecision, loc)
	if err != nil {
		return "", err
	}
	if e.EndTime == nil || start == "" {
		return start, nil
	}
	end, err := FormatTimeOfDay(*e.EndTime, e.EndPrecision, loc)
	if err != nil {
		return "", err
	}
	if end == "" {
		return start, nil
	}
	return start + "/" + end, nil
}

// Year returns the four-digit year of the event start.
func (e *Event) Year() string {
	return e.StartTime.Format("2006")
}

// Month returns the two-digit month of the event start.
func (e *Event) Month() string {
	return e.StartTime.Format("01")
}

// GeodeticDatum returns the dwc:geodeticDatum of the published coordinates.
func (e *Event) GeodeticDatum() string {
	return spatialReferenceSystem
}

// FootprintSRS returns the spatial reference system of the footprint.
func (e *Event) FootprintSRS() string {
	if e.FootprintWKT == "" {
		return ""
	}
	return spatialReferenceSystem
}

// Occurrence is a dwc:Occurrence: one observed taxon tied to exactly one
// event.
type Occurrence struct {
	OccurrenceID string
	EventID      string

	VerbatimIdentification string
	ScientificName         string
	ScientificNameID       string
	BasisOfRecord          string
	OccurrenceStatus       string
	OccurrenceRemarks      string
	AssociatedMedia        string
}

// MeasurementOrFact is an OBIS ExtendedMeasurementOrFact row: one measurement
// attached to an event and occurrence pair. The pipeline carries the
// structure for downstream use; no derivation produces them yet.
type MeasurementOrFact struct {
	EventID      string
	OccurrenceID string

	MeasurementType    string
	MeasurementValue   string
	MeasurementUnit    string
	MeasurementTypeID  string
	MeasurementValueID string
	MeasurementRemarks string
}
