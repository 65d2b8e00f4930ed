package domain

import (
	"errors"
	"fmt"
)

// Fixed administrative values for every record published by this dataset.
// InstitutionID is the SeaDataNet EDMO entry for the Maurice Lamontagne
// Institute (IML).
const (
	datasetContinent    = "North America"
	datasetCountry      = "Canada"
	datasetCountryCode  = "CA"
	datasetLanguage     = "En"
	datasetLicense      = "http://creativecommons.org/licenses/by/4.0/legalcode"
	datasetRightsHolder = "His Majesty the King in right of Canada, as represented by the Minister of Fisheries and Oceans"
	institutionID       = "https://edmo.seadatanet.org/report/4160"
	institutionCode     = "IML"

	eventTypeProject   = "Project"
	eventTypeSiteVisit = "SiteVisit"
)

// DeriveCruiseEvent builds the root sampling event of the dataset from the
// active cruise. The event covers the cruise's full date range at day
// precision and is located at the center of its bounding box, with the
// uncertainty radius spanning the box.
func DeriveCruiseEvent(cruise Cruise, dist DistanceFunc) (*Event, error) {
	switch {
	case cruise.MissionNumber == "":
		return nil, fmt.Errorf("cruise has no mission number: %w", ErrInvalidCruise)
	case cruise.StartDate.IsZero():
		return nil, fmt.Errorf("cruise %q has no start date: %w", cruise.MissionNumber, ErrInvalidCruise)
	case cruise.DisplayTZ == nil:
		return nil, fmt.Errorf("cruise %q has no display timezone: %w", cruise.MissionNumber, ErrInvalidCruise)
	}

	southWest := Point{Lat: cruise.MinLat, Lng: cruise.MinLng}
	northEast := Point{Lat: cruise.MaxLat, Lng: cruise.MaxLng}
	center := Midpoint(southWest, northEast)
	uncertainty := UncertaintyRadiusMeters(southWest, northEast, dist)

	e := &Event{
		EventID: cruise.MissionNumber,
		Source:  SourceCruise,

		StartTime:      cruise.StartDate,
		StartPrecision: PrecisionDay,
		Timezone:       cruise.DisplayTZ,

		DecimalLatitude:               &center.Lat,
		DecimalLongitude:              &center.Lng,
		CoordinateUncertaintyInMeters: &uncertainty,

		EventType:       eventTypeProject,
		Continent:       datasetContinent,
		Country:         datasetCountry,
		CountryCode:     datasetCountryCode,
		InstitutionID:   institutionID,
		InstitutionCode: institutionCode,
		FieldNumber:     cruise.MissionNumber,
		EventRemarks:    cruise.Notes,

		License:      datasetLicense,
		RightsHolder: datasetRightsHolder,
		Language:     datasetLanguage,
	}
	if cruise.EndDate != nil {
		end := *cruise.EndDate
		e.EndTime = &end
		e.EndPrecision = PrecisionDay
	}
	return e, nil
}

// DeriveSetEvent builds a child sampling event from a fishing set. The set
// must carry at least one fishing operation; gear trials and aborted
// deployments produce no event. The event is located at the midpoint of the
// start and end fixes, and the towed track is kept as a 3D footprint.
func DeriveSetEvent(set FishingSet, parent *Event, dist DistanceFunc) (*Event, error) {
	if parent == nil {
		return nil, fmt.Errorf("set %d: %w", set.SetNumber, ErrNoCruiseAncestor)
	}
	if !set.HasFishingOperations() {
		return nil, fmt.Errorf("set %d: %w", set.SetNumber, ErrNoFishingOperations)
	}

	start := Point{Lat: set.StartLatitude, Lng: set.StartLongitude}
	end := Point{Lat: set.EndLatitude, Lng: set.EndLongitude}
	center := Midpoint(start, end)
	uncertainty := UncertaintyRadiusMeters(start, end, dist)

	footprint := LineStringZ(
		Coordinate3D{Lat: set.StartLatitude, Lng: set.StartLongitude, DepthM: set.StartDepthM},
		Coordinate3D{Lat: set.EndLatitude, Lng: set.EndLongitude, DepthM: set.EndDepthM},
	)

	e := &Event{
		EventID: fmt.Sprintf("%s-Set%d", parent.EventID, set.SetNumber),
		Parent:  parent,
		Source:  SourceFishingSet,

		StartTime:      set.StartDate,
		StartPrecision: DefaultPrecision,

		DecimalLatitude:               &center.Lat,
		DecimalLongitude:              &center.Lng,
		CoordinateUncertaintyInMeters: &uncertainty,
		FootprintWKT:                  footprint,

		MaximumDepthInMeters: set.MaxDepthM,
		MinimumDepthInMeters: set.MinDepthM,

		EventType:    eventTypeSiteVisit,
		FieldNumber:  set.Station.Name,
		EventRemarks: set.Remarks,
	}
	if set.EndDate != nil {
		endDate := *set.EndDate
		e.EndTime = &endDate
		e.EndPrecision = DefaultPrecision
	}
	return e, nil
}

// DeriveMixedCatchEvent would build the sub-sampling event a mixed catch
// requires before its component species can be published. The sub-sampling
// protocol has no agreed event mapping yet, so callers must skip mixed
// catches deliberately rather than guess one.
func DeriveMixedCatchEvent(catch Catch, parent *Event) (*Event, error) {
	return nil, fmt.Errorf("mixed catch sub-sampling event for catch %d: %w",
		catch.ID, errors.ErrUnsupported)
}
