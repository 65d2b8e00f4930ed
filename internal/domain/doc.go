// Package domain derives Darwin Core / OBIS records from groundfish survey
// data collected with the Andes survey platform.
//
// # Record hierarchy
//
// A dataset is one cruise. The cruise becomes the root dwc:Event (eventType
// "Project"); every fishing set with at least one fishing operation becomes a
// child Event (eventType "SiteVisit"); every publishable catch under a set
// becomes one dwc:Occurrence. ExtendedMeasurementOrFact rows attach to an
// Event/Occurrence pair; the structure is carried but nothing derives them
// yet.
//
//	Cruise ─→ Event "2024001"
//	  Set 7 ─→ Event "2024001-Set7"
//	    Catch 3 ─→ Occurrence "2024001-Set7_3"
//
// Identifiers are deterministic: the root eventID is the mission number,
// child eventIDs append "-Set<N>", and occurrenceIDs append "_<catch id>".
// Re-deriving the same survey data always produces the same identifiers.
//
// # Datetime precision
//
// Survey instants carry a precision code, 1 (year) through 7 (millisecond).
// dwc:eventDate rendering follows the code exactly:
//
//	1  2024
//	2  2024-08
//	3  2024-08-21
//	4  2024-08-21T15-0400
//	5  2024-08-21T15:04-0400
//	6  2024-08-21T15:04:05-0400
//	7  2024-08-21T15:04:05.123000-0400
//
// Cruise dates are published at day precision; set instants at second
// precision. Date strings are localized to the cruise's display timezone,
// resolved for child events by walking the parent chain. An event whose
// chain never reaches a cruise is a configuration error.
//
// # Spatial derivation
//
// A cruise is located at the arithmetic midpoint of its bounding box; a set
// at the midpoint of its start and end fixes. dwc:coordinateUncertaintyInMeters
// is half the great-circle distance between the two corner points, converted
// from nautical miles (1852 m each) and rounded to millimeters. Set events
// additionally keep the towed track as a LINESTRING Z footprint with depth as
// the third axis. All coordinates are WGS-84 (EPSG:4326).
//
// # Catch validation
//
// A catch is publishable only when its species is not a mixed catch and
// carries a WoRMS AphiaID (dwc:scientificNameID is the
// urn:lsid:marinespecies.org LSID). A catch is rejected as carrying no data
// when every quantitative field is empty (no child baskets, no extrapolated
// count, no abundance category, zero weight, zero unmeasured specimens, zero
// specimens, zero images) while at least one of its baskets holds children.
// Mixed catches require a sub-sampling event that has no agreed mapping yet;
// deriving one returns errors.ErrUnsupported.
package domain
