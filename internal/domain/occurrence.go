package domain

import (
	"fmt"
	"log/slog"
)

const (
	basisHumanObservation   = "HumanObservation"
	occurrenceStatusPresent = "present"
)

// scientificNameIDURN builds the WoRMS LSID for an AphiaID.
func scientificNameIDURN(aphiaID int64) string {
	return fmt.Sprintf("urn:lsid:marinespecies.org:taxname:%d", aphiaID)
}

// DeriveOccurrence builds a dwc:Occurrence from a catch under its owning
// event. Mixed catches and species without an AphiaID cannot be published
// (ErrInvalidSpecies); catches carrying no substantive data at all are
// rejected with ErrNoCatchData. A catch held in parent baskets is suspicious
// (it may be a misclassified mixed catch) but is still published with a
// warning.
func DeriveOccurrence(catch Catch, event *Event, logger *slog.Logger) (*Occurrence, error) {
	if event == nil {
		return nil, fmt.Errorf("catch %d: occurrence requires an owning event", catch.ID)
	}
	if catch.Species.IsMixedCatch {
		return nil, fmt.Errorf("catch %d is a mixed catch: %w", catch.ID, ErrInvalidSpecies)
	}
	if catch.Species.AphiaID == nil {
		return nil, fmt.Errorf("catch %d species %q has no aphia id: %w",
			catch.ID, catch.Species.ScientificName, ErrInvalidSpecies)
	}

	if catch.HasParentBaskets && logger != nil {
		logger.Warn("catch has parent baskets, possible misclassified mixed catch",
			"catch_id", catch.ID,
			"species", catch.Species.ScientificName,
			"event_id", event.EventID,
		)
	}

	if isMeaninglessCatch(catch) {
		return nil, fmt.Errorf("catch %d: %w", catch.ID, ErrNoCatchData)
	}

	return &Occurrence{
		OccurrenceID: fmt.Sprintf("%s_%d", event.EventID, catch.ID),
		EventID:      event.EventID,

		VerbatimIdentification: catch.Species.ScientificName,
		ScientificName:         catch.Species.ScientificName,
		ScientificNameID:       scientificNameIDURN(*catch.Species.AphiaID),
		BasisOfRecord:          basisHumanObservation,
		OccurrenceStatus:       occurrenceStatusPresent,
		OccurrenceRemarks:      catch.Notes,
	}, nil
}

// isMeaninglessCatch reports whether a catch carries no data worth
// publishing. The rule fires only when every quantitative field is empty AND
// the catch still holds at least one basket with children; this last clause
// is kept exactly as the field protocol applies it.
func isMeaninglessCatch(catch Catch) bool {
	return !catch.HasChildBaskets &&
		catch.ExtrapolatedSpecimenCount == nil &&
		catch.RelativeAbundanceCategory == "" &&
		catch.TotalBasketWeight == 0 &&
		catch.UnmeasuredSpecimenCount == 0 &&
		catch.SpecimenCount == 0 &&
		catch.ImageCount == 0 &&
		catch.BasketsWithChildren() > 0
}
