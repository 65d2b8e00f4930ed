// Package dwca writes derived OBIS records as a Darwin Core archive: three
// CSV files (event.csv, occurrence.csv, emof.csv) suitable for OBIS-IPT
// ingestion.
package dwca

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gslCOBIO/andesOBIS/internal/domain"
)

var eventHeader = []string{
	"eventID", "parentEventID", "eventType", "eventDate", "eventTime",
	"year", "month", "decimalLatitude", "decimalLongitude",
	"coordinateUncertaintyInMeters", "coordinatePrecision", "geodeticDatum",
	"footprintWKT", "footprintSRS", "maximumDepthInMeters",
	"minimumDepthInMeters", "continent", "country", "countryCode",
	"institutionID", "institutionCode", "datasetName", "fieldNumber",
	"eventRemarks", "language", "license", "rightsHolder",
}

var occurrenceHeader = []string{
	"occurrenceID", "eventID", "verbatimIdentification", "scientificName",
	"scientificNameID", "basisOfRecord", "occurrenceStatus",
	"occurrenceRemarks", "associatedMedia",
}

var emofHeader = []string{
	"eventID", "occurrenceID", "measurementType", "measurementValue",
	"measurementUnit", "measurementTypeID", "measurementValueID",
	"measurementRemarks",
}

// Writer streams records into the archive files as they are saved. It
// implements pipeline.RecordStore; Close flushes and closes the files.
type Writer struct {
	dir    string
	logger *slog.Logger

	files   []*os.File
	events  *csv.Writer
	occTab  *csv.Writer
	emofTab *csv.Writer
}

// NewWriter creates the archive directory and the three CSV files with their
// header rows.
func NewWriter(dir string, logger *slog.Logger) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir %q: %w", dir, err)
	}

	w := &Writer{dir: dir, logger: logger}
	tables := []struct {
		name   string
		header []string
		dest   **csv.Writer
	}{
		{"event.csv", eventHeader, &w.events},
		{"occurrence.csv", occurrenceHeader, &w.occTab},
		{"emof.csv", emofHeader, &w.emofTab},
	}
	for _, tab := range tables {
		f, err := os.Create(filepath.Join(dir, tab.name))
		if err != nil {
			w.closeFiles()
			return nil, fmt.Errorf("create %s: %w", tab.name, err)
		}
		w.files = append(w.files, f)
		cw := csv.NewWriter(f)
		if err := cw.Write(tab.header); err != nil {
			w.closeFiles()
			return nil, fmt.Errorf("write %s header: %w", tab.name, err)
		}
		*tab.dest = cw
	}
	return w, nil
}

// SaveEvent renders the event's derived date strings and appends one row to
// event.csv.
func (w *Writer) SaveEvent(_ context.Context, event *domain.Event) error {
	date, err := event.EventDate()
	if err != nil {
		return fmt.Errorf("render event date for %q: %w", event.EventID, err)
	}
	timeOfDay, err := event.EventTime()
	if err != nil {
		return fmt.Errorf("render event time for %q: %w", event.EventID, err)
	}

	row := []string{
		event.EventID,
		event.ParentEventID(),
		event.EventType,
		date,
		timeOfDay,
		event.Year(),
		event.Month(),
		formatOptFloat(event.DecimalLatitude),
		formatOptFloat(event.DecimalLongitude),
		formatOptFloat(event.CoordinateUncertaintyInMeters),
		formatOptFloat(event.CoordinatePrecision),
		event.GeodeticDatum(),
		event.FootprintWKT,
		event.FootprintSRS(),
		formatOptFloat(event.MaximumDepthInMeters),
		formatOptFloat(event.MinimumDepthInMeters),
		event.Continent,
		event.Country,
		event.CountryCode,
		event.InstitutionID,
		event.InstitutionCode,
		event.DatasetName,
		event.FieldNumber,
		event.EventRemarks,
		event.Language,
		event.License,
		event.RightsHolder,
	}
	return w.events.Write(row)
}

// SaveOccurrence appends one row to occurrence.csv.
func (w *Writer) SaveOccurrence(_ context.Context, occ *domain.Occurrence) error {
	return w.occTab.Write([]string{
		occ.OccurrenceID,
		occ.EventID,
		occ.VerbatimIdentification,
		occ.ScientificName,
		occ.ScientificNameID,
		occ.BasisOfRecord,
		occ.OccurrenceStatus,
		occ.OccurrenceRemarks,
		occ.AssociatedMedia,
	})
}

// SaveMeasurement appends one row to emof.csv.
func (w *Writer) SaveMeasurement(_ context.Context, m *domain.MeasurementOrFact) error {
	return w.emofTab.Write([]string{
		m.EventID,
		m.OccurrenceID,
		m.MeasurementType,
		m.MeasurementValue,
		m.MeasurementUnit,
		m.MeasurementTypeID,
		m.MeasurementValueID,
		m.MeasurementRemarks,
	})
}

// Close flushes all tables and closes the archive files.
func (w *Writer) Close() error {
	var firstErr error
	for _, cw := range []*csv.Writer{w.events, w.occTab, w.emofTab} {
		if cw == nil {
			continue
		}
		cw.Flush()
		if err := cw.Error(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := w.closeFiles(); err != nil && firstErr == nil {
		firstErr = err
	}
	if firstErr == nil && w.logger != nil {
		w.logger.Info("archive written", "dir", w.dir)
	}
	return firstErr
}

func (w *Writer) closeFiles() error {
	var firstErr error
	for _, f := range w.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	w.files = nil
	return firstErr
}

func formatOptFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
