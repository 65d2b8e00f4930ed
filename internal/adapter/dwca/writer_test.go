package dwca

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gslCOBIO/andesOBIS/internal/domain"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func float64Ptr(v float64) *float64 { return &v }

func TestWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "archive")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	w, err := NewWriter(dir, logger)
	require.NoError(t, err)

	tz := time.FixedZone("EDT", -4*3600)
	root := &domain.Event{
		EventID:                       "2024001",
		Source:                        domain.SourceCruise,
		StartTime:                     time.Date(2024, 3, 10, 0, 0, 0, 0, tz),
		StartPrecision:                domain.PrecisionDay,
		Timezone:                      tz,
		DecimalLatitude:               float64Ptr(44.5),
		DecimalLongitude:              float64Ptr(-63.5),
		CoordinateUncertaintyInMeters: float64Ptr(9260),
		EventType:                     "Project",
		Country:                       "Canada",
		CountryCode:                   "CA",
		Language:                      "En",
	}
	child := &domain.Event{
		EventID:        "2024001-Set7",
		Parent:         root,
		Source:         domain.SourceFishingSet,
		StartTime:      time.Date(2024, 3, 12, 10, 30, 15, 0, time.UTC),
		StartPrecision: domain.PrecisionSecond,
		EventType:      "SiteVisit",
		FootprintWKT:   "LINESTRING Z (-63.8 44.2 120, -63.7 44.3 135)",
	}

	require.NoError(t, w.SaveEvent(context.Background(), root))
	require.NoError(t, w.SaveEvent(context.Background(), child))
	require.NoError(t, w.SaveOccurrence(context.Background(), &domain.Occurrence{
		OccurrenceID:           "2024001-Set7_3",
		EventID:                "2024001-Set7",
		VerbatimIdentification: "Gadus morhua",
		ScientificName:         "Gadus morhua",
		ScientificNameID:       "urn:lsid:marinespecies.org:taxname:104828",
		BasisOfRecord:          "HumanObservation",
		OccurrenceStatus:       "present",
	}))
	require.NoError(t, w.SaveMeasurement(context.Background(), &domain.MeasurementOrFact{
		EventID:          "2024001-Set7",
		OccurrenceID:     "2024001-Set7_3",
		MeasurementType:  "total weight",
		MeasurementValue: "45.2",
		MeasurementUnit:  "kg",
	}))
	require.NoError(t, w.Close())

	t.Run("event table", func(t *testing.T) {
		rows := readCSV(t, filepath.Join(dir, "event.csv"))
		require.Len(t, rows, 3)
		assert.Equal(t, eventHeader, rows[0])

		header := rows[0]
		rootRow := rows[1]
		byCol := func(row []string, name string) string {
			for i, col := range header {
				if col == name {
					return row[i]
				}
			}
			t.Fatalf("column %q not in header", name)
			return ""
		}

		assert.Equal(t, "2024001", byCol(rootRow, "eventID"))
		assert.Equal(t, "", byCol(rootRow, "parentEventID"))
		assert.Equal(t, "2024-03-10", byCol(rootRow, "eventDate"))
		assert.Equal(t, "", byCol(rootRow, "eventTime"))
		assert.Equal(t, "44.5", byCol(rootRow, "decimalLatitude"))
		assert.Equal(t, "-63.5", byCol(rootRow, "decimalLongitude"))
		assert.Equal(t, "9260", byCol(rootRow, "coordinateUncertaintyInMeters"))
		assert.Equal(t, "EPSG:4326", byCol(rootRow, "geodeticDatum"))
		assert.Equal(t, "", byCol(rootRow, "footprintSRS"))

		childRow := rows[2]
		assert.Equal(t, "2024001-Set7", byCol(childRow, "eventID"))
		assert.Equal(t, "2024001", byCol(childRow, "parentEventID"))
		assert.Equal(t, "2024-03-12T06:30:15-0400", byCol(childRow, "eventDate"))
		assert.Equal(t, "06:30:15-0400", byCol(childRow, "eventTime"))
		assert.Equal(t, "EPSG:4326", byCol(childRow, "footprintSRS"))
	})

	t.Run("occurrence table", func(t *testing.T) {
		rows := readCSV(t, filepath.Join(dir, "occurrence.csv"))
		require.Len(t, rows, 2)
		assert.Equal(t, occurrenceHeader, rows[0])
		assert.Equal(t, "2024001-Set7_3", rows[1][0])
		assert.Equal(t, "2024001-Set7", rows[1][1])
		assert.Equal(t, "urn:lsid:marinespecies.org:taxname:104828", rows[1][4])
	})

	t.Run("emof table", func(t *testing.T) {
		rows := readCSV(t, filepath.Join(dir, "emof.csv"))
		require.Len(t, rows, 2)
		assert.Equal(t, emofHeader, rows[0])
		assert.Equal(t, "total weight", rows[1][2])
	})
}

func TestWriterOrphanEvent(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer w.Close()

	orphan := &domain.Event{
		EventID:        "stray-Set1",
		StartTime:      time.Now(),
		StartPrecision: domain.PrecisionSecond,
	}

	err = w.SaveEvent(context.Background(), orphan)
	assert.ErrorIs(t, err, domain.ErrNoCruiseAncestor)
}
