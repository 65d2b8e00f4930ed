package domain

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func intPtr(v int) *int { return &v }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCatch() Catch {
	return Catch{
		ID: 3,
		Species: Species{
			ScientificName: "Gadus morhua",
			AphiaID:        int64Ptr(104828),
		},
		TotalBasketWeight: 45.2,
		SpecimenCount:     12,
		Notes:             "two baskets combined",
	}
}

func testOwningEvent() *Event {
	return &Event{EventID: "2024001-Set7", Timezone: testTZ}
}

func TestDeriveOccurrence(t *testing.T) {
	t.Run("publishable catch", func(t *testing.T) {
		occ, err := DeriveOccurrence(testCatch(), testOwningEvent(), discardLogger())
		require.NoError(t, err)

		assert.Equal(t, "2024001-Set7_3", occ.OccurrenceID)
		assert.Equal(t, "2024001-Set7", occ.EventID)
		assert.Equal(t, "Gadus morhua", occ.ScientificName)
		assert.Equal(t, "Gadus morhua", occ.VerbatimIdentification)
		assert.Equal(t, "urn:lsid:marinespecies.org:taxname:104828", occ.ScientificNameID)
		assert.Equal(t, "HumanObservation", occ.BasisOfRecord)
		assert.Equal(t, "present", occ.OccurrenceStatus)
		assert.Equal(t, "two baskets combined", occ.OccurrenceRemarks)
		assert.Empty(t, occ.AssociatedMedia)
	})

	t.Run("mixed catch species", func(t *testing.T) {
		catch := testCatch()
		catch.Species.IsMixedCatch = true

		_, err := DeriveOccurrence(catch, testOwningEvent(), discardLogger())
		assert.ErrorIs(t, err, ErrInvalidSpecies)
	})

	t.Run("species without aphia id", func(t *testing.T) {
		catch := testCatch()
		catch.Species.AphiaID = nil

		_, err := DeriveOccurrence(catch, testOwningEvent(), discardLogger())
		assert.ErrorIs(t, err, ErrInvalidSpecies)
	})

	t.Run("nil owning event", func(t *testing.T) {
		_, err := DeriveOccurrence(testCatch(), nil, discardLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "owning event")
	})

	t.Run("parent baskets warn but publish", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		catch := testCatch()
		catch.HasParentBaskets = true

		occ, err := DeriveOccurrence(catch, testOwningEvent(), logger)
		require.NoError(t, err)
		assert.NotNil(t, occ)
		assert.Contains(t, buf.String(), "parent baskets")
	})
}

// emptyCatchWithStructure is a catch with every quantitative field empty but a
// basket that holds children, which is exactly the shape the no-catch-data
// rule rejects.
func emptyCatchWithStructure() Catch {
	return Catch{
		ID: 9,
		Species: Species{
			ScientificName: "Sebastes mentella",
			AphiaID:        int64Ptr(127254),
		},
		Baskets: []Basket{{HasChildren: true}},
	}
}

func TestDeriveOccurrenceNoCatchData(t *testing.T) {
	t.Run("rejects a catch with no data", func(t *testing.T) {
		_, err := DeriveOccurrence(emptyCatchWithStructure(), testOwningEvent(), discardLogger())
		assert.ErrorIs(t, err, ErrNoCatchData)
	})

	t.Run("rule does not fire without a basket holding children", func(t *testing.T) {
		catch := emptyCatchWithStructure()
		catch.Baskets = []Basket{{HasChildren: false}}

		_, err := DeriveOccurrence(catch, testOwningEvent(), discardLogger())
		assert.NoError(t, err)
	})

	t.Run("any substantive field rescues the catch", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*Catch)
		}{
			{"child baskets", func(c *Catch) { c.HasChildBaskets = true }},
			{"extrapolated count", func(c *Catch) { c.ExtrapolatedSpecimenCount = intPtr(250) }},
			{"abundance category", func(c *Catch) { c.RelativeAbundanceCategory = "abundant" }},
			{"basket weight", func(c *Catch) { c.TotalBasketWeight = 0.5 }},
			{"unmeasured specimens", func(c *Catch) { c.UnmeasuredSpecimenCount = 4 }},
			{"specimens", func(c *Catch) { c.SpecimenCount = 1 }},
			{"images", func(c *Catch) { c.ImageCount = 2 }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				catch := emptyCatchWithStructure()
				tt.mutate(&catch)

				occ, err := DeriveOccurrence(catch, testOwningEvent(), discardLogger())
				require.NoError(t, err)
				assert.Equal(t, "2024001-Set7_9", occ.OccurrenceID)
			})
		}
	})
}
