package domain

import "time"

// Cruise is a research mission as recorded by the survey platform. One cruise
// is active at a time and becomes the root sampling event of the dataset.
type Cruise struct {
	MissionNumber string
	StartDate     time.Time
	EndDate       *time.Time
	MinLat        float64
	MaxLat        float64
	MinLng        float64
	MaxLng        float64
	Notes         string

	// DisplayTZ is the timezone the mission operates in. All date strings
	// rendered for the cruise and its descendant events use it.
	DisplayTZ *time.Location
}

// Station is the planned sampling location of a fishing set.
type Station struct {
	Name string
}

// Operation is a single activity performed during a set. Only sets with at
// least one fishing operation produce sampling events.
type Operation struct {
	Name      string
	IsFishing bool
}

// FishingSet is one gear deployment during a cruise, with start and end
// fixes recorded by the bridge.
type FishingSet struct {
	SetNumber int

	StartDate time.Time
	EndDate   *time.Time

	StartLatitude  float64
	StartLongitude float64
	StartDepthM    float64
	EndLatitude    float64
	EndLongitude   float64
	EndDepthM      float64

	MaxDepthM *float64
	MinDepthM *float64

	Remarks    string
	Station    Station
	Operations []Operation
}

// HasFishingOperations reports whether any operation on the set is a fishing
// operation.
func (s FishingSet) HasFishingOperations() bool {
	for _, op := range s.Operations {
		if op.IsFishing {
			return true
		}
	}
	return false
}

// Species identifies the taxon of a catch. AphiaID is the World Register of
// Marine Species identifier; catches without one cannot be published.
type Species struct {
	ScientificName string
	AphiaID        *int64
	IsMixedCatch   bool
}

// Basket is a weighed grouping of specimens within a catch. Baskets may hold
// child baskets when a catch is sub-sampled.
type Basket struct {
	HasChildren bool
}

// Catch is everything recorded against one species in one set.
type Catch struct {
	ID      int64
	Species Species

	HasParentBaskets bool
	HasChildBaskets  bool

	ExtrapolatedSpecimenCount *int
	RelativeAbundanceCategory string
	TotalBasketWeight         float64
	UnmeasuredSpecimenCount   int

	SpecimenCount int
	ImageCount    int
	Baskets       []Basket

	Notes string
}

// BasketsWithChildren counts the baskets of the catch that themselves hold
// child baskets.
func (c Catch) BasketsWithChildren() int {
	n := 0
	for _, b := range c.Baskets {
		if b.HasChildren {
			n++
		}
	}
	return n
}
