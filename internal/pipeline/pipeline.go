// Package pipeline walks the active cruise's survey hierarchy and derives
// the OBIS dataset: one root event, one child event per fishing set, and one
// occurrence per publishable catch. Records are persisted as they are
// derived, parents strictly before children, so every saved occurrence
// references an already-saved event.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/gslCOBIO/andesOBIS/internal/domain"
	"github.com/gslCOBIO/andesOBIS/internal/observability"
)

// SurveySource provides the survey entities the derivation consumes.
type SurveySource interface {
	// ActiveCruise returns the currently active cruise, or an error
	// wrapping domain.ErrNoActiveCruise when there is none.
	ActiveCruise(ctx context.Context) (domain.Cruise, error)

	// FishingSets returns all sets belonging to the cruise.
	FishingSets(ctx context.Context, cruise domain.Cruise) ([]domain.FishingSet, error)

	// Catches returns all catches recorded under the set.
	Catches(ctx context.Context, cruise domain.Cruise, set domain.FishingSet) ([]domain.Catch, error)
}

// RecordStore persists derived OBIS records. Writes are append-only and
// per-record; a failed derivation never leaves a partial record behind.
type RecordStore interface {
	SaveEvent(ctx context.Context, event *domain.Event) error
	SaveOccurrence(ctx context.Context, occurrence *domain.Occurrence) error
	SaveMeasurement(ctx context.Context, measurement *domain.MeasurementOrFact) error
}

// Summary reports what a completed run produced and skipped.
type Summary struct {
	EventsCreated      int
	OccurrencesCreated int
	SetsSkipped        int
	CatchesSkipped     int
	Duration           time.Duration
}

// Pipeline orchestrates the cruise → sets → catches derivation pass.
type Pipeline struct {
	source  SurveySource
	store   RecordStore
	dist    domain.DistanceFunc
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
}

// New creates a Pipeline. A nil dist falls back to the built-in great-circle
// distance; a nil clock uses real time.
func New(source SurveySource, store RecordStore, dist domain.DistanceFunc,
	logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Pipeline {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pipeline{
		source:  source,
		store:   store,
		dist:    dist,
		logger:  logger,
		metrics: metrics,
		clock:   clock,
	}
}

// Run executes one full export pass. Validation failures on individual sets
// and catches are logged and counted but never abort the run; configuration
// errors (no active cruise, unresolvable linkage) and store failures do.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	started := p.clock.Now()
	p.metrics.ExportRunning.Set(1)
	defer p.metrics.ExportRunning.Set(0)

	var summary Summary

	cruise, err := p.source.ActiveCruise(ctx)
	if err != nil {
		return summary, fmt.Errorf("resolve active cruise: %w", err)
	}
	p.logger.Info("export started", "mission", cruise.MissionNumber)

	root, err := domain.DeriveCruiseEvent(cruise, p.dist)
	if err != nil {
		return summary, fmt.Errorf("derive cruise event: %w", err)
	}
	if err := p.store.SaveEvent(ctx, root); err != nil {
		return summary, fmt.Errorf("save cruise event %q: %w", root.EventID, err)
	}
	p.metrics.EventsCreated.Inc()
	summary.EventsCreated++

	sets, err := p.source.FishingSets(ctx, cruise)
	if err != nil {
		return summary, fmt.Errorf("list fishing sets for %q: %w", cruise.MissionNumber, err)
	}

	for _, set := range sets {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := p.processSet(ctx, cruise, set, root, &summary); err != nil {
			return summary, err
		}
	}

	summary.Duration = p.clock.Since(started)
	p.metrics.RunDuration.Observe(summary.Duration.Seconds())
	p.logger.Info("export complete",
		"events_created", summary.EventsCreated,
		"occurrences_created", summary.OccurrencesCreated,
		"sets_skipped", summary.SetsSkipped,
		"catches_skipped", summary.CatchesSkipped,
		"duration", summary.Duration,
	)
	return summary, nil
}

// processSet derives and saves one set event and the occurrences of its
// catches. Sets without fishing operations are skipped silently.
func (p *Pipeline) processSet(ctx context.Context, cruise domain.Cruise,
	set domain.FishingSet, root *domain.Event, summary *Summary) error {

	event, err := domain.DeriveSetEvent(set, root, p.dist)
	if err != nil {
		if errors.Is(err, domain.ErrNoFishingOperations) {
			p.logger.Debug("skipping set without fishing operations", "set", set.SetNumber)
			p.metrics.RecordsSkipped.WithLabelValues("set", "no_fishing_operations").Inc()
			summary.SetsSkipped++
			return nil
		}
		return fmt.Errorf("derive set event: %w", err)
	}
	if err := p.store.SaveEvent(ctx, event); err != nil {
		return fmt.Errorf("save set event %q: %w", event.EventID, err)
	}
	p.metrics.EventsCreated.Inc()
	summary.EventsCreated++

	catches, err := p.source.Catches(ctx, cruise, set)
	if err != nil {
		return fmt.Errorf("list catches for set %d: %w", set.SetNumber, err)
	}

	for _, catch := range catches {
		if err := p.processCatch(ctx, catch, event, summary); err != nil {
			return err
		}
	}
	return nil
}

// processCatch derives and saves one occurrence. Mixed catches are skipped
// (their sub-sampling events are not derivable yet) and validation failures
// are logged with the catch identifier for manual follow-up; a single bad
// catch never aborts the run.
func (p *Pipeline) processCatch(ctx context.Context, catch domain.Catch,
	event *domain.Event, summary *Summary) error {

	if catch.Species.IsMixedCatch {
		p.logger.Debug("skipping mixed catch",
			"catch_id", catch.ID, "event_id", event.EventID)
		p.metrics.RecordsSkipped.WithLabelValues("catch", "mixed_catch").Inc()
		summary.CatchesSkipped++
		return nil
	}

	occurrence, err := domain.DeriveOccurrence(catch, event, p.logger)
	if err != nil {
		reason := skipReason(err)
		if reason == "" {
			return fmt.Errorf("derive occurrence for catch %d: %w", catch.ID, err)
		}
		p.logger.Warn("skipping catch",
			"catch_id", catch.ID,
			"event_id", event.EventID,
			"species", catch.Species.ScientificName,
			"reason", reason,
			"error", err,
		)
		p.metrics.RecordsSkipped.WithLabelValues("catch", reason).Inc()
		summary.CatchesSkipped++
		return nil
	}

	if err := p.store.SaveOccurrence(ctx, occurrence); err != nil {
		return fmt.Errorf("save occurrence %q: %w", occurrence.OccurrenceID, err)
	}
	p.metrics.OccurrencesCreated.Inc()
	summary.OccurrencesCreated++
	return nil
}

// skipReason maps recoverable validation errors to a skip label, or empty for
// errors that must propagate.
func skipReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidSpecies):
		return "invalid_species"
	case errors.Is(err, domain.ErrNoCatchData):
		return "no_catch_data"
	default:
		return ""
	}
}
