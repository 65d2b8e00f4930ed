// Package andes reads survey entities (cruise, sets, catches) from the Andes
// survey platform database. It implements pipeline.SurveySource; the survey
// schema is read-only from this side.
package andes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gslCOBIO/andesOBIS/internal/domain"
)

type cruiseRow struct {
	ID            int64      `gorm:"column:id;primaryKey"`
	MissionNumber string     `gorm:"column:mission_number"`
	StartDate     time.Time  `gorm:"column:start_date"`
	EndDate       *time.Time `gorm:"column:end_date"`
	MinLat        float64    `gorm:"column:min_lat"`
	MaxLat        float64    `gorm:"column:max_lat"`
	MinLng        float64    `gorm:"column:min_lng"`
	MaxLng        float64    `gorm:"column:max_lng"`
	Notes         string     `gorm:"column:notes"`
	DisplayTZ     string     `gorm:"column:display_tz"`
	IsActive      bool       `gorm:"column:is_active"`
}

func (cruiseRow) TableName() string { return "shared_models_cruise" }

type setRow struct {
	ID             int64      `gorm:"column:id;primaryKey"`
	CruiseID       int64      `gorm:"column:cruise_id"`
	SetNumber      int        `gorm:"column:set_number"`
	StartDate      time.Time  `gorm:"column:start_date"`
	EndDate        *time.Time `gorm:"column:end_date"`
	StartLatitude  float64    `gorm:"column:start_latitude"`
	StartLongitude float64    `gorm:"column:start_longitude"`
	StartDepthM    float64    `gorm:"column:start_depth_m"`
	EndLatitude    float64    `gorm:"column:end_latitude"`
	EndLongitude   float64    `gorm:"column:end_longitude"`
	EndDepthM      float64    `gorm:"column:end_depth_m"`
	MaxDepthM      *float64   `gorm:"column:max_depth_m"`
	MinDepthM      *float64   `gorm:"column:min_depth_m"`
	Remarks        string     `gorm:"column:remarks"`
	StationID      *int64     `gorm:"column:station_id"`
}

func (setRow) TableName() string { return "shared_models_set" }

type stationRow struct {
	ID   int64  `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name"`
}

func (stationRow) TableName() string { return "shared_models_station" }

type operationRow struct {
	ID        int64  `gorm:"column:id;primaryKey"`
	Name      string `gorm:"column:name"`
	IsFishing bool   `gorm:"column:is_fishing"`
}

func (operationRow) TableName() string { return "shared_models_operation" }

// setOperationRow is the join table between sets and their operations.
type setOperationRow struct {
	SetID       int64 `gorm:"column:set_id"`
	OperationID int64 `gorm:"column:operation_id"`
}

func (setOperationRow) TableName() string { return "shared_models_set_operations" }

type speciesRow struct {
	ID             int64  `gorm:"column:id;primaryKey"`
	ScientificName string `gorm:"column:scientific_name"`
	AphiaID        *int64 `gorm:"column:aphia_id"`
	IsMixedCatch   bool   `gorm:"column:is_mixed_catch"`
}

func (speciesRow) TableName() string { return "shared_models_species" }

type catchRow struct {
	ID                        int64    `gorm:"column:id;primaryKey"`
	SetID                     int64    `gorm:"column:set_id"`
	SpeciesID                 int64    `gorm:"column:species_id"`
	ExtrapolatedSpecimenCount *int     `gorm:"column:extrapolated_specimen_count"`
	RelativeAbundanceCategory *string  `gorm:"column:relative_abundance_category"`
	TotalBasketWeight         *float64 `gorm:"column:total_basket_weight"`
	UnmeasuredSpecimenCount   *int     `gorm:"column:unmeasured_specimen_count"`
	Notes                     string   `gorm:"column:notes"`
}

func (catchRow) TableName() string { return "ecosystem_survey_catch" }

type basketRow struct {
	ID             int64  `gorm:"column:id;primaryKey"`
	CatchID        int64  `gorm:"column:catch_id"`
	ParentBasketID *int64 `gorm:"column:parent_basket_id"`
}

func (basketRow) TableName() string { return "ecosystem_survey_basket" }

// Source reads the survey hierarchy through gorm.
type Source struct {
	db *gorm.DB
}

// New connects to the Andes database.
func New(dsn string) (*Source, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open andes database: %w", err)
	}
	return &Source{db: db}, nil
}

// ActiveCruise returns the single active cruise.
func (s *Source) ActiveCruise(ctx context.Context) (domain.Cruise, error) {
	var row cruiseRow
	err := s.db.WithContext(ctx).Where("is_active = ?", true).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Cruise{}, domain.ErrNoActiveCruise
	}
	if err != nil {
		return domain.Cruise{}, fmt.Errorf("query active cruise: %w", err)
	}

	tz, err := time.LoadLocation(row.DisplayTZ)
	if err != nil {
		return domain.Cruise{}, fmt.Errorf("cruise %q display timezone %q: %w",
			row.MissionNumber, row.DisplayTZ, err)
	}

	return domain.Cruise{
		MissionNumber: row.MissionNumber,
		StartDate:     row.StartDate,
		EndDate:       row.EndDate,
		MinLat:        row.MinLat,
		MaxLat:        row.MaxLat,
		MinLng:        row.MinLng,
		MaxLng:        row.MaxLng,
		Notes:         row.Notes,
		DisplayTZ:     tz,
	}, nil
}

// FishingSets returns the cruise's sets with their stations and operations.
func (s *Source) FishingSets(ctx context.Context, cruise domain.Cruise) ([]domain.FishingSet, error) {
	var cr cruiseRow
	err := s.db.WithContext(ctx).
		Where("mission_number = ?", cruise.MissionNumber).
		First(&cr).Error
	if err != nil {
		return nil, fmt.Errorf("resolve cruise %q: %w", cruise.MissionNumber, err)
	}

	var rows []setRow
	if err := s.db.WithContext(ctx).
		Where("cruise_id = ?", cr.ID).
		Order("set_number").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query sets for cruise %q: %w", cruise.MissionNumber, err)
	}

	sets := make([]domain.FishingSet, 0, len(rows))
	for _, row := range rows {
		set, err := s.toFishingSet(ctx, row)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}

func (s *Source) toFishingSet(ctx context.Context, row setRow) (domain.FishingSet, error) {
	set := domain.FishingSet{
		SetNumber:      row.SetNumber,
		StartDate:      row.StartDate,
		EndDate:        row.EndDate,
		StartLatitude:  row.StartLatitude,
		StartLongitude: row.StartLongitude,
		StartDepthM:    row.StartDepthM,
		EndLatitude:    row.EndLatitude,
		EndLongitude:   row.EndLongitude,
		EndDepthM:      row.EndDepthM,
		MaxDepthM:      row.MaxDepthM,
		MinDepthM:      row.MinDepthM,
		Remarks:        row.Remarks,
	}

	if row.StationID != nil {
		var station stationRow
		if err := s.db.WithContext(ctx).First(&station, *row.StationID).Error; err != nil {
			return domain.FishingSet{}, fmt.Errorf("query station for set %d: %w", row.SetNumber, err)
		}
		set.Station = domain.Station{Name: station.Name}
	}

	var ops []operationRow
	err := s.db.WithContext(ctx).
		Joins("JOIN shared_models_set_operations so ON so.operation_id = shared_models_operation.id").
		Where("so.set_id = ?", row.ID).
		Find(&ops).Error
	if err != nil {
		return domain.FishingSet{}, fmt.Errorf("query operations for set %d: %w", row.SetNumber, err)
	}
	for _, op := range ops {
		set.Operations = append(set.Operations, domain.Operation{
			Name:      op.Name,
			IsFishing: op.IsFishing,
		})
	}
	return set, nil
}

// Catches returns the catches of a set with species, basket structure, and
// specimen/image counts resolved.
func (s *Source) Catches(ctx context.Context, cruise domain.Cruise, set domain.FishingSet) ([]domain.Catch, error) {
	var sr setRow
	err := s.db.WithContext(ctx).
		Joins("JOIN shared_models_cruise c ON c.id = shared_models_set.cruise_id").
		Where("c.mission_number = ? AND shared_models_set.set_number = ?",
			cruise.MissionNumber, set.SetNumber).
		First(&sr).Error
	if err != nil {
		return nil, fmt.Errorf("resolve set %d: %w", set.SetNumber, err)
	}

	var rows []catchRow
	if err := s.db.WithContext(ctx).
		Where("set_id = ?", sr.ID).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query catches for set %d: %w", set.SetNumber, err)
	}

	catches := make([]domain.Catch, 0, len(rows))
	for _, row := range rows {
		c, err := s.toCatch(ctx, row)
		if err != nil {
			return nil, err
		}
		catches = append(catches, c)
	}
	return catches, nil
}

func (s *Source) toCatch(ctx context.Context, row catchRow) (domain.Catch, error) {
	var species speciesRow
	if err := s.db.WithContext(ctx).First(&species, row.SpeciesID).Error; err != nil {
		return domain.Catch{}, fmt.Errorf("query species for catch %d: %w", row.ID, err)
	}

	c := domain.Catch{
		ID: row.ID,
		Species: domain.Species{
			ScientificName: species.ScientificName,
			AphiaID:        species.AphiaID,
			IsMixedCatch:   species.IsMixedCatch,
		},
		ExtrapolatedSpecimenCount: row.ExtrapolatedSpecimenCount,
		Notes:                     row.Notes,
	}
	if row.RelativeAbundanceCategory != nil {
		c.RelativeAbundanceCategory = *row.RelativeAbundanceCategory
	}
	if row.TotalBasketWeight != nil {
		c.TotalBasketWeight = *row.TotalBasketWeight
	}
	if row.UnmeasuredSpecimenCount != nil {
		c.UnmeasuredSpecimenCount = *row.UnmeasuredSpecimenCount
	}

	if err := s.loadBaskets(ctx, row.ID, &c); err != nil {
		return domain.Catch{}, err
	}

	var specimenCount int64
	err := s.db.WithContext(ctx).Table("ecosystem_survey_specimen").
		Where("catch_id = ?", row.ID).Count(&specimenCount).Error
	if err != nil {
		return domain.Catch{}, fmt.Errorf("count specimens for catch %d: %w", row.ID, err)
	}
	c.SpecimenCount = int(specimenCount)

	var imageCount int64
	err = s.db.WithContext(ctx).Table("images_image").
		Where("catch_id = ?", row.ID).Count(&imageCount).Error
	if err != nil {
		return domain.Catch{}, fmt.Errorf("count images for catch %d: %w", row.ID, err)
	}
	c.ImageCount = int(imageCount)

	return c, nil
}

// loadBaskets resolves the basket structure of a catch: the basket list with
// child flags, plus the parent/child grouping indicators.
func (s *Source) loadBaskets(ctx context.Context, catchID int64, c *domain.Catch) error {
	var rows []basketRow
	if err := s.db.WithContext(ctx).
		Where("catch_id = ?", catchID).
		Find(&rows).Error; err != nil {
		return fmt.Errorf("query baskets for catch %d: %w", catchID, err)
	}

	children := make(map[int64]bool, len(rows))
	for _, b := range rows {
		if b.ParentBasketID != nil {
			children[*b.ParentBasketID] = true
			c.HasParentBaskets = true
		}
	}
	for _, b := range rows {
		hasChildren := children[b.ID]
		if hasChildren {
			c.HasChildBaskets = true
		}
		c.Baskets = append(c.Baskets, domain.Basket{HasChildren: hasChildren})
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Source) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
