// Package obisdb persists derived OBIS records to the dedicated record
// database, one flattened Darwin Core row per record.
package obisdb

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gslCOBIO/andesOBIS/internal/domain"
)

// eventRow is the flattened dwc:Event record. Derived strings (eventDate,
// eventTime, year) are rendered at save time; the table is the published
// form, not the working model.
type eventRow struct {
	EventID       string  `gorm:"column:event_id;primaryKey"`
	ParentEventID *string `gorm:"column:parent_event_id"`
	EventType     string  `gorm:"column:event_type"`
	EventDate     string  `gorm:"column:event_date"`
	EventTime     string  `gorm:"column:event_time"`
	Year          string  `gorm:"column:year"`
	Month         string  `gorm:"column:month"`

	DecimalLatitude               *float64 `gorm:"column:decimal_latitude"`
	DecimalLongitude              *float64 `gorm:"column:decimal_longitude"`
	CoordinateUncertaintyInMeters *float64 `gorm:"column:coordinate_uncertainty_in_meters"`
	CoordinatePrecision           *float64 `gorm:"column:coordinate_precision"`
	GeodeticDatum                 string   `gorm:"column:geodetic_datum"`
	FootprintWKT                  *string  `gorm:"column:footprint_wkt"`
	FootprintSRS                  *string  `gorm:"column:footprint_srs"`

	MaximumDepthInMeters *float64 `gorm:"column:maximum_depth_in_meters"`
	MinimumDepthInMeters *float64 `gorm:"column:minimum_depth_in_meters"`

	Continent       string `gorm:"column:continent"`
	Country         string `gorm:"column:country"`
	CountryCode     string `gorm:"column:country_code"`
	InstitutionID   string `gorm:"column:institution_id"`
	InstitutionCode string `gorm:"column:institution_code"`
	DatasetName     string `gorm:"column:dataset_name"`
	FieldNumber     string `gorm:"column:field_number"`
	EventRemarks    string `gorm:"column:event_remarks"`
	Language        string `gorm:"column:language"`
	License         string `gorm:"column:license"`
	RightsHolder    string `gorm:"column:rights_holder"`
}

func (eventRow) TableName() string { return "events" }

type occurrenceRow struct {
	OccurrenceID           string `gorm:"column:occurrence_id;primaryKey"`
	EventID                string `gorm:"column:event_id;index"`
	VerbatimIdentification string `gorm:"column:verbatim_identification"`
	ScientificName         string `gorm:"column:scientific_name"`
	ScientificNameID       string `gorm:"column:scientific_name_id"`
	BasisOfRecord          string `gorm:"column:basis_of_record"`
	OccurrenceStatus       string `gorm:"column:occurrence_status"`
	OccurrenceRemarks      string `gorm:"column:occurrence_remarks"`
	AssociatedMedia        string `gorm:"column:associated_media"`
}

func (occurrenceRow) TableName() string { return "occurrences" }

type measurementRow struct {
	ID                 int64  `gorm:"column:id;primaryKey;autoIncrement"`
	EventID            string `gorm:"column:event_id;index"`
	OccurrenceID       string `gorm:"column:occurrence_id;index"`
	MeasurementType    string `gorm:"column:measurement_type"`
	MeasurementValue   string `gorm:"column:measurement_value"`
	MeasurementUnit    string `gorm:"column:measurement_unit"`
	MeasurementTypeID  string `gorm:"column:measurement_type_id"`
	MeasurementValueID string `gorm:"column:measurement_value_id"`
	MeasurementRemarks string `gorm:"column:measurement_remarks"`
}

func (measurementRow) TableName() string { return "measurement_or_facts" }

// Store writes OBIS records through gorm. It implements
// pipeline.RecordStore.
type Store struct {
	db *gorm.DB
}

// New connects to the OBIS database and migrates the record tables.
func New(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open obis database: %w", err)
	}
	if err := db.AutoMigrate(&eventRow{}, &occurrenceRow{}, &measurementRow{}); err != nil {
		return nil, fmt.Errorf("migrate obis tables: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveEvent flattens and inserts one event row.
func (s *Store) SaveEvent(ctx context.Context, event *domain.Event) error {
	row, err := toEventRow(event)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(row).Error
}

// SaveOccurrence inserts one occurrence row.
func (s *Store) SaveOccurrence(ctx context.Context, occ *domain.Occurrence) error {
	row := &occurrenceRow{
		OccurrenceID:           occ.OccurrenceID,
		EventID:                occ.EventID,
		VerbatimIdentification: occ.VerbatimIdentification,
		ScientificName:         occ.ScientificName,
		ScientificNameID:       occ.ScientificNameID,
		BasisOfRecord:          occ.BasisOfRecord,
		OccurrenceStatus:       occ.OccurrenceStatus,
		OccurrenceRemarks:      occ.OccurrenceRemarks,
		AssociatedMedia:        occ.AssociatedMedia,
	}
	return s.db.WithContext(ctx).Create(row).Error
}

// SaveMeasurement inserts one measurement row.
func (s *Store) SaveMeasurement(ctx context.Context, m *domain.MeasurementOrFact) error {
	row := &measurementRow{
		EventID:            m.EventID,
		OccurrenceID:       m.OccurrenceID,
		MeasurementType:    m.MeasurementType,
		MeasurementValue:   m.MeasurementValue,
		MeasurementUnit:    m.MeasurementUnit,
		MeasurementTypeID:  m.MeasurementTypeID,
		MeasurementValueID: m.MeasurementValueID,
		MeasurementRemarks: m.MeasurementRemarks,
	}
	return s.db.WithContext(ctx).Create(row).Error
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toEventRow(event *domain.Event) (*eventRow, error) {
	date, err := event.EventDate()
	if err != nil {
		return nil, fmt.Errorf("render event date for %q: %w", event.EventID, err)
	}
	timeOfDay, err := event.EventTime()
	if err != nil {
		return nil, fmt.Errorf("render event time for %q: %w", event.EventID, err)
	}

	row := &eventRow{
		EventID:   event.EventID,
		EventType: event.EventType,
		EventDate: date,
		EventTime: timeOfDay,
		Year:      event.Year(),
		Month:     event.Month(),

		DecimalLatitude:               event.DecimalLatitude,
		DecimalLongitude:              event.DecimalLongitude,
		CoordinateUncertaintyInMeters: event.CoordinateUncertaintyInMeters,
		CoordinatePrecision:           event.CoordinatePrecision,
		GeodeticDatum:                 event.GeodeticDatum(),

		MaximumDepthInMeters: event.MaximumDepthInMeters,
		MinimumDepthInMeters: event.MinimumDepthInMeters,

		Continent:       event.Continent,
		Country:         event.Country,
		CountryCode:     event.CountryCode,
		InstitutionID:   event.InstitutionID,
		InstitutionCode: event.InstitutionCode,
		DatasetName:     event.DatasetName,
		FieldNumber:     event.FieldNumber,
		EventRemarks:    event.EventRemarks,
		Language:        event.Language,
		License:         event.License,
		RightsHolder:    event.RightsHolder,
	}
	if parentID := event.ParentEventID(); parentID != "" {
		row.ParentEventID = &parentID
	}
	if event.FootprintWKT != "" {
		wkt := event.FootprintWKT
		srs := event.FootprintSRS()
		row.FootprintWKT = &wkt
		row.FootprintSRS = &srs
	}
	return row, nil
}
