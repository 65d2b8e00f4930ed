package domain

import (
	"fmt"
	"time"
)

// Precision encodes the coarsest known time unit of a survey instant.
// Codes follow the Andes datetime precision vocabulary: 1=year through
// 7=millisecond. Instants recorded at sea default to second precision.
type Precision int

const (
	PrecisionYear Precision = iota + 1
	PrecisionMonth
	PrecisionDay
	PrecisionHour
	PrecisionMinute
	PrecisionSecond
	PrecisionMillisecond
)

// DefaultPrecision is assumed when a source instant carries no precision tag.
const DefaultPrecision = PrecisionSecond

// dateTimeLayouts maps each precision code to its OBIS-compliant layout.
// Codes 1-3 render calendar dates only; codes 4-7 add a time of day with a
// numeric UTC offset, as required for dwc:eventDate.
var dateTimeLayouts = map[Precision]string{
	PrecisionYear:        "2006",
	PrecisionMonth:       "2006-01",
	PrecisionDay:         "2006-01-02",
	PrecisionHour:        "2006-01-02T15-0700",
	PrecisionMinute:      "2006-01-02T15:04-0700",
	PrecisionSecond:      "2006-01-02T15:04:05-0700",
	PrecisionMillisecond: "2006-01-02T15:04:05.000000-0700",
}

// timeOfDayLayouts is the restriction of dateTimeLayouts to the time portion.
// Precision coarser than an hour has no time component.
var timeOfDayLayouts = map[Precision]string{
	PrecisionHour:        "15-0700",
	PrecisionMinute:      "15:04-0700",
	PrecisionSecond:      "15:04:05-0700",
	PrecisionMillisecond: "15:04:05.000000-0700",
}

// FormatDateTime renders an instant at the given precision, localized to loc.
// A nil loc leaves the instant in its own location. Unknown precision codes
// are an error rather than a best-effort guess: a wrong granularity would
// silently corrupt the published eventDate.
func FormatDateTime(t time.Time, p Precision, loc *time.Location) (string, error) {
	layout, ok := dateTimeLayouts[p]
	if !ok {
		return "", fmt.Errorf("format datetime: unsupported precision code %d", p)
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(layout), nil
}

// FormatTimeOfDay renders only the time-of-day portion of an instant.
// Precision codes 1-3 yield an empty string: a date-only instant has no
// meaningful dwc:eventTime.
func FormatTimeOfDay(t time.Time, p Precision, loc *time.Location) (string, error) {
	if _, ok := dateTimeLayouts[p]; !ok {
		return "", fmt.Errorf("format time of day: unsupported precision code %d", p)
	}
	layout, ok := timeOfDayLayouts[p]
	if !ok {
		return "", nil
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(layout), nil
}
