package core

import (
	"errors"

	"github.com/shopspring/decimal"
)

const (
	FieldValue Field = iota
	FieldPercentage
)

type (
	// Field selects which figure of a MonthEntry is read.
	Field int

	MonthEntry struct {
		Value      decimal.Decimal
		Percentage decimal.Decimal // fraction, 0.25 means 25%
		Number     int64           // measurement sequence, 0 when none was recorded
	}

	// MonthEntries maps a calendar month to its schedule or measurement entry.
	MonthEntries map[Month]MonthEntry

	Service struct {
		Item         string
		Name         string
		Material     decimal.Decimal
		Labor        decimal.Decimal
		Total        decimal.Decimal
		Schedules    MonthEntries
		Measurements MonthEntries
	}

	Project struct {
		ID               string
		Name             string
		City             string
		State            string // acronym, e.g. "SP"
		ConstructionType string
		Services         []Service
	}
)

var (
	ErrInvalidMonthKey = errors.New("invalid month key")
	ErrDuplicateMonth  = errors.New("duplicate month key")
	ErrNotANumber      = errors.New("not a number")
)

// Get returns the requested figure of the entry.
func (e MonthEntry) Get(f Field) decimal.Decimal {
	if f == FieldPercentage {
		return e.Percentage
	}
	return e.Value
}

// Measured reports whether a measurement event was recorded for the entry.
func (e MonthEntry) Measured() bool {
	return e.Number != 0
}

func (f Field) String() string {
	switch f {
	case FieldValue:
		return "value"
	case FieldPercentage:
		return "percentage"
	default:
		return "unknown"
	}
}

// ParseField maps "value" and "percentage" to their Field.
func ParseField(s string) (Field, error) {
	switch s {
	case "value":
		return FieldValue, nil
	case "percentage":
		return FieldPercentage, nil
	default:
		return 0, errors.New("invalid field: must be 'value' or 'percentage'")
	}
}
