package core

import (
	"fmt"
	"strings"
	"time"
)

// monthLayout accepts "03/2025" as well as "3/2025".
const monthLayout = "1/2006"

// Month is a calendar month. The zero value is not a valid month.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses a "MM/YYYY" month key.
func ParseMonth(key string) (Month, error) {
	t, err := time.Parse(monthLayout, strings.TrimSpace(key))
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonthKey, key)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Key renders the month as "MM/YYYY".
func (m Month) Key() string {
	return fmt.Sprintf("%02d/%04d", int(m.Month), m.Year)
}

func (m Month) String() string {
	return m.Key()
}

// FirstDay returns midnight UTC of the first day of the month.
func (m Month) FirstDay() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// Compare returns -1, 0 or +1 depending on chronological order.
func (m Month) Compare(o Month) int {
	switch {
	case m.Year < o.Year:
		return -1
	case m.Year > o.Year:
		return 1
	case m.Month < o.Month:
		return -1
	case m.Month > o.Month:
		return 1
	default:
		return 0
	}
}

func (m Month) Before(o Month) bool { return m.Compare(o) < 0 }

func (m Month) After(o Month) bool { return m.Compare(o) > 0 }
