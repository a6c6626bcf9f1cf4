package core

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Cumulative sums the field of every entry up to and including ref.
func Cumulative(entries MonthEntries, f Field, ref Month) decimal.Decimal {
	sum := decimal.Zero
	for m, e := range entries {
		if m.After(ref) {
			continue
		}
		sum = sum.Add(e.Get(f))
	}
	return sum
}

// Period returns the field of the entry recorded exactly at ref, or zero.
func Period(entries MonthEntries, f Field, ref Month) decimal.Decimal {
	e, ok := entries[ref]
	if !ok {
		return decimal.Zero
	}
	return e.Get(f)
}

// Months returns the months present in entries in chronological order.
func (entries MonthEntries) Months() []Month {
	out := make([]Month, 0, len(entries))
	for m := range entries {
		out = append(out, m)
	}
	slices.SortFunc(out, Month.Compare)
	return out
}

// AllMonths returns every schedule and measurement month across services,
// deduplicated and in chronological order.
func AllMonths(services []Service) []Month {
	seen := make(map[Month]struct{})
	for _, s := range services {
		for m := range s.Schedules {
			seen[m] = struct{}{}
		}
		for m := range s.Measurements {
			seen[m] = struct{}{}
		}
	}
	out := make([]Month, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	slices.SortFunc(out, Month.Compare)
	return out
}

// ProjectTotal sums the total budget of every service.
func ProjectTotal(services []Service) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range services {
		sum = sum.Add(s.Total)
	}
	return sum
}
