// Package report flattens resolved projects into formatted tables ready to
// be written as CSV.
package report

import (
	"fmt"
	"strings"
	"time"

	"obras/internal/core"
)

const (
	// ModeSingle emits one row per service for a single reference month.
	ModeSingle Mode = "single"
	// ModeMonthly emits one row per measured service for every month in the data.
	ModeMonthly Mode = "monthly"
)

// Mode selects how a project is flattened.
type Mode string

func (m Mode) String() string {
	return string(m)
}

// IsValid returns true if the mode is known
func (m Mode) IsValid() bool {
	switch m {
	case ModeSingle, ModeMonthly:
		return true
	default:
		return false
	}
}

// Table is an ordered header plus formatted rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Append adds the rows of o to t. Headers must match.
func (t *Table) Append(o Table) error {
	if len(t.Header) == 0 {
		t.Header = o.Header
	} else if !sameHeader(t.Header, o.Header) {
		return fmt.Errorf("header mismatch: %d columns vs %d", len(t.Header), len(o.Header))
	}
	t.Rows = append(t.Rows, o.Rows...)
	return nil
}

// Single builds the report of one project at the reference month, totals
// row included.
func Single(p core.Project, ref core.Month) Table {
	return Table{
		Header: SingleHeader(),
		Rows:   SingleRows(p.Services, ref),
	}
}

// MonthlyProject builds the monthly report of one project, iterating every
// month present in its data in chronological order.
func MonthlyProject(p core.Project) Table {
	t := Table{Header: MonthlyHeader()}
	for _, m := range core.AllMonths(p.Services) {
		t.Rows = append(t.Rows, MonthRows(p, m)...)
	}
	return t
}

// Monthly concatenates the monthly reports of every project into one table.
func Monthly(projects []core.Project) Table {
	t := Table{Header: MonthlyHeader()}
	for _, p := range projects {
		t.Rows = append(t.Rows, MonthlyProject(p).Rows...)
	}
	return t
}

// FileName names the single mode CSV of a project:
// "<UF>_<City>_<Project>_<YYYYMMDD>.csv" with spaces replaced by "_".
func FileName(p core.Project, now time.Time) string {
	name := fmt.Sprintf("%s_%s_%s_%s.csv", p.State, p.City, p.Name, now.Format("20060102"))
	return sanitizeFileName(name)
}

// MonthlyFileName names the combined monthly CSV.
func MonthlyFileName(now time.Time) string {
	return fmt.Sprintf("medicoes_%s.csv", now.Format("20060102"))
}

func sanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	// Object keys use "/" as folder separator.
	return strings.ReplaceAll(name, "/", "-")
}

func sameHeader(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
