package report

import (
	"obras/internal/core"
)

// MeasurementMatrix lays out one measurement field as a service by month
// grid: one row per service in item order, one column per month in
// chronological order. Months without a measurement are left blank.
func MeasurementMatrix(p core.Project, f core.Field) Table {
	sorted := core.SortServices(p.Services)

	months := make(core.MonthEntries)
	for _, s := range sorted {
		for m := range s.Measurements {
			months[m] = core.MonthEntry{}
		}
	}
	order := months.Months()

	header := make([]string, 0, len(order)+1)
	header = append(header, ColService)
	for _, m := range order {
		header = append(header, m.Key())
	}

	rows := make([][]string, 0, len(sorted))
	for _, s := range sorted {
		row := make([]string, 0, len(order)+1)
		row = append(row, s.Name)
		for _, m := range order {
			e, ok := s.Measurements[m]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, formatField(e, f))
		}
		rows = append(rows, row)
	}
	return Table{Header: header, Rows: rows}
}

func formatField(e core.MonthEntry, f core.Field) string {
	if f == core.FieldPercentage {
		return core.FormatPercentage(e.Percentage)
	}
	return core.FormatCurrency(e.Value)
}
