package report

import (
	"strconv"

	"github.com/shopspring/decimal"

	"obras/internal/core"
)

var one = decimal.NewFromInt(1)

// Metrics holds the numeric figures of one report row before formatting.
type Metrics struct {
	Material decimal.Decimal
	Labor    decimal.Decimal
	Total    decimal.Decimal
	Weight   decimal.Decimal

	ScheduledValue            decimal.Decimal // accumulated through the reference month
	ScheduledPercentage       decimal.Decimal
	PeriodScheduledValue      decimal.Decimal // at exactly the reference month
	PeriodScheduledPercentage decimal.Decimal

	ExecutedValue            decimal.Decimal
	ExecutedPercentage       decimal.Decimal
	PeriodExecutedValue      decimal.Decimal
	PeriodExecutedPercentage decimal.Decimal

	BalanceValue       decimal.Decimal
	BalancePercentage  decimal.Decimal
	VarianceValue      decimal.Decimal
	VariancePercentage decimal.Decimal
}

// ServiceMetrics computes the figures of one service at the reference month.
// projectTotal is the sum of every service total and drives the weight.
func ServiceMetrics(s core.Service, projectTotal decimal.Decimal, ref core.Month) Metrics {
	m := Metrics{
		Material: s.Material,
		Labor:    s.Labor,
		Total:    s.Total,
		Weight:   core.Ratio(s.Total, projectTotal),

		ScheduledValue:            core.Cumulative(s.Schedules, core.FieldValue, ref),
		ScheduledPercentage:       core.Cumulative(s.Schedules, core.FieldPercentage, ref),
		PeriodScheduledValue:      core.Period(s.Schedules, core.FieldValue, ref),
		PeriodScheduledPercentage: core.Period(s.Schedules, core.FieldPercentage, ref),

		ExecutedValue:            core.Cumulative(s.Measurements, core.FieldValue, ref),
		ExecutedPercentage:       core.Cumulative(s.Measurements, core.FieldPercentage, ref),
		PeriodExecutedValue:      core.Period(s.Measurements, core.FieldValue, ref),
		PeriodExecutedPercentage: core.Period(s.Measurements, core.FieldPercentage, ref),
	}
	m.BalanceValue = m.Total.Sub(m.ExecutedValue)
	m.BalancePercentage = one.Sub(m.ExecutedPercentage)
	m.VarianceValue = m.ExecutedValue.Sub(m.ScheduledValue)
	m.VariancePercentage = m.ExecutedPercentage.Sub(m.ScheduledPercentage)
	return m
}

// TotalMetrics sums the value columns of every service and derives the
// percentages as ratios to the grand total. The weight is always 100%.
func TotalMetrics(services []core.Service, ref core.Month) Metrics {
	projectTotal := core.ProjectTotal(services)

	var t Metrics
	for _, s := range services {
		m := ServiceMetrics(s, projectTotal, ref)
		t.Material = t.Material.Add(m.Material)
		t.Labor = t.Labor.Add(m.Labor)
		t.Total = t.Total.Add(m.Total)
		t.ScheduledValue = t.ScheduledValue.Add(m.ScheduledValue)
		t.PeriodScheduledValue = t.PeriodScheduledValue.Add(m.PeriodScheduledValue)
		t.ExecutedValue = t.ExecutedValue.Add(m.ExecutedValue)
		t.PeriodExecutedValue = t.PeriodExecutedValue.Add(m.PeriodExecutedValue)
	}

	t.Weight = one
	t.ScheduledPercentage = core.Ratio(t.ScheduledValue, t.Total)
	t.PeriodScheduledPercentage = core.Ratio(t.PeriodScheduledValue, t.Total)
	t.ExecutedPercentage = core.Ratio(t.ExecutedValue, t.Total)
	t.PeriodExecutedPercentage = core.Ratio(t.PeriodExecutedValue, t.Total)

	t.BalanceValue = t.Total.Sub(t.ExecutedValue)
	t.BalancePercentage = one.Sub(t.ExecutedPercentage)
	t.VarianceValue = t.ExecutedValue.Sub(t.ScheduledValue)
	t.VariancePercentage = core.Ratio(t.VarianceValue, t.Total)
	return t
}

// Cells formats the metrics in financial column order.
func (m Metrics) Cells(item, name string) []string {
	return []string{
		item,
		name,
		core.FormatCurrency(m.Material),
		core.FormatCurrency(m.Labor),
		core.FormatCurrency(m.Total),
		core.FormatPercentage(m.Weight),
		core.FormatCurrency(m.ScheduledValue),
		core.FormatPercentage(m.ScheduledPercentage),
		core.FormatCurrency(m.PeriodScheduledValue),
		core.FormatPercentage(m.PeriodScheduledPercentage),
		core.FormatCurrency(m.ExecutedValue),
		core.FormatPercentage(m.ExecutedPercentage),
		core.FormatCurrency(m.PeriodExecutedValue),
		core.FormatPercentage(m.PeriodExecutedPercentage),
		core.FormatCurrency(m.BalanceValue),
		core.FormatPercentage(m.BalancePercentage),
		core.FormatCurrency(m.VarianceValue),
		core.FormatPercentage(m.VariancePercentage),
	}
}

// SingleRows builds one row per service, in item order, followed by the
// totals row.
func SingleRows(services []core.Service, ref core.Month) [][]string {
	sorted := core.SortServices(services)
	projectTotal := core.ProjectTotal(sorted)

	rows := make([][]string, 0, len(sorted)+1)
	for _, s := range sorted {
		rows = append(rows, ServiceMetrics(s, projectTotal, ref).Cells(s.Item, s.Name))
	}
	rows = append(rows, TotalMetrics(sorted, ref).Cells("", TotalLabel))
	return rows
}

// MonthRows builds the monthly mode rows of one project for month m. Only
// services with a measurement recorded at m get a row; when at least one
// does, a totals row over every service closes the month.
func MonthRows(p core.Project, m core.Month) [][]string {
	sorted := core.SortServices(p.Services)
	projectTotal := core.ProjectTotal(sorted)

	var (
		rows        [][]string
		lastMeasure int64
	)
	for _, s := range sorted {
		measurement, ok := s.Measurements[m]
		if !ok || !measurement.Measured() {
			continue
		}
		if measurement.Number > lastMeasure {
			lastMeasure = measurement.Number
		}
		cells := ServiceMetrics(s, projectTotal, m).Cells(s.Item, s.Name)
		rows = append(rows, append(identityCells(p, measurement.Number, m), cells...))
	}
	if len(rows) == 0 {
		return nil
	}

	totals := TotalMetrics(sorted, m).Cells("", TotalLabel)
	return append(rows, append(identityCells(p, lastMeasure, m), totals...))
}

func identityCells(p core.Project, number int64, m core.Month) []string {
	return []string{
		p.Name,
		p.City,
		p.State,
		p.ConstructionType,
		strconv.FormatInt(number, 10),
		m.Key(),
		m.FirstDay().Format(dateLayout),
	}
}
