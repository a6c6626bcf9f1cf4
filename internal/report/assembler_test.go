package report

import (
	"testing"
	"time"

	"obras/internal/core"
)

func measuredProject(t *testing.T, name string) core.Project {
	t.Helper()
	a := service("1", "Fundação", "1000")
	a.Schedules = core.MonthEntries{
		month(t, "01/2025"): {Value: dec("500"), Percentage: dec("0.5")},
		month(t, "02/2025"): {Value: dec("500"), Percentage: dec("0.5")},
	}
	a.Measurements = core.MonthEntries{
		month(t, "01/2025"): {Value: dec("400"), Percentage: dec("0.4"), Number: 1},
		month(t, "03/2025"): {Value: dec("600"), Percentage: dec("0.6"), Number: 2},
	}
	b := service("2", "Alvenaria", "3000")
	b.Measurements = core.MonthEntries{
		month(t, "03/2025"): {Value: dec("300"), Percentage: dec("0.1"), Number: 2},
	}
	return core.Project{Name: name, City: "São Paulo", State: "SP", ConstructionType: "Nova", Services: []core.Service{b, a}}
}

func TestSingle(t *testing.T) {
	tbl := Single(measuredProject(t, "Obra 1"), month(t, "02/2025"))
	if len(tbl.Header) != 18 {
		t.Fatalf("expected 18 columns, got %d", len(tbl.Header))
	}
	if tbl.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", tbl.Len())
	}
	for i, row := range tbl.Rows {
		if len(row) != len(tbl.Header) {
			t.Fatalf("row %d has %d cells", i, len(row))
		}
	}
	if got := cell(t, tbl.Header, tbl.Rows[0], ColExecutedAccValue); got != "400,00" {
		t.Fatalf("executed through Feb = %q", got)
	}
	if got := cell(t, tbl.Header, tbl.Rows[0], ColScheduledAccValue); got != "1.000,00" {
		t.Fatalf("scheduled through Feb = %q", got)
	}
}

func TestMonthlyProject_ChronologicalRows(t *testing.T) {
	tbl := MonthlyProject(measuredProject(t, "Obra 1"))
	if len(tbl.Header) != 25 {
		t.Fatalf("expected 25 columns, got %d", len(tbl.Header))
	}

	// Jan: Fundação + totals. Feb: nothing measured. Mar: both services + totals.
	want := []struct{ month, service, number string }{
		{"01/2025", "Fundação", "1"},
		{"01/2025", TotalLabel, "1"},
		{"03/2025", "Fundação", "2"},
		{"03/2025", "Alvenaria", "2"},
		{"03/2025", TotalLabel, "2"},
	}
	if tbl.Len() != len(want) {
		t.Fatalf("expected %d rows, got %d: %v", len(want), tbl.Len(), tbl.Rows)
	}
	for i, w := range want {
		row := tbl.Rows[i]
		if got := cell(t, tbl.Header, row, ColMonth); got != w.month {
			t.Errorf("row %d month = %q, want %q", i, got, w.month)
		}
		if got := cell(t, tbl.Header, row, ColService); got != w.service {
			t.Errorf("row %d service = %q, want %q", i, got, w.service)
		}
		if got := cell(t, tbl.Header, row, ColMeasurement); got != w.number {
			t.Errorf("row %d measurement = %q, want %q", i, got, w.number)
		}
	}
	if got := cell(t, tbl.Header, tbl.Rows[2], ColExecutedAccValue); got != "1.000,00" {
		t.Fatalf("Fundação executed through Mar = %q", got)
	}
}

func TestMonthly_ConcatenatesProjects(t *testing.T) {
	tbl := Monthly([]core.Project{measuredProject(t, "Obra 1"), measuredProject(t, "Obra 2")})
	if tbl.Len() != 10 {
		t.Fatalf("expected 10 rows, got %d", tbl.Len())
	}
	if got := cell(t, tbl.Header, tbl.Rows[5], ColProject); got != "Obra 2" {
		t.Fatalf("second project should start at row 5, got %q", got)
	}
}

func TestTableAppend(t *testing.T) {
	var tbl Table
	if err := tbl.Append(Table{Header: []string{"a"}, Rows: [][]string{{"1"}}}); err != nil {
		t.Fatalf("append to empty table: %v", err)
	}
	if err := tbl.Append(Table{Header: []string{"a"}, Rows: [][]string{{"2"}}}); err != nil {
		t.Fatalf("append same header: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tbl.Len())
	}
	if err := tbl.Append(Table{Header: []string{"b", "c"}}); err == nil {
		t.Fatalf("expected header mismatch error")
	}
}

func TestFileNames(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	p := core.Project{Name: "Escola Municipal", City: "São José", State: "SC"}
	if got := FileName(p, now); got != "SC_São_José_Escola_Municipal_20250314.csv" {
		t.Fatalf("unexpected file name %q", got)
	}
	p.Name = "Bloco A/B"
	if got := FileName(p, now); got != "SC_São_José_Bloco_A-B_20250314.csv" {
		t.Fatalf("unexpected file name %q", got)
	}
	if got := MonthlyFileName(now); got != "medicoes_20250314.csv" {
		t.Fatalf("unexpected monthly file name %q", got)
	}
}

func TestMode(t *testing.T) {
	if !ModeSingle.IsValid() || !ModeMonthly.IsValid() {
		t.Fatalf("known modes must be valid")
	}
	if Mode("weekly").IsValid() {
		t.Fatalf("unknown mode must be invalid")
	}
}

func TestMeasurementMatrix(t *testing.T) {
	p := measuredProject(t, "Obra 1")

	values := MeasurementMatrix(p, core.FieldValue)
	wantHeader := []string{ColService, "01/2025", "03/2025"}
	if len(values.Header) != len(wantHeader) {
		t.Fatalf("header = %v", values.Header)
	}
	for i := range wantHeader {
		if values.Header[i] != wantHeader[i] {
			t.Fatalf("header = %v, want %v", values.Header, wantHeader)
		}
	}
	if got := values.Rows[0]; got[0] != "Fundação" || got[1] != "400,00" || got[2] != "600,00" {
		t.Fatalf("unexpected first row %v", got)
	}
	if got := values.Rows[1]; got[0] != "Alvenaria" || got[1] != "" || got[2] != "300,00" {
		t.Fatalf("unexpected second row %v", got)
	}

	pcts := MeasurementMatrix(p, core.FieldPercentage)
	if got := pcts.Rows[1][2]; got != "10,00%" {
		t.Fatalf("unexpected percentage cell %q", got)
	}
}
