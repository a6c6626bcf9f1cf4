package api

import (
	"encoding/json"
	"errors"
	"testing"

	"obras/internal/core"
)

func decodeProject(t *testing.T, raw string) ProjectPayload {
	t.Helper()
	var p ProjectPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return p
}

func TestResolve_FullPayload(t *testing.T) {
	p := decodeProject(t, `{
		"id": 42,
		"name": "Escola Estadual",
		"city": {"name": "Campinas", "state": {"acronym": "SP"}},
		"construction_type": {"name": "Reforma"},
		"services": [
			{
				"item": 3,
				"name": "Pintura",
				"material": "1200.50",
				"labor": 800,
				"total": "2000.50",
				"schedules": {"3/2025": {"value": 500, "percentage": "0.25"}},
				"measurements": {"03/2025": {"value": "400", "percentage": 0.2, "number": "2"}}
			}
		]
	}`)

	project, err := p.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if project.ID != "42" || project.City != "Campinas" || project.State != "SP" || project.ConstructionType != "Reforma" {
		t.Fatalf("unexpected identity: %+v", project)
	}
	if len(project.Services) != 1 {
		t.Fatalf("expected 1 service, got %d", len(project.Services))
	}

	s := project.Services[0]
	if s.Item != "3" {
		t.Errorf("item = %q", s.Item)
	}
	if s.Material.String() != "1200.5" || s.Labor.String() != "800" || s.Total.String() != "2000.5" {
		t.Errorf("unexpected amounts: %s %s %s", s.Material, s.Labor, s.Total)
	}

	march, _ := core.ParseMonth("03/2025")
	sched, ok := s.Schedules[march]
	if !ok || sched.Value.String() != "500" || sched.Percentage.String() != "0.25" || sched.Number != 0 {
		t.Errorf("unexpected schedule %+v", sched)
	}
	meas := s.Measurements[march]
	if meas.Number != 2 || !meas.Measured() {
		t.Errorf("unexpected measurement %+v", meas)
	}
}

func TestResolve_Defaults(t *testing.T) {
	p := decodeProject(t, `{
		"name": "Sem cidade",
		"services": [
			{"name": "A", "total": null, "schedules": [], "measurements": "n/a"},
			{"item": null, "name": "B", "schedules": {"01/2025": null}, "measurements": {"01/2025": {"number": 1.5}}}
		]
	}`)

	project, err := p.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if project.City != "" || project.State != "" || project.ConstructionType != "" {
		t.Fatalf("missing nested objects must resolve to empty strings: %+v", project)
	}

	a := project.Services[0]
	if a.Item != "" || !a.Total.IsZero() || !a.Material.IsZero() {
		t.Errorf("missing numerics must be zero: %+v", a)
	}
	if len(a.Schedules) != 0 || len(a.Measurements) != 0 {
		t.Errorf("non-object entries must be empty")
	}

	b := project.Services[1]
	jan, _ := core.ParseMonth("01/2025")
	if e, ok := b.Schedules[jan]; !ok || !e.Value.IsZero() {
		t.Errorf("null entry should resolve to a zero entry, got %+v (present=%v)", e, ok)
	}
	if b.Measurements[jan].Number != 0 {
		t.Errorf("fractional number must count as unmeasured")
	}
}

func TestResolve_InvalidMonthKey(t *testing.T) {
	p := decodeProject(t, `{"services": [{"name": "A", "schedules": {"2025-01": {"value": 1}}}]}`)
	_, err := p.Resolve()
	if !errors.Is(err, core.ErrInvalidMonthKey) {
		t.Fatalf("expected ErrInvalidMonthKey, got %v", err)
	}
}

func TestResolve_DuplicateMonth(t *testing.T) {
	p := decodeProject(t, `{"services": [{"name": "A", "measurements": {"1/2025": {"value": 1}, "01/2025": {"value": 2}}}]}`)
	_, err := p.Resolve()
	if !errors.Is(err, core.ErrDuplicateMonth) {
		t.Fatalf("expected ErrDuplicateMonth, got %v", err)
	}
}

func TestFlexString(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{`"10"`, "10", false},
		{`10`, "10", false},
		{`-3`, "-3", false},
		{`null`, "", false},
		{`"A.1"`, "A.1", false},
		{`true`, "", true},
		{`{}`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var s FlexString
			err := json.Unmarshal([]byte(tt.raw), &s)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && s.String() != tt.want {
				t.Errorf("got %q, want %q", s, tt.want)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := map[string]int64{
		"":    0,
		"0":   0,
		"7":   7,
		" 12": 12,
		"3.0": 3,
		"3.5": 0,
		"abc": 0,
	}
	for in, want := range tests {
		if got := parseNumber(in); got != want {
			t.Errorf("parseNumber(%q) = %d, want %d", in, got, want)
		}
	}
}
