package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"obras/internal/core"
)

// FlexString accepts a JSON string, number or null. Numbers keep their
// literal text; null becomes "".
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, string(data) == "null":
		*s = ""
	case data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		*s = FlexString(data)
	default:
		return fmt.Errorf("expected string or number, got %s", data)
	}
	return nil
}

func (s FlexString) String() string {
	return string(s)
}

type (
	Session struct {
		AccessToken   string         `json:"access_token"`
		Constructions []Construction `json:"constructions"`
	}

	// Construction is a project reference listed in a session.
	Construction struct {
		ID   FlexString `json:"id"`
		Name string     `json:"name"`
	}

	StatePayload struct {
		Acronym string `json:"acronym"`
	}

	CityPayload struct {
		Name  string        `json:"name"`
		State *StatePayload `json:"state"`
	}

	NamedPayload struct {
		Name string `json:"name"`
	}

	// ProjectPayload is the report summary of one construction as served by
	// the platform. Every field is optional; Resolve applies the defaults.
	ProjectPayload struct {
		ID               FlexString       `json:"id"`
		Name             string           `json:"name"`
		City             *CityPayload     `json:"city"`
		ConstructionType *NamedPayload    `json:"construction_type"`
		Services         []ServicePayload `json:"services"`
	}

	ServicePayload struct {
		Item         FlexString          `json:"item"`
		Name         string              `json:"name"`
		Material     decimal.NullDecimal `json:"material"`
		Labor        decimal.NullDecimal `json:"labor"`
		Total        decimal.NullDecimal `json:"total"`
		Schedules    json.RawMessage     `json:"schedules"`
		Measurements json.RawMessage     `json:"measurements"`
	}

	MonthEntryPayload struct {
		Value      decimal.NullDecimal `json:"value"`
		Percentage decimal.NullDecimal `json:"percentage"`
		Number     FlexString          `json:"number"`
	}
)

// Resolve converts the payload into a fully-defaulted project. Missing
// numbers become zero and schedules or measurements that are not JSON
// objects are treated as empty. A malformed month key fails the whole
// project.
func (p ProjectPayload) Resolve() (core.Project, error) {
	project := core.Project{
		ID:       p.ID.String(),
		Name:     p.Name,
		Services: make([]core.Service, 0, len(p.Services)),
	}
	if p.City != nil {
		project.City = p.City.Name
		if p.City.State != nil {
			project.State = p.City.State.Acronym
		}
	}
	if p.ConstructionType != nil {
		project.ConstructionType = p.ConstructionType.Name
	}

	for i, sp := range p.Services {
		s, err := sp.Resolve()
		if err != nil {
			return core.Project{}, fmt.Errorf("service %d (%q): %w", i, sp.Name, err)
		}
		project.Services = append(project.Services, s)
	}
	return project, nil
}

// Resolve converts one service payload.
func (sp ServicePayload) Resolve() (core.Service, error) {
	schedules, err := resolveEntries(sp.Schedules)
	if err != nil {
		return core.Service{}, fmt.Errorf("schedules: %w", err)
	}
	measurements, err := resolveEntries(sp.Measurements)
	if err != nil {
		return core.Service{}, fmt.Errorf("measurements: %w", err)
	}
	return core.Service{
		Item:         strings.TrimSpace(sp.Item.String()),
		Name:         sp.Name,
		Material:     orZero(sp.Material),
		Labor:        orZero(sp.Labor),
		Total:        orZero(sp.Total),
		Schedules:    schedules,
		Measurements: measurements,
	}, nil
}

// Resolve converts one month entry. A number that is not an integer counts
// as no measurement.
func (ep MonthEntryPayload) Resolve() core.MonthEntry {
	return core.MonthEntry{
		Value:      orZero(ep.Value),
		Percentage: orZero(ep.Percentage),
		Number:     parseNumber(ep.Number.String()),
	}
}

func resolveEntries(raw json.RawMessage) (core.MonthEntries, error) {
	entries := make(core.MonthEntries)
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return entries, nil
	}

	var byKey map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byKey); err != nil {
		return nil, err
	}
	for key, value := range byKey {
		m, err := core.ParseMonth(key)
		if err != nil {
			return nil, err
		}
		if _, dup := entries[m]; dup {
			return nil, fmt.Errorf("%w: %q", core.ErrDuplicateMonth, key)
		}

		var ep MonthEntryPayload
		value = bytes.TrimSpace(value)
		if len(value) > 0 && value[0] == '{' {
			if err := json.Unmarshal(value, &ep); err != nil {
				return nil, fmt.Errorf("month %s: %w", key, err)
			}
		}
		entries[m] = ep.Resolve()
	}
	return entries, nil
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

func parseNumber(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	d, err := core.ParseDecimal(s)
	if err != nil || !d.Equal(d.Truncate(0)) {
		return 0
	}
	return d.IntPart()
}
