// Package memory is an in-process TableWriter used by tests and dry runs.
package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"obras/internal/report"
	"obras/internal/sheets"
)

// ErrTabNotFound is returned when reading a tab that was never written.
var ErrTabNotFound = errors.New("tab not found")

type Store struct {
	mu     sync.Mutex
	tables map[string]report.Table
	order  []string
}

var _ sheets.TableWriter = (*Store)(nil)

func New() *Store {
	return &Store{tables: make(map[string]report.Table)}
}

// WriteTable stores a copy of t under title, replacing any previous content.
func (s *Store) WriteTable(_ context.Context, title string, t report.Table) (string, error) {
	if title == "" {
		return "", errors.New("empty tab title")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[title]; !ok {
		s.order = append(s.order, title)
	}
	s.tables[title] = cloneTable(t)
	return fmt.Sprintf("mem:%s!A1", title), nil
}

// ReadTable returns a copy of the last table written under title.
func (s *Store) ReadTable(_ context.Context, title string) (report.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[title]
	if !ok {
		return report.Table{}, fmt.Errorf("%w: %s", ErrTabNotFound, title)
	}
	return cloneTable(t), nil
}

// Titles returns the tab titles in creation order.
func (s *Store) Titles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.order)
}

func cloneTable(t report.Table) report.Table {
	out := report.Table{Header: slices.Clone(t.Header)}
	if t.Rows != nil {
		out.Rows = make([][]string, len(t.Rows))
		for i, row := range t.Rows {
			out.Rows[i] = slices.Clone(row)
		}
	}
	return out
}
