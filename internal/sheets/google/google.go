// Package google mirrors report tables into a Google Sheets spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"obras/internal/gcpauth"
	"obras/internal/report"
	ports "obras/internal/sheets"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	prefix        string
}

// Ensure interface conformance
var _ ports.TableWriter = (*Client)(nil)

// New creates a client for spreadsheetID. prefix is prepended to every tab
// title built with Title.
func New(ctx context.Context, spreadsheetID, prefix string, opts ...option.ClientOption) (*Client, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, prefix: prefix}, nil
}

// NewFromSource authenticates with the service account described by src.
func NewFromSource(ctx context.Context, spreadsheetID, prefix string, src gcpauth.Source) (*Client, error) {
	opts, err := src.ClientOptions(ctx, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, err
	}
	return New(ctx, spreadsheetID, prefix, opts...)
}

// Title returns the tab title used for a report file.
func (c *Client) Title(fileName string) string {
	return ports.TabTitle(c.prefix, fileName)
}

// WriteTable replaces the content of the tab with the header and rows of t.
// Cells are written RAW so formatted numbers keep their text form.
func (c *Client) WriteTable(ctx context.Context, title string, t report.Table) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	if title == "" {
		return "", errors.New("empty tab title")
	}
	if err := c.ensureSheet(ctx, title); err != nil {
		return "", err
	}

	name := quoteSheetName(title)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, name, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("clear sheet %s: %w", title, err)
	}

	values := make([][]any, 0, len(t.Rows)+1)
	values = append(values, toRow(t.Header))
	for _, row := range t.Rows {
		values = append(values, toRow(row))
	}
	rng := name + "!A1"
	resp, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: values}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("update sheet %s: %w", title, err)
	}
	if resp != nil && resp.UpdatedRange != "" {
		return resp.UpdatedRange, nil
	}
	return rng, nil
}

func (c *Client) ensureSheet(ctx context.Context, title string) error {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == title {
			return nil
		}
	}
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: title},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", title, err)
	}
	return nil
}

// quoteSheetName wraps a tab title in single quotes for A1 notation.
func quoteSheetName(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func toRow(cells []string) []any {
	out := make([]any, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}
