package objectstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"obras/internal/report"
)

type recordingUploader struct {
	key         string
	contentType string
	body        []byte
	err         error
}

func (u *recordingUploader) Upload(_ context.Context, key string, r io.Reader, contentType string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	u.key, u.contentType, u.body = key, contentType, data
	return "mem://" + key, nil
}

func sampleTable() report.Table {
	return report.Table{
		Header: []string{"Item", "Serviço", "Total (R$)"},
		Rows: [][]string{
			{"1", "Fundação; estacas", "1.234,50"},
			{"", "Total", "1.234,50"},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleTable()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := "Item;Serviço;Total (R$)\n" +
		"1;\"Fundação; estacas\";1.234,50\n" +
		";Total;1.234,50\n"
	if buf.String() != want {
		t.Fatalf("unexpected csv:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteCSV_RaggedRow(t *testing.T) {
	tbl := report.Table{Header: []string{"a", "b"}, Rows: [][]string{{"1"}}}
	if err := WriteCSV(io.Discard, tbl); err == nil {
		t.Fatalf("expected error for ragged row")
	}
}

func TestGatewayWriteAndUpload(t *testing.T) {
	workDir := t.TempDir()
	up := &recordingUploader{}
	gw := NewGateway(up, "/reports/", workDir, nil)

	location, err := gw.WriteAndUpload(context.Background(), sampleTable(), "SP_Campinas_Escola_20250314.csv")
	if err != nil {
		t.Fatalf("WriteAndUpload: %v", err)
	}
	if location != "mem://reports/SP_Campinas_Escola_20250314.csv" {
		t.Errorf("location = %q", location)
	}
	if up.contentType != csvContentType {
		t.Errorf("content type = %q", up.contentType)
	}
	if !strings.HasPrefix(string(up.body), "Item;Serviço;Total (R$)\n") {
		t.Errorf("unexpected body %q", up.body)
	}

	entries, err := os.ReadDir(workDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("staging file should be removed after upload, found %d entries", len(entries))
	}
}

func TestGatewayKeepsStagingFileOnFailure(t *testing.T) {
	workDir := t.TempDir()
	boom := errors.New("bucket unavailable")
	gw := NewGateway(&recordingUploader{err: boom}, "reports", workDir, nil)

	_, err := gw.WriteAndUpload(context.Background(), sampleTable(), "medicoes_20250314.csv")
	if !errors.Is(err, boom) {
		t.Fatalf("expected upload error, got %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(workDir, "*-medicoes_20250314.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected staged file to be kept, found %v", matches)
	}
}

func TestJoinKey(t *testing.T) {
	tests := []struct {
		folder, name, want string
	}{
		{"reports", "a.csv", "reports/a.csv"},
		{"/reports/", "a.csv", "reports/a.csv"},
		{"", "a.csv", "a.csv"},
		{"a/b", "c.csv", "a/b/c.csv"},
	}
	for _, tt := range tests {
		if got := JoinKey(tt.folder, tt.name); got != tt.want {
			t.Errorf("JoinKey(%q, %q) = %q, want %q", tt.folder, tt.name, got, tt.want)
		}
	}
}
