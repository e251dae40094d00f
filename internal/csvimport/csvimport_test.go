package csvimport

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

const sampleCSV = "first_name,last_name,email,mobile_phone,company\n" +
	"Ada,Lovelace,ada@example.com,5551234567,Analytical\n" +
	"\n" +
	"Grace,Hopper,grace@example.com,5559876543,\n" +
	"Alan,Turing,alan@example.com,15550001111,Bletchley\n"

func TestLoad_CSVPassesTextThrough(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.csv")
	if err := os.WriteFile(path, []byte("\xef\xbb\xbf"+sampleCSV), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if f.Text != sampleCSV {
		t.Fatalf("Text = %q, want BOM-stripped input", f.Text)
	}
	if f.Rows != 3 {
		t.Fatalf("Rows = %d, want 3", f.Rows)
	}
	if len(f.Header) != 5 || f.Header[0] != "first_name" {
		t.Fatalf("Header = %v", f.Header)
	}
}

func TestLoad_XLSXConvertsFirstSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.xlsx")

	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	rows := [][]any{
		{"first_name", "last_name", "email", "mobile_phone", "company"},
		{"Ada", "Lovelace", "ada@example.com", "5551234567", "Analytical"},
		{"Grace", "Hopper", "grace@example.com", "5559876543"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	_ = wb.Close()

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := "first_name,last_name,email,mobile_phone,company\n" +
		"Ada,Lovelace,ada@example.com,5551234567,Analytical\n" +
		"Grace,Hopper,grace@example.com,5559876543,\n"
	if f.Text != want {
		t.Fatalf("Text = %q, want %q", f.Text, want)
	}
	if f.Rows != 2 {
		t.Fatalf("Rows = %d, want 2", f.Rows)
	}
}

func TestLoad_RejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.json")
	if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Load error = %v, want ErrUnsupported", err)
	}
	if _, err := Load("  "); err == nil {
		t.Fatal("Load with blank path should fail")
	}
}

func TestPreview_LimitsRowsButCountsAll(t *testing.T) {
	s, err := Preview(sampleCSV, 2)
	if err != nil {
		t.Fatalf("Preview returned error: %v", err)
	}
	if s.Total != 3 {
		t.Fatalf("Total = %d, want 3", s.Total)
	}
	if len(s.Rows) != 2 || s.Rows[1][0] != "Grace" {
		t.Fatalf("Rows = %v, want Ada and Grace", s.Rows)
	}

	if _, err := Preview("\n\n", 5); err == nil || !strings.Contains(err.Error(), "no header") {
		t.Fatalf("Preview on empty text error = %v, want no header", err)
	}
}

func TestMissingColumns(t *testing.T) {
	tests := []struct {
		name    string
		header  []string
		mapping map[string]string
		want    []string
	}{
		{"complete", []string{"first_name", "last_name", "email", "mobile_phone"}, nil, nil},
		{"case and spaces", []string{" First_Name ", "LAST_NAME", "Email", "Mobile Phone"}, nil, nil},
		{"missing two", []string{"first_name", "email"}, nil, []string{"last_name", "mobile_phone"}},
		{"mapped", []string{"first_name", "last_name", "email", "Cell"}, map[string]string{"Cell": "mobile_phone"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MissingColumns(tt.header, tt.mapping)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Fatalf("MissingColumns = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSuggestMapping(t *testing.T) {
	got := SuggestMapping([]string{"First Name", "surname", "email", "Phone", "mobile", "favourite_color"})
	want := map[string]string{
		"First Name": "first_name",
		"surname":    "last_name",
		"Phone":      "mobile_phone",
	}
	if len(got) != len(want) {
		t.Fatalf("SuggestMapping = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("SuggestMapping[%q] = %q, want %q", k, got[k], v)
		}
	}
	if m := SuggestMapping([]string{"first_name", "last_name"}); m != nil {
		t.Fatalf("SuggestMapping for canonical header = %v, want nil", m)
	}
}
