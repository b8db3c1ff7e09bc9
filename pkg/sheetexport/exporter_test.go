package sheetexport

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

const testTemplate = `
sheets:
  - name: People
    sections:
      - id: people
        title: Staff
        show_header: true
        has_filter: true
        columns:
          - field_name: Name
            header: Name
            width: 20
          - field_name: Dept
            header: Department
            formatter: upper
  - name: Empty
    sections:
      - id: nothing
        show_header: true
        columns:
          - field_name: X
            header: X
`

type person struct {
	Name string
	Dept string
}

func TestExporterToWriter(t *testing.T) {
	tmpl, err := ParseTemplate([]byte(testTemplate))
	if err != nil {
		t.Fatalf("ParseTemplate: %v", err)
	}

	exp := New(tmpl).
		BindSectionData("people", []person{{"Ana", "cutting"}, {"Ben", "sewing"}}).
		RegisterFormatter("upper", func(v interface{}) interface{} {
			return strings.ToUpper(v.(string))
		})

	var buf bytes.Buffer
	if err := exp.ToWriter(&buf); err != nil {
		t.Fatalf("ToWriter: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 2 || got[0] != "People" || got[1] != "Empty" {
		t.Fatalf("unexpected sheets %v", got)
	}

	checks := map[string]string{
		"A1": "Staff",
		"A2": "Name",
		"B2": "Department",
		"A3": "Ana",
		"B3": "CUTTING",
		"A4": "Ben",
		"B4": "SEWING",
	}
	for cell, want := range checks {
		got, err := f.GetCellValue("People", cell)
		if err != nil {
			t.Fatalf("GetCellValue %s: %v", cell, err)
		}
		if got != want {
			t.Errorf("%s: expected %q, got %q", cell, want, got)
		}
	}

	header, _ := f.GetCellValue("Empty", "A1")
	if header != "X" {
		t.Errorf("expected header on unbound section, got %q", header)
	}
}

func TestExporterToCSV(t *testing.T) {
	tmpl, err := ParseTemplate([]byte(testTemplate))
	if err != nil {
		t.Fatal(err)
	}
	exp := New(tmpl).BindSectionData("people", []person{{"Ana", "cutting"}})

	var buf bytes.Buffer
	if err := exp.ToCSV(&buf); err != nil {
		t.Fatal(err)
	}
	want := "Staff\nName,Department\nAna,cutting\n"
	if !strings.HasPrefix(buf.String(), want) {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestParseTemplateErrors(t *testing.T) {
	cases := map[string]string{
		"empty":     "",
		"no sheets": "sheets: []",
		"no name":   "sheets:\n  - sections: []",
		"bad yaml":  "sheets: [",
	}
	for name, raw := range cases {
		if _, err := ParseTemplate([]byte(raw)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
