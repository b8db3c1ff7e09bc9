// Package sheetexport renders tabular sections into an xlsx workbook. The layout (sheets,
// sections, columns, styles) comes from a YAML template; the rows are bound at runtime
// by section id.
package sheetexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// ReportTemplate represents the YAML structure.
type ReportTemplate struct {
	Sheets []SheetTemplate `yaml:"sheets"`
}

// SheetTemplate represents a sheet in the YAML.
type SheetTemplate struct {
	Name     string          `yaml:"name"`
	Sections []SectionConfig `yaml:"sections"`
}

// SectionConfig is a titled block of rows. Sections on a sheet are stacked vertically
// with one blank row between them.
type SectionConfig struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	ShowHeader  bool           `yaml:"show_header"`
	HasFilter   bool           `yaml:"has_filter"`
	TitleStyle  *StyleTemplate `yaml:"title_style"`
	HeaderStyle *StyleTemplate `yaml:"header_style"`
	DataStyle   *StyleTemplate `yaml:"data_style"`
	Columns     []ColumnConfig `yaml:"columns"`
}

// ColumnConfig defines a column in a section.
type ColumnConfig struct {
	FieldName     string  `yaml:"field_name"` // Struct field name or map key
	Header        string  `yaml:"header"`
	Width         float64 `yaml:"width"`
	FormatterName string  `yaml:"formatter"` // Name of a registered formatter
}

// StyleTemplate defines basic styling.
type StyleTemplate struct {
	Font      *FontTemplate      `yaml:"font"`
	Fill      *FillTemplate      `yaml:"fill"`
	Alignment *AlignmentTemplate `yaml:"alignment"`
}

type AlignmentTemplate struct {
	Horizontal string `yaml:"horizontal"` // center, left, right
	Vertical   string `yaml:"vertical"`   // top, center, bottom
}

type FontTemplate struct {
	Bold  bool   `yaml:"bold"`
	Color string `yaml:"color"` // Hex color
}

type FillTemplate struct {
	Color string `yaml:"color"` // Hex color
}

// Exporter binds data to a template and writes the workbook.
type Exporter struct {
	template   ReportTemplate
	data       map[string]interface{}
	formatters map[string]func(interface{}) interface{}
}

// ParseTemplate decodes a YAML layout.
func ParseTemplate(raw []byte) (*ReportTemplate, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("yaml template is empty")
	}
	var tmpl ReportTemplate
	if err := yaml.Unmarshal(raw, &tmpl); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(tmpl.Sheets) == 0 {
		return nil, fmt.Errorf("yaml template has no sheets")
	}
	for _, sh := range tmpl.Sheets {
		if strings.TrimSpace(sh.Name) == "" {
			return nil, fmt.Errorf("yaml template has a sheet without a name")
		}
	}
	return &tmpl, nil
}

func New(tmpl *ReportTemplate) *Exporter {
	return &Exporter{
		template:   *tmpl,
		data:       make(map[string]interface{}),
		formatters: make(map[string]func(interface{}) interface{}),
	}
}

// BindSectionData binds a slice of rows to a section id.
func (e *Exporter) BindSectionData(id string, data interface{}) *Exporter {
	e.data[id] = data
	return e
}

// RegisterFormatter makes f available to columns that name it in the template.
func (e *Exporter) RegisterFormatter(name string, f func(interface{}) interface{}) *Exporter {
	e.formatters[name] = f
	return e
}

// Build renders every sheet of the template into a new workbook.
func (e *Exporter) Build() (*excelize.File, error) {
	f := excelize.NewFile()
	for i, sh := range e.template.Sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.Name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return nil, err
		}
		if err := e.renderSheet(f, sh); err != nil {
			f.Close()
			return nil, fmt.Errorf("render sheet %s: %w", sh.Name, err)
		}
	}
	return f, nil
}

// ToWriter writes the workbook to w.
func (e *Exporter) ToWriter(w io.Writer) error {
	f, err := e.Build()
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// ToCSV writes the sections of the first sheet as CSV, separated by blank lines.
func (e *Exporter) ToCSV(w io.Writer) error {
	if len(e.template.Sheets) == 0 {
		return fmt.Errorf("no sheets to export")
	}
	csvWriter := csv.NewWriter(w)
	sheet := e.template.Sheets[0]
	for _, sec := range sheet.Sections {
		rows := e.rows(sec)
		if sec.Title != "" {
			if err := csvWriter.Write([]string{sec.Title}); err != nil {
				return err
			}
		}
		if sec.ShowHeader {
			header := make([]string, len(sec.Columns))
			for i, col := range sec.Columns {
				header[i] = col.Header
			}
			if err := csvWriter.Write(header); err != nil {
				return err
			}
		}
		for i := 0; i < rows.Len(); i++ {
			record := make([]string, len(sec.Columns))
			for j, col := range sec.Columns {
				record[j] = fmt.Sprintf("%v", e.cellValue(rows.Index(i), col))
			}
			if err := csvWriter.Write(record); err != nil {
				return err
			}
		}
		if err := csvWriter.Write([]string{""}); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

func (e *Exporter) renderSheet(f *excelize.File, sh SheetTemplate) error {
	row := 1
	for _, sec := range sh.Sections {
		rows := e.rows(sec)
		width := len(sec.Columns)
		if width == 0 {
			continue
		}

		if sec.Title != "" {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetCellValue(sh.Name, cell, sec.Title); err != nil {
				return err
			}
			styleID, err := createStyle(f, resolveStyle(sec.TitleStyle, &StyleTemplate{
				Font:      &FontTemplate{Bold: true},
				Alignment: &AlignmentTemplate{Horizontal: "center", Vertical: "top"},
			}))
			if err != nil {
				return err
			}
			endCell, _ := excelize.CoordinatesToCellName(width, row)
			if width > 1 {
				if err := f.MergeCell(sh.Name, cell, endCell); err != nil {
					return err
				}
			}
			if err := f.SetCellStyle(sh.Name, cell, endCell, styleID); err != nil {
				return err
			}
			row++
		}

		headerRow := row
		if sec.ShowHeader {
			styleID, err := createStyle(f, resolveStyle(sec.HeaderStyle, &StyleTemplate{
				Font:      &FontTemplate{Bold: true},
				Alignment: &AlignmentTemplate{Horizontal: "center", Vertical: "top"},
			}))
			if err != nil {
				return err
			}
			for i, col := range sec.Columns {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				if err := f.SetCellValue(sh.Name, cell, col.Header); err != nil {
					return err
				}
				if err := f.SetCellStyle(sh.Name, cell, cell, styleID); err != nil {
					return err
				}
				if col.Width > 0 {
					colName, _ := excelize.ColumnNumberToName(i + 1)
					if err := f.SetColWidth(sh.Name, colName, colName, col.Width); err != nil {
						return err
					}
				}
			}
			row++
		}

		dataStyle := 0
		if sec.DataStyle != nil {
			id, err := createStyle(f, sec.DataStyle)
			if err != nil {
				return err
			}
			dataStyle = id
		}
		for i := 0; i < rows.Len(); i++ {
			item := rows.Index(i)
			for j, col := range sec.Columns {
				cell, _ := excelize.CoordinatesToCellName(j+1, row)
				if err := f.SetCellValue(sh.Name, cell, e.cellValue(item, col)); err != nil {
					return err
				}
				if dataStyle != 0 {
					if err := f.SetCellStyle(sh.Name, cell, cell, dataStyle); err != nil {
						return err
					}
				}
			}
			row++
		}

		if sec.HasFilter && sec.ShowHeader {
			first, _ := excelize.CoordinatesToCellName(1, headerRow)
			last, _ := excelize.CoordinatesToCellName(width, max(row-1, headerRow))
			if err := f.AutoFilter(sh.Name, first+":"+last, nil); err != nil {
				return err
			}
		}
		row++
	}
	return nil
}

// rows returns the bound data as a slice value; unbound sections render no rows.
func (e *Exporter) rows(sec SectionConfig) reflect.Value {
	v := reflect.ValueOf(e.data[sec.ID])
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice {
		return reflect.ValueOf([]interface{}{})
	}
	return v
}

func (e *Exporter) cellValue(item reflect.Value, col ColumnConfig) interface{} {
	val := extractValue(item, col.FieldName)
	if col.FormatterName != "" {
		if fn, ok := e.formatters[col.FormatterName]; ok {
			val = fn(val)
		}
	}
	return val
}

func extractValue(item reflect.Value, fieldName string) interface{} {
	for item.Kind() == reflect.Ptr || item.Kind() == reflect.Interface {
		if item.IsNil() {
			return ""
		}
		item = item.Elem()
	}
	switch item.Kind() {
	case reflect.Struct:
		if f := item.FieldByName(fieldName); f.IsValid() {
			return f.Interface()
		}
	case reflect.Map:
		if val := item.MapIndex(reflect.ValueOf(fieldName)); val.IsValid() {
			return val.Interface()
		}
	}
	return ""
}

// resolveStyle fills the parts of base that are unset from def.
func resolveStyle(base, def *StyleTemplate) *StyleTemplate {
	if base == nil {
		return def
	}
	s := *base
	if s.Font == nil {
		s.Font = def.Font
	}
	if s.Fill == nil {
		s.Fill = def.Fill
	}
	if s.Alignment == nil {
		s.Alignment = def.Alignment
	}
	return &s
}

func createStyle(f *excelize.File, tmpl *StyleTemplate) (int, error) {
	style := &excelize.Style{}
	if tmpl.Font != nil {
		style.Font = &excelize.Font{
			Bold:  tmpl.Font.Bold,
			Color: strings.TrimPrefix(tmpl.Font.Color, "#"),
		}
	}
	if tmpl.Fill != nil {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Color:   []string{strings.TrimPrefix(tmpl.Fill.Color, "#")},
			Pattern: 1,
		}
	}
	if tmpl.Alignment != nil {
		style.Alignment = &excelize.Alignment{
			Horizontal: tmpl.Alignment.Horizontal,
			Vertical:   tmpl.Alignment.Vertical,
		}
	}
	return f.NewStyle(style)
}
