package production

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet  = "Production"
	byDateSheet   = "By Date"
	bySchoolSheet = "By School"
)

var exportHeader = []any{"Category", "Item", "Rice Type", "Notes", "Quantity"}

// WriteXLSX renders the report as a workbook with one sheet per facet.
func WriteXLSX(w io.Writer, report Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	for _, name := range []string{byDateSheet, bySchoolSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	sw := sheetWriter{f: f, bold: bold}
	sw.header(summarySheet, exportHeader)
	sw.groups(summarySheet, nil, report.Categories)

	sw.header(byDateSheet, append([]any{"Delivery Date"}, exportHeader...))
	for _, facet := range report.ByDate {
		sw.groups(byDateSheet, []any{facet.DeliveryDate.String()}, facet.Categories)
	}

	sw.header(bySchoolSheet, append([]any{"School"}, exportHeader...))
	for _, facet := range report.BySchool {
		sw.groups(bySchoolSheet, []any{facet.School}, facet.Categories)
	}

	if sw.err != nil {
		return sw.err
	}
	f.SetActiveSheet(0)
	return f.Write(w)
}

// sheetWriter appends rows and keeps the first error.
type sheetWriter struct {
	f    *excelize.File
	bold int
	rows map[string]int
	err  error
}

func (s *sheetWriter) header(sheet string, cols []any) {
	s.row(sheet, cols)
	if s.err != nil {
		return
	}
	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.SetCellStyle(sheet, "A1", last, s.bold)
}

func (s *sheetWriter) groups(sheet string, prefix []any, groups []CategoryGroup) {
	for _, g := range groups {
		for _, item := range g.Items {
			cols := append(append([]any{}, prefix...), g.Category.String(), item.DisplayName, item.RiceType, item.Notes, item.TotalQuantity)
			s.row(sheet, cols)
		}
	}
}

func (s *sheetWriter) row(sheet string, cols []any) {
	if s.err != nil {
		return
	}
	if s.rows == nil {
		s.rows = make(map[string]int)
	}
	s.rows[sheet]++
	cell, err := excelize.CoordinatesToCellName(1, s.rows[sheet])
	if err != nil {
		s.err = err
		return
	}
	if err := s.f.SetSheetRow(sheet, cell, &cols); err != nil {
		s.err = fmt.Errorf("write %s row %d: %w", sheet, s.rows[sheet], err)
	}
}
