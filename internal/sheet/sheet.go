// Package sheet reads and writes the prompt spreadsheets.
package sheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// PromptColumn is the prompt column header of an indexed workbook.
const PromptColumn = "prompt"

// Indexed is a sheet of prompts numbered from Start.
type Indexed struct {
	Name    string
	Start   int
	Prompts []string
}

// WriteColumn writes a single column with a header row to a new workbook.
func WriteColumn(path, header string, values []string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetCellValue(defaultSheet, "A1", header); err != nil {
		return fmt.Errorf("set header: %w", err)
	}
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(defaultSheet, cell, v); err != nil {
			return fmt.Errorf("set %s: %w", cell, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// WriteIndexed writes one sheet per Indexed with "index" and "prompt"
// columns. Sheets with no prompts keep their header row.
func WriteIndexed(path string, sheets []Indexed) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, s.Name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("new sheet %s: %w", s.Name, err)
		}

		if err := f.SetSheetRow(s.Name, "A1", &[]any{"index", PromptColumn}); err != nil {
			return fmt.Errorf("set header: %w", err)
		}
		for j, p := range s.Prompts {
			cell, err := excelize.CoordinatesToCellName(1, j+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(s.Name, cell, &[]any{s.Start + j, p}); err != nil {
				return fmt.Errorf("set %s!%s: %w", s.Name, cell, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// ReadColumn returns the cells below the header named header, matched
// case-insensitively, in row order. An empty sheet name reads the first
// sheet. Empty cells are returned as "".
func ReadColumn(path, sheet, header string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, fmt.Errorf("%s has no sheets", path)
		}
		sheet = list[0]
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%s: sheet %q not found", path, sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: sheet %q is empty", path, sheet)
	}

	col := -1
	for i, h := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(h), header) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("%s: column %q not found in sheet %q", path, header, sheet)
	}

	values := make([]string, 0, len(rows)-1)
	for _, r := range rows[1:] {
		if col < len(r) {
			values = append(values, r[col])
		} else {
			values = append(values, "")
		}
	}
	return values, nil
}
