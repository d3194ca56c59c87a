package native

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

// extractSpreadsheet reads every worksheet's cell values. The first row of
// each non-empty sheet becomes the table header.
func extractSpreadsheet(path string) (*domain.RawExtraction, error) {
	if err := statFile(path); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a spreadsheet: %w", domain.ErrInvalidInput, filepath.Base(path), err)
	}
	defer f.Close()

	var (
		sheets []domain.Sheet
		tables []domain.Table
		text   []string
	)
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}

		sheet := domain.Sheet{Name: name}
		var lines []string
		for _, row := range rows {
			cells := make([]any, len(row))
			for i, v := range row {
				cells[i] = v
			}
			sheet.Data = append(sheet.Data, cells)
			if line := strings.TrimSpace(strings.Join(row, "\t")); line != "" {
				lines = append(lines, line)
			}
		}
		sheet.Text = strings.Join(lines, "\n")
		sheets = append(sheets, sheet)

		if len(rows) > 0 {
			tables = append(tables, domain.Table{Header: rows[0], Rows: rows[1:]})
		}
		if sheet.Text != "" {
			text = append(text, sheet.Text)
		}
	}

	return &domain.RawExtraction{
		Text:   strings.Join(text, "\n\n"),
		Sheets: sheets,
		Tables: tables,
		Metadata: map[string]any{
			"format": strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
			"sheets": len(sheets),
		},
	}, nil
}
