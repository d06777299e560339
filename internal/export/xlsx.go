package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"gradeledger/internal/domain"
)

const sheetName = "Results"

// WriteXLSX writes the records as a single-sheet workbook with a bold, frozen header row.
func WriteXLSX(w io.Writer, md domain.SheetMetadata, records []domain.StudentResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("export.WriteXLSX rename sheet: %w", err)
	}

	if err := writeRow(f, 1, columns); err != nil {
		return err
	}
	for i := range records {
		if err := writeRow(f, i+2, recordToRow(md, records[i])); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export.WriteXLSX style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(sheetName, "A1", last, bold); err != nil {
		return fmt.Errorf("export.WriteXLSX header style: %w", err)
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return fmt.Errorf("export.WriteXLSX freeze: %w", err)
	}
	if err := f.SetColWidth(sheetName, "A", "A", 22); err != nil {
		return fmt.Errorf("export.WriteXLSX width: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export.WriteXLSX write: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("export.writeRow: %w", err)
	}
	vals := make([]interface{}, len(values))
	for i, v := range values {
		vals[i] = v
	}
	if err := f.SetSheetRow(sheetName, cell, &vals); err != nil {
		return fmt.Errorf("export.writeRow %d: %w", row, err)
	}
	return nil
}
