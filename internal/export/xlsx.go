package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"docverify/internal/domain"
	"docverify/internal/workspace"
)

// SheetName is the worksheet holding the exported fields.
const SheetName = "Fields"

// WriteXLSX writes the ledger of doc as a single-sheet workbook with a bold,
// frozen header row.
func WriteXLSX(w io.Writer, doc *domain.Document, entries []workspace.LedgerEntry) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("export.WriteXLSX: rename sheet: %w", err)
	}

	rows := append([][]string{columns}, Rows(doc, entries)...)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("export.WriteXLSX: %w", err)
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("export.WriteXLSX: row %d: %w", i+1, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export.WriteXLSX: header style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("export.WriteXLSX: header style: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", lastCol, 20); err != nil {
		return fmt.Errorf("export.WriteXLSX: column width: %w", err)
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("export.WriteXLSX: freeze header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}
	return nil
}

// Write exports in the requested format. CSV output starts with a BOM.
func Write(w io.Writer, format Format, doc *domain.Document, entries []workspace.LedgerEntry) error {
	switch format {
	case FormatXLSX:
		return WriteXLSX(w, doc, entries)
	case FormatCSV:
		cw := NewCSVWriter(w)
		if err := cw.WriteBOM(); err != nil {
			return err
		}
		if err := cw.WriteHeader(); err != nil {
			return err
		}
		if err := cw.WriteLedger(doc, entries); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}
