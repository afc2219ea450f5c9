package export

import (
	"encoding/csv"
	"io"

	"docverify/internal/domain"
	"docverify/internal/workspace"
)

// BOM is the UTF-8 byte order mark, written first for Excel compatibility.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter wraps csv.Writer for exporting ledger rows.
type CSVWriter struct {
	out io.Writer
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{out: w, csv: csv.NewWriter(w)}
}

// WriteBOM writes the UTF-8 BOM. Call it before anything else.
func (w *CSVWriter) WriteBOM() error {
	_, err := w.out.Write(BOM)
	return err
}

// WriteHeader writes the header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteLedger writes one row per ledger entry.
func (w *CSVWriter) WriteLedger(doc *domain.Document, entries []workspace.LedgerEntry) error {
	return w.csv.WriteAll(Rows(doc, entries))
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}
