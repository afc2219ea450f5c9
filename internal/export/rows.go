// Package export writes the current document's field ledger as CSV or XLSX.
package export

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"docverify/internal/domain"
	"docverify/internal/workspace"
)

// columns defines the header row shared by all formats.
var columns = []string{
	"Document ID",
	"File Name",
	"Document Type",
	"Status",
	"Field",
	"Original Value",
	"Current Value",
	"Corrected",
	"Unsaved Draft",
}

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" or "xlsx" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want csv or xlsx)", s)
	}
}

// Header returns a copy of the header row.
func Header() []string {
	return append([]string(nil), columns...)
}

// Rows converts the ledger entries of doc into export rows, one per field.
// Current Value is what the operator sees, drafts included.
func Rows(doc *domain.Document, entries []workspace.LedgerEntry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		row := make([]string, len(columns))
		if doc != nil {
			row[0] = doc.ID
			row[1] = doc.FileName
			row[2] = string(doc.DocumentType)
			row[3] = string(doc.Status)
		}
		row[4] = e.FieldName
		row[5] = e.OriginalValue
		row[6] = e.CurrentValue()
		row[7] = formatBool(e.IsCorrected)
		row[8] = formatBool(e.Dirty())
		rows = append(rows, row)
	}
	return rows
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename replaces characters outside [A-Za-z0-9_-] with _,
// collapses runs of underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "document"
	}
	return s
}

// BuildFilename returns {sanitized_name}_{YYYY-MM-DD}.{format}.
func BuildFilename(name string, format Format, now time.Time) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(base), now.Format("2006-01-02"), format)
}
