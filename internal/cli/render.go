package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"docverify/internal/domain"
	"docverify/internal/workspace"
)

const dateLayout = "2006-01-02 15:04"

// RenderDocumentList renders summaries as a numbered table, newest first.
func RenderDocumentList(docs []domain.DocumentSummary) string {
	if len(docs) == 0 {
		return SubtleStyle.Render("No documents yet. Upload one with: upload <path>")
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		TableHeaderStyle.Render("#"),
		TableHeaderStyle.Render("ID"),
		TableHeaderStyle.Render("FILE"),
		TableHeaderStyle.Render("TYPE"),
		TableHeaderStyle.Render("STATUS"),
		TableHeaderStyle.Render("UPLOADED"))
	for i, d := range docs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1, d.ID, d.FileName, d.DocumentType,
			statusStyle(d.Status).Render(string(d.Status)),
			formatTimestamp(d.UploadDate))
	}
	_ = w.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// RenderDocument renders the current document and its ledger.
func RenderDocument(v workspace.View) string {
	if v.Current == nil {
		return SubtleStyle.Render("No document selected. Open one with: open <id|#n>")
	}
	doc := v.Current

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", doc.FileName, SubtleStyle.Render(doc.ID))
	fmt.Fprintf(&b, "Type: %s   Status: %s   Uploaded: %s\n",
		doc.DocumentType, statusStyle(doc.Status).Render(string(doc.Status)), formatTimestamp(doc.UploadDate))
	if doc.PageCount > 0 {
		fmt.Fprintf(&b, "Pages: %d\n", doc.PageCount)
	}
	if v.Preview != "" {
		fmt.Fprintf(&b, "Preview: %s\n", SubtleStyle.Render(previewLabel(v.Preview)))
	}

	if len(v.Fields) == 0 {
		b.WriteString(SubtleStyle.Render("No fields were extracted."))
		return RenderBox("Document", b.String())
	}

	b.WriteString("\n")
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t\n",
		TableHeaderStyle.Render("FIELD"),
		TableHeaderStyle.Render("VALUE"),
		TableHeaderStyle.Render("EXTRACTED"))
	for _, e := range v.Fields {
		mark := ""
		switch {
		case e.Dirty():
			mark = WarningStyle.Render(WarningIcon + " unsaved")
		case e.IsCorrected:
			mark = SuccessStyle.Render(EditedIcon + " corrected")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.FieldName, e.CurrentValue(), e.OriginalValue, mark)
	}
	_ = w.Flush()
	return RenderBox("Document", strings.TrimRight(b.String(), "\n"))
}

func statusStyle(s domain.DocumentStatus) lipgloss.Style {
	switch s {
	case domain.DocumentStatusVerified:
		return SuccessStyle
	case domain.DocumentStatusError:
		return ErrorStyle
	case domain.DocumentStatusPending:
		return WarningStyle
	default:
		return InfoStyle
	}
}

func formatTimestamp(t domain.Timestamp) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}

// previewLabel summarizes a data URI preview by media type and size.
func previewLabel(preview string) string {
	mediaType, payload, ok := strings.Cut(strings.TrimPrefix(preview, "data:"), ",")
	if !ok {
		return "available"
	}
	mediaType = strings.TrimSuffix(mediaType, ";base64")
	return fmt.Sprintf("%s, %d KB", mediaType, len(payload)*3/4/1024)
}
