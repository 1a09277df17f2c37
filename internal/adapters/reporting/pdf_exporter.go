// Package reporting renders console log archives as PDF documents.
package reporting

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/secure-shed/shedctl/internal/core/domain"
)

// PDFExporter turns a batch of console log entries into an operator report.
type PDFExporter struct{}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// ExportLogReport generates a PDF listing the given entries, oldest first.
func (e *PDFExporter) ExportLogReport(title string, entries []domain.LogEntry) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 12, title, "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(120, 120, 120)
	generated := fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04"))
	pdf.CellFormat(0, 6, generated, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	e.addTableHeader(pdf)

	pdf.SetFont("Arial", "", 9)
	for _, entry := range entries {
		r, g, b := levelColor(entry.Level)
		pdf.SetTextColor(r, g, b)

		ts := time.Unix(0, int64(entry.Timestamp*1e9)).Format("2006-01-02 15:04:05")
		pdf.CellFormat(38, 6, ts, "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, levelName(entry.Level), "", 0, "L", false, 0, "")
		pdf.MultiCell(0, 6, entry.Message, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) addTableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(38, 7, "Timestamp", "B", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, "Level", "B", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Message", "B", 1, "L", false, 0, "")
}

func levelName(level domain.LogLevel) string {
	switch level {
	case domain.LogDebug:
		return "DEBUG"
	case domain.LogInfo:
		return "INFO"
	case domain.LogWarn:
		return "WARN"
	case domain.LogError:
		return "ERROR"
	case domain.LogCritical:
		return "CRITICAL"
	}
	return "UNKNOWN"
}

func levelColor(level domain.LogLevel) (int, int, int) {
	switch level {
	case domain.LogWarn:
		return 184, 134, 11
	case domain.LogError, domain.LogCritical:
		return 178, 34, 34
	default:
		return 60, 60, 60
	}
}
