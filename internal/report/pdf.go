package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/nuvai/nuvai/internal/types"
)

var (
	colorTitle    = [3]int{30, 58, 95}
	colorDanger   = [3]int{179, 0, 0}
	colorWarning  = [3]int{183, 121, 31}
	colorNote     = [3]int{36, 113, 163}
	colorText     = [3]int{44, 62, 80}
	colorMuted    = [3]int{127, 140, 141}
	colorGridLine = [3]int{220, 220, 220}
)

// WritePDF renders r as an A4 PDF document. Any failure inside the PDF
// library is reported as ErrPDFUnavailable.
func WritePDF(w io.Writer, r Report) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrPDFUnavailable, rec)
		}
	}()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	setText(pdf, colorTitle)
	pdf.CellFormat(0, 10, Title, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	setText(pdf, colorMuted)
	meta := "Generated " + r.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC")
	if r.FilesScanned > 0 {
		meta += fmt.Sprintf(" - %d files scanned", r.FilesScanned)
	}
	pdf.CellFormat(0, 6, tr(meta), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, c := range Summarize(r.Findings) {
		pdf.SetFont("Arial", "B", 10)
		setText(pdf, pdfColor(c.Severity))
		pdf.CellFormat(30, 6, string(c.Severity), "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		setText(pdf, colorText)
		pdf.CellFormat(0, 6, fmt.Sprint(c.Count), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pageWidth, _ := pdf.GetPageSize()
	for _, f := range r.Findings {
		pdf.SetDrawColor(colorGridLine[0], colorGridLine[1], colorGridLine[2])
		pdf.Line(20, pdf.GetY(), pageWidth-20, pdf.GetY())
		pdf.Ln(2)

		pdf.SetFont("Arial", "B", 12)
		setText(pdf, pdfColor(f.Severity))
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("[%s] %s", f.Severity, f.Category)), "", 1, "L", false, 0, "")

		setText(pdf, colorText)
		if f.Path != "" {
			pdf.SetFont("Courier", "", 9)
			pdf.MultiCell(0, 5, tr(f.Path), "", "L", false)
		}
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 6, tr("Description: "+f.Message), "", "L", false)
		pdf.MultiCell(0, 6, tr("Recommendation: "+f.Recommendation), "", "L", false)
		pdf.Ln(2)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrPDFUnavailable, err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("%w: %v", ErrPDFUnavailable, err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

func setText(pdf *fpdf.Fpdf, c [3]int) {
	pdf.SetTextColor(c[0], c[1], c[2])
}

func pdfColor(s types.Severity) [3]int {
	switch s.Rank() {
	case 5, 4:
		return colorDanger
	case 3, 2:
		return colorWarning
	}
	return colorNote
}
