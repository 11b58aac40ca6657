package letter

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/go-pdf/fpdf"
)

const (
	font       = "Helvetica"
	lineHeight = 6.0
	logoX      = 160.0
	logoY      = 10.0
	logoW      = 30.0
)

// Render draws d as an A4 PDF using the core fonts. For a fixed
// d.GeneratedAt the output is byte for byte reproducible. logoPath is
// optional; a missing file is skipped.
func Render(d *Document, logoPath string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetCreationDate(d.GeneratedAt)
	pdf.SetModificationDate(d.GeneratedAt)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(d.Title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	logo := ""
	if logoPath != "" {
		if _, err := os.Stat(logoPath); err == nil {
			logo = logoPath
		}
	}

	for _, page := range d.Pages {
		pdf.AddPage()
		pdf.SetTextColor(0, 0, 0)
		if logo != "" {
			pdf.ImageOptions(logo, logoX, logoY, logoW, 0, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
		}
		for _, b := range page.Blocks {
			drawBlock(pdf, tr, b)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("letter: render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func drawBlock(pdf *fpdf.Fpdf, tr func(string) string, b Block) {
	switch b.Kind {
	case KindTitle:
		pdf.SetFont(font, "B", 16)
		if b.Center {
			pdf.CellFormat(0, 20, tr(b.Text), "", 1, "C", false, 0, "")
		} else {
			pdf.CellFormat(120, 20, tr(b.Text), "", 1, "L", false, 0, "")
		}
	case KindDate:
		pdf.SetFont(font, "", 12)
		pdf.CellFormat(0, 10, tr(b.Text), "", 1, "L", false, 0, "")
		pdf.Ln(10)
	case KindHighlight:
		pdf.SetFont(font, "B", 12)
		pdf.SetTextColor(0, 0, 150)
		pdf.CellFormat(0, 10, tr(b.Text), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	case KindHeading:
		pdf.SetFont(font, "B", 14)
		pdf.SetTextColor(0, 0, 150)
		pdf.CellFormat(0, 15, tr(b.Text), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	case KindLine:
		pdf.SetFont(font, "", 12)
		pdf.CellFormat(0, 10, tr(b.Text), "", 1, "L", false, 0, "")
	case KindParagraph:
		pdf.Ln(5)
		pdf.SetFont(font, "", 12)
		pdf.MultiCell(0, lineHeight, tr(b.Text), "", "L", false)
	case KindClause:
		if b.Number == 1 {
			pdf.Ln(5)
		}
		pdf.SetFont(font, "B", 12)
		pdf.CellFormat(8, lineHeight, strconv.Itoa(b.Number)+".", "", 0, "L", false, 0, "")
		pdf.SetFont(font, "", 12)
		pdf.MultiCell(180, lineHeight, tr(b.Text), "", "L", false)
		pdf.Ln(5)
	case KindSignature:
		pdf.Ln(15)
		pdf.SetFont(font, "", 12)
		pdf.CellFormat(0, 10, tr(b.Text), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, lineHeight, tr(b.Aside), "", 1, "L", false, 0, "")
	case KindFields:
		pdf.Ln(5)
		pdf.SetFont(font, "", 12)
		pdf.CellFormat(50, 10, tr(b.Text), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, tr(b.Aside), "", 1, "L", false, 0, "")
	case KindFooter:
		pdf.Ln(10)
		pdf.SetFont(font, "", 9)
		pdf.MultiCell(0, 5, tr(b.Text), "", "L", false)
	}
}
