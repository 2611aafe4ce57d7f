// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/tomtom215/bgpwatch/internal/models"
)

// PDF artifact identity.
const (
	PDFFilename = "BGP_Alerts.pdf"
	PDFMime     = "application/pdf"
	PDFTitle    = "BGP Alerts Report"
)

const (
	pdfMargin     = 14.0
	pdfRowHeight  = 7.0
	pdfTitleSize  = 16.0
	pdfBodySize   = 10.0
	pdfFontFamily = "Helvetica"
)

// Column widths in mm for an A4 portrait page with 14mm margins.
var pdfColumns = []struct {
	title string
	width float64
	align string
}{
	{"Timestamp", 80, "L"},
	{"Type", 72, "L"},
	{"Confidence", 30, "R"},
}

// ToPDF renders rows as a single paginated table under PDFTitle.
func ToPDF(rows []models.Alert) ([]byte, error) {
	return renderPDF(rows, true)
}

func renderPDF(rows []models.Alert, compress bool) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetTitle(PDFTitle, true)
	pdf.SetCreator("BGPWatch", true)
	pdf.SetCreationDate(time.Unix(0, 0).UTC())
	pdf.SetCatalogSort(true)

	// The core fonts are encoded as cp1252; cells are UTF-8. Runes with no
	// cp1252 glyph are rendered as '.'.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont(pdfFontFamily, "B", pdfTitleSize)
	pdf.CellFormat(0, 10, PDFTitle, "", 1, "L", false, 0, "")
	pdf.Ln(4)
	writePDFHeader(pdf)

	_, pageHeight := pdf.GetPageSize()
	pdf.SetFont(pdfFontFamily, "", pdfBodySize)
	for i := range rows {
		if pdf.GetY()+pdfRowHeight > pageHeight-pdfMargin {
			pdf.AddPage()
			writePDFHeader(pdf)
			pdf.SetFont(pdfFontFamily, "", pdfBodySize)
		}
		cells := []string{
			rows[i].Timestamp.String(),
			rows[i].AnomalyType,
			rows[i].ConfidenceText(),
		}
		for c, col := range pdfColumns {
			pdf.CellFormat(col.width, pdfRowHeight, tr(cells[c]), "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writePDFHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont(pdfFontFamily, "B", pdfBodySize)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, pdfRowHeight, col.title, "1", 0, col.align, true, 0, "")
	}
	pdf.Ln(-1)
}
