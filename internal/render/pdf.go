package render

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/noah-isme/proposal-api/internal/proposal"
)

// PDF renders a proposal document with gofpdf. The layout mirrors the
// document template the sales team circulates: centered title, account block,
// line item table, totals, then free-form notes.
type PDF struct{}

func (PDF) ContentType() string { return "application/pdf" }
func (PDF) Ext() string         { return "pdf" }

var pdfColumns = []struct {
	title string
	width float64
	align string
}{
	{"Item #", 22, "L"},
	{"Description", 64, "L"},
	{"Qty", 12, "C"},
	{"List Price", 26, "R"},
	{"Disc %", 14, "C"},
	{"Unit Price", 26, "R"},
	{"Subtotal", 26, "R"},
}

func (PDF) Render(doc proposal.Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle(doc.Title, true)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, doc.Title, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, "Prepared for: "+doc.AccountName, "", 1, "L", false, 0, "")
	if doc.RepName != "" {
		pdf.CellFormat(0, 5, "Sales representative: "+doc.RepName, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 5, "Date: "+doc.Date.Format("January 2, 2006"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, col.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, li := range doc.Lines {
		cells := []string{
			li.ProductID,
			li.Description,
			strconv.Itoa(li.Quantity),
			money(li.ListPrice),
			percent(li.DiscountPercent, li.FixedPrice),
			money(li.UnitPrice),
			money(li.Subtotal()),
		}
		for i, col := range pdfColumns {
			pdf.CellFormat(col.width, 6, cells[i], "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(3)

	totals := []struct {
		label string
		value string
	}{
		{"List total", money(doc.ListTotal)},
		{"Total discount", money(doc.DiscountAmount)},
		{"Proposal total", money(doc.FinalTotal)},
	}
	labelWidth := pdfColumns[0].width + pdfColumns[1].width + pdfColumns[2].width + pdfColumns[3].width + pdfColumns[4].width
	for i, row := range totals {
		if i == len(totals)-1 {
			pdf.SetFont("Helvetica", "B", 10)
		} else {
			pdf.SetFont("Helvetica", "", 10)
		}
		pdf.CellFormat(labelWidth, 6, row.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(pdfColumns[5].width+pdfColumns[6].width, 6, row.value, "", 1, "R", false, 0, "")
	}

	if len(doc.SkippedIDs) > 0 {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 5, "Not included (unknown items): "+strings.Join(doc.SkippedIDs, ", "), "", 1, "L", false, 0, "")
	}

	if doc.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 6, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 5, doc.Notes, "", "L", false)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(0, 4, "Pricing valid for 30 days from the date above. Reference: "+doc.ProposalID, "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
