package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/proposal-api/internal/proposal"
)

// DOCX renders a proposal as a minimal WordprocessingML package: the three
// required zip parts and a single document body. Word, LibreOffice and Google
// Docs all open it; there is no styling beyond bold runs and table borders,
// which matches what the sales template actually uses.
type DOCX struct{}

func (DOCX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

func (DOCX) Ext() string { return "docx" }

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

func (DOCX) Render(doc proposal.Document) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRels},
		{"word/document.xml", documentXML(doc)},
	}
	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("render: create %s: %w", part.name, err)
		}
		if _, err := f.Write([]byte(part.body)); err != nil {
			return nil, fmt.Errorf("render: write %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("render: close package: %w", err)
	}
	return buf.Bytes(), nil
}

func documentXML(doc proposal.Document) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	writePara(&b, doc.Title, true)
	writePara(&b, "Prepared for: "+doc.AccountName, false)
	if doc.RepName != "" {
		writePara(&b, "Sales representative: "+doc.RepName, false)
	}
	writePara(&b, "Date: "+doc.Date.Format("January 2, 2006"), false)
	writePara(&b, "", false)

	b.WriteString(`<w:tbl><w:tblPr><w:tblBorders>`)
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		fmt.Fprintf(&b, `<w:%s w:val="single" w:sz="4"/>`, side)
	}
	b.WriteString(`</w:tblBorders></w:tblPr>`)

	writeRow(&b, true, "Item #", "Description", "Qty", "List Price", "Disc %", "Unit Price", "Subtotal")
	for _, li := range doc.Lines {
		writeRow(&b, false,
			li.ProductID,
			li.Description,
			strconv.Itoa(li.Quantity),
			money(li.ListPrice),
			percent(li.DiscountPercent, li.FixedPrice),
			money(li.UnitPrice),
			money(li.Subtotal()),
		)
	}
	b.WriteString(`</w:tbl>`)

	writePara(&b, "", false)
	writePara(&b, "List total: "+money(doc.ListTotal), false)
	writePara(&b, "Total discount: "+money(doc.DiscountAmount), false)
	writePara(&b, "Proposal total: "+money(doc.FinalTotal), true)

	if len(doc.SkippedIDs) > 0 {
		writePara(&b, "Not included (unknown items): "+strings.Join(doc.SkippedIDs, ", "), false)
	}
	if doc.Notes != "" {
		writePara(&b, "", false)
		writePara(&b, "Notes", true)
		writePara(&b, doc.Notes, false)
	}
	writePara(&b, "", false)
	writePara(&b, "Pricing valid for 30 days from the date above. Reference: "+doc.ProposalID, false)

	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func writePara(b *strings.Builder, text string, bold bool) {
	b.WriteString(`<w:p><w:r>`)
	if bold {
		b.WriteString(`<w:rPr><w:b/></w:rPr>`)
	}
	b.WriteString(`<w:t xml:space="preserve">`)
	b.WriteString(escXML(text))
	b.WriteString(`</w:t></w:r></w:p>`)
}

func writeRow(b *strings.Builder, header bool, cells ...string) {
	b.WriteString(`<w:tr>`)
	for _, cell := range cells {
		b.WriteString(`<w:tc><w:p><w:r>`)
		if header {
			b.WriteString(`<w:rPr><w:b/></w:rPr>`)
		}
		b.WriteString(`<w:t xml:space="preserve">`)
		b.WriteString(escXML(cell))
		b.WriteString(`</w:t></w:r></w:p></w:tc>`)
	}
	b.WriteString(`</w:tr>`)
}

func escXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
