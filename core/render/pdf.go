// Package render — course outline PDF.
// Renders the discovered structure (learning paths, their modules, and
// each module's units in order) as a printable document. Unit content is
// intentionally not rendered.
package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/coursepipe/core"
)

// Outline renders the course structure as PDF bytes.
func Outline(tree *core.CourseTree) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Course title.
	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 8, tree.Title, "", "L", false)
	pdf.Ln(2)

	// Source URL.
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(0, 5, "Source: "+tree.URL, "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)

	for i, p := range tree.LearningPaths {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.MultiCell(0, 7, fmt.Sprintf("%d. %s", i+1, p.Title), "", "L", false)
		pdf.Ln(1)

		for _, m := range p.Modules {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.MultiCell(0, 6, m.Title, "", "L", false)

			pdf.SetFont("Helvetica", "", 10)
			for _, u := range m.Units {
				pdf.MultiCell(0, 5, "    - "+u.Title, "", "L", false)
			}
			pdf.Ln(2)
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("generating PDF: %w", err)
	}
	return buf.Bytes(), nil
}
