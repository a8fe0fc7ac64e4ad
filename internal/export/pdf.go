package export

import (
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/pvlkh/rostrum/internal/core"
)

// PDFExporter exports transcripts to PDF format.
type PDFExporter struct{}

// Export writes the transcript as PDF.
func (e *PDFExporter) Export(snap *Snapshot, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	pdf.AddPage()

	// Title
	pdf.SetFont("Arial", "B", 18)
	pdf.MultiCell(0, 10, "Research Session Transcript", "", "C", false)
	pdf.Ln(5)

	// Metadata section
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Session Information")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	id := snap.SessionID
	if len(id) > 8 {
		id = id[:8] + "..."
	}
	e.addMetadataRow(pdf, "ID:", id)
	e.addMetadataRow(pdf, "Started:", snap.CreatedAt.Format("January 2, 2006 at 3:04 PM"))
	pdf.Ln(5)

	if len(snap.Documents) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, "Library")
		pdf.Ln(8)

		pdf.SetFont("Arial", "", 10)
		for _, d := range snap.Documents {
			e.addMetadataRow(pdf, d.Name, d.MediaType)
		}
		pdf.Ln(5)
	}

	// Transcript content
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Transcript")
	pdf.Ln(8)

	if len(snap.Entries) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(0, 6, "No entries recorded.")
		pdf.Ln(6)
	} else {
		for _, entry := range snap.Entries {
			if pdf.GetY() > 250 {
				pdf.AddPage()
			}

			r, g, b := roleColor(entry.Role)
			pdf.SetFillColor(r, g, b)
			pdf.SetFont("Arial", "B", 10)
			pdf.CellFormat(0, 7, roleLabel(entry.Role), "", 1, "L", true, 0, "")

			pdf.SetFont("Arial", "", 10)
			pdf.MultiCell(0, 5, entry.Content, "", "L", false)
			pdf.Ln(4)
		}
	}

	return pdf.Output(w)
}

// addMetadataRow writes a label/value pair.
func (e *PDFExporter) addMetadataRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.CellFormat(35, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

// roleColor returns the background color used for an entry's role header,
// matching the web view's tagging (blue theorist, green applied, yellow
// verdict).
func roleColor(role core.Role) (int, int, int) {
	switch role {
	case core.RoleTheorist:
		return 227, 242, 253
	case core.RoleApplied:
		return 232, 245, 233
	case core.RoleVerdict:
		return 255, 253, 231
	case core.RoleUser:
		return 238, 238, 238
	default:
		return 250, 250, 250
	}
}

// FileExtension returns the file extension for PDF.
func (e *PDFExporter) FileExtension() string {
	return "pdf"
}
