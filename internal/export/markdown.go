package export

import (
	"fmt"
	"io"
	"strings"
)

// MarkdownExporter exports transcripts to Markdown format.
type MarkdownExporter struct{}

// Export writes the transcript as Markdown.
func (e *MarkdownExporter) Export(snap *Snapshot, w io.Writer) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Session %s\n\n", snap.SessionID))

	sb.WriteString("## Session Information\n\n")
	sb.WriteString(fmt.Sprintf("- **ID:** `%s`\n", snap.SessionID))
	sb.WriteString(fmt.Sprintf("- **Started:** %s\n", snap.CreatedAt.Format("January 2, 2006 at 3:04 PM")))
	sb.WriteString(fmt.Sprintf("- **Entries:** %d\n", len(snap.Entries)))
	sb.WriteString("\n")

	if len(snap.Documents) > 0 {
		sb.WriteString("## Library\n\n")
		for _, d := range snap.Documents {
			sb.WriteString(fmt.Sprintf("- **%s** (%s, %d bytes)\n", d.Name, d.MediaType, d.Size))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Transcript\n\n")

	if len(snap.Entries) == 0 {
		sb.WriteString("*No entries recorded.*\n\n")
	} else {
		for _, entry := range snap.Entries {
			sb.WriteString(fmt.Sprintf("#### %s\n\n", roleLabel(entry.Role)))
			sb.WriteString(fmt.Sprintf("*%s*\n\n", entry.CreatedAt.Format("3:04 PM")))
			sb.WriteString(entry.Content)
			sb.WriteString("\n\n---\n\n")
		}
	}

	sb.WriteString("*Exported from rostrum*\n")

	_, err := w.Write([]byte(sb.String()))
	return err
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return "md"
}
