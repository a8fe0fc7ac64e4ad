// Package export handles exporting session transcripts to various formats.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pvlkh/rostrum/internal/core"
)

// Format represents an export format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
	FormatJSON     Format = "json"
)

// Snapshot is the exportable view of a session: immutable metadata plus a
// copy of the transcript at export time.
type Snapshot struct {
	SessionID string              `json:"session_id"`
	CreatedAt time.Time           `json:"created_at"`
	Documents []core.DocumentInfo `json:"documents,omitempty"`
	Entries   []core.Entry        `json:"entries"`
}

// Exporter defines the interface for exporting transcripts.
type Exporter interface {
	Export(snap *Snapshot, w io.Writer) error
	FileExtension() string
}

// GetExporter returns an exporter for the given format.
func GetExporter(format Format) (Exporter, error) {
	switch format {
	case FormatMarkdown:
		return &MarkdownExporter{}, nil
	case FormatPDF:
		return &PDFExporter{}, nil
	case FormatJSON:
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// GenerateFilename creates a filename for the export.
func GenerateFilename(snap *Snapshot, ext string) string {
	stamp := snap.CreatedAt.Format("20060102-150405")
	id := snap.SessionID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("transcript-%s-%s.%s", id, stamp, ext)
}

// roleLabel returns the display label for a transcript role.
func roleLabel(role core.Role) string {
	switch role {
	case core.RoleUser:
		return "You"
	case core.RoleAssistant:
		return "Researcher"
	case core.RoleTheorist:
		return "Theorist"
	case core.RoleApplied:
		return "Applied"
	case core.RoleVerdict:
		return "Final Verdict"
	default:
		return strings.Title(string(role))
	}
}
