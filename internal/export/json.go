package export

import (
	"encoding/json"
	"io"
)

// JSONExporter exports transcripts to JSON format.
type JSONExporter struct{}

// Export writes the transcript as JSON.
func (e *JSONExporter) Export(snap *Snapshot, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(snap)
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return "json"
}
