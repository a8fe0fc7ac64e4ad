package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pvlkh/rostrum/internal/core"
)

func testSnapshot() *Snapshot {
	created := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	return &Snapshot{
		SessionID: "abcdef1234567890",
		CreatedAt: created,
		Documents: []core.DocumentInfo{
			{Name: "thesis.pdf", MediaType: "application/pdf", Size: 1024},
		},
		Entries: []core.Entry{
			{ID: "e1", Role: core.RoleUser, Content: "Is string theory falsifiable?", CreatedAt: created},
			{ID: "e2", Role: core.RoleTheorist, Content: "From first principles...", CreatedAt: created},
			{ID: "e3", Role: core.RoleApplied, Content: "In practice, however...", CreatedAt: created},
			{ID: "e4", Role: core.RoleVerdict, Content: "Both views have merit.", CreatedAt: created},
		},
	}
}

func TestGetExporter(t *testing.T) {
	for _, format := range []Format{FormatMarkdown, FormatJSON, FormatPDF} {
		exp, err := GetExporter(format)
		if err != nil {
			t.Errorf("no exporter for %s: %v", format, err)
		}
		if exp.FileExtension() == "" {
			t.Errorf("empty extension for %s", format)
		}
	}

	if _, err := GetExporter("docx"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestMarkdownExport(t *testing.T) {
	var buf bytes.Buffer
	if err := (&MarkdownExporter{}).Export(testSnapshot(), &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Session abcdef1234567890",
		"thesis.pdf",
		"#### Theorist",
		"#### Applied",
		"#### Final Verdict",
		"Is string theory falsifiable?",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	// Entries must appear in transcript order.
	if strings.Index(out, "#### Theorist") > strings.Index(out, "#### Applied") {
		t.Error("entries out of order")
	}
}

func TestJSONExport(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export(testSnapshot(), &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var decoded Snapshot
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.SessionID != "abcdef1234567890" || len(decoded.Entries) != 4 {
		t.Errorf("round trip lost data: %+v", decoded)
	}
	if decoded.Entries[3].Role != core.RoleVerdict {
		t.Errorf("unexpected final role: %s", decoded.Entries[3].Role)
	}
}

func TestPDFExport(t *testing.T) {
	var buf bytes.Buffer
	if err := (&PDFExporter{}).Export(testSnapshot(), &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty PDF output")
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestGenerateFilename(t *testing.T) {
	name := GenerateFilename(testSnapshot(), "md")
	if !strings.HasPrefix(name, "transcript-abcdef12-") || !strings.HasSuffix(name, ".md") {
		t.Errorf("unexpected filename: %s", name)
	}
}
