// Package storage provides persistence for custom personas and the export
// log. Conversation history is deliberately not stored: transcripts are
// session-scoped and die with the session.
package storage

import "time"

// Persona is a stored custom persona.
type Persona struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Directive   string    `json:"directive"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExportRecord is an audit entry for a completed transcript export.
type ExportRecord struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Format    string    `json:"format"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"created_at"`
}

// Storage defines the interface for persistence.
type Storage interface {
	// Initialize sets up the storage (creates tables, etc.)
	Initialize() error

	// Close closes the storage connection.
	Close() error

	// Persona operations
	SavePersona(p *Persona) error
	GetPersona(id string) (*Persona, error)
	ListPersonas() ([]*Persona, error)
	DeletePersona(id string) error

	// Export log operations
	RecordExport(rec *ExportRecord) error
	ListExports(limit int) ([]*ExportRecord, error)
}
