// Package core contains the core domain types for rostrum.
package core

import (
	"time"
)

// Role identifies who produced a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTheorist  Role = "theorist"
	RoleApplied   Role = "applied"
	RoleVerdict   Role = "verdict"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleTheorist, RoleApplied, RoleVerdict:
		return true
	}
	return false
}

// Entry is a single transcript entry. Entries are append-only: once added
// to a transcript they are never edited or removed.
type Entry struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Document is an uploaded binary attachment, tagged with its media type so
// it can be forwarded to the model alongside a question.
type Document struct {
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
	Data      []byte `json:"-"`
}

// DocumentInfo is a lightweight representation of a document for listings.
type DocumentInfo struct {
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
	Size      int    `json:"size"`
}

// Info returns the listing representation of the document.
func (d Document) Info() DocumentInfo {
	return DocumentInfo{Name: d.Name, MediaType: d.MediaType, Size: len(d.Data)}
}

// DebateRoles is the fixed persona order of a debate sequence.
var DebateRoles = []Role{RoleTheorist, RoleApplied, RoleVerdict}
