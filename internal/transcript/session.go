package transcript

import (
	"fmt"
	"sync"
	"time"

	"github.com/pvlkh/rostrum/internal/core"
)

// Session is the explicit session-scoped context object: the transcript,
// the uploaded document library, and an optional ad hoc credential. Created
// at session start, destroyed at session end; nothing survives a restart.
type Session struct {
	ID        string
	CreatedAt time.Time

	transcript *Transcript

	mu        sync.Mutex
	documents []core.Document
	manualKey string
	busy      bool
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{
		ID:         core.GenerateID(),
		CreatedAt:  time.Now(),
		transcript: New(),
	}
}

// Transcript returns the session's transcript.
func (s *Session) Transcript() *Transcript {
	return s.transcript
}

// AddDocument adds an uploaded document to the session library.
func (s *Session) AddDocument(doc core.Document) {
	s.mu.Lock()
	s.documents = append(s.documents, doc)
	s.mu.Unlock()
}

// Documents returns a copy of the session's document library.
func (s *Session) Documents() []core.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Document, len(s.documents))
	copy(out, s.documents)
	return out
}

// DocumentInfos returns listing metadata for the uploaded documents.
func (s *Session) DocumentInfos() []core.DocumentInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	infos := make([]core.DocumentInfo, len(s.documents))
	for i, d := range s.documents {
		infos[i] = d.Info()
	}
	return infos
}

// SetManualKey stores an ad hoc credential for this session. It is used as
// a pool of size one when the configured pool is absent or exhausted.
func (s *Session) SetManualKey(key string) {
	s.mu.Lock()
	s.manualKey = key
	s.mu.Unlock()
}

// ManualKey returns the session's ad hoc credential, if any.
func (s *Session) ManualKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manualKey
}

// Begin marks the session busy for the duration of one user action. It
// returns false if another action is already in flight: submissions within
// a session are strictly sequential, never queued.
func (s *Session) Begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

// End clears the busy flag set by Begin.
func (s *Session) End() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// Summary is a lightweight representation of a session for listings.
type Summary struct {
	ID            string    `json:"id"`
	EntryCount    int       `json:"entry_count"`
	DocumentCount int       `json:"document_count"`
	HasManualKey  bool      `json:"has_manual_key"`
	CreatedAt     time.Time `json:"created_at"`
}

// Summarize returns the listing representation of the session.
func (s *Session) Summarize() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		ID:            s.ID,
		EntryCount:    s.transcript.Len(),
		DocumentCount: len(s.documents),
		HasManualKey:  s.manualKey != "",
		CreatedAt:     s.CreatedAt,
	}
}

// Manager tracks live sessions. Sessions exist only in memory; deleting a
// session destroys its transcript and documents.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

// Create creates and registers a new session.
func (m *Manager) Create() *Session {
	sess := NewSession()
	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()
	return sess
}

// Get retrieves a session by ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	return sess, nil
}

// Delete ends a session, destroying its state.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// List returns summaries of all live sessions.
func (m *Manager) List() []Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Summary, 0, len(m.sessions))
	for _, sess := range m.sessions {
		out = append(out, sess.Summarize())
	}
	return out
}
