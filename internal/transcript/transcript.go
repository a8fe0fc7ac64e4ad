// Package transcript holds session-scoped conversation state.
//
// A transcript is an ordered, append-only sequence of tagged entries.
// Entries are never removed or edited; chronological order is also display
// order. Transcripts live for the duration of one interactive session and
// are destroyed with it.
package transcript

import (
	"sync"
	"time"

	"github.com/pvlkh/rostrum/internal/core"
)

// Transcript is an append-only record of a session's exchanged content.
// It is safe for concurrent use: the HTTP surface can host multiple
// sessions, so appends are guarded even though calls within one session
// are strictly sequential.
type Transcript struct {
	mu      sync.RWMutex
	entries []core.Entry
}

// New creates an empty transcript.
func New() *Transcript {
	return &Transcript{}
}

// Append adds an entry and returns it. This is the only mutation the
// transcript supports.
func (t *Transcript) Append(role core.Role, content string) core.Entry {
	entry := core.Entry{
		ID:        core.GenerateID(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}

	t.mu.Lock()
	t.entries = append(t.entries, entry)
	t.mu.Unlock()

	return entry
}

// Entries returns a copy of the transcript in chronological order.
func (t *Transcript) Entries() []core.Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]core.Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
