package export

import (
	"github.com/pvlkh/rostrum/internal/transcript"
)

// SnapshotSession captures the exportable view of a live session.
func SnapshotSession(sess *transcript.Session) *Snapshot {
	return &Snapshot{
		SessionID: sess.ID,
		CreatedAt: sess.CreatedAt,
		Documents: sess.DocumentInfos(),
		Entries:   sess.Transcript().Entries(),
	}
}
