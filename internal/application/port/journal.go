package port

//go:generate mockgen -source=journal.go -destination=mocks/mock_journal.go -package=mocks

import (
	"context"
	"time"
)

// JournalEntry is one host message as recorded on the host side.
type JournalEntry struct {
	ID          int64
	Type        HostMessageType
	MoveID      string
	MagicpathID string
	Payload     string // message as delivered, JSON encoded
	RecordedAt  time.Time
}

// Journal stores delivered host messages for later inspection.
type Journal interface {
	Append(ctx context.Context, entry JournalEntry) (int64, error)
	Recent(ctx context.Context, limit int) ([]JournalEntry, error)
	ByMoveID(ctx context.Context, moveID string) ([]JournalEntry, error)
}
