package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bnema/composer/internal/application/port"
	"github.com/bnema/composer/internal/logging"
)

const defaultRecentLimit = 50

type journalRepo struct {
	provider Provider
}

// NewJournalRepository creates a SQLite-backed host message journal.
func NewJournalRepository(provider Provider) port.Journal {
	return &journalRepo{provider: provider}
}

func (r *journalRepo) Append(ctx context.Context, entry port.JournalEntry) (int64, error) {
	db, err := r.provider.DB(ctx)
	if err != nil {
		return 0, err
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now()
	}

	res, err := db.ExecContext(ctx,
		`INSERT INTO host_journal (type, move_id, magicpath_id, payload, recorded_at) VALUES (?, ?, ?, ?, ?)`,
		string(entry.Type), entry.MoveID, entry.MagicpathID, entry.Payload, entry.RecordedAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to append journal entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	logging.FromContext(ctx).Trace().
		Int64("id", id).
		Str("type", string(entry.Type)).
		Str("move_id", entry.MoveID).
		Msg("journal entry appended")
	return id, nil
}

func (r *journalRepo) Recent(ctx context.Context, limit int) ([]port.JournalEntry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	db, err := r.provider.DB(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, type, move_id, magicpath_id, payload, recorded_at FROM host_journal ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	return scanEntries(rows)
}

func (r *journalRepo) ByMoveID(ctx context.Context, moveID string) ([]port.JournalEntry, error) {
	db, err := r.provider.DB(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, type, move_id, magicpath_id, payload, recorded_at FROM host_journal WHERE move_id = ? ORDER BY id ASC`,
		moveID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]port.JournalEntry, error) {
	defer func() { _ = rows.Close() }()

	entries := make([]port.JournalEntry, 0)
	for rows.Next() {
		var (
			e          port.JournalEntry
			msgType    string
			recordedAt int64
		)
		if err := rows.Scan(&e.ID, &msgType, &e.MoveID, &e.MagicpathID, &e.Payload, &recordedAt); err != nil {
			return nil, err
		}
		e.Type = port.HostMessageType(msgType)
		e.RecordedAt = time.UnixMilli(recordedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
