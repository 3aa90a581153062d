// Package host delivers host messages to the surrounding window.
package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bnema/composer/internal/application/port"
	"github.com/bnema/composer/internal/logging"
)

// StreamNotifier writes one JSON message per line.
type StreamNotifier struct {
	mu  sync.Mutex
	enc *json.Encoder
}

var _ port.HostNotifier = (*StreamNotifier)(nil)

// NewStreamNotifier creates a notifier writing to w.
func NewStreamNotifier(w io.Writer) *StreamNotifier {
	return &StreamNotifier{enc: json.NewEncoder(w)}
}

// Notify encodes msg as a single line.
func (n *StreamNotifier) Notify(_ context.Context, msg port.HostMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.enc.Encode(msg); err != nil {
		return fmt.Errorf("failed to write host message: %w", err)
	}
	return nil
}

// FanOut delivers each message to every notifier in order. Every notifier
// is tried; their errors are joined.
type FanOut []port.HostNotifier

var _ port.HostNotifier = FanOut(nil)

// Notify implements port.HostNotifier.
func (f FanOut) Notify(ctx context.Context, msg port.HostMessage) error {
	var errs []error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// JournalNotifier records every delivered message.
type JournalNotifier struct {
	journal port.Journal
	now     func() time.Time
}

var _ port.HostNotifier = (*JournalNotifier)(nil)

// NewJournalNotifier creates a notifier appending to journal.
func NewJournalNotifier(journal port.Journal) *JournalNotifier {
	return &JournalNotifier{journal: journal, now: time.Now}
}

// Notify implements port.HostNotifier.
func (n *JournalNotifier) Notify(ctx context.Context, msg port.HostMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode host message: %w", err)
	}

	id, err := n.journal.Append(ctx, port.JournalEntry{
		Type:        msg.Type,
		MoveID:      msg.ID(),
		MagicpathID: msg.MagicpathID,
		Payload:     string(payload),
		RecordedAt:  n.now(),
	})
	if err != nil {
		return fmt.Errorf("failed to journal host message: %w", err)
	}

	logging.FromContext(ctx).Trace().Int64("entry", id).Str("move_id", msg.ID()).Msg("host message journaled")
	return nil
}
