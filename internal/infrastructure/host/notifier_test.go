package host_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bnema/composer/internal/application/port"
	"github.com/bnema/composer/internal/application/port/mocks"
	"github.com/bnema/composer/internal/infrastructure/host"
	"github.com/bnema/composer/internal/logging"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func movedMessage(moveID string) port.HostMessage {
	return port.HostMessage{
		Type:          port.HostElementMoved,
		MagicpathID:   "card",
		MagicpathPath: "App.tsx",
		Move: &port.MovePayload{
			DestContainerID:     "list",
			DestContainerPath:   "App.tsx",
			SourceContainerID:   "list",
			SourceContainerPath: "App.tsx",
			NewIndex:            2,
			OldIndex:            0,
			Timestamp:           1_700_000_000_000,
			MoveID:              moveID,
			Type:                "item",
		},
	}
}

func TestStreamNotifier_WritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	n := host.NewStreamNotifier(&buf)

	require.NoError(t, n.Notify(testContext(), movedMessage("move_1")))
	require.NoError(t, n.Notify(testContext(), port.HostMessage{
		Type:        port.HostUndoElementMoved,
		MagicpathID: "card",
		MoveID:      "move_1",
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "ELEMENT_MOVED", first["type"])
	move := first["move"].(map[string]any)
	assert.Equal(t, "move_1", move["moveId"])
	assert.EqualValues(t, 2, move["newIndex"])

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "UNDO_ELEMENT_MOVED", second["type"])
	assert.Equal(t, "move_1", second["moveId"])
	assert.NotContains(t, second, "move")
}

func TestFanOut_DeliversToAllAndJoinsErrors(t *testing.T) {
	ctx := testContext()
	msg := movedMessage("move_1")
	boom := errors.New("boom")

	first := mocks.NewMockHostNotifier(t)
	second := mocks.NewMockHostNotifier(t)
	first.EXPECT().Notify(mock.Anything, msg).Return(boom).Once()
	second.EXPECT().Notify(mock.Anything, msg).Return(nil).Once()

	err := host.FanOut{first, nil, second}.Notify(ctx, msg)
	assert.ErrorIs(t, err, boom)
}

func TestJournalNotifier_RecordsPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	journal := mocks.NewMockJournal(ctrl)

	journal.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e port.JournalEntry) (int64, error) {
			assert.Equal(t, port.HostElementMoved, e.Type)
			assert.Equal(t, "move_9", e.MoveID)
			assert.Equal(t, "card", e.MagicpathID)
			assert.Contains(t, e.Payload, `"moveId":"move_9"`)
			assert.False(t, e.RecordedAt.IsZero())
			return 1, nil
		})

	n := host.NewJournalNotifier(journal)
	require.NoError(t, n.Notify(testContext(), movedMessage("move_9")))
}

func TestJournalNotifier_WrapsAppendError(t *testing.T) {
	ctrl := gomock.NewController(t)
	journal := mocks.NewMockJournal(ctrl)
	boom := errors.New("disk full")
	journal.EXPECT().Append(gomock.Any(), gomock.Any()).Return(int64(0), boom)

	err := host.NewJournalNotifier(journal).Notify(testContext(), movedMessage("move_1"))
	assert.ErrorIs(t, err, boom)
}
