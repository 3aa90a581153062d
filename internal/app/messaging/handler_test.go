package messaging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIncomingMessageAcceptsNumericRequestID(t *testing.T) {
	msg, err := parseIncomingMessage([]byte(`{"type":"undo","requestId":42}`))
	require.NoError(t, err)
	assert.Equal(t, "42", msg.RequestID)
}

func TestParseIncomingMessagePreservesStringRequestID(t *testing.T) {
	msg, err := parseIncomingMessage([]byte(`{"type":"undo","requestId":"req-7"}`))
	require.NoError(t, err)
	assert.Equal(t, "req-7", msg.RequestID)
}

func TestParseIncomingMessageRejectsMissingType(t *testing.T) {
	_, err := parseIncomingMessage([]byte(`{"requestId":"x"}`))
	assert.ErrorIs(t, err, errEmptyType)

	_, err = parseIncomingMessage([]byte(`[1,2`))
	assert.Error(t, err)
}

func TestParseHostMessage(t *testing.T) {
	msg, err := ParseHostMessage([]byte(`{"type":"TOGGLE_EDIT_MODE","active":true}`))
	require.NoError(t, err)
	assert.True(t, msg.Active)

	msg, err = ParseHostMessage([]byte(`{"type":"TOGGLE_EDIT_MODE"}`))
	require.NoError(t, err)
	assert.False(t, msg.Active)
}

func TestRequestDeduplicator(t *testing.T) {
	now := time.UnixMilli(0)
	d := newRequestDeduplicator(5*time.Second, func() time.Time { return now })

	dup, _ := d.IsDuplicate("r1")
	assert.False(t, dup)

	dup, reason := d.IsDuplicate("r1")
	assert.True(t, dup)
	assert.Contains(t, reason, "request ID")

	dup, _ = d.IsDuplicate("r2")
	assert.False(t, dup, "a new id is a new request")

	dup, _ = d.IsDuplicate("")
	assert.False(t, dup)
	dup, _ = d.IsDuplicate("")
	assert.False(t, dup, "requests without an id are never dropped")

	now = now.Add(6 * time.Second)
	dup, _ = d.IsDuplicate("r1")
	assert.False(t, dup, "request ids expire after the window")
}

func TestRequestDeduplicatorZeroWindow(t *testing.T) {
	d := newRequestDeduplicator(0, time.Now)

	dup, _ := d.IsDuplicate("r1")
	assert.False(t, dup)
	dup, _ = d.IsDuplicate("r1")
	assert.False(t, dup)
}
