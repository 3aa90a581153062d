package messaging_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/composer/internal/app/editor"
	"github.com/bnema/composer/internal/app/messaging"
	"github.com/bnema/composer/internal/application/usecase"
	"github.com/bnema/composer/internal/domain/nodeid"
	"github.com/bnema/composer/internal/logging"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func TestPreviewHandler_DragAcrossContainers(t *testing.T) {
	ctx := testContext()
	e, err := editor.New(editor.Options{EditMode: true})
	require.NoError(t, err)
	h := messaging.NewPreviewHandler(e, messaging.NewRequestDeduplicator(200*time.Millisecond))

	root := nodeid.EncodeContainer("App.tsx", "root")
	side := nodeid.EncodeContainer("App.tsx", "side")
	item := nodeid.EncodeItem("App.tsx", "a")

	for _, payload := range []string{
		`{"type":"register_container","id":"` + root + `","path":"App.tsx","magicId":"root"}`,
		`{"type":"register_container","id":"` + side + `","path":"App.tsx","magicId":"side"}`,
		`{"type":"register_item","id":"` + item + `","containerId":"` + root + `","path":"App.tsx","magicId":"a","index":0}`,
		`{"type":"mount"}`,
	} {
		r := h.Handle(ctx, []byte(payload))
		require.Empty(t, r.Error, payload)
	}

	r := h.Handle(ctx, []byte(`{"type":"pointer_down","id":"`+item+`","x":10,"y":10}`))
	require.Empty(t, r.Error)
	assert.Equal(t, usecase.DragDragging, r.State.State)

	r = h.Handle(ctx, []byte(`{"type":"pointer_move","x":150,"y":10,"droppables":[`+
		`{"id":"`+root+`","type":"container","rect":{"x":0,"y":0,"width":100,"height":100}},`+
		`{"id":"`+item+`","containerId":"`+root+`","type":"item","rect":{"x":0,"y":0,"width":100,"height":20}},`+
		`{"id":"`+side+`","type":"container","rect":{"x":120,"y":0,"width":100,"height":100}}],`+
		`"layouts":{"`+side+`":{"display":"flex","flexDirection":"row"}}}`))
	require.Empty(t, r.Error)
	require.NotNil(t, r.State.Insertion)
	assert.Equal(t, 0, *r.State.Insertion)
	assert.Equal(t, side, r.State.InsertionIn)
	assert.True(t, r.State.OutsideOrigin)

	r = h.Handle(ctx, []byte(`{"type":"pointer_up","requestId":1}`))
	require.Empty(t, r.Error)
	assert.True(t, r.Changed)
	assert.NotEmpty(t, r.MoveID)
	assert.Equal(t, "1", r.RequestID)
	assert.Equal(t, []string{item}, e.ChildrenOf(side))

	r = h.Handle(ctx, []byte(`{"type":"undo","requestId":"u1"}`))
	assert.True(t, r.Changed)
	r = h.Handle(ctx, []byte(`{"type":"undo","requestId":"u1"}`))
	assert.False(t, r.Changed, "replayed request id")
	assert.Equal(t, []string{item}, e.ChildrenOf(root))
	assert.True(t, r.State.CanRedo)
}

func TestPreviewHandler_ErrorsAndUnknownTypes(t *testing.T) {
	ctx := testContext()
	e, err := editor.New(editor.Options{})
	require.NoError(t, err)
	h := messaging.NewPreviewHandler(e, nil)

	r := h.Handle(ctx, []byte(`not json`))
	assert.Equal(t, messaging.TypeError, r.Type)

	r = h.Handle(ctx, []byte(`{"type":"pointer_up"}`))
	assert.Equal(t, messaging.TypeDragState, r.Type)
	assert.Equal(t, usecase.ErrNoSession.Error(), r.Error)

	r = h.Handle(ctx, []byte(`{"type":"wiggle"}`))
	assert.Equal(t, messaging.TypeDragState, r.Type)
	assert.Empty(t, r.Error)
	assert.False(t, r.Changed)
}

func TestPreviewHandler_RepeatedCommandsWithDistinctIDs(t *testing.T) {
	ctx := testContext()
	e, err := editor.New(editor.Options{EditMode: true})
	require.NoError(t, err)
	h := messaging.NewPreviewHandler(e, messaging.NewRequestDeduplicator(5*time.Second))

	root := nodeid.EncodeContainer("App.tsx", "root")
	side := nodeid.EncodeContainer("App.tsx", "side")
	a := nodeid.EncodeItem("App.tsx", "a")
	b := nodeid.EncodeItem("App.tsx", "b")

	for _, payload := range []string{
		`{"type":"register_container","id":"` + root + `","path":"App.tsx","magicId":"root"}`,
		`{"type":"register_container","id":"` + side + `","path":"App.tsx","magicId":"side"}`,
		`{"type":"register_item","id":"` + a + `","containerId":"` + root + `","path":"App.tsx","magicId":"a","index":0}`,
		`{"type":"register_item","id":"` + b + `","containerId":"` + root + `","path":"App.tsx","magicId":"b","index":1}`,
	} {
		r := h.Handle(ctx, []byte(payload))
		require.Empty(t, r.Error, payload)
	}

	droppables := `"droppables":[` +
		`{"id":"` + root + `","type":"container","rect":{"x":0,"y":0,"width":100,"height":100}},` +
		`{"id":"` + a + `","containerId":"` + root + `","type":"item","rect":{"x":0,"y":0,"width":100,"height":20}},` +
		`{"id":"` + b + `","containerId":"` + root + `","type":"item","rect":{"x":0,"y":20,"width":100,"height":20}},` +
		`{"id":"` + side + `","type":"container","rect":{"x":120,"y":0,"width":100,"height":100}}]`

	drag := func(id string, y int, requestID string) {
		t.Helper()
		r := h.Handle(ctx, []byte(`{"type":"pointer_down","id":"`+id+`","x":10,"y":`+strconv.Itoa(y)+`}`))
		require.Empty(t, r.Error)
		r = h.Handle(ctx, []byte(`{"type":"pointer_move","x":150,"y":80,`+droppables+`}`))
		require.Empty(t, r.Error)
		r = h.Handle(ctx, []byte(`{"type":"pointer_up","requestId":"`+requestID+`"}`))
		require.Empty(t, r.Error)
		assert.True(t, r.Changed, requestID)
		assert.Equal(t, usecase.DragIdle, r.State.State, requestID)
	}

	drag(a, 10, "p1")
	drag(b, 30, "p2")
	assert.ElementsMatch(t, []string{a, b}, e.ChildrenOf(side))
	assert.Empty(t, e.ChildrenOf(root))

	r := h.Handle(ctx, []byte(`{"type":"pointer_down","id":"`+a+`","x":130,"y":10}`))
	require.Empty(t, r.Error, "the previous drags ended on pointer_up")
	r = h.Handle(ctx, []byte(`{"type":"cancel"}`))
	require.Empty(t, r.Error)

	r = h.Handle(ctx, []byte(`{"type":"undo","requestId":"u1"}`))
	assert.True(t, r.Changed)
	r = h.Handle(ctx, []byte(`{"type":"undo","requestId":"u2"}`))
	assert.True(t, r.Changed)
	assert.Equal(t, []string{a, b}, e.ChildrenOf(root))
	assert.False(t, r.State.CanUndo)

	// Requests without an id are not deduplicated either.
	r = h.Handle(ctx, []byte(`{"type":"redo"}`))
	assert.True(t, r.Changed)
	r = h.Handle(ctx, []byte(`{"type":"redo"}`))
	assert.True(t, r.Changed)
	assert.Empty(t, e.ChildrenOf(root))
}
