package editor_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/composer/internal/app/editor"
	"github.com/bnema/composer/internal/application/port"
	portmocks "github.com/bnema/composer/internal/application/port/mocks"
	"github.com/bnema/composer/internal/application/usecase"
	"github.com/bnema/composer/internal/domain/entity"
	"github.com/bnema/composer/internal/domain/nodeid"
	"github.com/bnema/composer/internal/logging"
)

const doc = "src/App.tsx"

var (
	rootID = nodeid.EncodeContainer(doc, "root")
	boxID  = nodeid.EncodeContainer(doc, "box")
	itemA  = nodeid.EncodeItem(doc, "a")
	itemB  = nodeid.EncodeItem(doc, "b")
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func newEditor(t *testing.T, notifier port.HostNotifier, editMode bool) *editor.Editor {
	t.Helper()
	ctx := testContext()
	e, err := editor.New(editor.Options{EditMode: editMode, Notifier: notifier})
	require.NoError(t, err)

	e.RegisterContainer(ctx, entity.ContainerInfo{ID: rootID, Path: doc, MagicID: "root", Kind: entity.ContainerRegular})
	e.RegisterContainer(ctx, entity.ContainerInfo{ID: boxID, Path: doc, MagicID: "box", Kind: entity.ContainerRegular, ParentID: rootID})
	e.RegisterItem(ctx, itemA, rootID, nil, entity.ItemInfo{Path: doc, MagicID: "a", Type: entity.NodeItem}, -1)
	e.RegisterItem(ctx, boxID, rootID, nil, entity.ItemInfo{Path: doc, MagicID: "box", Type: entity.NodeContainer}, -1)
	e.RegisterItem(ctx, itemB, boxID, nil, entity.ItemInfo{Path: doc, MagicID: "b", Type: entity.NodeItem}, -1)
	return e
}

func TestEditor_KeyBindingsRequireMountedSurface(t *testing.T) {
	ctx := testContext()
	notifier := portmocks.NewMockHostNotifier(t)
	notifier.EXPECT().Notify(mock.Anything, mock.Anything).Return(nil)
	e := newEditor(t, notifier, true)

	_, ok := e.AddMove(ctx, entity.MoveRequest{ItemID: itemA, SourceContainerID: rootID, DestContainerID: boxID, NewIndex: 1})
	require.True(t, ok)
	assert.Equal(t, []string{itemB, itemA}, e.ChildrenOf(boxID))

	_, fired := e.HandleKey(ctx, "ctrl+z")
	assert.False(t, fired)
	assert.Equal(t, boxID, e.ContainerOf(itemA))

	e.MountSurface(ctx)
	action, fired := e.HandleKey(ctx, "ctrl+z")
	require.True(t, fired)
	assert.Equal(t, usecase.KeyActionUndo, action)
	assert.Equal(t, rootID, e.ContainerOf(itemA))

	action, fired = e.HandleKey(ctx, "meta+shift+z")
	require.True(t, fired)
	assert.Equal(t, usecase.KeyActionRedo, action)
	assert.Equal(t, boxID, e.ContainerOf(itemA))

	e.UnmountSurface(ctx)
	_, fired = e.HandleKey(ctx, "ctrl+z")
	assert.False(t, fired)
}

func TestEditor_HostToggleEditMode(t *testing.T) {
	ctx := testContext()
	e := newEditor(t, nil, false)

	assert.ErrorIs(t, e.PointerDown(ctx, itemA, entity.Point{}), usecase.ErrEditModeDisabled)

	require.NoError(t, e.HandleHostMessage(ctx, []byte(`{"type":"TOGGLE_EDIT_MODE","active":true}`)))
	assert.True(t, e.EditMode())
	require.NoError(t, e.PointerDown(ctx, itemA, entity.Point{}))
	assert.Equal(t, usecase.DragDragging, e.DragState())

	require.NoError(t, e.HandleHostMessage(ctx, []byte(`{"type":"SOMETHING_ELSE"}`)))
	assert.True(t, e.EditMode())

	require.NoError(t, e.HandleHostMessage(ctx, []byte(`{"type":"TOGGLE_EDIT_MODE","active":false}`)))
	assert.False(t, e.EditMode())
	assert.Equal(t, usecase.DragIdle, e.DragState(), "disabling edit mode cancels the drag")

	assert.Error(t, e.HandleHostMessage(ctx, []byte(`{not json`)))
}

func TestEditor_RegistrationContinuesWhileEditModeOff(t *testing.T) {
	ctx := testContext()
	e := newEditor(t, nil, false)

	c := nodeid.EncodeItem(doc, "c")
	assert.True(t, e.RegisterItem(ctx, c, rootID, nil, entity.ItemInfo{Type: entity.NodeItem}, 0))
	assert.False(t, e.RegisterItem(ctx, c, rootID, "new-handle", entity.ItemInfo{Type: entity.NodeItem}, 0))
	assert.Equal(t, []string{c, itemA, boxID}, e.ChildrenOf(rootID))

	h, ok := e.Item(c)
	require.True(t, ok)
	assert.Equal(t, "new-handle", h)
}

func TestEditor_SnapshotAndTree(t *testing.T) {
	ctx := testContext()
	e := newEditor(t, nil, true)

	s := e.Snapshot()
	assert.True(t, s.EditMode)
	assert.False(t, s.CanUndo)
	assert.Equal(t, usecase.DragIdle, s.State)

	require.NoError(t, e.PointerDown(ctx, boxID, entity.Point{}))
	s = e.Snapshot()
	assert.Equal(t, boxID, s.ActiveID)
	assert.Equal(t, entity.NodeContainer, s.ActiveType)
	assert.True(t, e.IsValidDropTarget(rootID))
	assert.False(t, e.IsValidDropTarget(boxID))
	require.NoError(t, e.Cancel(ctx))

	tree := e.Tree()
	require.Len(t, tree, 1)
	assert.Equal(t, rootID, tree[0].ID)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, []editor.TreeNode{{ID: itemB}}, tree[0].Children[1].Children)

	var buf bytes.Buffer
	require.NoError(t, editor.WriteTree(&buf, tree))
	assert.Equal(t, "+ "+rootID+"\n  - "+itemA+"\n  + "+boxID+"\n    - "+itemB+"\n", buf.String())
}

func TestNew_RejectsConflictingBindings(t *testing.T) {
	_, err := editor.New(editor.Options{KeyBindings: map[usecase.KeyAction][]string{
		usecase.KeyActionUndo: {"ctrl+z"},
		usecase.KeyActionRedo: {"ctrl+z"},
	}})
	require.Error(t, err)
}
