package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/composer/internal/domain/entity"
	"github.com/bnema/composer/internal/domain/registry"
)

func container(id, parent string) entity.ContainerInfo {
	return entity.ContainerInfo{ID: id, Path: "src/App.tsx", Kind: entity.ContainerRegular, ParentID: parent}
}

func item(id string) entity.ItemInfo {
	return entity.ItemInfo{ID: id, Path: "src/App.tsx", Type: entity.NodeItem}
}

// newTree builds root{A, B, C} and side{}.
func newTree(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()
	require.True(t, r.RegisterContainer(container("root", "")))
	require.True(t, r.RegisterContainer(container("side", "")))
	for _, id := range []string{"A", "B", "C"} {
		require.True(t, r.RegisterItem(id, "root", "handle-"+id, item(id), -1))
	}
	return r
}

func TestRegisterContainer_Idempotent(t *testing.T) {
	r := registry.New()
	info := container("root", "")

	assert.True(t, r.RegisterContainer(info))
	assert.False(t, r.RegisterContainer(info))
	assert.Equal(t, []string{}, r.ChildrenOf("root"))

	info.Kind = entity.ContainerCollection
	assert.True(t, r.RegisterContainer(info))
	got, ok := r.ContainerInfo("root")
	require.True(t, ok)
	assert.Equal(t, entity.ContainerCollection, got.Kind)
}

func TestRegisterContainer_KeepsChildrenOnChange(t *testing.T) {
	r := newTree(t)
	info := container("root", "")
	info.Path = "src/Other.tsx"

	assert.True(t, r.RegisterContainer(info))
	assert.Equal(t, []string{"A", "B", "C"}, r.ChildrenOf("root"))
}

func TestRegisterItem_ReRegistrationIsIdempotent(t *testing.T) {
	r := newTree(t)
	before := r.Snapshot()

	assert.False(t, r.RegisterItem("B", "root", "handle-B2", item("B"), 1))
	assert.Equal(t, before, r.Snapshot())

	h, ok := r.Item("B")
	require.True(t, ok)
	assert.Equal(t, "handle-B2", h)
}

func TestRegisterItem_InsertClampsIndex(t *testing.T) {
	r := newTree(t)

	assert.True(t, r.RegisterItem("D", "root", nil, item("D"), 99))
	assert.True(t, r.RegisterItem("E", "root", nil, item("E"), 0))
	assert.Equal(t, []string{"E", "A", "B", "C", "D"}, r.ChildrenOf("root"))
}

func TestRegisterItem_MovesOutOfPreviousContainer(t *testing.T) {
	r := newTree(t)

	assert.True(t, r.RegisterItem("B", "side", nil, item("B"), 0))
	assert.Equal(t, []string{"A", "C"}, r.ChildrenOf("root"))
	assert.Equal(t, []string{"B"}, r.ChildrenOf("side"))
	assert.Equal(t, "side", r.ContainerOf("B"))

	info, ok := r.ItemInfo("B")
	require.True(t, ok)
	assert.Equal(t, "side", info.ContainerID)
}

func TestRegisterItem_RepositionWithinContainer(t *testing.T) {
	r := newTree(t)

	assert.True(t, r.RegisterItem("C", "root", nil, item("C"), 0))
	assert.Equal(t, []string{"C", "A", "B"}, r.ChildrenOf("root"))
}

func TestApplyMove(t *testing.T) {
	tests := []struct {
		name       string
		item       string
		src, dst   string
		oldIndex   int
		newIndex   int
		applied    bool
		wantRoot   []string
		wantSide   []string
		wantParent string
	}{
		{"same container forward", "A", "root", "root", 0, 2, true, []string{"B", "C", "A"}, []string{}, "root"},
		{"same container backward", "C", "root", "root", 2, 0, true, []string{"C", "A", "B"}, []string{}, "root"},
		{"cross container", "B", "root", "side", 1, 0, true, []string{"A", "C"}, []string{"B"}, "side"},
		{"cross container clamps", "B", "root", "side", 1, 7, true, []string{"A", "C"}, []string{"B"}, "side"},
		{"stale old index", "B", "root", "side", 0, 0, false, []string{"A", "B", "C"}, []string{}, "root"},
		{"unknown item", "Z", "root", "side", 0, 0, false, []string{"A", "B", "C"}, []string{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTree(t)
			assert.Equal(t, tt.applied, r.ApplyMove(tt.item, tt.src, tt.dst, tt.oldIndex, tt.newIndex))
			assert.Equal(t, tt.wantRoot, r.ChildrenOf("root"))
			assert.Equal(t, tt.wantSide, r.ChildrenOf("side"))
			assert.Equal(t, tt.wantParent, r.ContainerOf(tt.item))
		})
	}
}

func TestApplyMove_UpdatesMovedContainerParent(t *testing.T) {
	r := newTree(t)
	require.True(t, r.RegisterContainer(container("box", "root")))
	require.True(t, r.RegisterItem("box", "root", nil, entity.ItemInfo{Type: entity.NodeContainer}, -1))

	require.True(t, r.ApplyMove("box", "root", "side", 3, 0))
	info, ok := r.ContainerInfo("box")
	require.True(t, ok)
	assert.Equal(t, "side", info.ParentID)
}

func TestApplyMove_InverseRestoresSnapshot(t *testing.T) {
	r := newTree(t)
	before := r.Snapshot()

	require.True(t, r.ApplyMove("A", "root", "side", 0, 0))
	require.True(t, r.ApplyMove("A", "side", "root", 0, 0))
	assert.Equal(t, before, r.Snapshot())
}

func TestIsDescendant(t *testing.T) {
	r := registry.New()
	r.RegisterContainer(container("A", ""))
	r.RegisterContainer(container("B", "A"))
	r.RegisterContainer(container("C", "B"))
	r.RegisterItem("B", "A", nil, entity.ItemInfo{Type: entity.NodeContainer}, -1)
	r.RegisterItem("C", "B", nil, entity.ItemInfo{Type: entity.NodeContainer}, -1)

	assert.True(t, r.IsDescendant("A", "C"))
	assert.True(t, r.IsDescendant("A", "B"))
	assert.False(t, r.IsDescendant("C", "A"))
	assert.False(t, r.IsDescendant("A", "A"))
}

func TestLookupsOnUnknownIDs(t *testing.T) {
	r := registry.New()

	assert.Empty(t, r.ChildrenOf("nope"))
	assert.Equal(t, "", r.ContainerOf("nope"))
	assert.Equal(t, -1, r.IndexOf("nope"))
	_, ok := r.Item("nope")
	assert.False(t, ok)
	_, ok = r.ItemInfo("nope")
	assert.False(t, ok)
	_, ok = r.ContainerInfo("nope")
	assert.False(t, ok)
	assert.False(t, r.HasContainer("nope"))
}

func TestRootsAndContainerIDs(t *testing.T) {
	r := newTree(t)
	r.RegisterContainer(container("box", "root"))
	r.RegisterItem("box", "root", nil, entity.ItemInfo{Type: entity.NodeContainer}, -1)

	assert.Equal(t, []string{"box", "root", "side"}, r.ContainerIDs())
	assert.Equal(t, []string{"root", "side"}, r.Roots())
}
