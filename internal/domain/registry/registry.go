// Package registry holds the canonical, ordered parent/child tree of every
// node currently rendered on a drag-capable surface.
package registry

import (
	"slices"

	"github.com/bnema/composer/internal/domain/entity"
)

// Registry maps node ids to their handles, metadata and ordered children.
// Handles are non-owning and are replaced on every render.
// Registry is not safe for concurrent use; callers serialize access.
type Registry struct {
	items      map[string]entity.NodeHandle
	itemInfo   map[string]entity.ItemInfo
	containers map[string]entity.ContainerInfo
	parentOf   map[string]string
	childrenOf map[string][]string
}

// Snapshot is a deep copy of the structural maps, used for equality checks.
type Snapshot struct {
	ParentOf   map[string]string
	ChildrenOf map[string][]string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		items:      make(map[string]entity.NodeHandle),
		itemInfo:   make(map[string]entity.ItemInfo),
		containers: make(map[string]entity.ContainerInfo),
		parentOf:   make(map[string]string),
		childrenOf: make(map[string][]string),
	}
}

// RegisterContainer records a container. It is a no-op, returning false,
// when the container is already known with the same path, kind and parent.
func (r *Registry) RegisterContainer(info entity.ContainerInfo) bool {
	if prev, ok := r.containers[info.ID]; ok && prev.SameRegistration(info) {
		return false
	}
	r.containers[info.ID] = info
	if _, ok := r.childrenOf[info.ID]; !ok {
		r.childrenOf[info.ID] = []string{}
	}
	return true
}

// RegisterItem places id under containerID at index. A negative index
// appends; an index past the end is clamped. The handle and metadata are
// always refreshed. It returns false when the node was already at that
// position, so the structure did not change.
func (r *Registry) RegisterItem(id, containerID string, handle entity.NodeHandle, info entity.ItemInfo, index int) bool {
	r.items[id] = handle
	info.ID = id
	info.ContainerID = containerID
	r.itemInfo[id] = info

	if prev, ok := r.parentOf[id]; ok && prev == containerID {
		children := r.childrenOf[containerID]
		at := slices.Index(children, id)
		if at >= 0 && (index < 0 || at == clampIndex(index, len(children)-1)) {
			return false
		}
	}

	if prev, ok := r.parentOf[id]; ok {
		r.childrenOf[prev] = remove(r.childrenOf[prev], id)
	}

	r.parentOf[id] = containerID
	children := r.childrenOf[containerID]
	if index < 0 {
		r.childrenOf[containerID] = append(children, id)
	} else {
		r.childrenOf[containerID] = slices.Insert(children, clampIndex(index, len(children)), id)
	}
	return true
}

// ApplyMove relocates itemID from src at oldIndex to dst at newIndex.
// It returns false, leaving the tree untouched, when src does not hold
// itemID at oldIndex.
func (r *Registry) ApplyMove(itemID, src, dst string, oldIndex, newIndex int) bool {
	children := r.childrenOf[src]
	if oldIndex < 0 || oldIndex >= len(children) || children[oldIndex] != itemID {
		return false
	}

	if src == dst {
		moved := slices.Delete(slices.Clone(children), oldIndex, oldIndex+1)
		r.childrenOf[src] = slices.Insert(moved, clampIndex(newIndex, len(moved)), itemID)
		return true
	}

	r.childrenOf[src] = slices.Delete(slices.Clone(children), oldIndex, oldIndex+1)
	target := r.childrenOf[dst]
	r.childrenOf[dst] = slices.Insert(slices.Clone(target), clampIndex(newIndex, len(target)), itemID)
	r.parentOf[itemID] = dst

	if info, ok := r.itemInfo[itemID]; ok {
		info.ContainerID = dst
		r.itemInfo[itemID] = info
	}
	if c, ok := r.containers[itemID]; ok {
		c.ParentID = dst
		r.containers[itemID] = c
	}
	return true
}

// ChildrenOf returns a copy of the ordered children of a container.
func (r *Registry) ChildrenOf(containerID string) []string {
	return slices.Clone(r.childrenOf[containerID])
}

// ContainerOf returns the container currently holding id, or "".
func (r *Registry) ContainerOf(id string) string {
	return r.parentOf[id]
}

// IndexOf returns the position of id inside its container, or -1.
func (r *Registry) IndexOf(id string) int {
	parent, ok := r.parentOf[id]
	if !ok {
		return -1
	}
	return slices.Index(r.childrenOf[parent], id)
}

// Item returns the latest handle registered for id.
func (r *Registry) Item(id string) (entity.NodeHandle, bool) {
	h, ok := r.items[id]
	return h, ok
}

// ItemInfo returns the metadata registered for a child node.
func (r *Registry) ItemInfo(id string) (entity.ItemInfo, bool) {
	info, ok := r.itemInfo[id]
	return info, ok
}

// ContainerInfo returns the metadata registered for a container.
func (r *Registry) ContainerInfo(id string) (entity.ContainerInfo, bool) {
	info, ok := r.containers[id]
	return info, ok
}

// HasContainer reports whether id is a registered container.
func (r *Registry) HasContainer(id string) bool {
	_, ok := r.containers[id]
	return ok
}

// ContainerIDs returns every registered container id, sorted.
func (r *Registry) ContainerIDs() []string {
	ids := make([]string, 0, len(r.containers))
	for id := range r.containers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Roots returns the sorted ids of containers without a parent.
func (r *Registry) Roots() []string {
	var roots []string
	for id, info := range r.containers {
		if _, placed := r.parentOf[id]; info.ParentID == "" && !placed {
			roots = append(roots, id)
		}
	}
	slices.Sort(roots)
	return roots
}

// IsDescendant reports whether target lies anywhere below ancestor.
func (r *Registry) IsDescendant(ancestor, target string) bool {
	seen := map[string]bool{ancestor: true}
	stack := slices.Clone(r.childrenOf[ancestor])
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == target {
			return true
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		stack = append(stack, r.childrenOf[id]...)
	}
	return false
}

// Snapshot returns deep copies of the structural maps.
func (r *Registry) Snapshot() Snapshot {
	s := Snapshot{
		ParentOf:   make(map[string]string, len(r.parentOf)),
		ChildrenOf: make(map[string][]string, len(r.childrenOf)),
	}
	for k, v := range r.parentOf {
		s.ParentOf[k] = v
	}
	for k, v := range r.childrenOf {
		s.ChildrenOf[k] = slices.Clone(v)
	}
	return s
}

func clampIndex(i, n int) int {
	return max(0, min(i, n))
}

func remove(ids []string, id string) []string {
	at := slices.Index(ids, id)
	if at < 0 {
		return ids
	}
	return slices.Delete(slices.Clone(ids), at, at+1)
}
