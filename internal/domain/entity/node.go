package entity

// ContainerKind constrains which drop rules apply to a container.
type ContainerKind string

const (
	ContainerRegular    ContainerKind = "regular"
	ContainerTemplate   ContainerKind = "template"
	ContainerCollection ContainerKind = "collection"
)

// NodeType is the resolved type of a registered child node.
type NodeType string

const (
	NodeItem      NodeType = "item"
	NodeContainer NodeType = "container"
	NodeTemplate  NodeType = "template"
)

// NodeHandle is a non-owning reference to the latest rendered representation
// of a node. The registry replaces it on every render without moving the node.
type NodeHandle any

// ContainerInfo is the metadata a container registers with.
type ContainerInfo struct {
	ID       string
	Path     string // owning document path
	MagicID  string
	Handle   string
	Kind     ContainerKind
	ParentID string // empty at the tree root
}

// SameRegistration reports whether o would register the same structure as c.
// Only path, kind and parent matter; a difference elsewhere is not worth a
// downstream recomputation.
func (c ContainerInfo) SameRegistration(o ContainerInfo) bool {
	return c.Path == o.Path && c.Kind == o.Kind && c.ParentID == o.ParentID
}

// ItemInfo is the metadata a child node registers with.
type ItemInfo struct {
	ID          string
	Path        string
	MagicID     string
	UUID        string
	Handle      string
	ContainerID string
	Type        NodeType
	// TemplateSourceID is only set for template and collection members.
	TemplateSourceID string
}

// DropZoneStatus is the validity verdict for one container during a drag.
type DropZoneStatus struct {
	ContainerID string `json:"containerId"`
	Valid       bool   `json:"valid"`
	Reason      string `json:"reason,omitempty"`
}

// Droppable is one hit-testable candidate reported by the rendering surface
// for the current frame.
type Droppable struct {
	ID          string
	ContainerID string // sortable container the candidate belongs to
	Type        NodeType
	Rect        Rect
}
