package nodeid

// ContainerKind mirrors entity.ContainerKind without importing it; the codec
// stays dependency free.
type ContainerKind string

const (
	ContainerRegular    ContainerKind = "regular"
	ContainerTemplate   ContainerKind = "template"
	ContainerCollection ContainerKind = "collection"
)

// Attributes are the marker attributes a rendered element carries.
type Attributes struct {
	Path          string // owning document path
	MagicID       string // locally-unique element marker
	UUID          string // set on repeated template/collection members
	Handle        string // drag-handle marker; only containers carry one
	ComponentName string // used when markers are missing
}

// ForContainer derives the identifier of a rendered container element.
// An element without a drag handle is not a container and is identified as
// an item of the given kind instead.
func ForContainer(attrs Attributes, kind ContainerKind) string {
	if attrs.Handle == "" {
		return ForItem(attrs, kind, "")
	}

	switch {
	case kind == ContainerTemplate && attrs.UUID != "":
		return EncodeTemplateContainer(attrs.UUID, attrs.Path, attrs.Handle)
	case kind == ContainerCollection:
		return EncodeCollectionContainer(attrs.Handle, attrs.Path, attrs.MagicID)
	default:
		return EncodeContainer(attrs.Path, attrs.Handle)
	}
}

// ForItem derives the identifier of a rendered child element placed inside a
// container of parentKind. Members of template and collection containers that
// carry an instance uuid become template instances. Elements lacking markers
// fall back to their component name and the parent's path.
func ForItem(attrs Attributes, parentKind ContainerKind, parentPath string) string {
	if (parentKind == ContainerTemplate || parentKind == ContainerCollection) && attrs.UUID != "" {
		return EncodeTemplateInstance(attrs.UUID, attrs.Path, attrs.MagicID)
	}

	if attrs.Path == "" || attrs.MagicID == "" {
		name := attrs.ComponentName
		if name == "" {
			name = "noname"
		}
		return EncodeItem(name, parentPath)
	}

	return EncodeItem(attrs.Path, attrs.MagicID)
}
