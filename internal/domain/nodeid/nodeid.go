// Package nodeid encodes a node's semantic role and structural path into a
// single opaque key, and decodes it back.
//
// Keys are colon-delimited. The leading segment is the tag; the remaining
// segments depend on the tag:
//
//	item:<document>:<marker>
//	container:<document>:<handle>
//	template-instance:<uuid>:<document>:<marker>
//	template-container:<uuid>:<document>:<handle>
//	collection-container:<handle>:<document>:<marker>
//
// Field values are escaped so that a value containing ':' or '%' can never
// produce a key that collides with another node's key.
package nodeid

import "strings"

// Kind is the closed tag vocabulary of node identifiers.
type Kind string

const (
	KindItem                Kind = "item"
	KindContainer           Kind = "container"
	KindTemplateInstance    Kind = "template-instance"
	KindTemplateContainer   Kind = "template-container"
	KindCollectionContainer Kind = "collection-container"
)

const (
	separator = ":"

	// templateTag prefixes the abstract template a template instance was
	// stamped from. It is never registered as a node.
	templateTag = "template"

	minSegments = 3
)

var (
	escaper   = strings.NewReplacer("%", "%25", ":", "%3A")
	unescaper = strings.NewReplacer("%3A", ":", "%3a", ":", "%25", "%")
)

// Components is the typed field set carried by an identifier.
// Fields that a kind does not carry are left empty.
type Components struct {
	Kind     Kind
	Document string // structural path of the owning document
	Marker   string // locally-unique element marker
	UUID     string // instance uuid for repeated template members
	Handle   string // drag-handle marker of containers
}

// EncodeItem returns the identifier of a plain item.
func EncodeItem(document, marker string) string {
	return join(KindItem, document, marker)
}

// EncodeContainer returns the identifier of a regular container.
func EncodeContainer(document, handle string) string {
	return join(KindContainer, document, handle)
}

// EncodeTemplateInstance returns the identifier of one repeated template instance.
func EncodeTemplateInstance(uuid, document, marker string) string {
	return join(KindTemplateInstance, uuid, document, marker)
}

// EncodeTemplateContainer returns the identifier of a container of template instances.
func EncodeTemplateContainer(uuid, document, handle string) string {
	return join(KindTemplateContainer, uuid, document, handle)
}

// EncodeCollectionContainer returns the identifier of a collection container.
func EncodeCollectionContainer(handle, document, marker string) string {
	return join(KindCollectionContainer, handle, document, marker)
}

// Encode re-encodes a decoded field set. An unknown kind yields "".
func (c Components) Encode() string {
	switch c.Kind {
	case KindItem:
		return EncodeItem(c.Document, c.Marker)
	case KindContainer:
		return EncodeContainer(c.Document, c.Handle)
	case KindTemplateInstance:
		return EncodeTemplateInstance(c.UUID, c.Document, c.Marker)
	case KindTemplateContainer:
		return EncodeTemplateContainer(c.UUID, c.Document, c.Handle)
	case KindCollectionContainer:
		return EncodeCollectionContainer(c.Handle, c.Document, c.Marker)
	default:
		return ""
	}
}

// Decode inspects the leading tag and returns the typed field set.
// It reports false for input with fewer than three segments or an
// unrecognized tag. Decode never panics: it runs on every pointer tick.
func Decode(id string) (Components, bool) {
	parts := strings.Split(id, separator)
	if len(parts) < minSegments {
		return Components{}, false
	}

	field := func(i int) string {
		if i >= len(parts) {
			return ""
		}
		return unescaper.Replace(parts[i])
	}

	switch Kind(parts[0]) {
	case KindItem:
		return Components{Kind: KindItem, Document: field(1), Marker: field(2)}, true
	case KindContainer:
		return Components{Kind: KindContainer, Document: field(1), Handle: field(2)}, true
	case KindTemplateInstance:
		return Components{Kind: KindTemplateInstance, UUID: field(1), Document: field(2), Marker: field(3)}, true
	case KindTemplateContainer:
		return Components{Kind: KindTemplateContainer, UUID: field(1), Document: field(2), Handle: field(3)}, true
	case KindCollectionContainer:
		return Components{Kind: KindCollectionContainer, Handle: field(1), Document: field(2), Marker: field(3)}, true
	default:
		return Components{}, false
	}
}

// IsContainer classifies id as a container of any kind from its tag alone.
func IsContainer(id string) bool {
	return hasTag(id, KindContainer) ||
		hasTag(id, KindCollectionContainer) ||
		hasTag(id, KindTemplateContainer)
}

// IsItem classifies id as a leaf: a plain item or a template instance.
func IsItem(id string) bool {
	return hasTag(id, KindItem) || hasTag(id, KindTemplateInstance)
}

// IsTemplate reports whether id belongs to the template family.
func IsTemplate(id string) bool {
	return hasTag(id, KindTemplateInstance) || hasTag(id, KindTemplateContainer)
}

// TemplateSourceID links a concrete template instance back to the abstract
// template it was stamped from. It reports false for any other kind.
func TemplateSourceID(id string) (string, bool) {
	c, ok := Decode(id)
	if !ok || c.Kind != KindTemplateInstance || c.Document == "" {
		return "", false
	}
	return templateTag + separator + escaper.Replace(c.Document), true
}

func hasTag(id string, kind Kind) bool {
	return strings.HasPrefix(id, string(kind)+separator)
}

func join(kind Kind, fields ...string) string {
	var b strings.Builder
	b.WriteString(string(kind))
	for _, f := range fields {
		b.WriteString(separator)
		b.WriteString(escaper.Replace(f))
	}
	return b.String()
}
