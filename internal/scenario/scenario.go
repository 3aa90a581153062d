// Package scenario loads scripted editing sessions from YAML and replays
// them against an editor.
package scenario

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bnema/composer/internal/domain/entity"
	"github.com/bnema/composer/internal/domain/layout"
	"github.com/bnema/composer/internal/domain/nodeid"
)

const (
	defaultDocument = "App.tsx"
	defaultWidth    = 80
	defaultHeight   = 24
)

// NodeKind is the role of a scenario node.
type NodeKind string

const (
	KindItem       NodeKind = "item"
	KindContainer  NodeKind = "container"
	KindTemplate   NodeKind = "template"
	KindCollection NodeKind = "collection"
)

// Node is one element of the scenario tree. Names are unique within a
// scenario and are what steps refer to.
type Node struct {
	Name        string    `yaml:"name"`
	Kind        NodeKind  `yaml:"kind,omitempty"`
	Document    string    `yaml:"document,omitempty"`
	UUID        string    `yaml:"uuid,omitempty"`
	Orientation string    `yaml:"orientation,omitempty"`
	Rect        []float64 `yaml:"rect,flow,omitempty"`
	Children    []Node    `yaml:"children,omitempty"`
}

// IsContainer reports whether n holds children.
func (n Node) IsContainer() bool {
	return n.Kind != KindItem
}

// Step is one scripted action. Exactly one action field is set.
type Step struct {
	Name           string       `yaml:"name,omitempty"`
	Drag           *DragStep    `yaml:"drag,omitempty"`
	AddMove        *AddMoveStep `yaml:"add_move,omitempty"`
	Undo           bool         `yaml:"undo,omitempty"`
	Redo           bool         `yaml:"redo,omitempty"`
	ToggleEditMode *bool        `yaml:"toggle_edit_mode,omitempty"`
	Key            string       `yaml:"key,omitempty"`
	Expect         *Expect      `yaml:"expect,omitempty"`
}

// DragStep presses on Item, moves to the centre of To (or At) and drops.
type DragStep struct {
	Item   string    `yaml:"item"`
	To     string    `yaml:"to,omitempty"`
	At     []float64 `yaml:"at,flow,omitempty"`
	Cancel bool      `yaml:"cancel,omitempty"`
}

// AddMoveStep records a move directly.
type AddMoveStep struct {
	Item     string `yaml:"item"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
	OldIndex int    `yaml:"old_index"`
	NewIndex int    `yaml:"new_index"`
}

// Expect asserts on editor state. Unset fields are not checked.
type Expect struct {
	Children    map[string][]string `yaml:"children,omitempty"`
	Messages    *int                `yaml:"messages,omitempty"`
	LastMessage string              `yaml:"last_message,omitempty"`
	CanUndo     *bool               `yaml:"can_undo,omitempty"`
	CanRedo     *bool               `yaml:"can_redo,omitempty"`
	EditMode    *bool               `yaml:"edit_mode,omitempty"`
}

// Scenario is a parsed scenario file.
type Scenario struct {
	Name     string  `yaml:"name,omitempty"`
	Document string  `yaml:"document,omitempty"`
	EditMode *bool   `yaml:"edit_mode,omitempty"`
	Width    float64 `yaml:"width,omitempty"`
	Height   float64 `yaml:"height,omitempty"`
	Tree     []Node  `yaml:"tree"`
	Steps    []Step  `yaml:"steps,omitempty"`

	ids    map[string]string
	names  map[string]string
	nodes  map[string]*Node
	parent map[string]string
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := sc.init(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (s *Scenario) init() error {
	if s.Document == "" {
		s.Document = defaultDocument
	}
	if s.Width <= 0 {
		s.Width = defaultWidth
	}
	if s.Height <= 0 {
		s.Height = defaultHeight
	}
	if len(s.Tree) == 0 {
		return errors.New("scenario tree is empty")
	}

	s.ids = make(map[string]string)
	s.names = make(map[string]string)
	s.nodes = make(map[string]*Node)
	s.parent = make(map[string]string)

	for i := range s.Tree {
		switch s.Tree[i].Kind {
		case "":
			s.Tree[i].Kind = KindContainer
		case KindItem:
			return fmt.Errorf("node %q: top-level nodes must be containers", s.Tree[i].Name)
		}
		if err := s.index(&s.Tree[i], nil); err != nil {
			return err
		}
	}

	for i, step := range s.Steps {
		if err := s.checkStep(step); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (s *Scenario) index(n *Node, parent *Node) error {
	if n.Name == "" {
		return errors.New("node without a name")
	}
	if _, dup := s.nodes[n.Name]; dup {
		return fmt.Errorf("duplicate node name %q", n.Name)
	}
	if n.Kind == "" {
		n.Kind = KindItem
		if len(n.Children) > 0 {
			n.Kind = KindContainer
		}
	}
	switch n.Kind {
	case KindItem, KindContainer, KindTemplate, KindCollection:
	default:
		return fmt.Errorf("node %q: unknown kind %q", n.Name, n.Kind)
	}
	if n.Kind == KindItem && len(n.Children) > 0 {
		return fmt.Errorf("node %q: items cannot have children", n.Name)
	}
	switch layout.Orientation(n.Orientation) {
	case "", layout.Row, layout.Column, layout.Grid:
	default:
		return fmt.Errorf("node %q: unknown orientation %q", n.Name, n.Orientation)
	}
	if n.Rect != nil && len(n.Rect) != 4 {
		return fmt.Errorf("node %q: rect needs [x, y, width, height]", n.Name)
	}
	if n.Document == "" {
		n.Document = s.Document
	}
	if n.UUID == "" && parent != nil && parent.Kind != KindContainer {
		n.UUID = parent.UUID
	}
	if n.Kind == KindTemplate && n.UUID == "" {
		n.UUID = n.Name
	}

	id := s.idOf(n, parent)
	if other, clash := s.names[id]; clash {
		return fmt.Errorf("nodes %q and %q resolve to the same id %s", other, n.Name, id)
	}
	s.ids[n.Name] = id
	s.names[id] = n.Name
	s.nodes[n.Name] = n
	if parent != nil {
		s.parent[n.Name] = parent.Name
	}

	for i := range n.Children {
		if err := s.index(&n.Children[i], n); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scenario) idOf(n *Node, parent *Node) string {
	attrs := nodeid.Attributes{Path: n.Document, MagicID: n.Name, UUID: n.UUID}
	if n.IsContainer() {
		attrs.Handle = n.Name
		return nodeid.ForContainer(attrs, nodeid.ContainerKind(containerKind(n.Kind)))
	}
	parentKind := nodeid.ContainerRegular
	parentPath := ""
	if parent != nil {
		parentKind = nodeid.ContainerKind(containerKind(parent.Kind))
		parentPath = parent.Document
	}
	return nodeid.ForItem(attrs, parentKind, parentPath)
}

func (s *Scenario) checkStep(step Step) error {
	actions := 0
	for _, set := range []bool{
		step.Drag != nil, step.AddMove != nil, step.Undo, step.Redo,
		step.ToggleEditMode != nil, step.Key != "", step.Expect != nil,
	} {
		if set {
			actions++
		}
	}
	if actions != 1 {
		return fmt.Errorf("expected exactly one action, got %d", actions)
	}

	var refs []string
	switch {
	case step.Drag != nil:
		refs = append(refs, step.Drag.Item)
		if step.Drag.To != "" {
			refs = append(refs, step.Drag.To)
		} else if len(step.Drag.At) != 2 {
			return errors.New("drag needs a target: to or at [x, y]")
		}
	case step.AddMove != nil:
		refs = append(refs, step.AddMove.Item, step.AddMove.From, step.AddMove.To)
	case step.Expect != nil:
		for name := range step.Expect.Children {
			refs = append(refs, name)
		}
	}
	for _, name := range refs {
		if _, ok := s.nodes[name]; !ok {
			return fmt.Errorf("unknown node %q", name)
		}
	}
	return nil
}

// ID returns the node id of the named node.
func (s *Scenario) ID(name string) string {
	return s.ids[name]
}

// NameOf returns the scenario name of a node id, or the id itself.
func (s *Scenario) NameOf(id string) string {
	if name, ok := s.names[id]; ok {
		return name
	}
	return id
}

// Orientation returns the layout axis of the container with the given id.
func (s *Scenario) Orientation(id string) layout.Orientation {
	if n, ok := s.nodes[s.names[id]]; ok {
		return layout.ParseOrientation(n.Orientation)
	}
	return layout.Column
}

// Bounds is the scenario canvas.
func (s *Scenario) Bounds() entity.Rect {
	return entity.Rect{W: s.Width, H: s.Height}
}

// InitialEditMode is the edit mode the scenario starts in.
func (s *Scenario) InitialEditMode() bool {
	return s.EditMode == nil || *s.EditMode
}

func containerKind(k NodeKind) entity.ContainerKind {
	switch k {
	case KindTemplate:
		return entity.ContainerTemplate
	case KindCollection:
		return entity.ContainerCollection
	default:
		return entity.ContainerRegular
	}
}
