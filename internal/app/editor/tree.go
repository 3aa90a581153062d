package editor

import (
	"fmt"
	"io"
	"strings"

	"github.com/bnema/composer/internal/domain/registry"
)

// TreeNode is one node of the ordered tree dump.
type TreeNode struct {
	ID          string     `json:"id" yaml:"id"`
	IsContainer bool       `json:"container,omitempty" yaml:"container,omitempty"`
	Children    []TreeNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// Tree returns the registered tree from its roots, in sibling order.
func (e *Editor) Tree() []TreeNode {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []TreeNode
	for _, root := range e.registry.Roots() {
		out = append(out, buildNode(e.registry, root, map[string]bool{}))
	}
	return out
}

func buildNode(reg *registry.Registry, id string, seen map[string]bool) TreeNode {
	node := TreeNode{ID: id, IsContainer: reg.HasContainer(id)}
	if !node.IsContainer || seen[id] {
		return node
	}
	seen[id] = true
	for _, child := range reg.ChildrenOf(id) {
		node.Children = append(node.Children, buildNode(reg, child, seen))
	}
	return node
}

// WriteTree prints nodes as an indented outline.
func WriteTree(w io.Writer, nodes []TreeNode) error {
	var write func(n TreeNode, depth int) error
	write = func(n TreeNode, depth int) error {
		marker := "-"
		if n.IsContainer {
			marker = "+"
		}
		if _, err := fmt.Fprintf(w, "%s%s %s\n", strings.Repeat("  ", depth), marker, n.ID); err != nil {
			return err
		}
		for _, c := range n.Children {
			if err := write(c, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	for _, n := range nodes {
		if err := write(n, 0); err != nil {
			return err
		}
	}
	return nil
}
