package scenario

import (
	"context"
	"fmt"

	"github.com/bnema/composer/internal/app/editor"
	"github.com/bnema/composer/internal/domain/entity"
	"github.com/bnema/composer/internal/domain/nodeid"
	"github.com/bnema/composer/internal/logging"
)

// Build registers the scenario tree with e and mounts one drag surface.
func (s *Scenario) Build(ctx context.Context, e *editor.Editor) error {
	ctx = logging.WithComponent(ctx, "scenario")
	for i := range s.Tree {
		if err := s.register(ctx, e, &s.Tree[i], nil, 0); err != nil {
			return err
		}
	}
	e.MountSurface(ctx)
	logging.FromContext(ctx).Debug().Int("nodes", len(s.nodes)).Msg("scenario tree registered")
	return nil
}

func (s *Scenario) register(ctx context.Context, e *editor.Editor, n *Node, parent *Node, index int) error {
	id := s.ids[n.Name]
	parentID := ""
	if parent != nil {
		parentID = s.ids[parent.Name]
	}

	if n.IsContainer() {
		e.RegisterContainer(ctx, entity.ContainerInfo{
			ID:       id,
			Path:     n.Document,
			MagicID:  n.Name,
			Handle:   n.Name,
			Kind:     containerKind(n.Kind),
			ParentID: parentID,
		})
	}

	if parent != nil {
		info := entity.ItemInfo{
			Path:    n.Document,
			MagicID: n.Name,
			UUID:    n.UUID,
			Handle:  n.Name,
			Type:    itemType(n, id),
		}
		if source, ok := nodeid.TemplateSourceID(id); ok {
			info.TemplateSourceID = source
		}
		e.RegisterItem(ctx, id, parentID, n.Name, info, index)
	}

	for i := range n.Children {
		if err := s.register(ctx, e, &n.Children[i], n, i); err != nil {
			return fmt.Errorf("register %q: %w", n.Children[i].Name, err)
		}
	}
	return nil
}

func itemType(n *Node, id string) entity.NodeType {
	switch {
	case n.IsContainer():
		return entity.NodeContainer
	case nodeid.IsTemplate(id):
		return entity.NodeTemplate
	default:
		return entity.NodeItem
	}
}
