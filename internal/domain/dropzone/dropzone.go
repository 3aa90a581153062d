// Package dropzone decides which containers may receive the node being
// dragged. Validity depends only on the dragged id and the registry, never
// on pointer position, so it is computed once per active node.
package dropzone

import (
	"github.com/bnema/composer/internal/domain/entity"
	"github.com/bnema/composer/internal/domain/nodeid"
)

// Rejection reasons reported in entity.DropZoneStatus.
const (
	ReasonMalformed        = "malformed identifier"
	ReasonSelf             = "cannot drop into itself"
	ReasonOwnChild         = "cannot drop a container into its own child"
	ReasonCrossFile        = "cross-file movement not allowed"
	ReasonTemplateOutside  = "template instances can only be moved within template containers"
	ReasonItemInCollection = "items cannot be moved inside of collections"
)

// Tree is the registry view the evaluator needs.
type Tree interface {
	IsDescendant(ancestor, target string) bool
	ContainerIDs() []string
}

// Evaluator applies the drop rules against a live tree.
type Evaluator struct {
	tree Tree
}

// NewEvaluator creates an evaluator reading from tree.
func NewEvaluator(tree Tree) *Evaluator {
	return &Evaluator{tree: tree}
}

// Evaluate returns the verdict for dropping draggedID into targetID.
// The first matching rule wins.
func (e *Evaluator) Evaluate(draggedID, targetID string) entity.DropZoneStatus {
	invalid := func(reason string) entity.DropZoneStatus {
		return entity.DropZoneStatus{ContainerID: targetID, Reason: reason}
	}

	dragged, ok := nodeid.Decode(draggedID)
	if !ok {
		return invalid(ReasonMalformed)
	}
	target, ok := nodeid.Decode(targetID)
	if !ok {
		return invalid(ReasonMalformed)
	}

	if draggedID == targetID {
		return invalid(ReasonSelf)
	}
	if nodeid.IsContainer(draggedID) && e.tree.IsDescendant(draggedID, targetID) {
		return invalid(ReasonOwnChild)
	}
	if dragged.Document != target.Document {
		return invalid(ReasonCrossFile)
	}
	if dragged.Kind == nodeid.KindTemplateInstance && target.Kind != nodeid.KindTemplateContainer {
		return invalid(ReasonTemplateOutside)
	}
	if dragged.Kind == nodeid.KindItem && target.Kind == nodeid.KindCollectionContainer {
		return invalid(ReasonItemInCollection)
	}

	return entity.DropZoneStatus{ContainerID: targetID, Valid: true}
}

// Statuses maps container ids to their verdicts for one drag session.
type Statuses map[string]entity.DropZoneStatus

// IsValid reports whether containerID was judged a valid destination.
// Unknown containers are invalid.
func (s Statuses) IsValid(containerID string) bool {
	return s[containerID].Valid
}

// EvaluateAll evaluates draggedID against every registered container.
func (e *Evaluator) EvaluateAll(draggedID string) Statuses {
	ids := e.tree.ContainerIDs()
	out := make(Statuses, len(ids))
	for _, id := range ids {
		out[id] = e.Evaluate(draggedID, id)
	}
	return out
}
