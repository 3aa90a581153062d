package dropzone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/composer/internal/domain/dropzone"
	"github.com/bnema/composer/internal/domain/entity"
	"github.com/bnema/composer/internal/domain/nodeid"
	"github.com/bnema/composer/internal/domain/registry"
)

const doc = "src/App.tsx"

var (
	rootID       = nodeid.EncodeContainer(doc, "root")
	innerID      = nodeid.EncodeContainer(doc, "inner")
	leafBoxID    = nodeid.EncodeContainer(doc, "leaf")
	otherID      = nodeid.EncodeContainer(doc, "other")
	collectionID = nodeid.EncodeCollectionContainer("list", doc, "m9")
	templateID   = nodeid.EncodeTemplateContainer("u-1", doc, "cards")
	foreignID    = nodeid.EncodeContainer("src/Other.tsx", "root")
	itemID       = nodeid.EncodeItem(doc, "m1")
	instanceID   = nodeid.EncodeTemplateInstance("u-2", doc, "m2")
)

// tree: root{inner{leaf}}, other, collection, template, foreign
func newTree(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()
	for _, c := range []entity.ContainerInfo{
		{ID: rootID, Path: doc, Kind: entity.ContainerRegular},
		{ID: innerID, Path: doc, Kind: entity.ContainerRegular, ParentID: rootID},
		{ID: leafBoxID, Path: doc, Kind: entity.ContainerRegular, ParentID: innerID},
		{ID: otherID, Path: doc, Kind: entity.ContainerRegular},
		{ID: collectionID, Path: doc, Kind: entity.ContainerCollection},
		{ID: templateID, Path: doc, Kind: entity.ContainerTemplate},
		{ID: foreignID, Path: "src/Other.tsx", Kind: entity.ContainerRegular},
	} {
		r.RegisterContainer(c)
	}
	r.RegisterItem(innerID, rootID, nil, entity.ItemInfo{Type: entity.NodeContainer}, -1)
	r.RegisterItem(leafBoxID, innerID, nil, entity.ItemInfo{Type: entity.NodeContainer}, -1)
	r.RegisterItem(itemID, rootID, nil, entity.ItemInfo{Type: entity.NodeItem}, -1)
	r.RegisterItem(instanceID, templateID, nil, entity.ItemInfo{Type: entity.NodeTemplate}, -1)
	return r
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		dragged string
		target  string
		valid   bool
		reason  string
	}{
		{"malformed dragged", "bogus", rootID, false, dropzone.ReasonMalformed},
		{"malformed target", itemID, "container:only", false, dropzone.ReasonMalformed},
		{"into itself", innerID, innerID, false, dropzone.ReasonSelf},
		{"container into own child", rootID, innerID, false, dropzone.ReasonOwnChild},
		{"container into own grandchild", rootID, leafBoxID, false, dropzone.ReasonOwnChild},
		{"cross path item", itemID, foreignID, false, dropzone.ReasonCrossFile},
		{"cross path container", otherID, foreignID, false, dropzone.ReasonCrossFile},
		{"item onto collection", itemID, collectionID, false, dropzone.ReasonItemInCollection},
		{"template instance onto regular", instanceID, rootID, false, dropzone.ReasonTemplateOutside},
		{"template instance onto collection", instanceID, collectionID, false, dropzone.ReasonTemplateOutside},
		{"template instance onto template container", instanceID, templateID, true, ""},
		{"container onto unrelated container", otherID, innerID, true, ""},
		{"child container onto its ancestor", leafBoxID, rootID, true, ""},
		{"item onto regular container", itemID, otherID, true, ""},
		{"container onto collection", otherID, collectionID, true, ""},
	}

	e := dropzone.NewEvaluator(newTree(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Evaluate(tt.dragged, tt.target)
			assert.Equal(t, tt.target, got.ContainerID)
			assert.Equal(t, tt.valid, got.Valid)
			assert.Equal(t, tt.reason, got.Reason)
		})
	}
}

func TestEvaluateAll(t *testing.T) {
	e := dropzone.NewEvaluator(newTree(t))

	statuses := e.EvaluateAll(itemID)
	require.Len(t, statuses, 7)

	assert.True(t, statuses.IsValid(rootID))
	assert.True(t, statuses.IsValid(innerID))
	assert.True(t, statuses.IsValid(templateID))
	assert.False(t, statuses.IsValid(collectionID))
	assert.False(t, statuses.IsValid(foreignID))
	assert.False(t, statuses.IsValid("container:unknown:x"))
}
