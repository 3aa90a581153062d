package nodeid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/composer/internal/domain/nodeid"
)

func TestDecode_RoundTripsEveryKind(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want nodeid.Components
	}{
		{
			name: "item",
			id:   nodeid.EncodeItem("src/App.tsx", "m-12"),
			want: nodeid.Components{Kind: nodeid.KindItem, Document: "src/App.tsx", Marker: "m-12"},
		},
		{
			name: "container",
			id:   nodeid.EncodeContainer("src/App.tsx", "dnd-3"),
			want: nodeid.Components{Kind: nodeid.KindContainer, Document: "src/App.tsx", Handle: "dnd-3"},
		},
		{
			name: "template instance",
			id:   nodeid.EncodeTemplateInstance("u-1", "src/Card.tsx", "m-4"),
			want: nodeid.Components{Kind: nodeid.KindTemplateInstance, UUID: "u-1", Document: "src/Card.tsx", Marker: "m-4"},
		},
		{
			name: "template container",
			id:   nodeid.EncodeTemplateContainer("u-1", "src/Card.tsx", "dnd-9"),
			want: nodeid.Components{Kind: nodeid.KindTemplateContainer, UUID: "u-1", Document: "src/Card.tsx", Handle: "dnd-9"},
		},
		{
			name: "collection container",
			id:   nodeid.EncodeCollectionContainer("dnd-2", "src/List.tsx", "m-7"),
			want: nodeid.Components{Kind: nodeid.KindCollectionContainer, Handle: "dnd-2", Document: "src/List.tsx", Marker: "m-7"},
		},
		{
			name: "fields containing separators",
			id:   nodeid.EncodeItem("C:%temp%/a.tsx", "x:y"),
			want: nodeid.Components{Kind: nodeid.KindItem, Document: "C:%temp%/a.tsx", Marker: "x:y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := nodeid.Decode(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.id, got.Encode())
		})
	}
}

func TestDecode_RejectsMalformedInput(t *testing.T) {
	for _, id := range []string{
		"",
		"item",
		"item:only-two",
		"widget:a:b",
		"template:src/Card.tsx:x",
	} {
		_, ok := nodeid.Decode(id)
		assert.False(t, ok, "id %q", id)
	}
}

func TestEncode_EscapingPreventsCollisions(t *testing.T) {
	a := nodeid.EncodeItem("doc:a", "b")
	b := nodeid.EncodeItem("doc", "a:b")
	assert.NotEqual(t, a, b)
}

func TestPredicates(t *testing.T) {
	item := nodeid.EncodeItem("d", "m")
	container := nodeid.EncodeContainer("d", "h")
	instance := nodeid.EncodeTemplateInstance("u", "d", "m")
	templateContainer := nodeid.EncodeTemplateContainer("u", "d", "h")
	collection := nodeid.EncodeCollectionContainer("h", "d", "m")

	assert.True(t, nodeid.IsItem(item))
	assert.True(t, nodeid.IsItem(instance))
	assert.False(t, nodeid.IsItem(container))

	assert.True(t, nodeid.IsContainer(container))
	assert.True(t, nodeid.IsContainer(templateContainer))
	assert.True(t, nodeid.IsContainer(collection))
	assert.False(t, nodeid.IsContainer(item))
	assert.False(t, nodeid.IsContainer(instance))

	assert.True(t, nodeid.IsTemplate(instance))
	assert.True(t, nodeid.IsTemplate(templateContainer))
	assert.False(t, nodeid.IsTemplate(collection))
}

func TestTemplateSourceID(t *testing.T) {
	src, ok := nodeid.TemplateSourceID(nodeid.EncodeTemplateInstance("u-1", "src/Card.tsx", "m-4"))
	require.True(t, ok)
	assert.Equal(t, "template:src/Card.tsx", src)

	a, _ := nodeid.TemplateSourceID(nodeid.EncodeTemplateInstance("u-1", "src/Card.tsx", "m-4"))
	b, _ := nodeid.TemplateSourceID(nodeid.EncodeTemplateInstance("u-2", "src/Card.tsx", "m-4"))
	assert.Equal(t, a, b, "instances of one template share a source")

	_, ok = nodeid.TemplateSourceID(nodeid.EncodeItem("src/Card.tsx", "m-4"))
	assert.False(t, ok)
}

func TestForContainerAndItem(t *testing.T) {
	attrs := nodeid.Attributes{Path: "src/App.tsx", MagicID: "m1", UUID: "u1", Handle: "h1"}

	assert.Equal(t, nodeid.EncodeTemplateContainer("u1", "src/App.tsx", "h1"), nodeid.ForContainer(attrs, nodeid.ContainerTemplate))
	assert.Equal(t, nodeid.EncodeCollectionContainer("h1", "src/App.tsx", "m1"), nodeid.ForContainer(attrs, nodeid.ContainerCollection))
	assert.Equal(t, nodeid.EncodeContainer("src/App.tsx", "h1"), nodeid.ForContainer(attrs, nodeid.ContainerRegular))

	noHandle := attrs
	noHandle.Handle = ""
	noHandle.UUID = ""
	assert.Equal(t, nodeid.EncodeItem("src/App.tsx", "m1"), nodeid.ForContainer(noHandle, nodeid.ContainerRegular))

	assert.Equal(t, nodeid.EncodeTemplateInstance("u1", "src/App.tsx", "m1"), nodeid.ForItem(attrs, nodeid.ContainerCollection, ""))
	assert.Equal(t, nodeid.EncodeItem("Badge", "src/App.tsx"), nodeid.ForItem(nodeid.Attributes{ComponentName: "Badge"}, nodeid.ContainerRegular, "src/App.tsx"))
	assert.Equal(t, nodeid.EncodeItem("noname", "p"), nodeid.ForItem(nodeid.Attributes{}, nodeid.ContainerRegular, "p"))
}
