package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bnema/composer/internal/domain/entity"
	"github.com/bnema/composer/internal/domain/nodeid"
	"github.com/bnema/composer/internal/domain/registry"
	"github.com/bnema/composer/internal/logging"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

const testDoc = "src/App.tsx"

var (
	rootID = nodeid.EncodeContainer(testDoc, "root")
	sideID = nodeid.EncodeContainer(testDoc, "side")
	itemA  = nodeid.EncodeItem(testDoc, "a")
	itemB  = nodeid.EncodeItem(testDoc, "b")
	itemC  = nodeid.EncodeItem(testDoc, "c")
)

// fixedClock returns a controllable clock starting at a fixed instant.
func fixedClock() (func() time.Time, func(time.Duration)) {
	now := time.UnixMilli(1_700_000_000_000)
	return func() time.Time { return now }, func(d time.Duration) { now = now.Add(d) }
}

// sequentialIDs yields move-1, move-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return "move-" + string(rune('0'+n))
	}
}

// newTestTree registers root{A, B, C} and side{} in one document.
func newTestTree(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()
	require.True(t, r.RegisterContainer(entity.ContainerInfo{
		ID: rootID, Path: testDoc, MagicID: "root-magic", Kind: entity.ContainerRegular,
	}))
	require.True(t, r.RegisterContainer(entity.ContainerInfo{
		ID: sideID, Path: testDoc, MagicID: "side-magic", Kind: entity.ContainerRegular,
	}))
	for _, id := range []string{itemA, itemB, itemC} {
		c, _ := nodeid.Decode(id)
		require.True(t, r.RegisterItem(id, rootID, "node:"+c.Marker, entity.ItemInfo{
			Path:    testDoc,
			MagicID: c.Marker,
			Type:    entity.NodeItem,
		}, -1))
	}
	return r
}
