package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"verbose": zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestContextFields(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Format = "json"
	logger := NewWithWriter(cfg, &buf)

	ctx := WithContext(context.Background(), logger)
	ctx = WithComponent(ctx, "history")
	ctx = WithMoveID(ctx, "move_1_abc")
	ctx = WithNodeID(ctx, "item:a:b")
	FromContext(ctx).Info().Msg("committed")

	out := buf.String()
	assert.Contains(t, out, `"component":"history"`)
	assert.Contains(t, out, `"move_id":"move_1_abc"`)
	assert.Contains(t, out, `"node_id":"item:a:b"`)
}

func TestFromContextWithoutLoggerIsNoop(t *testing.T) {
	logger := FromContext(context.Background())
	require.NotNil(t, logger)
	logger.Info().Msg("dropped")
}

func TestRotatingFileRotatesAndPrunes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "composer.log")

	r, err := NewRotatingFile(path, 1, 1)
	require.NoError(t, err)
	defer r.Close()

	chunk := []byte(strings.Repeat("x", 700*1024))
	for range 3 {
		_, err := r.Write(chunk)
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var backups int
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "composer.log.") {
			backups++
		}
	}
	assert.Equal(t, 1, backups)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(chunk)), info.Size())
}
