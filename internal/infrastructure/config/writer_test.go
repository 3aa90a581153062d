package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteConfigOrdered_SortedAndReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()

	require.NoError(t, WriteConfigOrdered(cfg, path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var tables []string
	for _, line := range strings.Split(string(content), "\n") {
		if m := tableHeader.FindStringSubmatch(line); m != nil {
			tables = append(tables, m[1])
		}
	}
	assert.Equal(t, []string{"drag", "editor", "host", "journal", "keybindings", "logging"}, tables)

	var decoded Config
	require.NoError(t, toml.Unmarshal(content, &decoded))
	assert.Equal(t, cfg.Drag, decoded.Drag)
	assert.Equal(t, cfg.Keybindings, decoded.Keybindings)
}

func TestSortTables(t *testing.T) {
	input := "top = 1\n\n[zeta]\na = 1\n\n[alpha]\nb = 2\n"

	got := sortTables(input)

	assert.Equal(t, "top = 1\n\n[alpha]\nb = 2\n\n[zeta]\na = 1\n", got)
}

func TestWriteConfigOrdered_NilConfig(t *testing.T) {
	err := WriteConfigOrdered(nil, filepath.Join(t.TempDir(), "x.toml"))
	assert.Error(t, err)
}
