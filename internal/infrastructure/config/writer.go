package config

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const fileHeader = "# composer configuration\n\n"

var tableHeader = regexp.MustCompile(`^\s*\[([^\]]+)\]\s*$`)

// WriteConfigOrdered writes cfg as TOML with tables in alphabetical order
// so that regenerated files diff cleanly.
func WriteConfigOrdered(cfg *Config, path string) error {
	data, err := EncodeOrdered(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// EncodeOrdered renders cfg the way WriteConfigOrdered stores it.
func EncodeOrdered(cfg *Config) ([]byte, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}

	return []byte(fileHeader + sortTables(buf.String())), nil
}

type tomlTable struct {
	name  string
	lines []string
}

// sortTables reorders TOML tables by name. Keys before the first table
// stay on top.
func sortTables(content string) string {
	var (
		preamble []string
		tables   []tomlTable
	)
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if m := tableHeader.FindStringSubmatch(line); m != nil {
			tables = append(tables, tomlTable{name: m[1], lines: []string{line}})
			continue
		}
		if len(tables) == 0 {
			preamble = append(preamble, line)
			continue
		}
		last := &tables[len(tables)-1]
		last.lines = append(last.lines, line)
	}

	slices.SortStableFunc(tables, func(a, b tomlTable) int { return strings.Compare(a.name, b.name) })

	blocks := make([]string, 0, len(tables)+1)
	if len(preamble) > 0 {
		blocks = append(blocks, strings.Join(preamble, "\n"))
	}
	for _, t := range tables {
		blocks = append(blocks, strings.Join(t.lines, "\n"))
	}
	if len(blocks) == 0 {
		return ""
	}
	return strings.Join(blocks, "\n\n") + "\n"
}
