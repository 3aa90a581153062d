package usecase

import (
	"fmt"
	"slices"
	"strings"
)

// KeyAction is what a bound chord triggers.
type KeyAction string

const (
	KeyActionUndo KeyAction = "undo"
	KeyActionRedo KeyAction = "redo"
)

var modifierOrder = []string{"ctrl", "alt", "shift", "meta"}

var modifierAliases = map[string]string{
	"control": "ctrl",
	"cmd":     "meta",
	"command": "meta",
	"super":   "meta",
	"option":  "alt",
}

// DefaultKeyBindings are the platform-conventional undo/redo chords.
func DefaultKeyBindings() map[KeyAction][]string {
	return map[KeyAction][]string{
		KeyActionUndo: {"ctrl+z", "meta+z"},
		KeyActionRedo: {"ctrl+y", "meta+shift+z"},
	}
}

// NormalizeChord canonicalizes a chord such as "Shift+Cmd+Z" to
// "shift+meta+z". Exactly one non-modifier key is required.
func NormalizeChord(chord string) (string, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(chord)), "+")

	mods := make(map[string]bool)
	key := ""
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if alias, ok := modifierAliases[p]; ok {
			p = alias
		}
		switch {
		case p == "":
			return "", fmt.Errorf("invalid chord %q: empty segment", chord)
		case slices.Contains(modifierOrder, p):
			mods[p] = true
		case key != "":
			return "", fmt.Errorf("invalid chord %q: more than one key", chord)
		default:
			key = p
		}
	}
	if key == "" {
		return "", fmt.Errorf("invalid chord %q: no key", chord)
	}

	var b strings.Builder
	for _, m := range modifierOrder {
		if mods[m] {
			b.WriteString(m)
			b.WriteByte('+')
		}
	}
	b.WriteString(key)
	return b.String(), nil
}

// KeyBindings resolves chords to actions. Bindings only fire while at
// least one drag-capable surface is mounted.
type KeyBindings struct {
	chords  map[string]KeyAction
	mounted int
}

// NewKeyBindings validates and indexes bindings. A chord bound to two
// different actions is an error.
func NewKeyBindings(bindings map[KeyAction][]string) (*KeyBindings, error) {
	kb := &KeyBindings{chords: make(map[string]KeyAction)}
	for action, chords := range bindings {
		for _, c := range chords {
			norm, err := NormalizeChord(c)
			if err != nil {
				return nil, err
			}
			if prev, ok := kb.chords[norm]; ok && prev != action {
				return nil, fmt.Errorf("chord %q bound to both %s and %s", norm, prev, action)
			}
			kb.chords[norm] = action
		}
	}
	return kb, nil
}

// Mount records that a drag-capable surface appeared.
func (kb *KeyBindings) Mount() {
	kb.mounted++
}

// Unmount records that a surface went away. Extra calls are ignored.
func (kb *KeyBindings) Unmount() {
	if kb.mounted > 0 {
		kb.mounted--
	}
}

// Mounted reports whether any surface is mounted.
func (kb *KeyBindings) Mounted() bool {
	return kb.mounted > 0
}

// Resolve returns the action bound to chord. Nothing resolves while no
// surface is mounted or when chord is not bound.
func (kb *KeyBindings) Resolve(chord string) (KeyAction, bool) {
	if !kb.Mounted() {
		return "", false
	}
	norm, err := NormalizeChord(chord)
	if err != nil {
		return "", false
	}
	action, ok := kb.chords[norm]
	return action, ok
}
