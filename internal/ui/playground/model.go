// Package playground is a terminal surface for the editor: it draws a
// scenario's document tree as nested boxes and turns mouse gestures into
// drag sessions.
package playground

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/composer/internal/app/editor"
	"github.com/bnema/composer/internal/application/port"
	"github.com/bnema/composer/internal/application/usecase"
	"github.com/bnema/composer/internal/cli/styles"
	"github.com/bnema/composer/internal/domain/entity"
	"github.com/bnema/composer/internal/infrastructure/host"
	"github.com/bnema/composer/internal/logging"
	"github.com/bnema/composer/internal/scenario"
)

// canvasTop is the screen row the canvas starts on, below the title.
const canvasTop = 1

const logLines = 6

// Options configures a playground.
type Options struct {
	Theme       *styles.Theme
	Drag        usecase.DragConfig
	KeyBindings map[usecase.KeyAction][]string
	// Notifier also receives every host message, e.g. the journal.
	Notifier port.HostNotifier
}

// Model is the Bubble Tea model for the playground.
type Model struct {
	// UI components
	help help.Model
	keys styles.PlaygroundKeyMap

	// State
	tree   []editor.TreeNode
	rects  map[string]entity.Rect
	status string
	err    error
	width  int
	height int

	// Dependencies
	ctx      context.Context
	editor   *editor.Editor
	scenario *scenario.Scenario
	recorder *scenario.Recorder
	drag     usecase.DragConfig
	theme    *styles.Theme
}

// activateMsg asks the editor to promote a held press into a drag.
type activateMsg struct{}

// New builds an editor for sc, registers its tree and mounts the
// playground as the editor's surface.
func New(ctx context.Context, sc *scenario.Scenario, opts Options) (Model, error) {
	ctx = logging.WithComponent(ctx, "playground")
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}

	bindings := opts.KeyBindings
	if len(bindings) == 0 {
		bindings = usecase.DefaultKeyBindings()
	}

	rec := &scenario.Recorder{}
	var notifier port.HostNotifier = rec
	if opts.Notifier != nil {
		notifier = host.FanOut{rec, opts.Notifier}
	}

	e, err := editor.New(editor.Options{
		EditMode:    sc.InitialEditMode(),
		Drag:        opts.Drag,
		KeyBindings: bindings,
		Notifier:    notifier,
	})
	if err != nil {
		return Model{}, err
	}
	if err := sc.Build(ctx, e); err != nil {
		return Model{}, fmt.Errorf("build %s: %w", sc.Name, err)
	}

	m := Model{
		help:     styles.NewStyledHelp(theme),
		keys:     styles.DefaultPlaygroundKeyMap(bindings[usecase.KeyActionUndo], bindings[usecase.KeyActionRedo]),
		width:    int(sc.Width),
		height:   int(sc.Height) + canvasTop + logLines + 3,
		ctx:      ctx,
		editor:   e,
		scenario: sc,
		recorder: rec,
		drag:     opts.Drag,
		theme:    theme,
	}
	m.refresh()
	return m, nil
}

// Editor returns the editor the playground drives.
func (m Model) Editor() *editor.Editor {
	return m.editor
}

// Init implements tea.Model.
func (Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case activateMsg:
		if m.editor.Tick(m.ctx) {
			m.editor.EndFrame()
			m.status = "dragging " + m.scenario.NameOf(m.editor.Snapshot().ActiveID)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.editor.UnmountSurface(m.ctx)
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.setErr(m.editor.Cancel(m.ctx))
		if m.err == nil {
			m.status = "drag cancelled"
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		payload, err := json.Marshal(map[string]any{
			"type":   port.HostToggleEditMode,
			"active": !m.editor.EditMode(),
		})
		if err == nil {
			err = m.editor.HandleHostMessage(m.ctx, payload)
		}
		m.setErr(err)
		m.status = "edit mode " + onOff(m.editor.EditMode())
		return m, nil
	}

	if action, ok := m.editor.HandleKey(m.ctx, msg.String()); ok {
		m.err = nil
		m.status = string(action)
		m.refresh()
	}
	return m, nil
}

func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	pointer := entity.Point{X: float64(msg.X) + 0.5, Y: float64(msg.Y-canvasTop) + 0.5}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		id := m.itemAt(pointer)
		if id == "" {
			return m, nil
		}
		err := m.editor.PointerDown(m.ctx, id, pointer)
		m.setErr(err)
		if err != nil {
			return m, nil
		}
		if m.editor.DragState() == usecase.DragPending {
			m.status = "holding " + m.scenario.NameOf(id)
			return m, tea.Tick(m.drag.ActivationDelay, func(time.Time) tea.Msg { return activateMsg{} })
		}
		m.status = "dragging " + m.scenario.NameOf(id)
		return m, nil

	case tea.MouseActionMotion:
		if m.editor.DragState() == usecase.DragIdle {
			return m, nil
		}
		err := m.editor.PointerMove(m.ctx, m.scenario.Frame(m.editor, m.tree, m.rects, pointer))
		m.editor.EndFrame()
		if !errors.Is(err, usecase.ErrNoSession) {
			m.setErr(err)
		}
		return m, nil

	case tea.MouseActionRelease:
		if m.editor.DragState() == usecase.DragIdle {
			return m, nil
		}
		move, changed, err := m.editor.PointerUp(m.ctx)
		m.setErr(err)
		switch {
		case err != nil:
		case changed:
			m.status = fmt.Sprintf("moved %s to %s[%d]",
				m.scenario.NameOf(move.ItemID), m.scenario.NameOf(move.DestContainerID), move.NewIndex)
		default:
			m.status = "no change"
		}
		m.refresh()
		return m, nil
	}
	return m, nil
}

// itemAt returns the innermost sortable node under pointer.
func (m Model) itemAt(pointer entity.Point) string {
	frame := m.scenario.Frame(m.editor, m.tree, m.rects, pointer)
	found := ""
	for _, d := range frame.Droppables {
		if d.ContainerID != "" && d.Rect.Contains(pointer) {
			found = d.ID
		}
	}
	return found
}

func (m *Model) refresh() {
	m.tree = m.editor.Tree()
	m.rects = m.scenario.Rects(m.tree)
}

func (m *Model) setErr(err error) {
	m.err = err
	if err != nil {
		logging.FromContext(m.ctx).Debug().Err(err).Msg("playground action failed")
	}
}

// View implements tea.Model.
func (m Model) View() string {
	snap := m.editor.Snapshot()

	var sb strings.Builder
	sb.WriteString(m.renderTitle(snap))
	sb.WriteString("\n")
	sb.WriteString(m.draw(snap).render(m.theme))
	sb.WriteString("\n")
	sb.WriteString(m.renderStatus())
	sb.WriteString("\n")
	sb.WriteString(m.renderLog())
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m Model) renderTitle(snap usecase.DragSnapshot) string {
	mode := m.theme.BadgeMuted.Render("view")
	if snap.EditMode {
		mode = m.theme.Badge.Render("edit")
	}
	parts := []string{
		m.theme.Title.Render(m.scenario.Name),
		mode,
		m.theme.Subtle.Render(string(snap.State)),
	}
	if snap.CanUndo {
		parts = append(parts, m.theme.Subtle.Render("undo"))
	}
	if snap.CanRedo {
		parts = append(parts, m.theme.Subtle.Render("redo"))
	}
	return strings.Join(parts, " ")
}

func (m Model) renderStatus() string {
	if m.err != nil {
		return m.theme.ErrorStyle.Render(styles.IconX + " " + m.err.Error())
	}
	return m.theme.Subtle.Render(m.status)
}

func (m Model) renderLog() string {
	msgs := m.recorder.Messages()
	start := max(len(msgs)-logLines, 0)
	lines := make([]string, 0, logLines)
	for _, msg := range msgs[start:] {
		lines = append(lines, m.describe(msg))
	}
	for len(lines) < logLines {
		lines = append(lines, "")
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(m.theme.Border).
		Render(strings.Join(lines, "\n"))
}

// describe formats one host message for the log pane.
func (m Model) describe(msg port.HostMessage) string {
	kind := m.theme.Highlight.Render(string(msg.Type))
	if msg.Move == nil {
		return fmt.Sprintf("%s %s", kind, m.theme.Subtle.Render(shortID(msg.MoveID)))
	}
	return fmt.Sprintf("%s %s %s[%d] %s %s[%d] %s",
		kind,
		m.scenario.NameOf(msg.MagicpathID),
		m.scenario.NameOf(msg.Move.SourceContainerID), msg.Move.OldIndex,
		styles.IconArrow,
		m.scenario.NameOf(msg.Move.DestContainerID), msg.Move.NewIndex,
		m.theme.Subtle.Render(shortID(msg.Move.MoveID)),
	)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
