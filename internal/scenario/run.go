package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/bnema/composer/internal/app/editor"
	"github.com/bnema/composer/internal/application/port"
	"github.com/bnema/composer/internal/application/usecase"
	"github.com/bnema/composer/internal/domain/entity"
	"github.com/bnema/composer/internal/infrastructure/host"
	"github.com/bnema/composer/internal/logging"
)

// Recorder keeps every host message it is given.
type Recorder struct {
	mu       sync.Mutex
	messages []port.HostMessage
}

var _ port.HostNotifier = (*Recorder)(nil)

// Notify implements port.HostNotifier.
func (r *Recorder) Notify(_ context.Context, msg port.HostMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return nil
}

// Messages returns a copy of the recorded messages.
func (r *Recorder) Messages() []port.HostMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.messages)
}

// Failure is one failed step.
type Failure struct {
	Step    int    `json:"step"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

func (f Failure) String() string {
	if f.Name != "" {
		return fmt.Sprintf("step %d (%s): %s", f.Step, f.Name, f.Message)
	}
	return fmt.Sprintf("step %d: %s", f.Step, f.Message)
}

// Report is the outcome of a run.
type Report struct {
	Steps    int                `json:"steps"`
	Messages []port.HostMessage `json:"messages"`
	Tree     []editor.TreeNode  `json:"tree"`
	Failures []Failure          `json:"failures,omitempty"`
}

// OK reports whether every step passed.
func (r Report) OK() bool {
	return len(r.Failures) == 0
}

// Options configures Replay.
type Options struct {
	// Notifier also receives every host message, e.g. a stream to stdout.
	Notifier    port.HostNotifier
	KeyBindings map[usecase.KeyAction][]string
}

// Replay builds a fresh editor for sc and runs all of its steps. Drags
// activate on press.
func Replay(ctx context.Context, sc *Scenario, opts Options) (Report, error) {
	rec := &Recorder{}
	var notifier port.HostNotifier = rec
	if opts.Notifier != nil {
		notifier = host.FanOut{rec, opts.Notifier}
	}

	e, err := editor.New(editor.Options{
		EditMode:    sc.InitialEditMode(),
		KeyBindings: opts.KeyBindings,
		Notifier:    notifier,
	})
	if err != nil {
		return Report{}, err
	}
	if err := sc.Build(ctx, e); err != nil {
		return Report{}, err
	}
	return sc.Run(ctx, e, rec), nil
}

// Run executes the steps against e. Messages are read from rec, which must
// be the notifier (or part of the notifier) e was created with.
func (s *Scenario) Run(ctx context.Context, e *editor.Editor, rec *Recorder) Report {
	ctx = logging.WithComponent(ctx, "scenario")
	log := logging.FromContext(ctx)

	report := Report{}
	for i, step := range s.Steps {
		report.Steps++
		for _, msg := range s.runStep(ctx, e, rec, step) {
			f := Failure{Step: i + 1, Name: step.Name, Message: msg}
			log.Debug().Str("failure", f.String()).Msg("scenario step failed")
			report.Failures = append(report.Failures, f)
		}
	}

	report.Messages = rec.Messages()
	report.Tree = e.Tree()
	log.Info().
		Int("steps", report.Steps).
		Int("messages", len(report.Messages)).
		Int("failures", len(report.Failures)).
		Msg("scenario finished")
	return report
}

func (s *Scenario) runStep(ctx context.Context, e *editor.Editor, rec *Recorder, step Step) []string {
	switch {
	case step.Drag != nil:
		if err := s.drag(ctx, e, *step.Drag); err != nil {
			return []string{err.Error()}
		}
	case step.AddMove != nil:
		m := step.AddMove
		e.AddMove(ctx, entity.MoveRequest{
			ItemID:            s.ID(m.Item),
			SourceContainerID: s.ID(m.From),
			DestContainerID:   s.ID(m.To),
			OldIndex:          m.OldIndex,
			NewIndex:          m.NewIndex,
		})
	case step.Undo:
		e.Undo(ctx)
	case step.Redo:
		e.Redo(ctx)
	case step.ToggleEditMode != nil:
		payload, _ := json.Marshal(map[string]any{
			"type":   port.HostToggleEditMode,
			"active": *step.ToggleEditMode,
		})
		if err := e.HandleHostMessage(ctx, payload); err != nil {
			return []string{err.Error()}
		}
	case step.Key != "":
		if _, ok := e.HandleKey(ctx, step.Key); !ok {
			return []string{fmt.Sprintf("key %q is not bound", step.Key)}
		}
	case step.Expect != nil:
		return s.check(e, rec, *step.Expect)
	}
	return nil
}

func (s *Scenario) drag(ctx context.Context, e *editor.Editor, d DragStep) error {
	tree := e.Tree()
	rects := s.Rects(tree)

	itemID := s.ID(d.Item)
	from, ok := rects[itemID]
	if !ok {
		return fmt.Errorf("%s has no rectangle", d.Item)
	}
	var to entity.Point
	if len(d.At) == 2 {
		to = entity.Point{X: d.At[0], Y: d.At[1]}
	} else {
		target, ok := rects[s.ID(d.To)]
		if !ok {
			return fmt.Errorf("%s has no rectangle", d.To)
		}
		to = target.Center()
	}

	if err := e.PointerDown(ctx, itemID, from.Center()); err != nil {
		return fmt.Errorf("press %s: %w", d.Item, err)
	}
	if err := e.PointerMove(ctx, s.Frame(e, tree, rects, to)); err != nil {
		return fmt.Errorf("move: %w", err)
	}
	e.EndFrame()

	if d.Cancel {
		return e.Cancel(ctx)
	}
	if _, _, err := e.PointerUp(ctx); err != nil {
		return fmt.Errorf("drop: %w", err)
	}
	return nil
}

func (s *Scenario) check(e *editor.Editor, rec *Recorder, want Expect) []string {
	var failures []string

	names := make([]string, 0, len(want.Children))
	for name := range want.Children {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		got := make([]string, 0)
		for _, id := range e.ChildrenOf(s.ID(name)) {
			got = append(got, s.NameOf(id))
		}
		expected := want.Children[name]
		if expected == nil {
			expected = []string{}
		}
		if !slices.Equal(got, expected) {
			failures = append(failures, fmt.Sprintf("children of %s: want [%s], got [%s]",
				name, strings.Join(expected, " "), strings.Join(got, " ")))
		}
	}

	messages := rec.Messages()
	if want.Messages != nil && len(messages) != *want.Messages {
		failures = append(failures, fmt.Sprintf("messages: want %d, got %d", *want.Messages, len(messages)))
	}
	if want.LastMessage != "" {
		last := "none"
		if len(messages) > 0 {
			last = string(messages[len(messages)-1].Type)
		}
		if last != want.LastMessage {
			failures = append(failures, fmt.Sprintf("last message: want %s, got %s", want.LastMessage, last))
		}
	}

	history := e.History()
	failures = appendBool(failures, "can_undo", want.CanUndo, history.CanUndo())
	failures = appendBool(failures, "can_redo", want.CanRedo, history.CanRedo())
	failures = appendBool(failures, "edit_mode", want.EditMode, e.EditMode())
	return failures
}

func appendBool(failures []string, name string, want *bool, got bool) []string {
	if want != nil && *want != got {
		failures = append(failures, fmt.Sprintf("%s: want %t, got %t", name, *want, got))
	}
	return failures
}
