package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/composer/internal/application/port"
	"github.com/bnema/composer/internal/infrastructure/host"
	"github.com/bnema/composer/internal/scenario"
	"github.com/bnema/composer/internal/ui/playground"
)

var playJournal bool

var playCmd = &cobra.Command{
	Use:   "play [scenario.yaml]",
	Short: "Drag boxes around in the terminal",
	Long: `Open the terminal playground: the scenario's document tree is drawn as
nested boxes that can be reordered with the mouse.

Without a scenario file a built-in landing page is shown. Only the tree of
the scenario is used; its steps are ignored.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().BoolVar(&playJournal, "journal", false, "record host messages to the journal")
}

func runPlay(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	var (
		sc  *scenario.Scenario
		err error
	)
	if len(args) == 1 {
		sc, err = scenario.Load(args[0])
	} else {
		sc, err = playground.DefaultScenario()
	}
	if err != nil {
		return err
	}

	var notifier port.HostNotifier
	if playJournal {
		notifier = host.NewJournalNotifier(app.Journal())
	}

	m, err := playground.New(app.Ctx(), sc, playground.Options{
		Theme:       app.Theme,
		Drag:        app.Config.DragSession(),
		KeyBindings: app.Config.Bindings(),
		Notifier:    notifier,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}
