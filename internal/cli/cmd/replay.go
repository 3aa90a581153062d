package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/composer/internal/app/editor"
	"github.com/bnema/composer/internal/infrastructure/host"
	"github.com/bnema/composer/internal/scenario"
)

var replayQuiet bool

var errScenarioFailed = errors.New("scenario failed")

var replayCmd = &cobra.Command{
	Use:   "replay <scenario.yaml>",
	Short: "Run a scripted editing session",
	Long: `Build the scenario's document tree, run its steps against a fresh editor
and check its expectations.

Host messages are printed to stdout as JSON lines, followed by the final
tree. Failed expectations are reported on stderr and make the command
exit with a non-zero status.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().BoolVarP(&replayQuiet, "quiet", "q", false, "only report failures")
}

func runReplay(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	sc, err := scenario.Load(args[0])
	if err != nil {
		return err
	}

	opts := scenario.Options{KeyBindings: app.Config.Bindings()}
	if !replayQuiet {
		opts.Notifier = host.NewStreamNotifier(cmd.OutOrStdout())
	}

	report, err := scenario.Replay(app.Ctx(), sc, opts)
	if err != nil {
		return err
	}

	if !replayQuiet {
		if err := editor.WriteTree(cmd.OutOrStdout(), report.Tree); err != nil {
			return err
		}
	}

	if report.OK() {
		return nil
	}
	stderr := cmd.ErrOrStderr()
	for _, f := range report.Failures {
		fmt.Fprintln(stderr, app.Theme.ErrorStyle.Render(f.String()))
	}
	return fmt.Errorf("%w: %d failed expectations in %d steps", errScenarioFailed, len(report.Failures), report.Steps)
}
