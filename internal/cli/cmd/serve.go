package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/bnema/composer/internal/app/editor"
	"github.com/bnema/composer/internal/app/messaging"
	"github.com/bnema/composer/internal/cli/styles"
	"github.com/bnema/composer/internal/infrastructure/config"
	"github.com/bnema/composer/internal/infrastructure/host"
	"github.com/bnema/composer/internal/logging"
)

var (
	serveAddr    string
	serveStream  bool
	serveJournal bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the editor to a host window and a preview surface",
	Long: `Start the websocket bridge.

Host windows connect to the host endpoint (default /host). They receive
ELEMENT_MOVED and UNDO_ELEMENT_MOVED messages and may send
TOGGLE_EDIT_MODE. Rendering surfaces connect to the preview endpoint
(default /preview) to register nodes and feed pointer events.

Changes to editor.edit_mode in config.toml are applied while running.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides host.listen_addr)")
	serveCmd.Flags().BoolVar(&serveStream, "stream", false, "also print host messages to stdout as JSON lines")
	serveCmd.Flags().BoolVar(&serveJournal, "journal", false, "record host messages to the journal")
}

func runServe(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	cfg := app.Config

	addr := cfg.Host.ListenAddr
	if cmd.Flags().Changed("addr") {
		addr = serveAddr
	}
	stream := cfg.Host.Stream || serveStream
	journal := cfg.Journal.Enabled || serveJournal

	ctx, stop := signal.NotifyContext(app.Ctx(), os.Interrupt, unix.SIGTERM)
	defer stop()
	ctx = logging.WithComponent(ctx, "serve")
	log := logging.FromContext(ctx)

	bridge := host.NewWebsocketBridge(host.BridgeConfig{
		HostPath:    cfg.Host.HostPath,
		PreviewPath: cfg.Host.PreviewPath,
		SendQueue:   cfg.Host.SendQueue,
	}, nil, nil)

	notifiers := host.FanOut{bridge}
	if stream {
		notifiers = append(notifiers, host.NewStreamNotifier(cmd.OutOrStdout()))
	}
	if journal {
		notifiers = append(notifiers, host.NewJournalNotifier(app.Journal()))
	}

	e, err := editor.New(editor.Options{
		EditMode:    cfg.Editor.EditMode,
		Drag:        cfg.DragSession(),
		KeyBindings: cfg.Bindings(),
		Notifier:    notifiers,
	})
	if err != nil {
		return err
	}
	bridge.Bind(e, messaging.NewPreviewHandler(e, messaging.NewRequestDeduplicator(cfg.DedupWindow())))

	reloads := make(chan *config.Config, 1)
	app.Manager.OnConfigChange(func(next *config.Config) {
		select {
		case reloads <- next:
		default:
		}
	})
	if err := app.Manager.Watch(); err != nil {
		log.Warn().Err(err).Msg("config hot reload disabled")
	}

	fmt.Fprintln(cmd.ErrOrStderr(), renderServeBanner(app.Theme, addr, cfg, journal))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bridge.Serve(gctx, addr)
	})
	g.Go(func() error {
		applyReloads(gctx, e, reloads)
		return nil
	})
	return g.Wait()
}

// applyReloads applies edit mode changes from config reloads until ctx is done.
func applyReloads(ctx context.Context, e *editor.Editor, reloads <-chan *config.Config) {
	log := logging.FromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case next := <-reloads:
			if e.SetEditMode(ctx, next.Editor.EditMode) {
				log.Info().Bool("edit_mode", next.Editor.EditMode).Msg("edit mode changed by config reload")
			}
		}
	}
}

func renderServeBanner(theme *styles.Theme, addr string, cfg *config.Config, journal bool) string {
	keyStyle := theme.Subtle
	valStyle := theme.Highlight

	lines := fmt.Sprintf("\n  %s %s %s\n", theme.HelpKey.Render(styles.IconPlug), keyStyle.Render("host   "), valStyle.Render("ws://"+addr+cfg.Host.HostPath))
	lines += fmt.Sprintf("  %s %s %s\n", theme.HelpKey.Render(styles.IconPlug), keyStyle.Render("preview"), valStyle.Render("ws://"+addr+cfg.Host.PreviewPath))
	if journal {
		lines += fmt.Sprintf("  %s %s %s\n", theme.HelpKey.Render(styles.IconDatabase), keyStyle.Render("journal"), valStyle.Render(cfg.Journal.Path))
	}
	lines += fmt.Sprintf("  %s %s\n", theme.ModeBadge(cfg.Editor.EditMode), keyStyle.Render("ctrl+c to stop"))
	return lines
}
