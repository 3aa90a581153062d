package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/composer/internal/cli/styles"
	"github.com/bnema/composer/internal/infrastructure/config"
)

var (
	configForce      bool
	configSchemaFile bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View the effective configuration, print its JSON schema, or write the defaults.`,
}

var configStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show config file location and effective settings",
	RunE:  runConfigStatus,
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of config.toml",
	Long: `Print the JSON schema describing config.toml.

With --write the schema is saved next to the config file so editors with
TOML schema support can validate it.`,
	RunE: runConfigSchema,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with all defaults",
	RunE:  runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configStatusCmd)
	configCmd.AddCommand(configSchemaCmd)
	configCmd.AddCommand(configInitCmd)
	configSchemaCmd.Flags().BoolVar(&configSchemaFile, "write", false, "write config.schema.json next to config.toml")
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing config file")
}

func runConfigStatus(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	renderer := styles.NewConfigRenderer(app.Theme)
	out := cmd.OutOrStdout()
	if app.LoadErr != nil {
		fmt.Fprintln(out, renderer.RenderError(app.LoadErr))
	}
	fmt.Fprintln(out, renderer.RenderStatus(app.Manager.GetConfigFile(), app.ConfigExisted, app.Config))
	return nil
}

func runConfigSchema(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	if configSchemaFile {
		path, err := config.WriteSchemaFile(app.Manager.Dir())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), styles.NewConfigRenderer(app.Theme).RenderCreated(path))
		return nil
	}

	schema, err := config.Schema()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(schema))
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	renderer := styles.NewConfigRenderer(app.Theme)
	path := app.Manager.GetConfigFile()
	out := cmd.OutOrStdout()

	// Loading already wrote the defaults when no file existed.
	if app.ConfigExisted && !configForce {
		fmt.Fprintln(out, renderer.RenderExists(path))
		return nil
	}
	if configForce {
		if err := config.WriteConfigOrdered(config.DefaultConfig(), path); err != nil {
			fmt.Fprintln(out, renderer.RenderError(err))
			return err
		}
	}
	fmt.Fprintln(out, renderer.RenderCreated(path))
	return nil
}
