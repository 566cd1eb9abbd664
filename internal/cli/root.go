package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/campaigncanvas/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "campaigncanvas lays out campaign assets on boards and runs the AI helpers behind them",
		Long: `campaigncanvas stores campaign boards (positioned blocks joined by edges),
routes and renders their connections, edits them with undo and redo, and
serves the AI and scraping functions the dashboards call.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (.toml, .yaml or .yml)")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.boardsCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.routeCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.fnCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// versionCommand prints build information.
func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := buildinfo.Get()
			printKeyValue("version", info.Version)
			printKeyValue("commit", info.Commit)
			printKeyValue("built", info.Date)
		},
	}
}
