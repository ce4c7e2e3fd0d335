package commands

import (
	"github.com/0x5457/textsim/internal/app/appfx"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the textsim command tree.
func NewRootCommand() *cobra.Command {
	var opts appfx.Options

	root := &cobra.Command{
		Use:           "textsim",
		Short:         "Semantic similarity of text pairs",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "YAML config file")
	root.PersistentFlags().StringVar(&opts.Backend, "backend", "", "inference backend (api, local)")
	root.PersistentFlags().StringVarP(&opts.DBPath, "db", "d", "", "SQLite database for comparison history")

	root.AddCommand(
		NewServeCommand(&opts),
		NewCompareCommand(&opts),
		NewModelsCommand(&opts),
		NewMCPServeCommand(&opts),
		NewMCPClientCommand(&opts),
	)
	return root
}
