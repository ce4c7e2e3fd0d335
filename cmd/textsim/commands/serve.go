package commands

import (
	"github.com/0x5457/textsim/internal/app/appfx"
	"github.com/spf13/cobra"
)

func NewServeCommand(opts *appfx.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Serve POST /compute-embeddings and the comparison history API until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appfx.NewServerApp(*opts)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.ListenAddr, "listen", "l", "", "listen address, e.g. :8000")
	return cmd
}
