package commands

import (
	"context"
	"fmt"

	"github.com/0x5457/textsim/cmd/cmdsfx"
	"github.com/0x5457/textsim/internal/app/appfx"
	"github.com/0x5457/textsim/internal/models"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

// withRunner starts the application, hands the runner to fn and stops the
// application again.
func withRunner(
	ctx context.Context,
	opts appfx.Options,
	fn func(*cmdsfx.CommandRunner) error,
) error {
	var runner *cmdsfx.CommandRunner
	app := appfx.NewAppWithConfig(opts, fx.Populate(&runner))
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("start application: %w", err)
	}
	runErr := fn(runner)
	if err := app.Stop(context.Background()); err != nil && runErr == nil {
		return err
	}
	return runErr
}

func NewCompareCommand(opts *appfx.Options) *cobra.Command {
	var (
		model  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "compare <text1> <text2>",
		Short: "Score the similarity of two texts",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := models.EmbeddingRequest{Text1: args[0], Text2: args[1], Model: model}
			return withRunner(cmd.Context(), *opts, func(r *cmdsfx.CommandRunner) error {
				return r.RunCompare(cmd.Context(), cmd.OutOrStdout(), req, asJSON)
			})
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", models.DefaultModel, "embedding model")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func NewModelsCommand(opts *appfx.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the accepted model names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(cmd.Context(), *opts, func(r *cmdsfx.CommandRunner) error {
				return r.RunModels(cmd.OutOrStdout())
			})
		},
	}
}
