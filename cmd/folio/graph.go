package main

import (
	"fmt"

	"github.com/aretw0/folio"
	"github.com/aretw0/folio/internal/presentation/graph"
	"github.com/aretw0/folio/pkg/form"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the contact form state machine",
	Long: `Outputs a Mermaid diagram (stateDiagram-v2) of the submission state machine.
With --session the current state of a stored visitor form is highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var overlay *graph.Overlay
		if sid, _ := cmd.Flags().GetString("session"); sid != "" {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			app, err := folio.New(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			f, err := app.Store().Load(cmd.Context(), sid)
			if err != nil {
				return fmt.Errorf("loading session %q: %w", sid, err)
			}
			overlay = &graph.Overlay{Current: f.State}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(form.Transitions(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("session", "", "Highlight the state of this stored session")
}
