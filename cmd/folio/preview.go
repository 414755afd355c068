package main

import (
	"fmt"
	"os"

	"github.com/aretw0/folio/internal/content"
	"github.com/aretw0/folio/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview [content.yaml]",
	Short: "Render the site content in the terminal",
	Long:  `Parses the content file (reporting any error in it) and renders the page as markdown.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		path := cfg.Content.Path
		if len(args) > 0 {
			path = args[0]
		}

		site, err := loadSite(path, !cmd.Flags().Changed("content") && len(args) == 0)
		if err != nil {
			return err
		}

		width, _ := cmd.Flags().GetInt("width")
		render, err := tui.NewPlainRenderer()
		if tui.IsTerminal(os.Stdout) {
			render, err = tui.NewRenderer(width)
		}
		if err != nil {
			return fmt.Errorf("creating renderer: %w", err)
		}
		out, err := render(site.Markdown())
		if err != nil {
			return fmt.Errorf("rendering content: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

// loadSite reads the content at path. A missing default file falls back to
// the built-in demo content.
func loadSite(path string, fallback bool) (*content.Site, error) {
	if _, err := os.Stat(path); err != nil && fallback && os.IsNotExist(err) {
		return content.Default(), nil
	}
	return content.Load(path)
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().Int("width", 80, "Word wrap width")
}
