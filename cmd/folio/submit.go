package main

import (
	"os"

	"github.com/aretw0/folio"
	"github.com/aretw0/folio/internal/presentation/tui"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Fill and send the contact form from the terminal",
	Long: `Prompts for every contact form field, validating as you go, and delivers the
message through the configured submission backend. When stdin is not a
terminal one value per line is read instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		app, err := folio.New(cfg, folio.WithLogger(newLogger(cfg)))
		if err != nil {
			return err
		}
		defer app.Close()

		headless, _ := cmd.Flags().GetBool("headless")
		runner := &folio.Runner{
			Input:    cmd.InOrStdin(),
			Output:   cmd.OutOrStdout(),
			Headless: headless,
		}
		if !headless && tui.IsTerminal(os.Stdin) {
			runner.Prompt = promptuiPrompt
		}

		_, err = runner.Run(cmd.Context(), app.Controller(), "cli")
		return err
	},
}

func promptuiPrompt(label string, validate func(string) error) (string, error) {
	p := promptui.Prompt{
		Label:    label,
		Validate: validate,
	}
	return p.Run()
}

func init() {
	rootCmd.AddCommand(submitCmd)
	submitCmd.Flags().Bool("headless", false, "Read plain lines and fail on the first invalid value")
}
