package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/folio"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/validation"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check contact form values with the page rules",
	Long: `Validates the given values exactly as the contact form does on submit and
prints the inline error of every failing field. Omitted fields count as empty.`,
	Example: `  folio validate --name Jane --email jane@example.com --subject Hi --message "Let's talk next week"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fields := domain.ContactFields()
		for i := range fields {
			v, _ := cmd.Flags().GetString(string(fields[i].ID))
			clean, err := validation.SanitizeInput(v)
			if err != nil {
				return fmt.Errorf("%s: %w", fields[i].ID, err)
			}
			fields[i].Value = clean
		}

		ok, results := validation.ValidateAll(fields)
		out := cmd.OutOrStdout()
		for _, f := range fields {
			res := results[f.ID]
			if res.Valid {
				fmt.Fprintf(out, "✓ %s\n", folio.FieldLabel(f.ID))
			} else {
				fmt.Fprintf(out, "✗ %s: %s\n", folio.FieldLabel(f.ID), res.Message)
			}
		}
		if !ok {
			return errors.New("form is invalid")
		}
		fmt.Fprintln(out, "Form is valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	for _, f := range domain.ContactFields() {
		validateCmd.Flags().String(string(f.ID), "", "Value of the "+string(f.ID)+" field")
	}
}
