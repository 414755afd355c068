package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/aretw0/folio"
	"github.com/aretw0/folio/internal/config"
	"github.com/aretw0/folio/pkg/ports"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage stored visitor forms",
	Long:  `List, inspect, and remove the visitor form sessions of the file or redis store.`,
}

// openSessions builds an App for its store. The memory store dies with the
// server process, so there is nothing to manage from here.
func openSessions(cmd *cobra.Command) (*folio.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.Store.Driver == config.StoreMemory {
		return nil, errors.New("store.driver is memory: sessions live only inside the server process")
	}
	return folio.New(cfg)
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openSessions(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		states, err := ports.ListStates(cmd.Context(), app.Store())
		if err != nil {
			return fmt.Errorf("listing sessions: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(states) == 0 {
			fmt.Fprintln(out, "No active sessions found.")
			return nil
		}
		ids := make([]string, 0, len(states))
		for id := range states {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		fmt.Fprintln(out, "Active Sessions:")
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, id := range ids {
			fmt.Fprintf(w, "- %s\t%s\n", id, states[id])
		}
		return w.Flush()
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Print the stored form of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openSessions(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		f, err := app.Store().Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("loading session '%s': %w", args[0], err)
		}
		data, err := json.MarshalIndent(f, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openSessions(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		var errs []error
		for _, sessionID := range args {
			if err := app.Store().Delete(cmd.Context(), sessionID); err != nil {
				errs = append(errs, fmt.Errorf("removing '%s': %w", sessionID, err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed session '%s'\n", sessionID)
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}
