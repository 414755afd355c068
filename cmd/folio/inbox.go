package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/folio/internal/config"
	redisAdapter "github.com/aretw0/folio/pkg/adapters/redis"
	"github.com/aretw0/folio/pkg/adapters/sqlite"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/spf13/cobra"
)

var inboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "List delivered contact messages",
	Long: `Lists the messages stored by the sqlite backend (newest first) or still
pending in the redis queue, depending on submit.backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		msgs, err := readInbox(cmd.Context(), cfg, limit)
		if err != nil {
			return err
		}
		if len(msgs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No messages.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RECEIVED\tFROM\tSUBJECT\tMESSAGE")
		for _, m := range msgs {
			fmt.Fprintf(w, "%s\t%s <%s>\t%s\t%s\n",
				m.ReceivedAt.Local().Format("2006-01-02 15:04"),
				m.Name, m.Email, m.Subject, excerpt(m.Message, 48))
		}
		return w.Flush()
	},
}

func readInbox(ctx context.Context, cfg *config.Config, limit int) ([]domain.Submission, error) {
	switch cfg.Submit.Backend {
	case config.BackendSQLite:
		if _, err := os.Stat(cfg.SQLite.Path); err != nil {
			return nil, fmt.Errorf("no inbox at %s: %w", cfg.SQLite.Path, err)
		}
		inbox, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		defer inbox.Close()
		return inbox.List(ctx, limit)
	case config.BackendRedis:
		client := redisAdapter.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer client.Close()
		msgs, err := redisAdapter.NewQueue(client, cfg.Redis.Queue).Pending(ctx)
		if err != nil {
			return nil, err
		}
		if limit > 0 && len(msgs) > limit {
			msgs = msgs[len(msgs)-limit:]
		}
		return msgs, nil
	default:
		return nil, fmt.Errorf("the %s backend keeps no inbox; use sqlite or redis", cfg.Submit.Backend)
	}
}

func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func init() {
	rootCmd.AddCommand(inboxCmd)
	inboxCmd.Flags().IntP("limit", "n", 20, "Maximum number of messages (0 for all)")
}
