package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configuration after defaults, file and environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Redis.Password != "" {
			cfg.Redis.Password = "********"
		}
		if cfg.Store.EncryptionKey != "" {
			cfg.Store.EncryptionKey = "********"
		}
		for i := range cfg.Store.FallbackKeys {
			cfg.Store.FallbackKeys[i] = "********"
		}
		if cfg.Webhook.Token != "" {
			cfg.Webhook.Token = "********"
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(cfg)
	},
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and the content file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("configuration: %w", err)
		}
		fallback := !cmd.Flags().Changed("content") && cfg.Content.Path == "content.yaml"
		site, err := loadSite(cfg.Content.Path, fallback)
		if err != nil {
			return fmt.Errorf("content: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration and content for %q are valid! ✅\n", site.Owner)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configCheckCmd)
}
