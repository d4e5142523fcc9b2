package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LinkHawk/LinkHawk/internal/config"
	"github.com/LinkHawk/LinkHawk/internal/replylog"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("🏷️ LinkHawk Version")
		fmt.Printf("Version: %s\n", version)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("📊 LinkHawk Status")
		fmt.Printf("Version: %s\n", version)

		// Check config
		path, err := config.ConfigPath()
		if err == nil {
			if _, statErr := os.Stat(path); statErr == nil {
				fmt.Println("Config:  ✓ Found (" + path + ")")
			} else {
				fmt.Println("Config:  ✗ Not found (" + path + ")")
			}
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Config error: %v\n", err)
			return
		}

		fmt.Printf("Bots:    %d configured\n", len(cfg.Bots))
		for _, b := range cfg.Bots {
			variant := b.Variant
			if variant == "" {
				variant = "generic"
			}
			fmt.Printf("  - %s (%s)\n", b.Pattern, variant)
		}

		if cfg.Slack.BotToken != "" && cfg.Slack.AppToken != "" {
			fmt.Println("Slack:   ✓ Tokens present")
		} else {
			fmt.Println("Slack:   ✗ Tokens missing")
		}

		if cfg.Store.ReplyLogPath != "" {
			if store, err := replylog.NewService(cfg.Store.ReplyLogPath); err == nil {
				if n, err := store.Count(); err == nil {
					fmt.Printf("Replies: %d logged\n", n)
				}
				if recent, err := store.Recent(5); err == nil {
					for _, r := range recent {
						fmt.Printf("  %s  %s  %s\n", r.PostedAt.Format("2006-01-02 15:04"), r.Channel, r.Label)
					}
				}
				store.Close()
			}
		}

		fmt.Println("Status:  Ready")
	},
}
