package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LinkHawk/LinkHawk/internal/bot"
	"github.com/LinkHawk/LinkHawk/internal/bus"
	"github.com/LinkHawk/LinkHawk/internal/channels"
	"github.com/LinkHawk/LinkHawk/internal/config"
	"github.com/LinkHawk/LinkHawk/internal/ingest"
	"github.com/LinkHawk/LinkHawk/internal/replylog"
	"github.com/LinkHawk/LinkHawk/internal/respond"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the link responder",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	printHeader("🦅 LinkHawk Serve")

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Config error: %v\n", err)
		os.Exit(1)
	}

	// An unusable bot set is a configuration error: abort before touching
	// any transport.
	responders, err := respond.Build(cfg.Bots)
	if err != nil {
		fmt.Printf("Bot configuration error: %v\n", err)
		os.Exit(1)
	}

	var recorder bot.ReplyRecorder
	var store *replylog.Service
	if cfg.Store.ReplyLogPath != "" {
		store, err = replylog.NewService(cfg.Store.ReplyLogPath)
		if err != nil {
			slog.Warn("Reply log unavailable", "error", err)
		} else {
			recorder = store
			defer store.Close()
		}
	}

	eventBus := bus.NewEventBus(cfg.Queue.Size)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var poster bot.Poster = consolePoster{}
	var slackChannel *channels.SlackChannel
	if cfg.Slack.Enabled {
		slackChannel, err = channels.NewSlackChannel(cfg.Slack, eventBus)
		if err != nil {
			fmt.Printf("Slack error: %v\n", err)
			os.Exit(1)
		}
		if err := slackChannel.Start(ctx); err != nil {
			fmt.Printf("Slack start error: %v\n", err)
			os.Exit(1)
		}
		poster = slackChannel
	}

	dispatcher, err := bot.NewDispatcher(responders, poster, recorder)
	if err != nil {
		fmt.Printf("Dispatcher error: %v\n", err)
		os.Exit(1)
	}

	pool := bot.NewPool(eventBus, dispatcher, cfg.Queue.Workers)
	pool.Run(ctx)

	var webhook *ingest.Webhook
	if cfg.Webhook.Enabled {
		webhook = ingest.NewWebhook(cfg.Webhook, eventBus)
		if err := webhook.Start(); err != nil {
			fmt.Printf("Webhook error: %v\n", err)
			os.Exit(1)
		}
	}

	var kafkaSource *ingest.KafkaSource
	if cfg.Kafka.Enabled {
		kafkaSource = ingest.NewKafkaSource(cfg.Kafka, eventBus)
		if err := kafkaSource.Start(ctx); err != nil {
			fmt.Printf("Kafka error: %v\n", err)
			os.Exit(1)
		}
	}

	slog.Info("LinkHawk running", "bots", len(responders), "workers", cfg.Queue.Workers, "queue", cfg.Queue.Size)

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	slog.Info("Shutting down")

	// Stop producers first so no new events arrive, then drain the pool
	// through stop sentinels.
	if slackChannel != nil {
		_ = slackChannel.Stop()
	}
	if webhook != nil {
		_ = webhook.Stop()
	}
	if kafkaSource != nil {
		_ = kafkaSource.Close()
	}
	pool.Stop()
}

// consolePoster prints replies to stdout when no transport is enabled.
// Useful for dry runs against the webhook producer.
type consolePoster struct{}

func (consolePoster) Post(_ context.Context, channel, text string) error {
	fmt.Printf("[%s] %s\n", channel, text)
	return nil
}
