package channels

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/LinkHawk/LinkHawk/internal/bus"
	"github.com/LinkHawk/LinkHawk/internal/config"
)

// SlackChannel connects to a workspace over Socket Mode, publishes message
// events onto the bus and posts replies through the Web API.
type SlackChannel struct {
	BaseChannel
	cfg       config.SlackConfig
	api       *slack.Client
	sm        *socketmode.Client
	botUserID string
	cancel    context.CancelFunc
}

// BaseChannel provides common functionality for channels.
type BaseChannel struct {
	Bus *bus.EventBus
}

// NewSlackChannel creates the Slack transport.
func NewSlackChannel(cfg config.SlackConfig, eventBus *bus.EventBus) (*SlackChannel, error) {
	token := strings.TrimSpace(cfg.BotToken)
	if token == "" {
		return nil, errors.New("missing slack bot token")
	}
	appToken := strings.TrimSpace(cfg.AppToken)
	if appToken == "" {
		return nil, errors.New("missing slack app token")
	}
	opts := []slack.Option{slack.OptionAppLevelToken(appToken)}
	if base := strings.TrimSpace(cfg.APIBase); base != "" {
		opts = append(opts, slack.OptionAPIURL(strings.TrimRight(base, "/")+"/"))
	}
	api := slack.New(token, opts...)
	return &SlackChannel{
		BaseChannel: BaseChannel{Bus: eventBus},
		cfg:         cfg,
		api:         api,
	}, nil
}

func (c *SlackChannel) Name() string { return "slack" }

// Start resolves the bot's own identity and begins consuming Socket Mode
// events. Returns once the listener goroutines are running.
func (c *SlackChannel) Start(ctx context.Context) error {
	authCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	auth, err := c.api.AuthTestContext(authCtx)
	if err != nil {
		return err
	}
	c.botUserID = auth.UserID
	slog.Info("Slack connected", "bot_user_id", c.botUserID, "team", auth.Team)

	runCtx, cancelRun := context.WithCancel(ctx)
	c.cancel = cancelRun
	c.sm = socketmode.New(c.api)

	go c.consumeEvents(runCtx)
	go func() {
		if err := c.sm.RunContext(runCtx); err != nil && runCtx.Err() == nil {
			slog.Error("Slack socket mode stopped", "error", err)
		}
	}()
	return nil
}

// consumeEvents is the single-threaded receive loop. It only normalizes and
// enqueues; the blocking publish is the backpressure point.
func (c *SlackChannel) consumeEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-c.sm.Events:
			if !ok {
				return
			}
			if evt.Type != socketmode.EventTypeEventsAPI {
				continue
			}
			if evt.Request != nil {
				c.sm.Ack(*evt.Request)
			}
			apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
			if !ok || apiEvent.Type != slackevents.CallbackEvent {
				continue
			}
			msg, ok := apiEvent.InnerEvent.Data.(*slackevents.MessageEvent)
			if !ok || msg == nil {
				continue
			}
			c.Bus.PublishInbound(normalizeMessageEvent(msg))
		}
	}
}

// normalizeMessageEvent maps a Slack message event onto the bus event
// shape. Bot-originated messages keep their bot ID so the dispatcher can
// drop them.
func normalizeMessageEvent(msg *slackevents.MessageEvent) *bus.Event {
	ev := bus.NewMessageEvent(msg.Channel, msg.Text)
	ev.BotID = strings.TrimSpace(msg.BotID)
	if ev.BotID == "" && msg.SubType == "bot_message" {
		ev.BotID = "bot"
	}
	return ev
}

// Post sends plain text to a channel. The text is not re-parsed for
// mentions or links on the Slack side; rate limits are retried with the
// server-provided delay.
func (c *SlackChannel) Post(ctx context.Context, channel, text string) error {
	return withRetry(3, 200*time.Millisecond, func() (bool, time.Duration, error) {
		_, _, err := c.api.PostMessageContext(ctx, channel,
			slack.MsgOptionText(text, false),
			slack.MsgOptionAsUser(true),
		)
		return slackRetryDecision(err)
	})
}

// slackRetryDecision classifies a post error. Rate limits are retryable
// with the server-provided delay; everything else is permanent.
func slackRetryDecision(err error) (bool, time.Duration, error) {
	if err == nil {
		return false, 0, nil
	}
	var rle *slack.RateLimitedError
	if errors.As(err, &rle) && rle != nil {
		return true, rle.RetryAfter, err
	}
	return false, 0, err
}

// Stop shuts down the Socket Mode listener.
func (c *SlackChannel) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	return nil
}
