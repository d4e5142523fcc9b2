// Package config provides configuration types and loading for linkhawk.
package config

// Config is the root configuration struct.
// Top-level groups: Slack, Queue, Webhook, Kafka, Store, plus the bot list.
type Config struct {
	Slack   SlackConfig   `json:"slack"`
	Queue   QueueConfig   `json:"queue"`
	Webhook WebhookConfig `json:"webhook"`
	Kafka   KafkaConfig   `json:"kafka"`
	Store   StoreConfig   `json:"store"`
	Bots    []BotConfig   `json:"bots"`
}

// ---------------------------------------------------------------------------
// Slack – workspace transport
// ---------------------------------------------------------------------------

// SlackConfig configures the Slack Socket Mode transport.
type SlackConfig struct {
	Enabled  bool   `json:"enabled" envconfig:"ENABLED"`
	BotToken string `json:"botToken" envconfig:"BOT_TOKEN"`
	AppToken string `json:"appToken" envconfig:"APP_TOKEN"`
	APIBase  string `json:"apiBase,omitempty" envconfig:"API_BASE"`
}

// ---------------------------------------------------------------------------
// Queue – ingestion queue and worker pool
// ---------------------------------------------------------------------------

// QueueConfig controls the bounded event queue and its consumers.
type QueueConfig struct {
	Size    int `json:"size" envconfig:"SIZE"`
	Workers int `json:"workers" envconfig:"WORKERS"`
}

// ---------------------------------------------------------------------------
// Webhook – inbound HTTP producer
// ---------------------------------------------------------------------------

// WebhookConfig configures the inbound webhook event producer.
type WebhookConfig struct {
	Enabled   bool   `json:"enabled" envconfig:"ENABLED"`
	Addr      string `json:"addr" envconfig:"ADDR"`
	AuthToken string `json:"authToken" envconfig:"AUTH_TOKEN"`
}

// ---------------------------------------------------------------------------
// Kafka – inbound stream producer
// ---------------------------------------------------------------------------

// KafkaConfig configures the Kafka event producer.
type KafkaConfig struct {
	Enabled       bool     `json:"enabled" envconfig:"ENABLED"`
	Brokers       string   `json:"brokers" envconfig:"BROKERS"`
	ConsumerGroup string   `json:"consumerGroup" envconfig:"CONSUMER_GROUP"`
	Topics        []string `json:"topics"`
}

// ---------------------------------------------------------------------------
// Store – local persistence
// ---------------------------------------------------------------------------

// StoreConfig groups local persistence settings.
type StoreConfig struct {
	ReplyLogPath string `json:"replyLogPath" envconfig:"REPLY_LOG_PATH"`
}

// ---------------------------------------------------------------------------
// Bots – responder definitions
// ---------------------------------------------------------------------------

// BotConfig is the immutable definition of one responder. Loaded once at
// startup, never mutated afterwards.
type BotConfig struct {
	// Pattern is the substring to watch for, compiled with word boundaries
	// on both sides.
	Pattern string `json:"pattern"`
	// LinkTemplate receives the matched label twice (link target, label).
	// Empty means the default "%s|%s".
	LinkTemplate string `json:"linkTemplate,omitempty"`
	// Quips override the built-in quip set. An explicit empty-but-present
	// set disables quips entirely (bare links).
	Quips []string `json:"quips,omitempty"`
	// Variant selects the responder specialization: "" or "generic",
	// "jira", "servicenow".
	Variant string `json:"variant,omitempty"`
	// Host, User and Password point at the record source for the jira and
	// servicenow variants.
	Host     string `json:"host,omitempty"`
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Slack: SlackConfig{
			Enabled: true,
		},
		Queue: QueueConfig{
			Size:    100,
			Workers: 2,
		},
		Webhook: WebhookConfig{
			Enabled: false,
			Addr:    "127.0.0.1:18890", // loopback by default
		},
		Kafka: KafkaConfig{
			Enabled:       false,
			Brokers:       "localhost:9092",
			ConsumerGroup: "linkhawk",
		},
		Store: StoreConfig{
			ReplyLogPath: "~/.linkhawk/replylog.db",
		},
	}
}
