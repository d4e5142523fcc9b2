package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Queue.Size != 100 {
		t.Errorf("expected queue size 100, got %d", cfg.Queue.Size)
	}
	if cfg.Queue.Workers != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.Queue.Workers)
	}
	if !cfg.Slack.Enabled {
		t.Error("expected slack enabled by default")
	}
	if cfg.Kafka.Enabled {
		t.Error("expected kafka disabled by default")
	}
	if len(cfg.Bots) != 0 {
		t.Errorf("expected no default bots, got %d", len(cfg.Bots))
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	raw := `{
		"slack": {"botToken": "xoxb-test", "appToken": "xapp-test"},
		"queue": {"size": 16, "workers": 4},
		"bots": [
			{"pattern": "ABC-\\d+", "variant": "jira", "host": "https://jira.example.com"},
			{"pattern": "INC\\d{7}", "variant": "servicenow"}
		]
	}`
	if err := os.WriteFile(path, []byte(raw), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("LINKHAWK_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Slack.BotToken != "xoxb-test" {
		t.Errorf("bot token not loaded: %q", cfg.Slack.BotToken)
	}
	if cfg.Queue.Size != 16 || cfg.Queue.Workers != 4 {
		t.Errorf("queue group not loaded: %+v", cfg.Queue)
	}
	if len(cfg.Bots) != 2 {
		t.Fatalf("expected 2 bots, got %d", len(cfg.Bots))
	}
	if cfg.Bots[0].Variant != "jira" || cfg.Bots[0].Host != "https://jira.example.com" {
		t.Errorf("bot 0 not loaded: %+v", cfg.Bots[0])
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"queue": {"size": 8}}`), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("LINKHAWK_CONFIG", path)
	t.Setenv("LINKHAWK_QUEUE_SIZE", "32")
	t.Setenv("LINKHAWK_SLACK_BOT_TOKEN", "xoxb-env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Queue.Size != 32 {
		t.Errorf("env override lost: got size %d", cfg.Queue.Size)
	}
	if cfg.Slack.BotToken != "xoxb-env" {
		t.Errorf("env override lost: got token %q", cfg.Slack.BotToken)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("LINKHAWK_CONFIG", filepath.Join(t.TempDir(), "missing.json"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Queue.Size != 100 {
		t.Errorf("expected default queue size, got %d", cfg.Queue.Size)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv("LINKHAWK_CONFIG", path)

	cfg := DefaultConfig()
	cfg.Bots = []BotConfig{{Pattern: "REQ\\d+", Variant: "servicenow", Host: "https://sn.example.com"}}
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var got Config
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Bots) != 1 || got.Bots[0].Pattern != "REQ\\d+" {
		t.Errorf("bots not persisted: %+v", got.Bots)
	}
}
