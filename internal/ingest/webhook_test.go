package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/LinkHawk/LinkHawk/internal/bus"
	"github.com/LinkHawk/LinkHawk/internal/config"
)

func TestWebhookEnqueuesEvent(t *testing.T) {
	b := bus.NewEventBus(4)
	wh := NewWebhook(config.WebhookConfig{}, b)
	srv := httptest.NewServer(wh.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/", "application/json",
		strings.NewReader(`{"channel": "#dev", "text": "see ABC-123"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ev, err := b.ConsumeInbound(ctx)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if ev.Type != bus.TypeMessage || ev.Channel != "#dev" || ev.Text != "see ABC-123" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestWebhookAuthToken(t *testing.T) {
	b := bus.NewEventBus(4)
	wh := NewWebhook(config.WebhookConfig{AuthToken: "sekrit"}, b)
	srv := httptest.NewServer(wh.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/", "application/json",
		strings.NewReader(`{"channel": "#dev", "text": "x"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/", strings.NewReader(`{"channel": "#dev", "text": "x"}`))
	req.Header.Set("Authorization", "Bearer sekrit")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post with token: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("expected 202 with token, got %d", resp.StatusCode)
	}
}

func TestWebhookRejectsBadBody(t *testing.T) {
	b := bus.NewEventBus(4)
	wh := NewWebhook(config.WebhookConfig{}, b)
	srv := httptest.NewServer(wh.Handler())
	defer srv.Close()

	for _, body := range []string{`not json`, `{"channel": "#dev"}`, `{"text": "x"}`} {
		resp, err := http.Post(srv.URL+"/", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, resp.StatusCode)
		}
	}
}

func TestWebhookQueueFull(t *testing.T) {
	b := bus.NewEventBus(1)
	b.PublishInbound(bus.NewMessageEvent("#dev", "filler"))

	wh := NewWebhook(config.WebhookConfig{}, b)
	srv := httptest.NewServer(wh.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/", "application/json",
		strings.NewReader(`{"channel": "#dev", "text": "overflow"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503 on full queue, got %d", resp.StatusCode)
	}
}
