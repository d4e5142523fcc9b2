// Package ingest provides event producers feeding the bus.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/LinkHawk/LinkHawk/internal/bus"
	"github.com/LinkHawk/LinkHawk/internal/config"
)

// Webhook is a lightweight inbound producer: callers POST an event body and
// the handler enqueues it. What text the caller puts in the event is the
// caller's policy, not ours.
type Webhook struct {
	cfg config.WebhookConfig
	bus *bus.EventBus
	srv *http.Server
}

// NewWebhook creates the webhook producer.
func NewWebhook(cfg config.WebhookConfig, eventBus *bus.EventBus) *Webhook {
	return &Webhook{cfg: cfg, bus: eventBus}
}

// Handler returns the HTTP handler for the webhook endpoint.
func (w *Webhook) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /", w.handleEvent)
	return mux
}

func (w *Webhook) handleEvent(rw http.ResponseWriter, r *http.Request) {
	if token := strings.TrimSpace(w.cfg.AuthToken); token != "" {
		if r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(rw, "unauthorized", http.StatusUnauthorized)
			return
		}
	}

	var body struct {
		Type    string `json:"type"`
		Channel string `json:"channel"`
		Text    string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(rw, "bad request", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.Channel) == "" || strings.TrimSpace(body.Text) == "" {
		http.Error(rw, "channel and text are required", http.StatusBadRequest)
		return
	}

	ev := bus.NewMessageEvent(body.Channel, body.Text)
	if body.Type != "" {
		ev.Type = body.Type
	}

	// The webhook must not stall its caller on a full queue.
	if err := w.bus.TryPublishInbound(ev); err != nil {
		http.Error(rw, "queue full", http.StatusServiceUnavailable)
		return
	}

	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(rw).Encode(ev)
}

// Start begins serving on the configured address.
func (w *Webhook) Start() error {
	w.srv = &http.Server{
		Addr:              w.cfg.Addr,
		Handler:           w.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("Webhook listening", "addr", w.cfg.Addr)
	go func() {
		if err := w.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Webhook server stopped", "error", err)
		}
	}()
	return nil
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (w *Webhook) Stop() error {
	if w.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return w.srv.Shutdown(ctx)
}
