package respond

import (
	"context"
	"log/slog"
	"strings"

	"github.com/LinkHawk/LinkHawk/internal/records"
)

// TicketClient is the ticketing-system lookup boundary.
type TicketClient interface {
	Lookup(ctx context.Context, number string) (*records.Ticket, error)
	Link(number string) string
}

// serviceNowBot replies with a link into the ServiceNow instance and, when
// the lookup succeeds, the ticket's display fields one per quoted line.
type serviceNowBot struct {
	*linkBot
	client TicketClient
}

func newServiceNowBot(base *linkBot, client TicketClient) *serviceNowBot {
	return &serviceNowBot{linkBot: base, client: client}
}

func (b *serviceNowBot) Reply(ctx context.Context, label string) (string, error) {
	if err := b.markSeen(label); err != nil {
		return "", err
	}
	msg := b.quip(b.strlink(label))

	ticket, err := b.client.Lookup(ctx, label)
	if err != nil {
		slog.Warn("ServiceNow lookup failed", "label", label, "error", err)
		return msg, nil
	}

	lines := []string{msg}
	for _, f := range ticket.Fields() {
		switch {
		case f.Name == "Subject":
			if f.Value == "" {
				lines = append(lines, "No subject")
			} else {
				lines = append(lines, escapeHTML(f.Value))
			}
		case f.Name == "Number":
			// The number is already in the link line.
		case f.Name == "Parent" && f.Value != "":
			lines = append(lines, "*Parent* "+b.strlink(f.Value))
		case f.Value != "":
			lines = append(lines, "*"+f.Name+"* "+escapeHTML(f.Value))
		}
	}
	return strings.Join(lines, "\n> "), nil
}

func (b *serviceNowBot) strlink(number string) string {
	return "<" + b.client.Link(number) + "|" + number + ">"
}
