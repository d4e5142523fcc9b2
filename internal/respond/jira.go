package respond

import (
	"context"
	"log/slog"
	"strings"

	"github.com/LinkHawk/LinkHawk/internal/records"
)

// IssueClient is the issue-tracker lookup boundary.
type IssueClient interface {
	Lookup(ctx context.Context, key string) (*records.Issue, error)
}

// jiraBot enriches the base reply with issue details. Lookup failures
// degrade to the plain quip-wrapped link; they never abort the reply.
type jiraBot struct {
	*linkBot
	client IssueClient
}

func newJiraBot(base *linkBot, client IssueClient) *jiraBot {
	return &jiraBot{linkBot: base, client: client}
}

func (b *jiraBot) Reply(ctx context.Context, label string) (string, error) {
	msg, err := b.linkBot.Reply(ctx, label)
	if err != nil {
		return "", err
	}

	issue, err := b.client.Lookup(ctx, label)
	if err != nil {
		slog.Warn("Jira lookup failed", "label", label, "error", err)
		return msg, nil
	}

	lines := []string{
		issue.Summary,
		"*Reporter* " + issue.Reporter,
		"*Assignee* " + issue.Assignee,
		"*Status* " + issue.Status,
	}
	for i, line := range lines {
		lines[i] = escapeHTML(line)
	}
	return msg + "\n> " + strings.Join(lines, "\n> "), nil
}
