package respond

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/LinkHawk/LinkHawk/internal/records"
)

type fakeIssueClient struct {
	issue *records.Issue
	err   error
}

func (f *fakeIssueClient) Lookup(_ context.Context, _ string) (*records.Issue, error) {
	return f.issue, f.err
}

type fakeTicketClient struct {
	fields map[string]string
	err    error
}

func (f *fakeTicketClient) Lookup(_ context.Context, _ string) (*records.Ticket, error) {
	if f.err != nil {
		return nil, f.err
	}
	return records.NewTicket(f.fields), nil
}

func (f *fakeTicketClient) Link(number string) string {
	return "https://sn.example.com/incident.do?sysparm_table=incident&sysparm_query=number%3D" + number
}

func TestJiraReplyEnriched(t *testing.T) {
	b := newJiraBot(newLinkBot("ABC-123", "<%s|%s>", []string{}), &fakeIssueClient{
		issue: &records.Issue{
			Key:      "ABC-123",
			Summary:  "Wire up the <new> parser & lexer",
			Reporter: "Marty",
			Assignee: "None",
			Status:   "Open",
		},
	})

	msg, err := b.Reply(context.Background(), "ABC-123")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}

	lines := strings.Split(msg, "\n> ")
	if len(lines) != 5 {
		t.Fatalf("expected link + 4 quoted lines, got %d: %q", len(lines), msg)
	}
	if lines[0] != "<ABC-123|ABC-123>" {
		t.Errorf("link line: %q", lines[0])
	}
	if lines[1] != "Wire up the &lt;new&gt; parser &amp; lexer" {
		t.Errorf("summary not escaped: %q", lines[1])
	}
	if lines[2] != "*Reporter* Marty" || lines[3] != "*Assignee* None" || lines[4] != "*Status* Open" {
		t.Errorf("detail lines wrong: %v", lines[2:])
	}
}

func TestJiraReplyLookupFailureDegrades(t *testing.T) {
	b := newJiraBot(newLinkBot("ABC-123", "<%s|%s>", []string{}), &fakeIssueClient{
		err: errors.New("boom"),
	})

	msg, err := b.Reply(context.Background(), "ABC-123")
	if err != nil {
		t.Fatalf("reply must not fail on lookup error: %v", err)
	}
	if msg != "<ABC-123|ABC-123>" {
		t.Errorf("expected bare quip+link on failure, got %q", msg)
	}
}

func TestJiraReplyStillDedupes(t *testing.T) {
	b := newJiraBot(newLinkBot("ABC-123", "", []string{}), &fakeIssueClient{err: errors.New("down")})
	ctx := context.Background()

	if _, err := b.Reply(ctx, "ABC-123"); err != nil {
		t.Fatalf("first reply: %v", err)
	}
	if _, err := b.Reply(ctx, "ABC-123"); !errors.Is(err, ErrAlreadySeen) {
		t.Errorf("expected ErrAlreadySeen, got %v", err)
	}
}

func TestServiceNowReplyFields(t *testing.T) {
	b := newServiceNowBot(newLinkBot("INC\\d+", "", []string{}), &fakeTicketClient{
		fields: map[string]string{
			"short_description": "VPN & wifi down",
			"number":            "INC0012345",
			"parent":            "REQ0000042",
			"state":             "Open",
			"assigned_to":       "Ada Lovelace",
			"opened_by":         "",
			"sys_updated_on":    "2026-08-01 10:00:00",
		},
	})

	msg, err := b.Reply(context.Background(), "INC0012345")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}

	lines := strings.Split(msg, "\n> ")
	if !strings.HasPrefix(lines[0], "<https://sn.example.com/") || !strings.HasSuffix(lines[0], "|INC0012345>") {
		t.Errorf("link line: %q", lines[0])
	}
	if lines[1] != "VPN &amp; wifi down" {
		t.Errorf("subject not escaped: %q", lines[1])
	}
	joined := strings.Join(lines, "\n")
	if strings.Contains(joined, "*Number*") {
		t.Errorf("number must be skipped: %q", msg)
	}
	if strings.Contains(joined, "*Opened By*") {
		t.Errorf("empty field must be skipped: %q", msg)
	}
	if !strings.Contains(joined, "*Parent* <https://sn.example.com/") || !strings.Contains(joined, "|REQ0000042>") {
		t.Errorf("parent not rendered as link: %q", msg)
	}
	if !strings.Contains(joined, "*State* Open") || !strings.Contains(joined, "*Assigned To* Ada Lovelace") {
		t.Errorf("detail lines missing: %q", msg)
	}
}

func TestServiceNowEmptySubject(t *testing.T) {
	b := newServiceNowBot(newLinkBot("INC\\d+", "", []string{}), &fakeTicketClient{
		fields: map[string]string{"number": "INC0000001", "state": "New"},
	})

	msg, err := b.Reply(context.Background(), "INC0000001")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if !strings.Contains(msg, "\n> No subject") {
		t.Errorf("expected No subject placeholder: %q", msg)
	}
}

func TestServiceNowLookupFailureDegrades(t *testing.T) {
	b := newServiceNowBot(newLinkBot("INC\\d+", "", []string{}), &fakeTicketClient{
		err: errors.New("not found"),
	})

	msg, err := b.Reply(context.Background(), "INC0000002")
	if err != nil {
		t.Fatalf("reply must not fail on lookup error: %v", err)
	}
	if strings.Contains(msg, "\n> ") {
		t.Errorf("expected quip+link only, got %q", msg)
	}
	if !strings.Contains(msg, "|INC0000002>") {
		t.Errorf("link missing from degraded reply: %q", msg)
	}
}
