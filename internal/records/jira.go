package records

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Issue is a Jira issue reduced to the fields shown in replies.
type Issue struct {
	Key      string
	Summary  string
	Reporter string
	Assignee string
	Status   string
}

// JiraClient looks up issues through the Jira REST API v2.
type JiraClient struct {
	host   string
	user   string
	pass   string
	client *http.Client
}

// NewJiraClient creates a client for the given Jira host.
func NewJiraClient(host, user, pass string) *JiraClient {
	return &JiraClient{
		host:   strings.TrimRight(host, "/"),
		user:   user,
		pass:   pass,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Lookup fetches the issue for the given key. Returns ErrNotFound for a 404.
func (c *JiraClient) Lookup(ctx context.Context, key string) (*Issue, error) {
	reqURL := fmt.Sprintf("%s/rest/api/2/issue/%s?fields=summary,reporter,assignee,status", c.host, key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.user != "" {
		req.SetBasicAuth(c.user, c.pass)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jira status %d for %s", resp.StatusCode, key)
	}

	var payload struct {
		Key    string `json:"key"`
		Fields struct {
			Summary  string `json:"summary"`
			Reporter *struct {
				DisplayName string `json:"displayName"`
			} `json:"reporter"`
			Assignee *struct {
				DisplayName string `json:"displayName"`
			} `json:"assignee"`
			Status struct {
				Name string `json:"name"`
			} `json:"status"`
		} `json:"fields"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("jira decode: %w", err)
	}

	issue := &Issue{
		Key:      payload.Key,
		Summary:  payload.Fields.Summary,
		Reporter: "None",
		Assignee: "None",
		Status:   payload.Fields.Status.Name,
	}
	if payload.Fields.Reporter != nil && payload.Fields.Reporter.DisplayName != "" {
		issue.Reporter = payload.Fields.Reporter.DisplayName
	}
	if payload.Fields.Assignee != nil && payload.Fields.Assignee.DisplayName != "" {
		issue.Assignee = payload.Fields.Assignee.DisplayName
	}
	return issue, nil
}

// Link returns the browse URL for an issue key.
func (c *JiraClient) Link(key string) string {
	return c.host + "/browse/" + key
}
