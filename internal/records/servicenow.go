// Package records provides HTTP clients for external record sources.
package records

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// ErrNotFound indicates the record source has no record for the label.
var ErrNotFound = fmt.Errorf("record not found")

const serviceNowTableAPI = "/api/now/table"

// serviceNowTables maps a ticket-number prefix to its ServiceNow table.
var serviceNowTables = map[string]string{
	"REQ":   "u_simple_requests",
	"INC":   "incident",
	"RTASK": "u_request_task",
	"ITASK": "u_incident_task",
}

// serviceNowFields lists the queried record fields in display order with
// their human-readable names.
var serviceNowFields = []struct {
	Field  string
	Pretty string
}{
	{"short_description", "Subject"},
	{"number", "Number"},
	{"parent", "Parent"},
	{"state", "State"},
	{"assigned_to", "Assigned To"},
	{"opened_by", "Opened By"},
	{"sys_updated_on", "Last Update"},
}

var digitsRe = regexp.MustCompile(`[0-9]`)

// TicketField is one record field with its pretty name.
type TicketField struct {
	Name  string
	Value string
}

// Ticket is a ServiceNow record reduced to its display fields.
type Ticket struct {
	fields map[string]string
}

// NewTicket builds a Ticket from raw field values keyed by ServiceNow field
// name.
func NewTicket(fields map[string]string) *Ticket {
	return &Ticket{fields: fields}
}

// Fields yields the record fields under their pretty names, in the fixed
// field order.
func (t *Ticket) Fields() []TicketField {
	out := make([]TicketField, 0, len(serviceNowFields))
	for _, f := range serviceNowFields {
		out = append(out, TicketField{Name: f.Pretty, Value: t.fields[f.Field]})
	}
	return out
}

// ServiceNowClient looks up tickets through the ServiceNow table API.
type ServiceNowClient struct {
	host   string
	user   string
	pass   string
	client *http.Client
}

// NewServiceNowClient creates a client for the given instance host.
func NewServiceNowClient(host, user, pass string) *ServiceNowClient {
	return &ServiceNowClient{
		host:   strings.TrimRight(host, "/"),
		user:   user,
		pass:   pass,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Lookup fetches the ticket for the given number. Returns ErrNotFound when
// the number's type is unknown or the instance has no matching record.
func (c *ServiceNowClient) Lookup(ctx context.Context, number string) (*Ticket, error) {
	table, err := tableFromNumber(number)
	if err != nil {
		return nil, err
	}

	fields := make([]string, 0, len(serviceNowFields))
	for _, f := range serviceNowFields {
		fields = append(fields, f.Field)
	}
	query := url.Values{
		"sysparm_query":         {"number=" + number},
		"sysparm_display_value": {"true"},
		"sysparm_limit":         {"1"},
		"sysparm_fields":        {strings.Join(fields, ",")},
	}
	reqURL := fmt.Sprintf("%s%s/%s?%s", c.host, serviceNowTableAPI, table, query.Encode())

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
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("servicenow status %d for %s", resp.StatusCode, number)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Result []map[string]json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("servicenow decode: %w", err)
	}
	if len(payload.Result) == 0 {
		return nil, fmt.Errorf("%s: %w", number, ErrNotFound)
	}

	fieldValues := make(map[string]string, len(serviceNowFields))
	for field, raw := range payload.Result[0] {
		fieldValues[field] = displayValue(raw)
	}
	return NewTicket(fieldValues), nil
}

// Link returns the browse URL for a ticket number. An unknown number type
// yields the bare host so callers always get a usable link.
func (c *ServiceNowClient) Link(number string) string {
	table, err := tableFromNumber(number)
	if err != nil {
		return c.host
	}
	return fmt.Sprintf("%s/%s.do?sysparm_table=%s&sysparm_query=number%%3D%s", c.host, table, table, number)
}

func tableFromNumber(number string) (string, error) {
	ticketType := digitsRe.ReplaceAllString(number, "")
	table, ok := serviceNowTables[ticketType]
	if !ok {
		return "", fmt.Errorf("unrecognized servicenow type %q: %w", ticketType, ErrNotFound)
	}
	return table, nil
}

// displayValue unwraps reference fields, which arrive as objects with a
// display_value key when sysparm_display_value is set.
func displayValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		DisplayValue string `json:"display_value"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.DisplayValue
	}
	return ""
}
