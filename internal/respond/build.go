package respond

import (
	"errors"
	"fmt"
	"strings"

	"github.com/LinkHawk/LinkHawk/internal/config"
	"github.com/LinkHawk/LinkHawk/internal/records"
)

// ErrNoBots indicates an empty bot list. Running a bot that can never reply
// is a configuration error, so startup must abort.
var ErrNoBots = errors.New("no bots configured")

// Build constructs one responder per bot definition, in configuration
// order. Zero bots or an unknown variant tag aborts startup.
func Build(cfgs []config.BotConfig) ([]Responder, error) {
	if len(cfgs) == 0 {
		return nil, ErrNoBots
	}

	responders := make([]Responder, 0, len(cfgs))
	for _, bc := range cfgs {
		base := newLinkBot(bc.Pattern, bc.LinkTemplate, bc.Quips)
		switch strings.ToLower(strings.TrimSpace(bc.Variant)) {
		case "", "generic":
			responders = append(responders, base)
		case "jira":
			responders = append(responders, newJiraBot(base, records.NewJiraClient(bc.Host, bc.User, bc.Password)))
		case "servicenow":
			responders = append(responders, newServiceNowBot(base, records.NewServiceNowClient(bc.Host, bc.User, bc.Password)))
		default:
			return nil, fmt.Errorf("bot %q: unknown variant %q", bc.Pattern, bc.Variant)
		}
	}
	return responders, nil
}
