package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/leadpipe/internal/repository"
)

// resolveLeadID resolves a full lead UUID or a unique UUID prefix. Archived
// leads and customers are included.
func resolveLeadID(ctx context.Context, app *App, input string) (string, error) {
	leads, err := app.Leads.List(ctx, repository.LeadFilter{IncludeArchived: true})
	if err != nil {
		return "", err
	}
	ids := make([]string, len(leads))
	for i, l := range leads {
		ids[i] = l.ID
	}
	return matchID("lead", ids, input)
}

func resolveCampaignID(ctx context.Context, app *App, input string) (string, error) {
	campaigns, err := app.Campaigns.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(campaigns))
	for i, c := range campaigns {
		ids[i] = c.ID
	}
	return matchID("campaign", ids, input)
}

func matchID(kind string, ids []string, input string) (string, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return "", fmt.Errorf("%s ID is required", kind)
	}

	var matches []string
	for _, id := range ids {
		if id == input {
			return id, nil
		}
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}
