package core

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/docket-hq/docket/pkg/agent/tool"
	"github.com/docket-hq/docket/pkg/domain/interfaces"
	"github.com/docket-hq/docket/pkg/domain/model"
	"github.com/docket-hq/docket/pkg/domain/types"
)

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// caseToMap converts a Case to a map for tool response
func caseToMap(c *model.Case) map[string]any {
	return map[string]any{
		"id":           c.ID,
		"title":        c.Title,
		"case_number":  c.CaseNumber,
		"type":         c.Type,
		"status":       c.Status.String(),
		"court":        c.Court,
		"judge":        c.Judge,
		"filing_date":  formatDate(c.FilingDate),
		"next_hearing": formatDate(c.NextHearing),
		"courtroom":    c.Courtroom,
		"description":  c.Description,
		"petitioner":   c.Petitioner,
		"respondent":   c.Respondent,
		"advocate":     c.Advocate,
	}
}

// getCaseTool retrieves full case details by ID
type getCaseTool struct {
	repo interfaces.Repository
}

func (t *getCaseTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "core__get_case",
		Description: "Get full details of a case by its ID",
		Parameters: map[string]*gollem.Parameter{
			"case_id": {
				Type:        gollem.TypeString,
				Description: "The ID of the case to retrieve",
				Required:    true,
			},
		},
	}
}

func (t *getCaseTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	caseID, err := extractString(args, "case_id")
	if err != nil {
		return nil, err
	}

	tool.Update(ctx, fmt.Sprintf("Getting case %s...", caseID))
	c, err := t.repo.Case().Get(ctx, types.CaseID(caseID))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get case", goerr.V("caseID", caseID))
	}
	if c == nil {
		return nil, fmt.Errorf("case not found: id=%s", caseID)
	}
	return caseToMap(c), nil
}

// listCasesTool lists all cases in the registry
type listCasesTool struct {
	repo interfaces.Repository
}

func (t *listCasesTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "core__list_cases",
		Description: "List all cases with their status and parties",
		Parameters:  map[string]*gollem.Parameter{},
	}
}

func (t *listCasesTool) Run(ctx context.Context, _ map[string]any) (map[string]any, error) {
	tool.Update(ctx, "Listing cases...")
	cases, err := t.repo.Case().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list cases")
	}

	items := make([]map[string]any, len(cases))
	for i, c := range cases {
		items[i] = map[string]any{
			"id":          c.ID,
			"title":       c.Title,
			"case_number": c.CaseNumber,
			"status":      c.Status.String(),
			"petitioner":  c.Petitioner,
			"respondent":  c.Respondent,
		}
	}
	return map[string]any{"cases": items}, nil
}
