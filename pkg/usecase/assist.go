package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"strings"
	"text/template"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/docket-hq/docket/pkg/agent/tool/core"
	"github.com/docket-hq/docket/pkg/domain/interfaces"
	"github.com/docket-hq/docket/pkg/domain/model"
	"github.com/docket-hq/docket/pkg/domain/types"
)

//go:embed prompt/assist_system.md
var assistSystemPromptTmpl string

var assistSystemPrompt = template.Must(template.New("assist_system").Parse(assistSystemPromptTmpl))

// AssistUseCase answers free-text questions about a case with an LLM
// agent that can look up the case record and its documents.
type AssistUseCase struct {
	repo      interfaces.Repository
	llmClient gollem.LLMClient
}

// NewAssistUseCase creates a new AssistUseCase
func NewAssistUseCase(repo interfaces.Repository, llmClient gollem.LLMClient) *AssistUseCase {
	return &AssistUseCase{
		repo:      repo,
		llmClient: llmClient,
	}
}

// assistPromptData holds all data for the assist system prompt template
type assistPromptData struct {
	CurrentTime string
	Case        *model.Case
	FilingDate  string
	NextHearing string
	Documents   []*model.Document
}

// Ask runs the assistant agent for one question about the given case and
// returns its answer.
func (uc *AssistUseCase) Ask(ctx context.Context, caseID types.CaseID, question string) (string, error) {
	if question == "" {
		return "", goerr.New("question is required")
	}

	c, err := uc.repo.Case().Get(ctx, caseID)
	if err != nil {
		return "", goerr.Wrap(err, "failed to get case", goerr.V(CaseIDKey, caseID))
	}
	if c == nil {
		return "", goerr.Wrap(ErrCaseNotFound, "case not found", goerr.V(CaseIDKey, caseID))
	}

	systemPrompt, err := uc.buildSystemPrompt(ctx, c)
	if err != nil {
		return "", goerr.Wrap(err, "failed to build system prompt")
	}

	agent := gollem.New(uc.llmClient,
		gollem.WithSystemPrompt(systemPrompt),
		gollem.WithTools(core.New(uc.repo, caseID)...),
	)

	resp, err := agent.Execute(ctx, gollem.Text(question))
	if err != nil {
		return "", goerr.Wrap(err, "failed to execute assist agent", goerr.V(CaseIDKey, caseID))
	}

	answer := strings.TrimSpace(strings.Join(resp.Texts, "\n"))
	if answer == "" {
		return "", goerr.New("assist agent returned no answer", goerr.V(CaseIDKey, caseID))
	}

	return answer, nil
}

func (uc *AssistUseCase) buildSystemPrompt(ctx context.Context, c *model.Case) (string, error) {
	data := assistPromptData{
		CurrentTime: time.Now().UTC().Format(time.RFC3339),
		Case:        c,
	}
	if !c.FilingDate.IsZero() {
		data.FilingDate = c.FilingDate.Format("2006-01-02")
	}
	if !c.NextHearing.IsZero() {
		data.NextHearing = c.NextHearing.Format("2006-01-02")
	}

	docs, err := uc.repo.Document().List(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to list documents")
	}
	for _, d := range docs {
		if d.CaseID == c.ID {
			data.Documents = append(data.Documents, d)
		}
	}

	var buf bytes.Buffer
	if err := assistSystemPrompt.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute assist system prompt template")
	}

	return buf.String(), nil
}
