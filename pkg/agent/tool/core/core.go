package core

import (
	"github.com/m-mizutani/gollem"

	"github.com/docket-hq/docket/pkg/domain/interfaces"
	"github.com/docket-hq/docket/pkg/domain/types"
)

// New builds the tools the assistant agent may call while answering a
// question about the given case. All tools are read-only: the assistant
// looks things up, it never mutates records.
func New(repo interfaces.Repository, caseID types.CaseID) []gollem.Tool {
	return []gollem.Tool{
		&getCaseTool{repo: repo},
		&listCasesTool{repo: repo},
		&listDocumentsTool{repo: repo, caseID: caseID},
		&getDocumentTool{repo: repo},
	}
}
