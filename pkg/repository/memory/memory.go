package memory

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/docket-hq/docket/pkg/domain/interfaces"
)

// ErrNotFound is returned by token lookups for unknown IDs.
var ErrNotFound = goerr.New("not found")

// Memory is the in-memory repository backend. Cases start from the
// embedded seed list; nothing survives a restart.
type Memory struct {
	cases     *caseRepository
	documents *documentRepository
	tokens    *tokenStore
}

var _ interfaces.Repository = &Memory{}

// New creates an in-memory repository seeded with the sample cases.
func New() (*Memory, error) {
	caseRepo, err := newCaseRepository()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize case repository")
	}

	return &Memory{
		cases:     caseRepo,
		documents: newDocumentRepository(),
		tokens:    newTokenStore(),
	}, nil
}

func (m *Memory) Case() interfaces.CaseRepository {
	return m.cases
}

func (m *Memory) Document() interfaces.DocumentRepository {
	return m.documents
}

func (m *Memory) Close() error {
	return nil
}
