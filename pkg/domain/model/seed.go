package model

import (
	_ "embed"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/docket-hq/docket/pkg/domain/types"
)

//go:embed seed.toml
var seedTOML []byte

type seedFile struct {
	Cases []seedCase `toml:"case"`
}

type seedCase struct {
	ID             string    `toml:"id"`
	Title          string    `toml:"title"`
	CaseNumber     string    `toml:"caseNumber"`
	Type           string    `toml:"type"`
	Status         string    `toml:"status"`
	Court          string    `toml:"court"`
	Judge          string    `toml:"judge"`
	FilingDate     time.Time `toml:"filingDate"`
	NextHearing    time.Time `toml:"nextHearing"`
	Courtroom      string    `toml:"courtroom"`
	Description    string    `toml:"description"`
	Petitioner     string    `toml:"petitioner"`
	Respondent     string    `toml:"respondent"`
	Advocate       string    `toml:"advocate"`
	DocumentsCount int       `toml:"documentsCount"`
	HearingsCount  int       `toml:"hearingsCount"`
	TasksCount     int       `toml:"tasksCount"`
}

// SeedCases returns the built-in sample cases used by repository backends
// that have no backing service. The returned slice is freshly allocated on
// every call.
func SeedCases() ([]*Case, error) {
	var f seedFile
	if err := toml.Unmarshal(seedTOML, &f); err != nil {
		return nil, goerr.Wrap(err, "failed to parse embedded seed cases")
	}

	cases := make([]*Case, 0, len(f.Cases))
	for _, s := range f.Cases {
		cases = append(cases, &Case{
			ID:             types.CaseID(s.ID),
			Title:          s.Title,
			CaseNumber:     s.CaseNumber,
			Type:           s.Type,
			Status:         types.CaseStatus(s.Status),
			Court:          s.Court,
			Judge:          s.Judge,
			FilingDate:     s.FilingDate,
			NextHearing:    s.NextHearing,
			Courtroom:      s.Courtroom,
			Description:    s.Description,
			Petitioner:     s.Petitioner,
			Respondent:     s.Respondent,
			Advocate:       s.Advocate,
			DocumentsCount: s.DocumentsCount,
			HearingsCount:  s.HearingsCount,
			TasksCount:     s.TasksCount,
		})
	}

	return cases, nil
}
