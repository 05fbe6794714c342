package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/docket-hq/docket/pkg/domain/types"
)

// Case represents one legal case/matter. The record is replaced wholesale
// on update; there is no partial-field patch. The ID is immutable after
// creation.
type Case struct {
	ID          types.CaseID     `json:"id"`
	Title       string           `json:"title"`
	CaseNumber  string           `json:"caseNumber"`
	Type        string           `json:"type"`
	Status      types.CaseStatus `json:"status"`
	Court       string           `json:"court"`
	Judge       string           `json:"judge"`
	FilingDate  time.Time        `json:"filingDate"`
	NextHearing time.Time        `json:"nextHearing"`
	Courtroom   string           `json:"courtroom"`
	Description string           `json:"description"`
	Petitioner  string           `json:"petitioner"`
	Respondent  string           `json:"respondent"`
	Advocate    string           `json:"advocate"`

	// Advisory counters shown on list screens. They are not derived from
	// other records and may drift.
	DocumentsCount int `json:"documentsCount"`
	HearingsCount  int `json:"hearingsCount"`
	TasksCount     int `json:"tasksCount"`
}

// Validate checks the minimum requirements for storing a case.
func (c *Case) Validate() error {
	if c.Title == "" {
		return goerr.New("case title is required")
	}
	return nil
}

// Clone returns a deep copy so repository snapshots stay isolated from
// caller mutation.
func (c *Case) Clone() *Case {
	copied := *c
	return &copied
}
