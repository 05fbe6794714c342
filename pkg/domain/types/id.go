package types

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// CaseID identifies a case record. IDs are opaque strings derived from a
// millisecond clock at creation time; they are immutable after creation
// and must be unique within a repository. Uniqueness is a caller
// precondition on insert, not enforced by repositories.
type CaseID string

// DocumentID identifies a document record. IDs combine the upload
// timestamp with a per-batch index so that multi-file uploads landing in
// the same millisecond stay distinct.
type DocumentID string

// NewCaseID generates a case ID from the current clock.
func NewCaseID() CaseID {
	return CaseID(strconv.FormatInt(time.Now().UnixMilli(), 10))
}

// NewDocumentID generates a document ID for the idx-th file of an upload
// batch that started at ts.
func NewDocumentID(ts time.Time, idx int) DocumentID {
	return DocumentID(fmt.Sprintf("%d_%d", ts.UnixMilli(), idx))
}

// Validate checks if the case ID is non-empty
func (id CaseID) Validate() error {
	if id == "" {
		return goerr.New("case ID is empty")
	}
	return nil
}

// Validate checks if the document ID is non-empty
func (id DocumentID) Validate() error {
	if id == "" {
		return goerr.New("document ID is empty")
	}
	return nil
}

func (id CaseID) String() string {
	return string(id)
}

func (id DocumentID) String() string {
	return string(id)
}
