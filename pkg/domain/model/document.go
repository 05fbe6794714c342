package model

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/docket-hq/docket/pkg/domain/types"
)

// DefaultCategory is assigned to documents uploaded without a category.
const DefaultCategory = "Other"

// Document represents one uploaded file plus its metadata. FileName names
// the backing blob under the storage root; deleting a document must delete
// that blob as well. The JSON tags define the on-disk index encoding.
type Document struct {
	ID   types.DocumentID `json:"id"`
	Name string           `json:"name"`
	Type types.DocType    `json:"type"`

	// Size is the human-readable size string shown in listings,
	// e.g. "245 KB". The raw byte count is not retained.
	Size string `json:"size"`

	// CaseID links the document to a case. CaseName is kept alongside it
	// for display; older index files carry only the name.
	CaseID   types.CaseID `json:"caseId,omitempty"`
	CaseName string       `json:"caseName"`

	UploadedAt string   `json:"uploadedAt"`
	Category   string   `json:"category"`
	FileName   string   `json:"fileName"`
	Tags       []string `json:"tags"`
}

// Validate checks the minimum requirements for storing a document.
func (d *Document) Validate() error {
	if err := d.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid document")
	}
	if d.FileName == "" {
		return goerr.New("document file name is required", goerr.V("id", d.ID))
	}
	return nil
}

// Normalize fills defaults for fields that may be absent on load: a nil
// tag list becomes empty and a missing category becomes DefaultCategory.
func (d *Document) Normalize() {
	if d.Tags == nil {
		d.Tags = []string{}
	}
	if d.Category == "" {
		d.Category = DefaultCategory
	}
}

// Clone returns a deep copy so repository snapshots stay isolated from
// caller mutation.
func (d *Document) Clone() *Document {
	copied := *d
	copied.Tags = make([]string, len(d.Tags))
	copy(copied.Tags, d.Tags)
	return &copied
}
