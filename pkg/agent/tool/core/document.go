package core

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/docket-hq/docket/pkg/agent/tool"
	"github.com/docket-hq/docket/pkg/domain/interfaces"
	"github.com/docket-hq/docket/pkg/domain/model"
	"github.com/docket-hq/docket/pkg/domain/types"
)

// extractString extracts a required string argument from tool args
func extractString(args map[string]any, key string) (string, error) {
	val, ok := args[key]
	if !ok {
		return "", goerr.New("missing required argument", goerr.V("key", key))
	}
	s, ok := val.(string)
	if !ok {
		return "", goerr.New("argument is not a string", goerr.V("key", key))
	}
	return s, nil
}

func documentToMap(d *model.Document) map[string]any {
	return map[string]any{
		"id":          d.ID,
		"name":        d.Name,
		"type":        d.Type.String(),
		"size":        d.Size,
		"case_id":     d.CaseID,
		"case_name":   d.CaseName,
		"uploaded_at": d.UploadedAt,
		"category":    d.Category,
		"tags":        d.Tags,
	}
}

// listDocumentsTool lists documents, restricted to the current case when
// one is bound
type listDocumentsTool struct {
	repo   interfaces.Repository
	caseID types.CaseID
}

func (t *listDocumentsTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "core__list_documents",
		Description: "List documents filed under the current case",
		Parameters:  map[string]*gollem.Parameter{},
	}
}

func (t *listDocumentsTool) Run(ctx context.Context, _ map[string]any) (map[string]any, error) {
	tool.Update(ctx, "Listing documents...")
	docs, err := t.repo.Document().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list documents")
	}

	items := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		if t.caseID != "" && d.CaseID != t.caseID {
			continue
		}
		items = append(items, documentToMap(d))
	}
	return map[string]any{"documents": items}, nil
}

// getDocumentTool retrieves document metadata by ID
type getDocumentTool struct {
	repo interfaces.Repository
}

func (t *getDocumentTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "core__get_document",
		Description: "Get metadata of a specific document by its ID",
		Parameters: map[string]*gollem.Parameter{
			"document_id": {
				Type:        gollem.TypeString,
				Description: "The ID of the document to retrieve",
				Required:    true,
			},
		},
	}
}

func (t *getDocumentTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	docID, err := extractString(args, "document_id")
	if err != nil {
		return nil, err
	}

	tool.Update(ctx, fmt.Sprintf("Getting document %s...", docID))
	d, err := t.repo.Document().Get(ctx, types.DocumentID(docID))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get document", goerr.V("documentID", docID))
	}
	if d == nil {
		return nil, fmt.Errorf("document not found: id=%s", docID)
	}
	return documentToMap(d), nil
}
