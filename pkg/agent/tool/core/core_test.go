package core_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/docket-hq/docket/pkg/agent/tool/core"
	"github.com/docket-hq/docket/pkg/domain/model"
	"github.com/docket-hq/docket/pkg/domain/types"
	"github.com/docket-hq/docket/pkg/repository/memory"
)

func findTool(t *testing.T, repo *memory.Memory, caseID types.CaseID, name string) interface {
	Run(ctx context.Context, args map[string]any) (map[string]any, error)
} {
	t.Helper()
	for _, tl := range core.New(repo, caseID) {
		if tl.Spec().Name == name {
			return tl
		}
	}
	t.Fatalf("tool not found: %s", name)
	return nil
}

func TestGetCaseTool(t *testing.T) {
	repo, err := memory.New()
	gt.NoError(t, err).Required()
	ctx := context.Background()

	tl := findTool(t, repo, "seed-1", "core__get_case")

	resp, err := tl.Run(ctx, map[string]any{"case_id": "seed-1"})
	gt.NoError(t, err).Required()
	gt.Value(t, resp["title"]).Equal("Singh vs. State of Maharashtra")

	_, err = tl.Run(ctx, map[string]any{"case_id": "no-such-case"})
	gt.Value(t, err).NotNil()

	_, err = tl.Run(ctx, map[string]any{})
	gt.Value(t, err).NotNil()
}

func TestListDocumentsTool_FiltersByCase(t *testing.T) {
	repo, err := memory.New()
	gt.NoError(t, err).Required()
	ctx := context.Background()

	docs := []*model.Document{
		{ID: "d1", Name: "FIR.pdf", Type: types.DocTypePDF, CaseID: "seed-1", FileName: "d1.pdf"},
		{ID: "d2", Name: "Affidavit.pdf", Type: types.DocTypePDF, CaseID: "seed-2", FileName: "d2.pdf"},
	}
	gt.NoError(t, repo.Document().Add(ctx, docs)).Required()

	tl := findTool(t, repo, "seed-1", "core__list_documents")
	resp, err := tl.Run(ctx, map[string]any{})
	gt.NoError(t, err).Required()

	items := resp["documents"].([]map[string]any)
	gt.Value(t, len(items)).Equal(1)
	gt.Value(t, items[0]["name"]).Equal("FIR.pdf")
}
