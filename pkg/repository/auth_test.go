package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/docket-hq/docket/pkg/domain/model/auth"
	"github.com/docket-hq/docket/pkg/repository/memory"
)

func TestTokenStore(t *testing.T) {
	repo, err := memory.New()
	gt.NoError(t, err).Required()
	ctx := context.Background()

	token := auth.NewToken("user-1", "advocate@example.com", "Adv. Kulkarni")
	gt.NoError(t, repo.PutToken(ctx, token)).Required()

	got, err := repo.GetToken(ctx, token.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.Sub).Equal("user-1")
	gt.Value(t, got.Secret).Equal(token.Secret)

	gt.NoError(t, repo.DeleteToken(ctx, token.ID)).Required()

	_, err = repo.GetToken(ctx, token.ID)
	gt.Value(t, errors.Is(err, memory.ErrNotFound)).Equal(true)
}

func TestTokenStore_ReturnsCopy(t *testing.T) {
	repo, err := memory.New()
	gt.NoError(t, err).Required()
	ctx := context.Background()

	token := auth.NewToken("user-1", "advocate@example.com", "Adv. Kulkarni")
	gt.NoError(t, repo.PutToken(ctx, token)).Required()

	// Mutating the stored-from or returned token must not touch the store.
	token.Sub = "mutated-input"
	got, err := repo.GetToken(ctx, token.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.Sub).Equal("user-1")

	got.Sub = "mutated-output"
	again, err := repo.GetToken(ctx, token.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, again.Sub).Equal("user-1")
}

func TestTokenStore_Validation(t *testing.T) {
	repo, err := memory.New()
	gt.NoError(t, err).Required()
	ctx := context.Background()

	_, err = repo.GetToken(ctx, "")
	gt.Value(t, err).NotNil()

	gt.Value(t, repo.PutToken(ctx, &auth.Token{})).NotNil()
}
