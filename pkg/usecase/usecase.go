package usecase

import (
	"github.com/m-mizutani/gollem"

	"github.com/docket-hq/docket/pkg/domain/interfaces"
)

type UseCases struct {
	repo    interfaces.Repository
	storage interfaces.Storage
	llm     gollem.LLMClient

	Case     *CaseUseCase
	Document *DocumentUseCase
	Auth     AuthUseCaseInterface
	Assist   *AssistUseCase
}

type Option func(*UseCases)

func WithStorage(st interfaces.Storage) Option {
	return func(uc *UseCases) {
		uc.storage = st
	}
}

func WithAuth(auth AuthUseCaseInterface) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

func WithLLM(client gollem.LLMClient) Option {
	return func(uc *UseCases) {
		uc.llm = client
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Document = NewDocumentUseCase(repo, uc.storage)
	uc.Case = NewCaseUseCase(repo, uc.Document)

	if uc.llm != nil {
		uc.Assist = NewAssistUseCase(repo, uc.llm)
	}

	return uc
}
