// audit/service.go
package audit

import (
	"context"
)

type Service interface {
	LogChange(ctx context.Context, change FlagChange) error
	QueryChanges(ctx context.Context, query ChangeQuery) ([]FlagChange, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) LogChange(ctx context.Context, change FlagChange) error {
	return s.repo.LogChange(ctx, change)
}

func (s *service) QueryChanges(ctx context.Context, query ChangeQuery) ([]FlagChange, error) {
	return s.repo.QueryChanges(ctx, query)
}
