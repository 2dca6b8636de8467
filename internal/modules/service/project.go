package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/folio-works/portfolio/internal/modules/model"
	"github.com/folio-works/portfolio/internal/modules/repo"
	"github.com/folio-works/portfolio/internal/telemetry"
)

type ProjectService interface {
	List(ctx context.Context) ([]model.Project, error)
	Get(ctx context.Context, id string) (*model.Project, error)
	Create(ctx context.Context, in model.ProjectInput) (*model.Project, error)
	Update(ctx context.Context, id string, in model.ProjectInput) (*model.Project, error)
	// Delete returns repo.ErrNotFound when nothing was removed.
	Delete(ctx context.Context, id string) error
	RecordView(ctx context.Context, id string) (int, error)
}

type projectService struct {
	r   repo.ProjectRepo
	log *zap.Logger
}

func NewProjectService(r repo.ProjectRepo, log *zap.Logger) ProjectService {
	return &projectService{r: r, log: log}
}

func (s *projectService) List(ctx context.Context) ([]model.Project, error) {
	items, err := s.r.List(ctx)
	if err != nil {
		return nil, s.storageErr("list projects", err)
	}
	if items == nil {
		items = []model.Project{}
	}
	return items, nil
}

func (s *projectService) Get(ctx context.Context, id string) (*model.Project, error) {
	if id == "" {
		return nil, repo.ErrNotFound
	}
	p, err := s.r.Get(ctx, id)
	if err != nil {
		return nil, s.storageErr("get project", err)
	}
	return p, nil
}

func (s *projectService) Create(ctx context.Context, in model.ProjectInput) (*model.Project, error) {
	p := in.ToProject()
	if err := s.r.Create(ctx, p); err != nil {
		return nil, s.storageErr("create project", err)
	}
	s.log.Sugar().Infow("project created", "id", p.ID, "title", p.Title)
	return p, nil
}

func (s *projectService) Update(ctx context.Context, id string, in model.ProjectInput) (*model.Project, error) {
	if id == "" {
		return nil, repo.ErrNotFound
	}
	p, err := s.r.Update(ctx, id, in.ToProject())
	if err != nil {
		return nil, s.storageErr("update project", err)
	}
	s.log.Sugar().Infow("project updated", "id", p.ID)
	return p, nil
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return repo.ErrNotFound
	}
	ok, err := s.r.Delete(ctx, id)
	if err != nil {
		return s.storageErr("delete project", err)
	}
	if !ok {
		return repo.ErrNotFound
	}
	s.log.Sugar().Infow("project deleted", "id", id)
	return nil
}

func (s *projectService) RecordView(ctx context.Context, id string) (int, error) {
	if id == "" {
		return 0, repo.ErrNotFound
	}
	views, err := s.r.IncrementViews(ctx, id)
	if err != nil {
		return 0, s.storageErr("increment project views", err)
	}
	telemetry.ProjectViews.Inc()
	return views, nil
}

// storageErr logs backend failures and passes not-found through untouched.
func (s *projectService) storageErr(op string, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return err
	}
	s.log.Sugar().Errorw("storage failure", "op", op, "err", err)
	return fmt.Errorf("%s: %w", op, err)
}
