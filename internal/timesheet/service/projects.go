package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/clockleaf/timesheet/internal/timesheet/domain"
	"github.com/clockleaf/timesheet/internal/timesheet/store"
	"github.com/clockleaf/timesheet/pkg/idx"
	"github.com/clockleaf/timesheet/pkg/slogx"
)

var (
	ErrInvalidProject       = errors.New("project name is required")
	ErrDuplicateProjectName = errors.New("a project with this name already exists")
	ErrDuplicateProjectCode = errors.New("a project with this code already exists")
	ErrProjectNotFound      = errors.New("project not found")
)

type ProjectService struct {
	Store store.Store
}

type CreateProjectParams struct {
	Name        string
	Code        string
	Description string
	ClientID    string
}

func (s *ProjectService) CreateProject(ctx context.Context, p CreateProjectParams) (domain.Project, error) {
	log := slogx.FromContext(ctx)

	if domain.NormalizeName(p.Name) == "" {
		return domain.Project{}, ErrInvalidProject
	}
	if err := s.checkDuplicates(ctx, p.Name, p.Code, ""); err != nil {
		return domain.Project{}, err
	}
	if p.ClientID != "" {
		if _, err := s.Store.Clients().GetClientByID(ctx, p.ClientID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Project{}, ErrClientNotFound
			}
			return domain.Project{}, err
		}
	}

	project := domain.Project{
		ID:          idx.New().String(),
		Name:        p.Name,
		Code:        p.Code,
		Description: p.Description,
		ClientID:    p.ClientID,
		Active:      true,
	}
	if err := s.Store.Projects().CreateProject(ctx, project); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Project{}, ErrDuplicateProjectName
		}
		log.Error("failed to create project", slog.Any("error", err))
		return domain.Project{}, err
	}

	log.Info("project created", slog.String("project_id", project.ID))
	return project, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id string) (domain.Project, error) {
	project, err := s.Store.Projects().GetProjectByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Project{}, ErrProjectNotFound
	}
	return project, err
}

// ListProjects returns all projects with the owning client's name joined in.
func (s *ProjectService) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return s.Store.Projects().ListProjects(ctx)
}

type UpdateProjectParams struct {
	Name        *string
	Code        *string
	Description *string
	ClientID    *string
	Active      *bool
}

func (s *ProjectService) UpdateProject(ctx context.Context, id string, p UpdateProjectParams) (domain.Project, error) {
	log := slogx.FromContext(ctx)

	project, err := s.GetProject(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}

	applyString(&project.Name, p.Name)
	applyString(&project.Code, p.Code)
	applyString(&project.Description, p.Description)
	applyString(&project.ClientID, p.ClientID)
	if p.Active != nil {
		project.Active = *p.Active
	}

	if domain.NormalizeName(project.Name) == "" {
		return domain.Project{}, ErrInvalidProject
	}
	if err := s.checkDuplicates(ctx, project.Name, project.Code, project.ID); err != nil {
		return domain.Project{}, err
	}
	if p.ClientID != nil && project.ClientID != "" {
		if _, err := s.Store.Clients().GetClientByID(ctx, project.ClientID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Project{}, ErrClientNotFound
			}
			return domain.Project{}, err
		}
	}

	if err := s.Store.Projects().UpdateProject(ctx, project); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyExists):
			return domain.Project{}, ErrDuplicateProjectName
		case errors.Is(err, store.ErrNotFound):
			return domain.Project{}, ErrProjectNotFound
		}
		log.Error("failed to update project", slog.String("project_id", id), slog.Any("error", err))
		return domain.Project{}, err
	}
	return project, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	err := s.Store.Projects().DeleteProject(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrProjectNotFound
	}
	return err
}

func (s *ProjectService) checkDuplicates(ctx context.Context, name, code, selfID string) error {
	existing, err := s.Store.Projects().FindProjectByNormalizedName(ctx, domain.NormalizeName(name))
	switch {
	case err == nil && existing.ID != selfID:
		return ErrDuplicateProjectName
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return err
	}

	if code == "" {
		return nil
	}
	existing, err = s.Store.Projects().FindProjectByCode(ctx, code)
	switch {
	case err == nil && existing.ID != selfID:
		return ErrDuplicateProjectCode
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return err
	}
	return nil
}
