// Package service implements the catalog query and lifecycle engine.
package service

import (
	"context"
	"errors"
	"strings"

	"folio/internal/cache"
	"folio/internal/models"
	"folio/internal/observability"
	"folio/internal/repository"

	"gorm.io/gorm"
)

// CatalogService is the facade over listing, lifecycle, association and
// like operations on projects. It is stateless between calls; all durable
// state lives in the repositories.
type CatalogService struct {
	projects repository.ProjectRepository
	users    repository.UserRepository
	resolver *AssociationResolver
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(projects repository.ProjectRepository, users repository.UserRepository, resolver *AssociationResolver) *CatalogService {
	return &CatalogService{
		projects: projects,
		users:    users,
		resolver: resolver,
	}
}

// ListProjectsInput are the listing filters as supplied by the caller.
type ListProjectsInput struct {
	Title        string
	Tags         []string
	Technologies []string
	Sort         string
	Page         int
	PageSize     int
}

// CreateProjectInput carries the fields for a new project.
type CreateProjectInput struct {
	Title        string
	Description  string
	Image        string
	Technologies []string
	Tags         []string
}

// UpdateProjectInput is a partial update: nil fields keep the stored value,
// nil association slices keep the stored association sets.
type UpdateProjectInput struct {
	Title        *string
	Description  *string
	Image        *string
	Technologies []string
	Tags         []string
}

func track(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	observability.CatalogOperations.WithLabelValues(op, outcome).Inc()
}

// ListProjects returns a filtered, sorted page of active projects with the
// viewer's liked flag computed per row.
func (s *CatalogService) ListProjects(ctx context.Context, in ListProjectsInput, viewer models.Principal) ([]*models.Project, error) {
	size, err := s.effectivePageSize(ctx, viewer, in.PageSize)
	if err != nil {
		return nil, err
	}
	page := in.Page
	if page < 1 {
		page = 1
	}

	f := repository.ProjectFilter{
		Title:     strings.TrimSpace(in.Title),
		TechNames: normalizeNames(in.Technologies),
		TagNames:  normalizeNames(in.Tags),
		Sort:      in.Sort,
		Limit:     size,
		Offset:    (page - 1) * size,
	}

	var projects []*models.Project
	if viewer.Anonymous() && isDefaultFirstPage(f, page, size) {
		err = cache.Aside(ctx, cache.ProjectsListKey, &projects, cache.ListTTL, func() error {
			var fetchErr error
			projects, fetchErr = s.projects.List(ctx, f, 0)
			return fetchErr
		})
	} else {
		projects, err = s.projects.List(ctx, f, viewer.UserID)
	}
	if err != nil {
		return nil, models.NewStorageError(err)
	}
	return projects, nil
}

// isDefaultFirstPage reports whether the request is the unfiltered default
// first page, the only listing worth a shared cache entry.
func isDefaultFirstPage(f repository.ProjectFilter, page, size int) bool {
	return page == 1 && size == defaultPageSize &&
		f.Title == "" && len(f.TechNames) == 0 && len(f.TagNames) == 0 && f.Sort == ""
}

// GetProject returns one active project with the viewer's liked flag.
func (s *CatalogService) GetProject(ctx context.Context, id uint, viewer models.Principal) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, id, viewer.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("project", id)
		}
		return nil, models.NewStorageError(err)
	}
	return project, nil
}

// CreateProject creates an active project owned by the caller. The project
// row and its association rows commit in one transaction; validation or
// resolution failures leave nothing behind.
func (s *CatalogService) CreateProject(ctx context.Context, in CreateProjectInput, owner models.Principal) (project *models.Project, err error) {
	defer func() { track("create", err) }()

	if owner.Anonymous() {
		return nil, models.NewUnauthorizedError("authentication required")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(normalizeNames(in.Technologies)) < 1 {
		return nil, models.NewMissingAssociationError("Add at least one technology")
	}
	if len(normalizeNames(in.Tags)) < 1 {
		return nil, models.NewMissingAssociationError("Add at least one tag")
	}

	existing, err := s.projects.FindActiveByOwnerTitle(ctx, owner.UserID, title)
	if err != nil {
		return nil, models.NewStorageError(err)
	}
	if existing != nil {
		return nil, models.NewDuplicateTitleError(title)
	}

	techs, tags, err := s.resolver.Resolve(ctx, in.Technologies, in.Tags)
	if err != nil {
		return nil, err
	}

	project = &models.Project{
		Title:        title,
		Description:  in.Description,
		Image:        in.Image,
		OwnerID:      owner.UserID,
		Technologies: techs,
		Tags:         tags,
	}
	if err = s.projects.Create(ctx, project); err != nil {
		return nil, models.NewStorageError(err)
	}

	return s.GetProject(ctx, project.ID, owner)
}

// UpdateProject merges the supplied fields into the stored project and, when
// association name lists are supplied, fully replaces the matching sets.
func (s *CatalogService) UpdateProject(ctx context.Context, id uint, in UpdateProjectInput, viewer models.Principal) (project *models.Project, err error) {
	defer func() { track("update", err) }()

	project, err = s.GetProject(ctx, id, viewer)
	if err != nil {
		return nil, err
	}
	if !viewer.CanModify(project.OwnerID) {
		return nil, models.NewForbiddenError("you do not have permission to edit this project")
	}

	fields := map[string]interface{}{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, models.NewValidationError("Title cannot be empty")
		}
		if title != project.Title {
			existing, lookupErr := s.projects.FindActiveByOwnerTitle(ctx, project.OwnerID, title)
			if lookupErr != nil {
				return nil, models.NewStorageError(lookupErr)
			}
			if existing != nil {
				return nil, models.NewDuplicateTitleError(title)
			}
		}
		fields["title"] = title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Image != nil {
		fields["image"] = *in.Image
	}

	var assoc repository.AssociationUpdate
	if in.Technologies != nil {
		techs, _, resolveErr := s.resolver.Resolve(ctx, in.Technologies, nil)
		if resolveErr != nil {
			return nil, resolveErr
		}
		assoc.Technologies = techs
		assoc.ReplaceTechnologies = true
	}
	if in.Tags != nil {
		_, tags, resolveErr := s.resolver.Resolve(ctx, nil, in.Tags)
		if resolveErr != nil {
			return nil, resolveErr
		}
		assoc.Tags = tags
		assoc.ReplaceTags = true
	}

	if err = s.projects.Update(ctx, project, fields, assoc); err != nil {
		return nil, models.NewStorageError(err)
	}

	return s.GetProject(ctx, id, viewer)
}

// DeleteProject moves an active project to the trash. Associations and
// likes stay in place; only the lifecycle discriminant changes.
func (s *CatalogService) DeleteProject(ctx context.Context, id uint, viewer models.Principal) (err error) {
	defer func() { track("delete", err) }()

	project, err := s.GetProject(ctx, id, viewer)
	if err != nil {
		return err
	}
	if !viewer.CanModify(project.OwnerID) {
		return models.NewForbiddenError("you are not authorized to delete this project")
	}
	if err = s.projects.SoftDelete(ctx, id); err != nil {
		return models.NewStorageError(err)
	}
	return nil
}

// ListTrashedProjects returns the caller's trashed projects, or every
// trashed project for an admin.
func (s *CatalogService) ListTrashedProjects(ctx context.Context, viewer models.Principal) ([]*models.Project, error) {
	if viewer.Anonymous() {
		return nil, models.NewUnauthorizedError("authentication required")
	}
	ownerScope := viewer.UserID
	if viewer.IsAdmin() {
		ownerScope = 0
	}
	projects, err := s.projects.ListTrashed(ctx, ownerScope)
	if err != nil {
		return nil, models.NewStorageError(err)
	}
	return projects, nil
}

// GetTrashedProject returns one trashed project. Callers who are neither
// the owner nor an admin get NotFound, never a hint that the row exists.
func (s *CatalogService) GetTrashedProject(ctx context.Context, id uint, viewer models.Principal) (*models.Project, error) {
	project, err := s.projects.GetTrashedByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("deleted project", id)
		}
		return nil, models.NewStorageError(err)
	}
	if !viewer.CanModify(project.OwnerID) {
		return nil, models.NewNotFoundError("deleted project", id)
	}
	return project, nil
}

// RestoreProject moves a trashed project back to active, unless the owner
// meanwhile created an active project with the same title.
func (s *CatalogService) RestoreProject(ctx context.Context, id uint, viewer models.Principal) (project *models.Project, err error) {
	defer func() { track("restore", err) }()

	trashed, err := s.GetTrashedProject(ctx, id, viewer)
	if err != nil {
		return nil, err
	}
	if !viewer.CanModify(trashed.OwnerID) {
		return nil, models.NewForbiddenError("you are not authorized to restore this project")
	}

	existing, err := s.projects.FindActiveByOwnerTitle(ctx, trashed.OwnerID, trashed.Title)
	if err != nil {
		return nil, models.NewStorageError(err)
	}
	if existing != nil {
		return nil, models.NewDuplicateTitleError(trashed.Title)
	}

	if err = s.projects.Restore(ctx, id); err != nil {
		return nil, models.NewStorageError(err)
	}
	return s.GetProject(ctx, id, viewer)
}

// ToggleLike flips the caller's like on a project and returns the project
// with refreshed counts.
func (s *CatalogService) ToggleLike(ctx context.Context, id uint, viewer models.Principal) (*models.Project, error) {
	if viewer.Anonymous() {
		return nil, models.NewUnauthorizedError("authentication required")
	}
	project, err := s.GetProject(ctx, id, viewer)
	if err != nil {
		return nil, err
	}

	liked, err := s.projects.IsLiked(ctx, viewer.UserID, project.ID)
	if err != nil {
		return nil, models.NewStorageError(err)
	}
	if liked {
		err = s.projects.Unlike(ctx, viewer.UserID, project.ID)
	} else {
		err = s.projects.Like(ctx, viewer.UserID, project.ID)
	}
	if err != nil {
		return nil, models.NewStorageError(err)
	}

	return s.GetProject(ctx, id, viewer)
}
