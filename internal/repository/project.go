// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"strings"

	"folio/internal/cache"
	"folio/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProjectFilter is the store-agnostic query plan built by the service layer.
// Zero-valued fields are unset and add no predicate.
type ProjectFilter struct {
	// Title is matched as a case-insensitive substring.
	Title string
	// TechNames filters to projects holding at least one association whose
	// name is in the set (exact names, membership semantics).
	TechNames []string
	// TagNames filters like TechNames but with loose substring matching:
	// fragments are joined with wildcards into a single pattern.
	TagNames []string
	// Sort is one of a-z, z-a, new, old; anything else keeps store order.
	Sort   string
	Limit  int
	Offset int
}

// AssociationUpdate carries replacement association sets for an update.
// Replacement only happens for the sets whose flag is raised; an absent set
// leaves the stored associations untouched.
type AssociationUpdate struct {
	Technologies        []models.Technology
	Tags                []models.Tag
	ReplaceTechnologies bool
	ReplaceTags         bool
}

// ProjectRepository defines the interface for project data operations.
// Trashed (soft-deleted) rows are excluded everywhere except the *Trashed and
// Restore operations.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Project, error)
	List(ctx context.Context, f ProjectFilter, viewerID uint) ([]*models.Project, error)
	FindActiveByOwnerTitle(ctx context.Context, ownerID uint, title string) (*models.Project, error)
	Update(ctx context.Context, project *models.Project, fields map[string]interface{}, assoc AssociationUpdate) error
	SoftDelete(ctx context.Context, id uint) error
	ListTrashed(ctx context.Context, ownerID uint) ([]*models.Project, error)
	GetTrashedByID(ctx context.Context, id uint) (*models.Project, error)
	Restore(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, userID, projectID uint) (bool, error)
	Like(ctx context.Context, userID, projectID uint) error
	Unlike(ctx context.Context, userID, projectID uint) error
}

// projectRepository implements ProjectRepository
type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	// GORM wraps the row insert and the association inserts in one
	// transaction, so a failed association leaves no partial project.
	err := r.db.WithContext(ctx).Create(project).Error
	if err == nil {
		cache.InvalidateProjectsList(ctx)
	}
	return err
}

func (r *projectRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Project, error) {
	var project models.Project
	err := r.applyProjectDetails(r.db.WithContext(ctx), viewerID).
		Preload("Owner").
		Preload("Technologies").
		Preload("Tags").
		First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) List(ctx context.Context, f ProjectFilter, viewerID uint) ([]*models.Project, error) {
	var projects []*models.Project
	q := r.applyProjectDetails(r.db.WithContext(ctx), viewerID).
		Preload("Owner").
		Preload("Technologies").
		Preload("Tags")
	q = applyFilter(q, f)
	q = applySort(q, f.Sort)
	err := q.Limit(f.Limit).Offset(f.Offset).Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// applyFilter composes the optional predicates of the plan onto the builder.
// Membership joins are expressed as EXISTS so they do not disturb the
// computed-column SELECT list.
func applyFilter(q *gorm.DB, f ProjectFilter) *gorm.DB {
	if f.Title != "" {
		q = q.Where("projects.title ILIKE ?", "%"+f.Title+"%")
	}
	if len(f.TechNames) > 0 {
		q = q.Where(
			"EXISTS (SELECT 1 FROM project_technologies pt JOIN technologies t ON t.id = pt.technology_id WHERE pt.project_id = projects.id AND t.name IN ?)",
			f.TechNames,
		)
	}
	if len(f.TagNames) > 0 {
		// Fragments joined loosely: ["go","web"] matches any tag whose name
		// contains "go" followed anywhere by "web".
		pattern := "%" + strings.Join(f.TagNames, "%") + "%"
		q = q.Where(
			"EXISTS (SELECT 1 FROM project_tags pg JOIN tags ON tags.id = pg.tag_id WHERE pg.project_id = projects.id AND tags.tag_name ILIKE ?)",
			pattern,
		)
	}
	return q
}

func applySort(q *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "a-z":
		return q.Order("projects.title ASC")
	case "z-a":
		return q.Order("projects.title DESC")
	case "new":
		return q.Order("projects.created_at DESC")
	case "old":
		return q.Order("projects.created_at ASC")
	default:
		return q
	}
}

// applyProjectDetails adds subqueries to fetch the like count and the
// viewer's liked flag in the same query, one row per project.
func (r *projectRepository) applyProjectDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	selectQuery := "projects.*, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.project_id = projects.id) as likes_count"

	if viewerID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.project_id = projects.id AND likes.user_id = ?) as liked", viewerID)
	}

	return db.Select(selectQuery + ", false as liked")
}

func (r *projectRepository) FindActiveByOwnerTitle(ctx context.Context, ownerID uint, title string) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND title = ?", ownerID, title).
		First(&project).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project, fields map[string]interface{}, assoc AssociationUpdate) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			if err := tx.Model(project).Updates(fields).Error; err != nil {
				return err
			}
		}
		if assoc.ReplaceTechnologies {
			if err := tx.Model(project).Association("Technologies").Replace(assoc.Technologies); err != nil {
				return err
			}
		}
		if assoc.ReplaceTags {
			if err := tx.Model(project).Association("Tags").Replace(assoc.Tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		cache.InvalidateProject(ctx, project.ID)
		cache.InvalidateProjectsList(ctx)
	}
	return err
}

func (r *projectRepository) SoftDelete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Delete(&models.Project{}, id).Error
	if err == nil {
		cache.InvalidateProject(ctx, id)
		cache.InvalidateProjectsList(ctx)
	}
	return err
}

func (r *projectRepository) ListTrashed(ctx context.Context, ownerID uint) ([]*models.Project, error) {
	var projects []*models.Project
	q := r.db.WithContext(ctx).Unscoped().
		Preload("Technologies").
		Preload("Tags").
		Where("projects.deleted_at IS NOT NULL")
	if ownerID != 0 {
		q = q.Where("projects.owner_id = ?", ownerID)
	}
	err := q.Order("projects.deleted_at DESC").Find(&projects).Error
	return projects, err
}

func (r *projectRepository) GetTrashedByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Unscoped().
		Preload("Technologies").
		Preload("Tags").
		Where("projects.deleted_at IS NOT NULL").
		First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) Restore(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Unscoped().
		Model(&models.Project{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
	if err == nil {
		cache.InvalidateProject(ctx, id)
		cache.InvalidateProjectsList(ctx)
	}
	return err
}

func (r *projectRepository) IsLiked(ctx context.Context, userID, projectID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Count(&count).Error
	return count > 0, err
}

func (r *projectRepository) Like(ctx context.Context, userID, projectID uint) error {
	like := models.Like{UserID: userID, ProjectID: projectID}
	// Concurrent double-likes collapse onto the unique index.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like).Error
	if err != nil && isUniqueViolation(err) {
		return nil
	}
	if err == nil {
		cache.InvalidateProject(ctx, projectID)
	}
	return err
}

func (r *projectRepository) Unlike(ctx context.Context, userID, projectID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Delete(&models.Like{}).Error
	if err == nil {
		cache.InvalidateProject(ctx, projectID)
	}
	return err
}
