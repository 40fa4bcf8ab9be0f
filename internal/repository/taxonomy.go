package repository

import (
	"context"

	"folio/internal/models"
	"folio/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TechnologyRepository reads the pre-seeded technology catalog.
type TechnologyRepository interface {
	FindByNames(ctx context.Context, names []string) ([]models.Technology, error)
	List(ctx context.Context) ([]models.Technology, error)
}

// TagRepository resolves tags by name, creating missing ones.
type TagRepository interface {
	// GetOrCreate inserts the missing names and returns the full resolved
	// set. Insertion is a single insert-if-absent statement, so two
	// concurrent calls for the same new name never produce duplicates and
	// neither caller sees an error.
	GetOrCreate(ctx context.Context, names []string) ([]models.Tag, error)
}

type technologyRepository struct {
	db *gorm.DB
}

// NewTechnologyRepository creates a new technology repository
func NewTechnologyRepository(db *gorm.DB) TechnologyRepository {
	return &technologyRepository{db: db}
}

func (r *technologyRepository) FindByNames(ctx context.Context, names []string) ([]models.Technology, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var techs []models.Technology
	err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&techs).Error
	return techs, err
}

func (r *technologyRepository) List(ctx context.Context) ([]models.Technology, error) {
	var techs []models.Technology
	err := r.db.WithContext(ctx).Order("name ASC").Find(&techs).Error
	return techs, err
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) GetOrCreate(ctx context.Context, names []string) ([]models.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}

	rows := make([]models.Tag, len(names))
	for i, name := range names {
		rows[i] = models.Tag{TagName: name}
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tag_name"}},
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil && !isUniqueViolation(res.Error) {
		return nil, res.Error
	}
	if res.Error == nil && res.RowsAffected > 0 {
		observability.TagsCreated.Add(float64(res.RowsAffected))
	}

	var tags []models.Tag
	if err := r.db.WithContext(ctx).Where("tag_name IN ?", names).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
