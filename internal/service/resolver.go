package service

import (
	"context"
	"strings"

	"folio/internal/models"
	"folio/internal/repository"
)

// AssociationResolver maps human-readable technology and tag names to
// persisted rows. It holds no state across requests: output is a pure
// function of the input names and the catalog contents.
type AssociationResolver struct {
	technologies repository.TechnologyRepository
	tags         repository.TagRepository
}

// NewAssociationResolver creates a resolver over the given repositories.
func NewAssociationResolver(technologies repository.TechnologyRepository, tags repository.TagRepository) *AssociationResolver {
	return &AssociationResolver{technologies: technologies, tags: tags}
}

// Resolve looks up technologies by exact name and tags by
// get-or-create. Any unknown technology fails the whole call; nothing is
// partially applied. Tag creation is idempotent under concurrency.
func (r *AssociationResolver) Resolve(ctx context.Context, techNames, tagNames []string) ([]models.Technology, []models.Tag, error) {
	techNames = normalizeNames(techNames)
	tagNames = normalizeNames(tagNames)

	techs, err := r.technologies.FindByNames(ctx, techNames)
	if err != nil {
		return nil, nil, models.NewStorageError(err)
	}
	if len(techs) != len(techNames) {
		return nil, nil, models.NewUnknownTechnologyError(missingNames(techNames, techs))
	}

	tags, err := r.tags.GetOrCreate(ctx, tagNames)
	if err != nil {
		return nil, nil, models.NewStorageError(err)
	}

	return techs, tags, nil
}

// normalizeNames trims whitespace and drops empties and duplicates,
// preserving first-seen order. Matching stays case-sensitive.
func normalizeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func missingNames(requested []string, found []models.Technology) []string {
	have := make(map[string]struct{}, len(found))
	for _, t := range found {
		have[t.Name] = struct{}{}
	}
	var missing []string
	for _, n := range requested {
		if _, ok := have[n]; !ok {
			missing = append(missing, n)
		}
	}
	return missing
}
