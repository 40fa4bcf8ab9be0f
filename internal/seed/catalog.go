// Package seed provides database seeding utilities for development and testing.
package seed

import (
	_ "embed"
	"fmt"

	"folio/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed technologies.yml
var technologiesYAML []byte

// technologyCatalog mirrors the embedded technologies.yml layout.
type technologyCatalog struct {
	Categories []struct {
		Name         string   `yaml:"name"`
		Technologies []string `yaml:"technologies"`
	} `yaml:"categories"`
}

// LoadTechnologyNames parses the embedded catalog and returns every
// technology name in file order.
func LoadTechnologyNames() ([]string, error) {
	var catalog technologyCatalog
	if err := yaml.Unmarshal(technologiesYAML, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse technology catalog: %w", err)
	}

	var names []string
	for _, category := range catalog.Categories {
		names = append(names, category.Technologies...)
	}
	return names, nil
}

// SeedTechnologies upserts the curated technology catalog. Existing rows are
// left untouched so re-running is safe.
func SeedTechnologies(db *gorm.DB) (int, error) {
	names, err := LoadTechnologyNames()
	if err != nil {
		return 0, err
	}

	technologies := make([]models.Technology, 0, len(names))
	for _, name := range names {
		technologies = append(technologies, models.Technology{Name: name})
	}

	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&technologies).Error
	if err != nil {
		return 0, fmt.Errorf("failed to seed technologies: %w", err)
	}
	return len(technologies), nil
}

// SeedPlans ensures the subscription tiers exist.
func SeedPlans(db *gorm.DB) error {
	for _, name := range []string{models.PlanFree, models.PlanPro} {
		var plan models.Plan
		if err := db.Where(models.Plan{Name: name}).FirstOrCreate(&plan).Error; err != nil {
			return fmt.Errorf("failed to seed plan %q: %w", name, err)
		}
	}
	return nil
}
