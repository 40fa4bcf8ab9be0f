package seed

import (
	"fmt"
	"log"

	"folio/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumProjects int
	ShouldClean bool
	SkipBcrypt  bool
	MaxDays     int
}

var tagNames = []string{
	"web", "mobile", "cli", "api", "game", "tooling", "data-viz",
	"machine-learning", "open-source", "side-project", "hackathon",
	"portfolio", "prototype", "production", "self-hosted", "devops",
}

// Seed populates the database with demo data: plans, the technology
// catalog, a tag pool, users with projects, and a spread of likes.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d projects...", opts.NumUsers, opts.NumProjects)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	if err := SeedPlans(db); err != nil {
		return err
	}
	techCount, err := SeedTechnologies(db)
	if err != nil {
		return err
	}
	log.Printf("%d technologies available", techCount)

	f := NewFactory(db, opts)

	tags, err := createTags(f)
	if err != nil {
		return fmt.Errorf("failed to create tags: %w", err)
	}

	var technologies []models.Technology
	if err := db.Find(&technologies).Error; err != nil {
		return fmt.Errorf("failed to load technologies: %w", err)
	}

	users, err := createUsers(db, f, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d users created", len(users))

	projects, err := createProjects(f, users, technologies, tags, opts.NumProjects)
	if err != nil {
		return fmt.Errorf("failed to create projects: %w", err)
	}
	log.Printf("%d projects created", len(projects))

	if err := createLikes(f, users, projects); err != nil {
		return fmt.Errorf("failed to create likes: %w", err)
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE likes, project_technologies, project_tags, projects, tags, technologies, users, plans RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createTags(f *Factory) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(tagNames))
	for _, name := range tagNames {
		tag, err := f.CreateTag(name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

func createUsers(db *gorm.DB, f *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	var freePlan, proPlan models.Plan
	_ = db.Where("name = ?", models.PlanFree).First(&freePlan).Error
	_ = db.Where("name = ?", models.PlanPro).First(&proPlan).Error

	// A stable admin account for manual testing.
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	admin := &models.User{
		Username: "admin",
		Email:    "admin@example.com",
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
		Bio:      "Keeps the catalog tidy.",
		PlanID:   &proPlan.ID,
	}
	if err := db.Create(admin).Error; err == nil {
		users = append(users, admin)
	}

	for i := len(users); i < count; i++ {
		planID := &freePlan.ID
		if i%4 == 0 {
			planID = &proPlan.ID
		}
		user, err := f.CreateUser(func(u *models.User) {
			u.PlanID = planID
		})
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

func createProjects(f *Factory, users []*models.User, technologies []models.Technology, tags []models.Tag, count int) ([]*models.Project, error) {
	projects := make([]*models.Project, 0, count)

	for i := 0; i < count; i++ {
		owner := users[f.rng.Intn(len(users))]
		project, err := f.CreateProject(owner, technologies, tags)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d projects...", i)
		}
	}

	return projects, nil
}

func createLikes(f *Factory, users []*models.User, projects []*models.Project) error {
	for _, project := range projects {
		likers := f.rng.Intn(len(users) + 1)
		perm := f.rng.Perm(len(users))
		for _, idx := range perm[:likers] {
			if users[idx].ID == project.OwnerID {
				continue
			}
			if err := f.CreateLike(users[idx], project); err != nil {
				return err
			}
		}
	}
	return nil
}
