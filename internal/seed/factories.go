package seed

import (
	"fmt"
	"math/rand"
	"time"

	"folio/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Bio:      gofakeit.Sentence(10),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Role:     models.RoleUser,
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateProject constructs and persists a sample `models.Project` owned by
// the given user, with associations picked from the provided pools.
func (f *Factory) CreateProject(owner *models.User, technologies []models.Technology, tags []models.Tag, overrides ...func(*models.Project)) (*models.Project, error) {
	project := &models.Project{
		Title:       gofakeit.AppName() + fmt.Sprintf(" %d", gofakeit.Number(1, 9999)),
		Description: gofakeit.Paragraph(1, 3, 8, "\n"),
		Image:       fmt.Sprintf("https://picsum.photos/seed/%s/1200/630", gofakeit.UUID()),
		OwnerID:     owner.ID,
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 180
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	project.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	if len(technologies) > 0 {
		project.Technologies = pickTechnologies(f.rng, technologies, 1+f.rng.Intn(4))
	}
	if len(tags) > 0 {
		project.Tags = pickTags(f.rng, tags, 1+f.rng.Intn(3))
	}

	for _, override := range overrides {
		override(project)
	}

	if err := f.db.Create(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// CreateTag persists a tag with the given name unless it already exists.
func (f *Factory) CreateTag(name string) (*models.Tag, error) {
	var tag models.Tag
	if err := f.db.Where(models.Tag{TagName: name}).FirstOrCreate(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// CreateLike persists a like from `user` on `project`.
func (f *Factory) CreateLike(user *models.User, project *models.Project) error {
	like := &models.Like{
		UserID:    user.ID,
		ProjectID: project.ID,
	}
	return f.db.Create(like).Error
}

func pickTechnologies(r *rand.Rand, pool []models.Technology, n int) []models.Technology {
	if n > len(pool) {
		n = len(pool)
	}
	perm := r.Perm(len(pool))
	out := make([]models.Technology, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, pool[idx])
	}
	return out
}

func pickTags(r *rand.Rand, pool []models.Tag, n int) []models.Tag {
	if n > len(pool) {
		n = len(pool)
	}
	perm := r.Perm(len(pool))
	out := make([]models.Tag, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, pool[idx])
	}
	return out
}
