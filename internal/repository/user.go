package repository

import (
	"context"

	"folio/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, search string) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	// PlanName returns the user's subscription tier name, or "" when the
	// user has no plan attached.
	PlanName(ctx context.Context, userID uint) (string, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Plan").First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, search string) ([]*models.User, error) {
	var users []*models.User
	q := r.db.WithContext(ctx).Preload("Plan")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("username ILIKE ? OR email ILIKE ?", like, like)
	}
	err := q.Order("username ASC").Find(&users).Error
	return users, err
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) PlanName(ctx context.Context, userID uint) (string, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Plan").Select("id", "plan_id").First(&user, userID).Error
	if err != nil {
		return "", err
	}
	if user.Plan == nil {
		return "", nil
	}
	return user.Plan.Name, nil
}
