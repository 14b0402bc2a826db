package repository

import (
	"context"
	"errors"
	"strings"

	"sneakercloset/internal/cache"
	"sneakercloset/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	LockByID(ctx context.Context, id uint) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, q string, excludeID uint, limit, offset int) ([]models.User, error)
}

type userRepository struct {
	db     *gorm.DB
	cached bool
}

// NewUserRepository returns a cache-backed UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, cached: true}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	load := func() error {
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	var err error
	if r.cached {
		err = cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, load)
	} else {
		err = load()
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername returns nil, nil when no user has that username.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// LockByID loads the user and holds a row lock until the surrounding
// transaction ends, serializing ledger writes for that user.
func (r *userRepository) LockByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := forUpdate(r.db.WithContext(ctx)).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Username or email already taken")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Username or email already taken")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

// Search lists users whose username contains q, case-insensitively, ordered
// by username. excludeID, when non-zero, is left out.
func (r *userRepository) Search(ctx context.Context, q string, excludeID uint, limit, offset int) ([]models.User, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	if q = strings.TrimSpace(q); q != "" {
		query = query.Where(`LOWER(username) LIKE ? ESCAPE '\'`, containsPattern(q))
	}
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var users []models.User
	if err := paginate(query.Order("username ASC"), limit, offset).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
