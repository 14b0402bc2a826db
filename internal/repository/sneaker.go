package repository

import (
	"context"
	"errors"
	"strings"

	"sneakercloset/internal/cache"
	"sneakercloset/internal/models"

	"gorm.io/gorm"
)

// SneakerRepository reads the catalog and loads it from the seeder.
type SneakerRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Sneaker, error)
	Search(ctx context.Context, q string, limit, offset int) ([]models.Sneaker, error)
	CreateBatch(ctx context.Context, sneakers []models.Sneaker, batchSize int) error
	Count(ctx context.Context) (int64, error)
}

type sneakerRepository struct {
	db     *gorm.DB
	cached bool
}

// NewSneakerRepository returns a cache-backed SneakerRepository.
func NewSneakerRepository(db *gorm.DB) SneakerRepository {
	return &sneakerRepository{db: db, cached: true}
}

func (r *sneakerRepository) GetByID(ctx context.Context, id uint) (*models.Sneaker, error) {
	var sneaker models.Sneaker
	load := func() error {
		if err := r.db.WithContext(ctx).First(&sneaker, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Sneaker", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	var err error
	if r.cached {
		err = cache.Aside(ctx, cache.SneakerKey(id), &sneaker, cache.SneakerTTL, load)
	} else {
		err = load()
	}
	if err != nil {
		return nil, err
	}
	return &sneaker, nil
}

// Search lists sneakers whose name contains q, case-insensitively.
func (r *sneakerRepository) Search(ctx context.Context, q string, limit, offset int) ([]models.Sneaker, error) {
	query := r.db.WithContext(ctx).Model(&models.Sneaker{})
	if q = strings.TrimSpace(q); q != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, containsPattern(q))
	}

	var sneakers []models.Sneaker
	if err := paginate(query.Order("id ASC"), limit, offset).Find(&sneakers).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return sneakers, nil
}

func (r *sneakerRepository) CreateBatch(ctx context.Context, sneakers []models.Sneaker, batchSize int) error {
	if len(sneakers) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	if err := r.db.WithContext(ctx).CreateInBatches(sneakers, batchSize).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *sneakerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Sneaker{}).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
