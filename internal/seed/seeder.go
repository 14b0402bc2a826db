package seed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"

	"sneakercloset/internal/middleware"
	"sneakercloset/internal/models"
	"sneakercloset/internal/repository"
	"sneakercloset/internal/service"
	"sneakercloset/internal/session"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DemoPassword is the password of every demo user.
const DemoPassword = "password123"

// Options configures a seeding run.
type Options struct {
	Clean     bool
	DemoUsers int
	BatchSize int
	// RandSeed makes demo data reproducible when non-zero.
	RandSeed int64
}

// Seeder writes the catalog and demo data.
type Seeder struct {
	db       *gorm.DB
	store    repository.Store
	identity *service.IdentityService
	social   *service.SocialService
	closet   *service.CollectionService
}

// NewSeeder binds a seeder to db.
func NewSeeder(db *gorm.DB) *Seeder {
	store := repository.NewStore(db)
	return &Seeder{
		db:       db,
		store:    store,
		identity: service.NewIdentityService(store),
		social:   service.NewSocialService(store),
		closet:   service.NewCollectionService(store, nil),
	}
}

// Clean empties the catalog, ledgers, follows, notifications and users.
func (s *Seeder) Clean(ctx context.Context) error {
	tables := []any{
		&models.Notification{}, &models.ClosetEntry{}, &models.WishlistEntry{},
		&models.Follow{}, &models.Sneaker{}, &models.User{},
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
				return fmt.Errorf("clean %T: %w", table, err)
			}
		}
		return nil
	})
}

// Catalog reads r and inserts every row in one transaction.
func (s *Seeder) Catalog(ctx context.Context, r io.Reader, batchSize int) (int, error) {
	sneakers, err := ReadCatalog(r)
	if err != nil {
		return 0, err
	}
	err = s.store.Atomic(ctx, func(repos repository.Repositories) error {
		return repos.Sneakers.CreateBatch(ctx, sneakers, batchSize)
	})
	if err != nil {
		return 0, err
	}
	middleware.Logger.InfoContext(ctx, "catalog seeded", slog.Int("sneakers", len(sneakers)))
	return len(sneakers), nil
}

// Run cleans if asked, loads the catalog from r and adds demo users.
func (s *Seeder) Run(ctx context.Context, r io.Reader, opts Options) error {
	if opts.Clean {
		if err := s.Clean(ctx); err != nil {
			return err
		}
	}
	if r != nil {
		if _, err := s.Catalog(ctx, r, opts.BatchSize); err != nil {
			return err
		}
	}
	if opts.DemoUsers > 0 {
		if _, err := s.DemoUsers(ctx, opts.DemoUsers, opts.RandSeed); err != nil {
			return err
		}
	}
	return nil
}

// DemoUsers registers n fake users, has each follow a few others and put a
// few catalog sneakers in their closet and wishlist.
func (s *Seeder) DemoUsers(ctx context.Context, n int, randSeed int64) ([]models.User, error) {
	faker := gofakeit.New(randSeed)
	rng := rand.New(rand.NewSource(randSeed))

	users := make([]models.User, 0, n)
	for len(users) < n {
		user, err := s.identity.Register(ctx, service.RegisterInput{
			Username:  fmt.Sprintf("%s%d", sanitizeUsername(faker.Username()), len(users)+1),
			FirstName: faker.FirstName(),
			LastName:  faker.LastName(),
			Email:     fmt.Sprintf("demo%d.%s", len(users)+1, faker.Email()),
			Password:  DemoPassword,
		})
		if err != nil {
			return nil, fmt.Errorf("register demo user: %w", err)
		}
		users = append(users, *user)
	}

	sneakers, err := s.store.Repos().Sneakers.Search(ctx, "", 0, 0)
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		actor := session.Identity{UserID: user.ID}
		for _, i := range rng.Perm(len(users))[:min(3, len(users))] {
			if users[i].ID == user.ID {
				continue
			}
			if err := s.social.Follow(ctx, actor, users[i].ID); err != nil {
				return nil, err
			}
		}
		if len(sneakers) == 0 {
			continue
		}
		for j, i := range rng.Perm(len(sneakers))[:min(4, len(sneakers))] {
			add := s.closet.AddToCloset
			if j%2 == 1 {
				add = s.closet.AddToWishlist
			}
			if _, err := add(ctx, actor, sneakers[i].ID); err != nil {
				return nil, err
			}
		}
	}

	middleware.Logger.InfoContext(ctx, "demo users seeded", slog.Int("users", len(users)))
	return users, nil
}

// sanitizeUsername keeps only the characters usernames allow and caps the
// length so a numeric suffix still fits.
func sanitizeUsername(raw string) string {
	out := make([]rune, 0, len(raw))
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			out = append(out, r)
		}
		if len(out) == 20 {
			break
		}
	}
	if len(out) < 3 {
		return "sneakerfan"
	}
	return string(out)
}
