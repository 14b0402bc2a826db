// Package testutil provides shared fixtures for database and redis backed tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"sneakercloset/internal/cache"
	"sneakercloset/internal/database"
	"sneakercloset/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq atomic.Uint64

// OpenDB returns a migrated in-memory sqlite database with foreign keys on.
// It is pinned to one connection so every statement sees the same memory DB.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// StartRedis runs a miniredis server and installs it as the shared cache client.
func StartRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(rdb)
	t.Cleanup(func() {
		cache.SetClient(nil)
		_ = rdb.Close()
	})
	return mr, rdb
}

// CreateUser inserts a user with a unique username derived from prefix.
// The stored password is a placeholder, not a bcrypt hash.
func CreateUser(t *testing.T, db *gorm.DB, prefix string) *models.User {
	t.Helper()
	n := seq.Add(1)
	user := &models.User{
		Username:  fmt.Sprintf("%s%d", prefix, n),
		Email:     fmt.Sprintf("%s%d@example.com", prefix, n),
		Password:  "not-a-hash",
		FirstName: "Test",
		LastName:  "User",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateSneaker inserts a catalog item.
func CreateSneaker(t *testing.T, db *gorm.DB, name, brand string) *models.Sneaker {
	t.Helper()
	price := 120.0
	sneaker := &models.Sneaker{
		Name:        name,
		Brand:       brand,
		ImageURL:    "https://img.example.com/" + fmt.Sprint(seq.Add(1)) + ".png",
		RetailPrice: &price,
		URL:         "https://shop.example.com/item",
	}
	require.NoError(t, db.Create(sneaker).Error)
	return sneaker
}
