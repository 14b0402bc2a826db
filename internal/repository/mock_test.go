package repository

import (
	"context"
	"regexp"
	"testing"

	"sneakercloset/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name         string
		userID       uint
		mockBehavior func()
		wantUsername string
		wantCode     string
	}{
		{
			name:   "Success",
			userID: 1,
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "username", "email"}).
					AddRow(1, "testuser", "test@example.com")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(1, 1).
					WillReturnRows(rows)
			},
			wantUsername: "testuser",
		},
		{
			name:   "Not Found",
			userID: 99,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(99, 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
			wantCode: models.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, tt.userID)

			if tt.wantCode != "" {
				assert.True(t, models.HasCode(err, tt.wantCode), "got %v", err)
			} else if assert.NoError(t, err) {
				assert.Equal(t, tt.wantUsername, user.Username)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_LockByIDTakesRowLock(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"\."id" = \$1 ORDER BY "users"\."id" LIMIT \$2 FOR UPDATE`).
		WithArgs(5, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(5, "locked"))

	user, err := repo.LockByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "locked", user.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateConflict(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.User{Username: "dupe", Email: "dupe@example.com"})
	assert.True(t, models.HasCode(err, models.CodeConflict), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSneakerRepository_SearchEscapesWildcards(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := &sneakerRepository{db: db}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "sneakers" WHERE LOWER(name) LIKE $1 ESCAPE '\' ORDER BY id ASC LIMIT $2`)).
		WithArgs(`%50\%%`, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(3, "Dunk 50% off"))

	got, err := repo.Search(context.Background(), " 50% ", 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Dunk 50% off", got[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueConstraintError(t *testing.T) {
	assert.False(t, isUniqueConstraintError(nil))
	assert.True(t, isUniqueConstraintError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueConstraintError(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isUniqueConstraintError(gorm.ErrDuplicatedKey))
	assert.False(t, isUniqueConstraintError(assert.AnError))
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%air max%", containsPattern("Air Max"))
	assert.Equal(t, `%a\_b\%c\\%`, containsPattern(`a_b%c\`))
}
