package database

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"testing"
	"testing/fstest"
	"time"

	"sneakercloset/internal/config"
	"sneakercloset/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestConfigurePool(t *testing.T) {
	db := openSQLite(t)

	err := configurePool(db, &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)
}

func TestDSN(t *testing.T) {
	dsn := DSN(&config.Config{DBHost: "db", DBPort: "5433", DBUser: "u", DBPassword: "p", DBName: "sneakers"})
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=sneakers sslmode=disable", dsn)
}

func TestPlanSchema(t *testing.T) {
	tests := []struct {
		mode, env, dialect string
		wantSQL, wantAuto  bool
		wantErr            bool
	}{
		{mode: "", env: "development", dialect: "postgres", wantSQL: true, wantAuto: true},
		{mode: "hybrid", env: "production", dialect: "postgres", wantSQL: true},
		{mode: "hybrid", env: "test", dialect: "sqlite", wantAuto: true},
		{mode: "hybrid", env: "production", dialect: "sqlite", wantAuto: true},
		{mode: "sql", env: "development", dialect: "postgres", wantSQL: true},
		{mode: "sql", env: "development", dialect: "sqlite", wantErr: true},
		{mode: "auto", env: "test", dialect: "postgres", wantAuto: true},
		{mode: "AUTO", env: "test", dialect: "sqlite", wantAuto: true},
		{mode: "auto", env: "production", dialect: "postgres", wantErr: true},
		{mode: "nope", env: "development", dialect: "postgres", wantErr: true},
	}

	for _, tt := range tests {
		name := tt.mode + "/" + tt.env + "/" + tt.dialect
		plan, err := planSchema(&config.Config{DBSchemaMode: tt.mode, Env: tt.env}, tt.dialect)
		if tt.wantErr {
			assert.Error(t, err, name)
			continue
		}
		require.NoError(t, err, name)
		assert.Equal(t, tt.wantSQL, plan.RunSQL, name+" sql")
		assert.Equal(t, tt.wantAuto, plan.RunAuto, name+" auto")
	}
}

func TestEmbeddedMigrationsRegistered(t *testing.T) {
	all := GetMigrations()
	require.GreaterOrEqual(t, len(all), 2)
	assert.Equal(t, 1, all[0].Version)
	assert.Equal(t, "init_schema", all[0].Name)
	assert.Contains(t, all[0].UpScript, "CREATE TABLE IF NOT EXISTS closet_entries")
	assert.Contains(t, all[0].DownScript, "DROP TABLE IF EXISTS users")
	assert.Equal(t, "000002_rotation_cap", GetMigrationByVersion(2).String())
	assert.Nil(t, GetMigrationByVersion(99))
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	db := openSQLite(t)
	fsys := fstest.MapFS{
		"m/000001_widgets.up.sql":   {Data: []byte("CREATE TABLE widgets (id INTEGER PRIMARY KEY);")},
		"m/000001_widgets.down.sql": {Data: []byte("DROP TABLE widgets;")},
		"m/README.md":               {Data: []byte("ignored")},
	}
	registered, err := LoadMigrations(fsys, "m")
	require.NoError(t, err)
	require.Len(t, registered, 1)

	ctx := context.Background()
	require.NoError(t, runMigrations(ctx, db, registered))
	require.NoError(t, runMigrations(ctx, db, registered))

	applied, err := NewMigrationStore(db).GetAppliedMigrations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, applied)
	assert.True(t, db.Migrator().HasTable("widgets"))
}

func TestRunMigrationsRejectsUnknownVersions(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	require.NoError(t, db.AutoMigrate(&MigrationLog{}))
	require.NoError(t, db.Create(&MigrationLog{Version: 42, Name: "from_the_future"}).Error)

	err := runMigrations(ctx, db, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000042")
}

func TestApplySchemaAutoEnforcesLedgerUniqueness(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, ApplySchema(context.Background(), db, &config.Config{DBSchemaMode: "auto", Env: "test"}))

	user := models.User{Username: "alice", Email: "alice@example.com", Password: "x", FirstName: "A", LastName: "L"}
	require.NoError(t, db.Create(&user).Error)
	assert.Equal(t, models.DefaultImageURL, user.ImageURL)

	sneaker := models.Sneaker{Name: "Air Max 1", Brand: "Nike"}
	require.NoError(t, db.Create(&sneaker).Error)

	require.NoError(t, db.Omit("User", "Sneaker").Create(&models.ClosetEntry{UserID: user.ID, SneakerID: sneaker.ID}).Error)
	err := db.Omit("User", "Sneaker").Create(&models.ClosetEntry{UserID: user.ID, SneakerID: sneaker.ID}).Error
	assert.Error(t, err)

	require.NoError(t, db.Omit("Follower", "Followed").Create(&models.Follow{FollowerID: user.ID, FollowedID: user.ID}).Error)
	err = db.Omit("Follower", "Followed").Create(&models.Follow{FollowerID: user.ID, FollowedID: user.ID}).Error
	assert.Error(t, err)

	status, err := GetSchemaStatus(context.Background(), db, &config.Config{DBSchemaMode: "auto", Env: "test"})
	require.NoError(t, err)
	assert.True(t, status.WillRunAutoMigrate)
	assert.False(t, status.WillRunSQL)
	assert.Equal(t, "sqlite", status.Dialect)
}

func openPostgresMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestRotationCapMigrationMatchesModel(t *testing.T) {
	m := GetMigrationByVersion(2)
	require.NotNil(t, m)

	assert.Contains(t, m.UpScript, "BEFORE INSERT OR UPDATE OF in_rotation ON closet_entries")
	assert.Contains(t, m.UpScript, fmt.Sprintf(") >= %d THEN", models.RotationLimit))
	assert.Contains(t, m.UpScript, "ERRCODE = 'check_violation'")
	assert.Contains(t, m.DownScript, "DROP TRIGGER IF EXISTS trg_closet_rotation_cap")
	assert.Contains(t, m.DownScript, "DROP FUNCTION IF EXISTS enforce_rotation_cap()")
}

func TestApplyRotationCapMigration(t *testing.T) {
	m := GetMigrationByVersion(2)
	require.NotNil(t, m)
	ctx := context.Background()

	t.Run("Applied and recorded in one transaction", func(t *testing.T) {
		db, mock := openPostgresMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(m.UpScript)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "migration_logs"`)).
			WithArgs(2, "rotation_cap", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, NewMigrationStore(db).ApplyMigration(ctx, *m))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Script failure is not recorded", func(t *testing.T) {
		db, mock := openPostgresMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(m.UpScript)).
			WillReturnError(errors.New(`language "plpgsql" does not exist`))
		mock.ExpectRollback()

		err := NewMigrationStore(db).ApplyMigration(ctx, *m)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "migration 2 (rotation_cap)")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormLoggerTrace(t *testing.T) {
	var buf bytes.Buffer
	l := NewGormLogger(slog.New(slog.NewTextHandler(&buf, nil)), logger.Warn)

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, errors.New("boom"))
	assert.Contains(t, buf.String(), "GORM query error")

	buf.Reset()
	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	buf.Reset()
	l.LogMode(logger.Silent).Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, errors.New("x"))
	assert.Empty(t, buf.String())
}
