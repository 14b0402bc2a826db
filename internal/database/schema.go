package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"sneakercloset/internal/config"
	"sneakercloset/internal/middleware"

	"gorm.io/gorm"
)

const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// The embedded migrations, including the rotation cap trigger, are written
// for Postgres. Other dialects only get the GORM models.
const sqlMigrationDialect = "postgres"

// SchemaPlan is what ApplySchema does for a given config and database.
type SchemaPlan struct {
	Mode    string
	Dialect string
	// RunSQL applies the embedded migrations, which also install the
	// store-level rotation cap.
	RunSQL bool
	// RunAuto runs AutoMigrate over PersistentModels.
	RunAuto bool
}

// SchemaStatus describes a plan plus the migration ledger it would act on.
type SchemaStatus struct {
	Mode               string
	Dialect            string
	Environment        string
	WillRunSQL         bool
	WillRunAutoMigrate bool
	AppliedVersions    []int
	PendingMigrations  []Migration
}

func planSchema(cfg *config.Config, dialect string) (SchemaPlan, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode))
	if mode == "" {
		mode = SchemaModeHybrid
	}
	plan := SchemaPlan{Mode: mode, Dialect: dialect}
	sqlCapable := dialect == sqlMigrationDialect

	switch mode {
	case SchemaModeSQL:
		if !sqlCapable {
			return plan, fmt.Errorf("DB_SCHEMA_MODE=sql needs postgres, got %q", dialect)
		}
		plan.RunSQL = true
	case SchemaModeAuto:
		// AutoMigrate never installs the rotation cap trigger.
		if cfg.IsProduction() {
			return plan, fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q", cfg.Env)
		}
		plan.RunAuto = true
	case SchemaModeHybrid:
		plan.RunSQL = sqlCapable
		plan.RunAuto = !cfg.IsProduction() || !sqlCapable
	default:
		return plan, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", mode)
	}
	return plan, nil
}

// AutoMigrate creates or updates every persistent table from the GORM models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(PersistentModels()...)
}

// ApplySchema brings the database up to date according to DB_SCHEMA_MODE.
// SQL migrations run first so AutoMigrate only fills in what they lack.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	plan, err := planSchema(cfg, db.Dialector.Name())
	if err != nil {
		return err
	}

	if plan.RunSQL {
		if err := RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
	}
	if plan.RunAuto {
		middleware.Logger.Info("Syncing closet schema from models",
			slog.String("mode", plan.Mode), slog.String("dialect", plan.Dialect), slog.String("env", cfg.Env))
		if err := AutoMigrate(db.WithContext(ctx)); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}
	return nil
}

// GetSchemaStatus reports the plan and, when SQL migrations are part of it,
// which versions are applied and pending.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	plan, err := planSchema(cfg, db.Dialector.Name())
	if err != nil {
		return nil, err
	}

	status := &SchemaStatus{
		Mode:               plan.Mode,
		Dialect:            plan.Dialect,
		Environment:        cfg.Env,
		WillRunSQL:         plan.RunSQL,
		WillRunAutoMigrate: plan.RunAuto,
	}
	if !plan.RunSQL {
		return status, nil
	}

	applied, err := NewMigrationStore(db).GetAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}
	status.AppliedVersions = applied

	done := make(map[int]bool, len(applied))
	for _, version := range applied {
		done[version] = true
	}
	for _, m := range GetMigrations() {
		if !done[m.Version] {
			status.PendingMigrations = append(status.PendingMigrations, m)
		}
	}
	return status, nil
}
