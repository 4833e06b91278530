package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/mediaflowhq/mediaflow-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Organizations + identity
		// =========================
		&types.Client{},
		&types.Agency{},
		&types.User{},

		// =========================
		// Briefs + plans + audit
		// =========================
		&types.Brief{},
		&types.Plan{},
		&types.HistoryTrail{},
	)
}

func EnsureBriefIndexes(db *gorm.DB) error {
	// uuid-ossp is already enabled in NewPostgresService, but safe to re-run
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return fmt.Errorf("enable uuid-ossp: %w", err)
	}

	// Client brief listing, newest first.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_brief_client_created
		ON brief (client_id, created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_brief_client_created: %w", err)
	}

	// One plan per brief/agency pair; also declared on the model, safe to re-run.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_plan_brief_agency
		ON plan (brief_id, agency_id);
	`).Error; err != nil {
		return fmt.Errorf("create idx_plan_brief_agency: %w", err)
	}

	// Trail reads are always per plan in creation order.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_history_trail_plan_created
		ON history_trail (plan_id, created_at);
	`).Error; err != nil {
		return fmt.Errorf("create idx_history_trail_plan_created: %w", err)
	}

	// Login lookup is case-insensitive.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_user_email_lower
		ON "user" (lower(email));
	`).Error; err != nil {
		return fmt.Errorf("create idx_user_email_lower: %w", err)
	}

	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureBriefIndexes(s.db); err != nil {
		s.log.Error("Brief index migration failed", "error", err)
		return err
	}

	return nil
}
