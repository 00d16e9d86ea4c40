package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/summerstudio/meetscribe-backend/internal/domain"
	"github.com/summerstudio/meetscribe-backend/internal/platform/envutil"
	"github.com/summerstudio/meetscribe-backend/internal/platform/logger"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	host := envutil.Str("POSTGRES_HOST", "localhost")
	port := envutil.Str("POSTGRES_PORT", "5432")
	user := envutil.Str("POSTGRES_USER", "postgres")
	password := envutil.Str("POSTGRES_PASSWORD", "")
	name := envutil.Str("POSTGRES_NAME", "meetscribe")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)

	serviceLog.Info("connecting to postgres", "host", host, "db", name)
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("failed to connect to postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		serviceLog.Error("failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) DB() *gorm.DB { return s.db }

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("auto migrating postgres tables")
	if err := s.db.AutoMigrate(
		&domain.Meeting{},
		&domain.MeetingAnalysis{},
	); err != nil {
		s.log.Error("auto migration failed", "error", err)
		return err
	}
	if err := s.db.Exec(`
		ALTER TABLE "meeting_analysis"
		DROP CONSTRAINT IF EXISTS "fk_meeting_analysis_meeting_id";
	`).Error; err != nil {
		return err
	}
	if err := s.db.Exec(`
		ALTER TABLE "meeting_analysis"
		ADD CONSTRAINT "fk_meeting_analysis_meeting_id"
		FOREIGN KEY ("meeting_id")
		REFERENCES "meeting"("id")
		ON DELETE CASCADE
	`).Error; err != nil {
		s.log.Error("failed to add meeting_analysis foreign key", "error", err)
		return err
	}
	return nil
}
