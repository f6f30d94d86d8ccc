package db

import (
	"fmt"
	"net/url"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/btrkeks/innovation-coach-backend/internal/logger"
	"github.com/btrkeks/innovation-coach-backend/internal/types"
	"github.com/btrkeks/innovation-coach-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	dsn := buildDSN(log)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

// buildDSN prefers a full DATABASE_URL (Heroku style) and falls back to
// discrete POSTGRES_* variables.
func buildDSN(log *logger.Logger) string {
	if databaseURL := utils.GetEnv("DATABASE_URL", "", log); databaseURL != "" {
		if dsn, err := dsnFromURL(databaseURL); err == nil {
			return dsn
		} else {
			log.Warn("Could not parse DATABASE_URL, falling back to POSTGRES_* variables", "error", err)
		}
	}
	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "innovationcoach", log)
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)
}

func dsnFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Host == "" || u.User == nil {
		return "", fmt.Errorf("database url missing host or credentials")
	}
	username := u.User.Username()
	password, _ := u.User.Password()
	return fmt.Sprintf("postgres://%s:%s@%s%s?sslmode=disable", username, password, u.Host, u.Path), nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.ChatMessage{},
		&types.Person{},
		&types.Event{},
		&types.Foerderung{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
