package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	dbutils "github.com/tendant/db-utils/db"

	"github.com/serviceseeker/serviceseeker/pkg/location"
)

type DbConfig struct {
	Host     string `env:"SEEKER_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"SEEKER_PG_PORT" env-default:"5432"`
	Database string `env:"SEEKER_PG_DATABASE" env-default:"serviceseeker_db"`
	User     string `env:"SEEKER_PG_USER" env-default:"seeker"`
	Password string `env:"SEEKER_PG_PASSWORD" env-default:"pwd"`
}

type Config struct {
	DbConfig DbConfig
}

// Seeds the geographic reference tables and exits. The server performs
// the same seeding at startup; this binary exists for provisioning new
// databases ahead of a deploy.
func main() {
	config := Config{}
	cleanenv.ReadEnv(&config)

	dbConfig := dbutils.DbConfig{
		Host:     config.DbConfig.Host,
		Port:     config.DbConfig.Port,
		Database: config.DbConfig.Database,
		User:     config.DbConfig.User,
		Password: config.DbConfig.Password,
	}
	pool, err := dbutils.NewDbPool(context.Background(), dbConfig)
	if err != nil {
		slog.Error("Failed creating dbpool", "db", dbConfig.Database, "host", dbConfig.Host, "port", dbConfig.Port, "user", dbConfig.User)
		os.Exit(-1)
	}
	defer pool.Close()

	repo := location.NewPostgresReferenceDataRepository(pool)
	seeder := location.NewSeeder(repo, repo)
	if err := seeder.Seed(context.Background()); err != nil {
		slog.Error("Seeding failed", "err", err)
		os.Exit(-1)
	}
	slog.Info("Seeding complete", "db", dbConfig.Database)
}
