// Package pgtest starts a throwaway PostgreSQL for integration suites and migrates it
// with the production schema.
package pgtest

import (
	"context"
	"fmt"
	"time"

	postgres_adapter "dispatch/internal/adapters/out/postgres"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Tables are truncated between tests.
var Tables = []string{
	"chat_messages",
	"shipper_notifications",
	"transactions",
	"order_status_history",
	"order_items",
	"orders",
	"accounts",
	"stores",
}

type Database struct {
	Container *postgres.PostgresContainer
	DB        *gorm.DB
	DSN       string
}

func Start(ctx context.Context) (*Database, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(context.Background())
		return nil, err
	}

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		_ = container.Terminate(context.Background())
		return nil, err
	}

	if err = postgres_adapter.Migrate(db); err != nil {
		_ = container.Terminate(context.Background())
		return nil, err
	}

	return &Database{Container: container, DB: db, DSN: dsn}, nil
}

func (d *Database) Truncate() error {
	stmt := "TRUNCATE TABLE "
	for i, table := range Tables {
		if i > 0 {
			stmt += ", "
		}
		stmt += table
	}
	return d.DB.Exec(stmt + " CASCADE").Error
}

func (d *Database) Terminate() error {
	if d == nil || d.Container == nil {
		return nil
	}
	return d.Container.Terminate(context.Background())
}
