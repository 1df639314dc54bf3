package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/iyhunko/product-catalog/internal/config"
	"github.com/iyhunko/product-catalog/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
)

// PostgreSQL error codes. See https://www.postgresql.org/docs/16/errcodes-appendix.html
const (
	pqUniqueViolationErrCode = "23505"
	pqCheckViolationErrCode  = "23514"
)

// MigrationsSource is where schema migrations are read from.
const MigrationsSource = "file://migrations"

func StartDB(ctx context.Context, dbConf config.DB) (*sql.DB, error) {
	dbCon, err := startDBConnection(ctx, dbConf)
	if err != nil {
		slog.Error("failed to initialize DB connection", slog.Any("err", err))
		return nil, fmt.Errorf("failed to initialize DB connection: %w", err)
	}
	slog.Info("DB connection done")
	if err = RunMigrations(dbCon, MigrationsSource); err != nil {
		slog.Error("failed to run migrations", slog.Any("err", err))
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("DB migration done")
	return dbCon, nil
}

func startDBConnection(ctx context.Context, conf config.DB) (*sql.DB, error) {
	dsnTmp := "host=%s user=%s password=%s dbname=%s port=%s sslmode=disable"
	dsn := fmt.Sprintf(dsnTmp, conf.Host, conf.User, conf.Password, conf.Name, conf.Port)
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// RunMigrations applies all pending migrations from source to db.
func RunMigrations(db *sql.DB, source string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// constraintError converts PostgreSQL constraint violations into a repository.ConstraintError.
// Errors of both the pgx and the lib/pq driver are recognised. Any other error is returned unchanged.
func constraintError(err error) error {
	var code, constraint, detail string

	var pgError *pgconn.PgError
	var pqError *pq.Error
	switch {
	case errors.As(err, &pgError):
		code, constraint, detail = pgError.Code, pgError.ConstraintName, pgError.Detail
	case errors.As(err, &pqError):
		code, constraint, detail = string(pqError.Code), pqError.Constraint, pqError.Detail
	default:
		return err
	}

	switch code {
	case pqUniqueViolationErrCode, pqCheckViolationErrCode:
		return &repository.ConstraintError{Constraint: constraint, Detail: detail}
	}
	return err
}
