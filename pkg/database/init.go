package database

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/llante/llante_site/config"
)

// maintenanceDB is the database every Postgres server has; CREATE DATABASE
// cannot run inside the database being created.
const maintenanceDB = "postgres"

// InitializeDatabase creates the leads database named by cfg when it does
// not exist yet. It reports whether it had to create it.
func InitializeDatabase(ctx context.Context, cfg config.DatabaseConfig) (bool, error) {
	if cfg.DBName == "" {
		return false, fmt.Errorf("database: no database name provided")
	}

	admin := FromCentralConfig(cfg)
	admin.DBName = maintenanceDB
	admin.MaxOpenConns = 1

	conn, err := Open(ctx, admin)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	return createDatabaseIfNotExists(ctx, conn, cfg.DBName)
}

func createDatabaseIfNotExists(ctx context.Context, conn *sql.DB, name string) (bool, error) {
	query, args, err := databaseExistsQuery(name)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := conn.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("database: check %q exists: %w", name, err)
	}
	if exists {
		return false, nil
	}

	if _, err := conn.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(name)); err != nil {
		return false, fmt.Errorf("database: create %q: %w", name, err)
	}
	return true, nil
}

func databaseExistsQuery(name string) (string, []any, error) {
	return sq.Select("1").
		From("pg_database").
		Where(sq.Eq{"datname": name}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		PlaceholderFormat(sq.Dollar).
		ToSql()
}
