// Package itf sets up Postgres backed test environments for module tests.
package itf

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/crudkit/pkg/application"
	"github.com/iota-uz/crudkit/pkg/composables"
	"github.com/iota-uz/crudkit/pkg/configuration"
	"github.com/iota-uz/crudkit/pkg/logging"
	"github.com/iota-uz/crudkit/pkg/migrations"
)

// PostgreSQL database name maximum length is 63 characters
const maxDBNameLength = 63

type TestEnvironment struct {
	Ctx  context.Context
	Pool *pgxpool.Pool
	App  application.Application
}

func (te *TestEnvironment) Service(service interface{}) interface{} {
	return te.App.Service(service)
}

// Setup creates a database named after the test, registers mods and applies
// their schemas. It skips when Postgres cannot be dialed, except on CI.
func Setup(tb testing.TB, mods ...application.Module) *TestEnvironment {
	tb.Helper()

	if !CanDialPostgres() {
		if isCI() {
			tb.Fatalf("postgres is not reachable (DB_HOST/DB_PORT).")
		}
		tb.Skip("postgres is not reachable; skipping integration test")
	}

	name := sanitizeDBName(tb.Name())
	require.NoError(tb, CreateDB(name))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, DbOpts(name))
	require.NoError(tb, err)
	tb.Cleanup(pool.Close)

	log := logging.Nop()
	app := application.New(&application.ApplicationOptions{Pool: pool, Logger: log})
	require.NoError(tb, application.Load(app, mods...))
	require.NoError(tb, migrations.UpPool(ctx, pool, log, app.Schemas()...))

	return &TestEnvironment{
		Ctx:  composables.WithPool(context.Background(), pool),
		Pool: pool,
		App:  app,
	}
}

func isCI() bool {
	return strings.TrimSpace(os.Getenv("CI")) != "" ||
		strings.EqualFold(strings.TrimSpace(os.Getenv("GITHUB_ACTIONS")), "true")
}

// CanDialPostgres reports whether DB_HOST:DB_PORT accepts TCP connections.
func CanDialPostgres() bool {
	c := configuration.Use()
	addr := net.JoinHostPort(c.Database.Host, c.Database.Port)
	conn, err := net.DialTimeout("tcp", addr, 250*time.Millisecond)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// sanitizeDBName lowercases name, folds separators into single underscores
// and shortens it to fit Postgres, keeping a hash suffix for uniqueness.
func sanitizeDBName(name string) string {
	sanitized := strings.NewReplacer(
		"/", "_", " ", "_", "-", "_", ".", "_", "(", "_", ")", "_", "[", "_", "]", "_",
	).Replace(strings.ToLower(name))
	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}
	sanitized = strings.Trim(sanitized, "_")
	if sanitized == "" {
		sanitized = "test_db"
	}
	if len(sanitized) <= maxDBNameLength {
		return sanitized
	}
	hash := fmt.Sprintf("%x", sha256.Sum256([]byte(name)))[:8]
	return sanitized[:maxDBNameLength-len(hash)-1] + "_" + hash
}

// CreateDB drops and recreates the database through the admin connection.
func CreateDB(name string) error {
	c := configuration.Use()
	adminConnStr := fmt.Sprintf(
		"host=%s port=%s user=%s dbname=postgres password=%s sslmode=disable",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password,
	)
	db, err := sql.Open("postgres", adminConnStr)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "DROP DATABASE IF EXISTS "+pq.QuoteIdentifier(name)); err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(name))
	return err
}

func DbOpts(name string) string {
	c := configuration.Use()
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		c.Database.Host, c.Database.Port, c.Database.User, name, c.Database.Password,
	)
}
