// Package migrations applies the SQL schema each module embeds. Every module
// keeps its own goose version table so modules migrate independently.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"regexp"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/crudkit/pkg/serrors"
)

var ErrInvalidSource = serrors.NewError("MIGRATIONS_INVALID_SOURCE", "invalid migration source", "")

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Source is a module schema: goose formatted files at the root of FS.
type Source struct {
	Name string
	FS   fs.FS
}

// NewSource roots fsys at dir.
func NewSource(name string, fsys fs.FS, dir string) (Source, error) {
	if !namePattern.MatchString(name) {
		return Source{}, ErrInvalidSource.Withf("name %q", name)
	}
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return Source{}, ErrInvalidSource.Wrap(err)
	}
	return Source{Name: name, FS: sub}, nil
}

// TableName is the goose version table of the source.
func (s Source) TableName() string {
	return "goose_db_version_" + s.Name
}

// Up applies pending migrations of every source in order.
func Up(ctx context.Context, db *sql.DB, log logrus.FieldLogger, sources ...Source) error {
	for _, src := range sources {
		provider, err := newProvider(db, src)
		if err != nil {
			return err
		}
		results, err := provider.Up(ctx)
		if err != nil {
			return fmt.Errorf("migrate %s: %w", src.Name, err)
		}
		for _, r := range results {
			log.WithFields(logrus.Fields{
				"module":   src.Name,
				"version":  r.Source.Version,
				"duration": r.Duration,
			}).Info("migration applied")
		}
	}
	return nil
}

// UpPool opens a database/sql handle over pool and applies the sources.
func UpPool(ctx context.Context, pool *pgxpool.Pool, log logrus.FieldLogger, sources ...Source) error {
	db := stdlib.OpenDBFromPool(pool)
	defer func() { _ = db.Close() }()
	return Up(ctx, db, log, sources...)
}

func newProvider(db *sql.DB, src Source) (*goose.Provider, error) {
	if src.FS == nil {
		return nil, ErrInvalidSource.Withf("%s has no files", src.Name)
	}
	store, err := database.NewStore(database.DialectPostgres, src.TableName())
	if err != nil {
		return nil, err
	}
	return goose.NewProvider("", db, src.FS, goose.WithStore(store))
}
