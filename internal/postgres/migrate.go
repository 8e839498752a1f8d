package postgres

import (
	"context"
	"embed"
	"io"
	"io/fs"
	"sort"

	ierr "github.com/flexprice/billingrecon/internal/errors"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migration is one schema file applied in name order
type Migration struct {
	Name string
	SQL  string
}

// Migrations returns the embedded schema files sorted by name
func Migrations() ([]Migration, error) {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	result := make([]Migration, 0, len(names))
	for _, name := range names {
		body, err := migrations.ReadFile(name)
		if err != nil {
			return nil, err
		}
		result = append(result, Migration{Name: name, SQL: string(body)})
	}
	return result, nil
}

// Migrate applies every migration in a single transaction. The statements are
// idempotent so rerunning against an existing schema is a no-op.
func (db *DB) Migrate(ctx context.Context) error {
	list, err := Migrations()
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to load migrations").
			Mark(ierr.ErrSystem)
	}

	return db.WithTx(ctx, func(ctx context.Context) error {
		for _, m := range list {
			db.logger.Infow("applying migration", "name", m.Name)
			if _, err := db.GetQuerier(ctx).ExecContext(ctx, m.SQL); err != nil {
				return ierr.WithError(err).
					WithHintf("Failed to apply migration %s", m.Name).
					Mark(ierr.ErrDatabase)
			}
		}
		return nil
	})
}

// WriteMigrations prints the schema instead of applying it
func WriteMigrations(w io.Writer) error {
	list, err := Migrations()
	if err != nil {
		return err
	}
	for _, m := range list {
		if _, err := io.WriteString(w, "-- "+m.Name+"\n"+m.SQL+"\n"); err != nil {
			return err
		}
	}
	return nil
}
