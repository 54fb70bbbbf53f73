package migrate

import (
	"context"
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/example/meal-reservations/internal/db"
)

//go:embed postgres/*.sql sqlite/*.sql
var fs embed.FS

// Dialect selects the migration directory and placeholder style.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// Conn is satisfied by *db.DB and *sqlite.DB.
type Conn interface {
	Exec(ctx context.Context, sql string, args ...any) error
	QueryRow(ctx context.Context, sql string, args ...any) db.Row
}

func (d Dialect) placeholder() string {
	if d == SQLite {
		return "?"
	}
	return "$1"
}

func Up(ctx context.Context, c Conn, dialect Dialect) error {
	dir := string(dialect)
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("migrations for %q: %w", dialect, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	// schema_migrations table
	if err := c.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY);`); err != nil {
		return err
	}

	ph := dialect.placeholder()
	for _, f := range files {
		var applied bool
		if err := c.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version=`+ph+`)`, f).Scan(&applied); err != nil {
			return err
		}
		if applied {
			continue
		}

		b, err := fs.ReadFile(path.Join(dir, f))
		if err != nil {
			return err
		}

		if err := c.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if err := c.Exec(ctx, `INSERT INTO schema_migrations(version) VALUES (`+ph+`)`, f); err != nil {
			return err
		}
	}

	return nil
}
