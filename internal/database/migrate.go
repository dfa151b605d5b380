package database

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"vidtube/internal/middleware"
)

// Migration is one versioned postgres schema change. Files are named
// NNNNNN_label.up.sql with a matching NNNNNN_label.down.sql.
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

func (m Migration) String() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}

//go:embed migrations/*.sql
var migrationFiles embed.FS

var (
	embeddedOnce       sync.Once
	embeddedMigrations []Migration
	embeddedErr        error
)

// Migrations returns the embedded migrations in version order. A malformed
// migrations directory is reported on every call.
func Migrations() ([]Migration, error) {
	embeddedOnce.Do(func() {
		dir, err := fs.Sub(migrationFiles, "migrations")
		if err != nil {
			embeddedErr = err
			return
		}
		embeddedMigrations, embeddedErr = LoadMigrations(dir)
		if embeddedErr != nil {
			middleware.Logger.Error("embedded migrations are invalid", slog.String("error", embeddedErr.Error()))
		}
	})
	return embeddedMigrations, embeddedErr
}

// FindMigration looks up an embedded migration by version.
func FindMigration(version int) (*Migration, error) {
	all, err := Migrations()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Version == version {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("migration version %d not found", version)
}

type migrationPair struct {
	m       Migration
	hasUp   bool
	hasDown bool
}

// LoadMigrations reads up/down script pairs from the root of fsys. Files
// without a .sql suffix are ignored; anything else that does not parse is an
// error.
func LoadMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	pairs := map[int]*migrationPair{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		base, up := strings.CutSuffix(name, ".up.sql")
		if !up {
			var down bool
			if base, down = strings.CutSuffix(name, ".down.sql"); !down {
				return nil, fmt.Errorf("%s: expected .up.sql or .down.sql suffix", name)
			}
		}

		version, label, err := parseMigrationName(base)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		p, ok := pairs[version]
		if !ok {
			p = &migrationPair{m: Migration{Version: version, Name: label}}
			pairs[version] = p
		} else if p.m.Name != label {
			return nil, fmt.Errorf("version %06d is used by both %q and %q", version, p.m.Name, label)
		}

		switch {
		case up && p.hasUp, !up && p.hasDown:
			return nil, fmt.Errorf("%s: duplicate script", name)
		case up:
			p.m.Up, p.hasUp = string(body), true
		default:
			p.m.Down, p.hasDown = string(body), true
		}
	}

	out := make([]Migration, 0, len(pairs))
	for _, p := range pairs {
		if !p.hasUp || !p.hasDown {
			return nil, fmt.Errorf("migration %s needs both .up.sql and .down.sql", p.m)
		}
		out = append(out, p.m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func parseMigrationName(base string) (int, string, error) {
	prefix, label, ok := strings.Cut(base, "_")
	if !ok || label == "" {
		return 0, "", fmt.Errorf("expected NNNNNN_label, got %q", base)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil || version <= 0 {
		return 0, "", fmt.Errorf("invalid migration version %q", prefix)
	}
	return version, label, nil
}
