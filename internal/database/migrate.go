package database

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

// Migration is one versioned pair of SQL scripts.
type Migration struct {
	Version    int
	Name       string
	UpScript   string
	DownScript string
}

//go:embed migrations/*.sql
var migrationFS embed.FS

var migrations []Migration

func init() {
	loaded, err := LoadMigrations(migrationFS, "migrations")
	if err != nil {
		panic(fmt.Sprintf("embedded migrations are invalid: %v", err))
	}
	migrations = loaded
}

// LoadMigrations reads NNNNNN_name.up.sql / NNNNNN_name.down.sql pairs from dir.
// Every up script needs a matching down script.
func LoadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var loaded []Migration
	seen := make(map[int]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}

		base := strings.TrimSuffix(name, ".up.sql")
		versionPart, label, ok := strings.Cut(base, "_")
		if !ok {
			return nil, fmt.Errorf("migration %s: expected <version>_<name>.up.sql", name)
		}
		version, err := strconv.Atoi(versionPart)
		if err != nil || version <= 0 {
			return nil, fmt.Errorf("migration %s: invalid version %q", name, versionPart)
		}
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("migration version %d used by both %s and %s", version, prev, name)
		}
		seen[version] = name

		up, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read up migration %s: %w", name, err)
		}
		down, err := fs.ReadFile(fsys, path.Join(dir, base+".down.sql"))
		if err != nil {
			return nil, fmt.Errorf("failed to read down migration for %s: %w", name, err)
		}

		loaded = append(loaded, Migration{
			Version:    version,
			Name:       label,
			UpScript:   string(up),
			DownScript: string(down),
		})
	}

	sort.Slice(loaded, func(i, j int) bool {
		return loaded[i].Version < loaded[j].Version
	})
	return loaded, nil
}

func GetMigrations() []Migration {
	return migrations
}

func GetMigrationByVersion(version int) *Migration {
	for i := range migrations {
		if migrations[i].Version == version {
			return &migrations[i]
		}
	}
	return nil
}

// pendingMigrations returns registered migrations whose version is not in applied.
func pendingMigrations(applied []int, registered []Migration) []Migration {
	done := make(map[int]struct{}, len(applied))
	for _, v := range applied {
		done[v] = struct{}{}
	}
	var pending []Migration
	for _, m := range registered {
		if _, ok := done[m.Version]; !ok {
			pending = append(pending, m)
		}
	}
	return pending
}

func (m *Migration) String() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}
