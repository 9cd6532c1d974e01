package db

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func TestMigrateUpDown(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	migrations := MigrationsFS()

	version, dirty, err := db.MigrateVersion(migrations)
	if err != nil || version != 0 || dirty {
		t.Fatalf("fresh database: version=%d dirty=%v err=%v", version, dirty, err)
	}

	if err := db.MigrateUp(migrations); err != nil {
		t.Fatal(err)
	}
	// a second run is a no-op
	if err := db.MigrateUp(migrations); err != nil {
		t.Fatal(err)
	}

	status, err := db.GetMigrationStatus(migrations)
	if err != nil {
		t.Fatal(err)
	}
	if status.Version != 1 || status.Latest != 1 || status.Dirty || status.Pending() {
		t.Errorf("status after up = %+v", status)
	}

	if err := db.MigrateDown(migrations); err != nil {
		t.Fatal(err)
	}
	var n int
	db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE name='scan_builds'`).Scan(&n)
	if n != 0 {
		t.Error("scan_builds should be dropped after down")
	}
}

func TestMigrateWithCustomFS(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "custom.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	migrations := fstest.MapFS{
		"000001_init.up.sql":   &fstest.MapFile{Data: []byte("CREATE TABLE t1 (id INTEGER PRIMARY KEY);")},
		"000001_init.down.sql": &fstest.MapFile{Data: []byte("DROP TABLE t1;")},
		"000002_more.up.sql":   &fstest.MapFile{Data: []byte("CREATE TABLE t2 (id INTEGER PRIMARY KEY);")},
		"000002_more.down.sql": &fstest.MapFile{Data: []byte("DROP TABLE t2;")},
		"README.md":            &fstest.MapFile{Data: []byte("not a migration")},
	}

	latest, err := GetLatestMigrationVersion(migrations)
	if err != nil || latest != 2 {
		t.Fatalf("latest = %d, %v", latest, err)
	}

	if err := db.MigrateTo(migrations, 1); err != nil {
		t.Fatal(err)
	}
	status, err := db.GetMigrationStatus(migrations)
	if err != nil {
		t.Fatal(err)
	}
	if !status.Pending() {
		t.Errorf("expected pending migrations at %+v", status)
	}

	if err := db.MigrateForce(migrations, 2); err != nil {
		t.Fatal(err)
	}
	version, _, err := db.MigrateVersion(migrations)
	if err != nil || version != 2 {
		t.Errorf("version after force = %d, %v", version, err)
	}
}

func TestGetLatestMigrationVersionEmpty(t *testing.T) {
	if _, err := GetLatestMigrationVersion(fstest.MapFS{}); err == nil {
		t.Error("expected error for empty migrations")
	}
}

func TestGetMigrationsFS(t *testing.T) {
	orig := DevMode
	defer func() { DevMode = orig }()

	DevMode = false
	fsys, err := getMigrationsFS()
	if err != nil {
		t.Fatal(err)
	}
	latest, err := GetLatestMigrationVersion(fsys)
	if err != nil || latest != 1 {
		t.Errorf("embedded latest = %d, %v", latest, err)
	}

	DevMode = true
	if fsys, err = getMigrationsFS(); err != nil || fsys == nil {
		t.Errorf("dev mode: %v", err)
	}
}

func TestRunMigrateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.db")

	var out bytes.Buffer
	if err := RunMigrateCommand(&out, []string{"status"}, path); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Current version: 0 (latest 1)") || !strings.Contains(out.String(), "Pending migrations") {
		t.Errorf("status output = %q", out.String())
	}

	out.Reset()
	if err := RunMigrateCommand(&out, []string{"up"}, path); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Current version: 1 (latest 1)") {
		t.Errorf("up output = %q", out.String())
	}

	out.Reset()
	if err := RunMigrateCommand(&out, []string{"down"}, path); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Current version: 0") {
		t.Errorf("down output = %q", out.String())
	}

	for _, args := range [][]string{nil, {"sideways"}, {"force"}, {"version", "x"}} {
		out.Reset()
		if err := RunMigrateCommand(&out, args, path); err == nil {
			t.Errorf("RunMigrateCommand(%v): expected error", args)
		}
	}

	out.Reset()
	if err := RunMigrateCommand(&out, []string{"help"}, path); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Usage: soundcath migrate") {
		t.Errorf("help output = %q", out.String())
	}
}
