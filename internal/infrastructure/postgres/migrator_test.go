package postgres

import "testing"

func TestRunMigrationsMissingSource(t *testing.T) {
	if err := RunMigrations("postgres://u:p@127.0.0.1:1/db?sslmode=disable", "/nonexistent/migrations"); err == nil {
		t.Fatalf("expected error for missing migrations directory")
	}
}

func TestRunMigrationsDownMissingSource(t *testing.T) {
	if err := RunMigrationsDown("postgres://u:p@127.0.0.1:1/db?sslmode=disable", "/nonexistent/migrations"); err == nil {
		t.Fatalf("expected error for missing migrations directory")
	}
}
