package db

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// Enable foreign key constraints
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := createTables(db); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	// Cleanup on test completion
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// insertTestVacancy inserts a vacancy row and returns its id
func insertTestVacancy(t *testing.T, db *sql.DB, title, requirements, details string) int64 {
	t.Helper()

	result, err := db.Exec(
		"INSERT INTO vacancies (title, requirements, details, tasks, salary) VALUES (?, ?, ?, '', '')",
		title, requirements, details,
	)
	if err != nil {
		t.Fatalf("failed to insert test vacancy: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to get vacancy id: %v", err)
	}

	return id
}
