package db

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Database owns the shared SQLite handle
type Database struct {
	db *sql.DB
}

// NewDatabase opens the database, verifies connectivity and creates tables.
// A connection failure is fatal here rather than discovered on first use.
func NewDatabase(dsn string) (*Database, error) {
	if dsn == "" {
		return nil, errors.New("database DSN is required")
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	// Verify we can actually connect to the database
	if err := db.Ping(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("ping failed: %w, close failed: %v", err, closeErr)
		}
		return nil, err
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("enable foreign keys failed: %w, close failed: %v", err, closeErr)
		}
		return nil, err
	}

	// Try to create tables - if this fails, the database is not usable
	if err := createTables(db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("create tables failed: %w, close failed: %v", err, closeErr)
		}
		return nil, err
	}

	return &Database{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS contacts (
			phone TEXT PRIMARY KEY,
			name TEXT,
			survey_phase TEXT NOT NULL DEFAULT 'idle',
			survey_step INTEGER NOT NULL DEFAULT 0,
			completed_survey BOOLEAN NOT NULL DEFAULT 0,
			wants_notifications BOOLEAN NOT NULL DEFAULT 1,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS survey_responses (
			phone TEXT PRIMARY KEY,
			full_name TEXT,
			age_group TEXT,
			email TEXT,
			desired_vacancy TEXT,
			resume_id TEXT,
			sent BOOLEAN NOT NULL DEFAULT 0,
			updated_at INTEGER NOT NULL,
			FOREIGN KEY (phone) REFERENCES contacts(phone)
		);

		CREATE TABLE IF NOT EXISTS vacancies (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			requirements TEXT,
			details TEXT,
			tasks TEXT,
			salary TEXT
		);

		CREATE TABLE IF NOT EXISTS resumes (
			id TEXT PRIMARY KEY,
			phone TEXT NOT NULL,
			filename TEXT NOT NULL,
			mime_type TEXT,
			data BLOB NOT NULL,
			received_at INTEGER NOT NULL,
			FOREIGN KEY (phone) REFERENCES contacts(phone)
		);

		CREATE INDEX IF NOT EXISTS idx_resumes_phone ON resumes(phone);
		CREATE INDEX IF NOT EXISTS idx_survey_responses_sent ON survey_responses(sent);
	`)
	return err
}

// SeedDatabase inserts a starter vacancy catalog when the table is empty
func (d *Database) SeedDatabase() error {
	if d == nil || d.db == nil {
		return errors.New("database is not open")
	}

	var count int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM vacancies").Scan(&count); err != nil {
		return fmt.Errorf("failed to count vacancies: %w", err)
	}
	if count > 0 {
		return nil
	}

	seed := []struct {
		title, requirements, details, tasks, salary string
	}{
		{
			title:        "Оператор крана",
			requirements: "Опыт работы от 1 года, удостоверение крановщика.",
			details:      "Полный рабочий день, сменный график.",
			tasks:        "Управление башенным краном на производственной площадке.",
			salary:       "от 250 000 тг",
		},
		{
			title:        "Сварщик",
			requirements: "Разряд не ниже 4-го, опыт от 2 лет.",
			details:      "Работа в цехе, спецодежда предоставляется.",
			tasks:        "Сварочные работы по чертежам.",
			salary:       "от 300 000 тг",
		},
		{
			title:        "Разнорабочий",
			requirements: "Без опыта, ответственность.",
			details:      "Вахтовый метод, проживание предоставляется.",
			tasks:        "Подсобные работы на производстве.",
			salary:       "",
		},
	}

	for _, v := range seed {
		_, err := d.db.Exec(
			"INSERT INTO vacancies (title, requirements, details, tasks, salary) VALUES (?, ?, ?, ?, ?)",
			v.title, v.requirements, v.details, v.tasks, v.salary,
		)
		if err != nil {
			return fmt.Errorf("failed to seed vacancy %q: %w", v.title, err)
		}
	}

	return nil
}

// GetDB exposes the underlying handle for repository construction
func (d *Database) GetDB() *sql.DB {
	return d.db
}

func (d *Database) Close() error {
	if d == nil {
		return errors.New("database is nil")
	}

	if d.db == nil {
		return errors.New("database already closed")
	}

	err := d.db.Close()
	d.db = nil
	return err
}
