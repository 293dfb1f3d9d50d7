package db

import (
	"database/sql"
	"fmt"

	"github.com/bazarbekovic131/wahr-chatbot/internal/models"
)

// VacancyPageSize is the interactive list page size
const VacancyPageSize = 10

// VacancyRepository defines the read-only interface to the vacancy catalog.
// Every call re-queries the store; no caching at this scale.
type VacancyRepository interface {
	List() ([]*models.Vacancy, error)
	ListPage(page int) ([]*models.Vacancy, error)
	ListFull() ([]*models.Vacancy, error)
	GetByID(id int64) (*models.Vacancy, error)
}

// vacancyRepository implements VacancyRepository interface
type vacancyRepository struct {
	db *sql.DB
}

// NewVacancyRepository creates a new VacancyRepository
func NewVacancyRepository(db *sql.DB) VacancyRepository {
	return &vacancyRepository{db: db}
}

// List returns id and title for every vacancy, in listing order
func (r *vacancyRepository) List() ([]*models.Vacancy, error) {
	rows, err := r.db.Query("SELECT id, title FROM vacancies ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list vacancies: %w", err)
	}
	defer rows.Close()

	var vacancies []*models.Vacancy
	for rows.Next() {
		v := &models.Vacancy{}
		if err := rows.Scan(&v.ID, &v.Title); err != nil {
			return nil, fmt.Errorf("failed to scan vacancy: %w", err)
		}
		vacancies = append(vacancies, v)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vacancies: %w", err)
	}

	return vacancies, nil
}

// ListPage returns one page of vacancies for interactive list rendering.
// Pages are 0-based.
func (r *vacancyRepository) ListPage(page int) ([]*models.Vacancy, error) {
	if page < 0 {
		return nil, fmt.Errorf("page cannot be negative")
	}

	rows, err := r.db.Query(
		"SELECT id, title FROM vacancies ORDER BY id LIMIT ? OFFSET ?",
		VacancyPageSize, page*VacancyPageSize,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list vacancy page: %w", err)
	}
	defer rows.Close()

	var vacancies []*models.Vacancy
	for rows.Next() {
		v := &models.Vacancy{}
		if err := rows.Scan(&v.ID, &v.Title); err != nil {
			return nil, fmt.Errorf("failed to scan vacancy: %w", err)
		}
		vacancies = append(vacancies, v)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vacancies: %w", err)
	}

	return vacancies, nil
}

// ListFull returns every vacancy with all columns, for the operator endpoint
func (r *vacancyRepository) ListFull() ([]*models.Vacancy, error) {
	rows, err := r.db.Query(
		"SELECT id, title, requirements, details, tasks, salary FROM vacancies ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list vacancies: %w", err)
	}
	defer rows.Close()

	var vacancies []*models.Vacancy
	for rows.Next() {
		v, err := scanVacancy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vacancy: %w", err)
		}
		vacancies = append(vacancies, v)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vacancies: %w", err)
	}

	return vacancies, nil
}

// GetByID retrieves the full vacancy detail, or nil when the id is unknown
func (r *vacancyRepository) GetByID(id int64) (*models.Vacancy, error) {
	if id <= 0 {
		return nil, fmt.Errorf("vacancy id must be positive")
	}

	row := r.db.QueryRow(
		"SELECT id, title, requirements, details, tasks, salary FROM vacancies WHERE id = ?",
		id,
	)

	v, err := scanVacancy(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vacancy by ID: %w", err)
	}

	return v, nil
}

func scanVacancy(row rowScanner) (*models.Vacancy, error) {
	v := &models.Vacancy{}
	var requirements, details, tasks, salary sql.NullString
	if err := row.Scan(&v.ID, &v.Title, &requirements, &details, &tasks, &salary); err != nil {
		return nil, err
	}
	v.Requirements = requirements.String
	v.Details = details.String
	v.Tasks = tasks.String
	v.Salary = salary.String
	return v, nil
}
