package repository

import (
	"database/sql"

	"github.com/studiohaven/cms-api/internal/models"
)

type ProjectRepository interface {
	Create(project models.Project) (models.Project, error)
	GetByID(projectID string) (models.Project, error)
	List(page, size int) ([]models.Project, int64, error)
	ListBySlot(slot models.ProjectSlot) ([]models.Project, error)
	// CountBySlot counts slot occupants, excluding excludeID so that
	// re-assigning a project its current slot is not a conflict.
	CountBySlot(slot models.ProjectSlot, excludeID string) (int, error)
	Update(project models.Project) (models.Project, error)
	UpdateSlot(projectID string, slot models.ProjectSlot) error
	Delete(projectID string) error
}

type projectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) ProjectRepository {
	return &projectRepository{db: db}
}

const projectColumns = `id, name, category, client, department, date, link, image_url, slot, is_posted, created_at, updated_at`

func scanProject(scanner interface {
	Scan(dest ...interface{}) error
}) (models.Project, error) {
	var p models.Project
	err := scanner.Scan(
		&p.ID,
		&p.Name,
		&p.Category,
		&p.Client,
		&p.Department,
		&p.Date,
		&p.Link,
		&p.ImageURL,
		&p.Slot,
		&p.IsPosted,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func (r *projectRepository) Create(project models.Project) (models.Project, error) {
	const query = `
		INSERT INTO projects (name, category, client, department, date, link, image_url, slot, is_posted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(query,
		project.Name,
		project.Category,
		project.Client,
		project.Department,
		project.Date,
		project.Link,
		project.ImageURL,
		project.Slot,
		project.IsPosted,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return models.Project{}, err
	}
	return project, nil
}

func (r *projectRepository) GetByID(projectID string) (models.Project, error) {
	row := r.db.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE id = $1`, projectID)
	return scanProject(row)
}

func (r *projectRepository) List(page, size int) ([]models.Project, int64, error) {
	const query = `
		SELECT ` + projectColumns + `
		FROM projects
		ORDER BY created_at DESC
		LIMIT $1
		OFFSET $2`

	rows, err := r.db.Query(query, size, page*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	projects := make([]models.Project, 0, size)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM projects`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (r *projectRepository) ListBySlot(slot models.ProjectSlot) ([]models.Project, error) {
	const query = `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE slot = $1 AND is_posted = TRUE
		ORDER BY updated_at DESC`

	rows, err := r.db.Query(query, slot)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepository) CountBySlot(slot models.ProjectSlot, excludeID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM projects WHERE slot = $1 AND id::text <> $2`, slot, excludeID).Scan(&count)
	return count, err
}

func (r *projectRepository) Update(project models.Project) (models.Project, error) {
	const query = `
		UPDATE projects
		SET name = $2, category = $3, client = $4, department = $5, date = $6, link = $7, image_url = $8, is_posted = $9, updated_at = now()
		WHERE id = $1
		RETURNING slot, created_at, updated_at`

	err := r.db.QueryRow(query,
		project.ID,
		project.Name,
		project.Category,
		project.Client,
		project.Department,
		project.Date,
		project.Link,
		project.ImageURL,
		project.IsPosted,
	).Scan(&project.Slot, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return models.Project{}, err
	}
	return project, nil
}

func (r *projectRepository) UpdateSlot(projectID string, slot models.ProjectSlot) error {
	result, err := r.db.Exec(`UPDATE projects SET slot = $2, updated_at = now() WHERE id = $1`, projectID, slot)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *projectRepository) Delete(projectID string) error {
	result, err := r.db.Exec(`DELETE FROM projects WHERE id = $1`, projectID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
