package repository

import (
	"database/sql"

	"github.com/studiohaven/cms-api/internal/models"
)

type NewsRepository interface {
	Create(news models.News) (models.News, error)
	GetByID(newsID string) (models.News, error)
	List(page, size int) ([]models.News, int64, error)
	Update(news models.News) (models.News, error)
	Delete(newsID string) error
}

type newsRepository struct {
	db *sql.DB
}

func NewNewsRepository(db *sql.DB) NewsRepository {
	return &newsRepository{db: db}
}

func (r *newsRepository) Create(news models.News) (models.News, error) {
	const query = `
		INSERT INTO news (title, source, url, image_url, visible)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(query, news.Title, news.Source, news.URL, news.ImageURL, news.Visible).
		Scan(&news.ID, &news.CreatedAt, &news.UpdatedAt)
	if err != nil {
		return models.News{}, err
	}
	return news, nil
}

func (r *newsRepository) GetByID(newsID string) (models.News, error) {
	const query = `
		SELECT id, title, source, url, image_url, visible, created_at, updated_at
		FROM news
		WHERE id = $1`

	var news models.News
	err := r.db.QueryRow(query, newsID).Scan(
		&news.ID,
		&news.Title,
		&news.Source,
		&news.URL,
		&news.ImageURL,
		&news.Visible,
		&news.CreatedAt,
		&news.UpdatedAt,
	)
	if err != nil {
		return models.News{}, err
	}
	return news, nil
}

func (r *newsRepository) List(page, size int) ([]models.News, int64, error) {
	const query = `
		SELECT id, title, source, url, image_url, visible, created_at, updated_at
		FROM news
		ORDER BY created_at DESC
		LIMIT $1
		OFFSET $2`

	rows, err := r.db.Query(query, size, page*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]models.News, 0, size)
	for rows.Next() {
		var news models.News
		if err := rows.Scan(
			&news.ID,
			&news.Title,
			&news.Source,
			&news.URL,
			&news.ImageURL,
			&news.Visible,
			&news.CreatedAt,
			&news.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		items = append(items, news)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM news`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *newsRepository) Update(news models.News) (models.News, error) {
	const query = `
		UPDATE news
		SET title = $2, source = $3, url = $4, image_url = $5, visible = $6, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(query, news.ID, news.Title, news.Source, news.URL, news.ImageURL, news.Visible).
		Scan(&news.CreatedAt, &news.UpdatedAt)
	if err != nil {
		return models.News{}, err
	}
	return news, nil
}

func (r *newsRepository) Delete(newsID string) error {
	result, err := r.db.Exec(`DELETE FROM news WHERE id = $1`, newsID)
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
