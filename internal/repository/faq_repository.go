package repository

import (
	"database/sql"

	"github.com/studiohaven/cms-api/internal/models"
)

type FAQRepository interface {
	Create(faq models.FAQ) (models.FAQ, error)
	List() ([]models.FAQ, error)
	Update(faq models.FAQ) (models.FAQ, error)
	Delete(faqID string) error
}

type faqRepository struct {
	db *sql.DB
}

func NewFAQRepository(db *sql.DB) FAQRepository {
	return &faqRepository{db: db}
}

func (r *faqRepository) Create(faq models.FAQ) (models.FAQ, error) {
	const query = `
		INSERT INTO faqs (question, answer, visible)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(query, faq.Question, faq.Answer, faq.Visible).
		Scan(&faq.ID, &faq.CreatedAt, &faq.UpdatedAt)
	if err != nil {
		return models.FAQ{}, err
	}
	return faq, nil
}

func (r *faqRepository) List() ([]models.FAQ, error) {
	const query = `
		SELECT id, question, answer, visible, created_at, updated_at
		FROM faqs
		ORDER BY created_at`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	faqs := []models.FAQ{}
	for rows.Next() {
		var faq models.FAQ
		if err := rows.Scan(&faq.ID, &faq.Question, &faq.Answer, &faq.Visible, &faq.CreatedAt, &faq.UpdatedAt); err != nil {
			return nil, err
		}
		faqs = append(faqs, faq)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return faqs, nil
}

func (r *faqRepository) Update(faq models.FAQ) (models.FAQ, error) {
	const query = `
		UPDATE faqs
		SET question = $2, answer = $3, visible = $4, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(query, faq.ID, faq.Question, faq.Answer, faq.Visible).
		Scan(&faq.CreatedAt, &faq.UpdatedAt)
	if err != nil {
		return models.FAQ{}, err
	}
	return faq, nil
}

func (r *faqRepository) Delete(faqID string) error {
	result, err := r.db.Exec(`DELETE FROM faqs WHERE id = $1`, faqID)
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
