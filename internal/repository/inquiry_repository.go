package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/studiohaven/cms-api/internal/analytics"
	"github.com/studiohaven/cms-api/internal/models"
)

// FilterAll is the sentinel that disables a dimension filter in
// period count queries.
const FilterAll = "all"

type InquiryRepository interface {
	Create(ctx context.Context, req models.Request) (models.Request, error)
	GetByID(ctx context.Context, requestID string) (models.Request, error)
	List(ctx context.Context, page, size int) ([]models.Request, int64, error)
	// AppendAnswer writes the answer and moves the request to the
	// same state in one transaction.
	AppendAnswer(ctx context.Context, requestID string, answer models.Answer) (models.Answer, error)
	CountByPeriod(ctx context.Context, category, state string, period analytics.Period) ([]analytics.MonthMetric, error)
}

type inquiryRepository struct {
	db *sql.DB
}

func NewInquiryRepository(db *sql.DB) InquiryRepository {
	return &inquiryRepository{db: db}
}

func (r *inquiryRepository) Create(ctx context.Context, req models.Request) (models.Request, error) {
	const query = `
		INSERT INTO requests
			(category, project_name, client_name, organization, contact, email, position, description, file_urls, year, month, state)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		req.Category,
		req.ProjectName,
		req.ClientName,
		req.Organization,
		req.Contact,
		req.Email,
		req.Position,
		req.Description,
		pq.Array(req.FileURLs),
		req.Year,
		req.Month,
		req.State,
	).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return models.Request{}, errors.Wrap(err, "insert request")
	}
	return req, nil
}

func (r *inquiryRepository) GetByID(ctx context.Context, requestID string) (models.Request, error) {
	const query = `
		SELECT id, category, project_name, client_name, organization, contact, email, position, description, file_urls, year, month, state, created_at
		FROM requests
		WHERE id = $1`

	var req models.Request
	var fileURLs pq.StringArray
	err := r.db.QueryRowContext(ctx, query, requestID).Scan(
		&req.ID,
		&req.Category,
		&req.ProjectName,
		&req.ClientName,
		&req.Organization,
		&req.Contact,
		&req.Email,
		&req.Position,
		&req.Description,
		&fileURLs,
		&req.Year,
		&req.Month,
		&req.State,
		&req.CreatedAt,
	)
	if err != nil {
		return models.Request{}, err
	}
	req.FileURLs = fileURLs

	answers, err := r.listAnswers(ctx, requestID)
	if err != nil {
		return models.Request{}, err
	}
	req.Answers = answers
	return req, nil
}

func (r *inquiryRepository) listAnswers(ctx context.Context, requestID string) ([]models.Answer, error) {
	const query = `
		SELECT id, request_id, text, state, created_at
		FROM answers
		WHERE request_id = $1
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []models.Answer
	for rows.Next() {
		var a models.Answer
		if err := rows.Scan(&a.ID, &a.RequestID, &a.Text, &a.State, &a.CreatedAt); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *inquiryRepository) List(ctx context.Context, page, size int) ([]models.Request, int64, error) {
	const query = `
		SELECT id, category, project_name, client_name, organization, contact, email, position, description, file_urls, year, month, state, created_at
		FROM requests
		ORDER BY created_at DESC
		LIMIT $1
		OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, size, page*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests := make([]models.Request, 0, size)
	for rows.Next() {
		var req models.Request
		var fileURLs pq.StringArray
		if err := rows.Scan(
			&req.ID,
			&req.Category,
			&req.ProjectName,
			&req.ClientName,
			&req.Organization,
			&req.Contact,
			&req.Email,
			&req.Position,
			&req.Description,
			&fileURLs,
			&req.Year,
			&req.Month,
			&req.State,
			&req.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		req.FileURLs = fileURLs
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM requests`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (r *inquiryRepository) AppendAnswer(ctx context.Context, requestID string, answer models.Answer) (models.Answer, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Answer{}, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	const insertAnswer = `
		INSERT INTO answers (request_id, text, state)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	answer.RequestID = requestID
	if err := tx.QueryRowContext(ctx, insertAnswer, requestID, answer.Text, answer.State).
		Scan(&answer.ID, &answer.CreatedAt); err != nil {
		return models.Answer{}, errors.Wrap(err, "insert answer")
	}

	const updateState = `
		UPDATE requests
		SET state = $2
		WHERE id = $1`
	if _, err := tx.ExecContext(ctx, updateState, requestID, answer.State); err != nil {
		return models.Answer{}, errors.Wrap(err, "update request state")
	}

	if err := tx.Commit(); err != nil {
		return models.Answer{}, errors.Wrap(err, "commit")
	}
	return answer, nil
}

func (r *inquiryRepository) CountByPeriod(ctx context.Context, category, state string, period analytics.Period) ([]analytics.MonthMetric, error) {
	const query = `
		SELECT year, month, COUNT(*)
		FROM requests
		WHERE (year * 12 + month - 1) BETWEEN ($1 * 12 + $2 - 1) AND ($3 * 12 + $4 - 1)
		  AND ($5 = 'all' OR category = $5)
		  AND ($6 = 'all' OR state = $6)
		GROUP BY year, month
		ORDER BY year, month`

	rows, err := r.db.QueryContext(ctx, query,
		period.StartYear, period.StartMonth,
		period.EndYear, period.EndMonth,
		category, state,
	)
	if err != nil {
		return nil, errors.Wrap(err, "count requests by period")
	}
	defer rows.Close()

	var metrics []analytics.MonthMetric
	for rows.Next() {
		var m analytics.MonthMetric
		if err := rows.Scan(&m.Year, &m.Month, &m.Value); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return metrics, nil
}
