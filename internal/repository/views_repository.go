package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/studiohaven/cms-api/internal/analytics"
	"github.com/studiohaven/cms-api/internal/models"
)

type ViewsRepository interface {
	Create(ctx context.Context, views models.Views) (models.Views, error)
	// ExistsForPeriod checks for any row in (year, month), ignoring
	// menu and category. Creation rejects duplicates on this key.
	ExistsForPeriod(ctx context.Context, year, month int) (bool, error)
	// Increment bumps the counter for the current (year, month, menu,
	// category) cell, creating the row on first hit.
	Increment(ctx context.Context, year, month int, menu models.Menu, category models.Category) error
	SumByPeriod(ctx context.Context, menu models.Menu, category models.Category, period analytics.Period) ([]analytics.MonthMetric, error)
}

type viewsRepository struct {
	db *sql.DB
}

func NewViewsRepository(db *sql.DB) ViewsRepository {
	return &viewsRepository{db: db}
}

func (r *viewsRepository) Create(ctx context.Context, views models.Views) (models.Views, error) {
	const query = `
		INSERT INTO views (year, month, views, menu, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, views.Year, views.Month, views.Views, views.Menu, views.Category).
		Scan(&views.ID, &views.CreatedAt)
	if err != nil {
		return models.Views{}, errors.Wrap(err, "insert views")
	}
	return views, nil
}

func (r *viewsRepository) ExistsForPeriod(ctx context.Context, year, month int) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM views WHERE year = $1 AND month = $2
		)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, year, month).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *viewsRepository) Increment(ctx context.Context, year, month int, menu models.Menu, category models.Category) error {
	// The (year, month, menu, category) key is conventional, not a DB
	// constraint, so this is update-then-insert rather than an upsert.
	const update = `
		UPDATE views
		SET views = views + 1
		WHERE year = $1 AND month = $2 AND menu = $3 AND category = $4`

	result, err := r.db.ExecContext(ctx, update, year, month, menu, category)
	if err != nil {
		return errors.Wrap(err, "increment views")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	const insert = `
		INSERT INTO views (year, month, views, menu, category)
		VALUES ($1, $2, 1, $3, $4)`
	_, err = r.db.ExecContext(ctx, insert, year, month, menu, category)
	return errors.Wrap(err, "insert first view")
}

func (r *viewsRepository) SumByPeriod(ctx context.Context, menu models.Menu, category models.Category, period analytics.Period) ([]analytics.MonthMetric, error) {
	const query = `
		SELECT year, month, COALESCE(SUM(views), 0)
		FROM views
		WHERE (year * 12 + month - 1) BETWEEN ($1 * 12 + $2 - 1) AND ($3 * 12 + $4 - 1)
		  AND ($5 = 'ALL' OR menu = $5)
		  AND ($6 = 'ALL' OR category = $6)
		GROUP BY year, month
		ORDER BY year, month`

	rows, err := r.db.QueryContext(ctx, query,
		period.StartYear, period.StartMonth,
		period.EndYear, period.EndMonth,
		menu, category,
	)
	if err != nil {
		return nil, errors.Wrap(err, "sum views by period")
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
