// Package views tracks per-month page view counters and serves the
// dashboard summary.
package views

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/studiohaven/cms-api/internal/analytics"
	"github.com/studiohaven/cms-api/internal/errs"
	"github.com/studiohaven/cms-api/internal/models"
	"github.com/studiohaven/cms-api/internal/repository"
)

type Service interface {
	// Create seeds a counter row. A row already existing for
	// (year, month) rejects the create, regardless of menu and
	// category; that is the legacy duplicate rule.
	Create(ctx context.Context, views models.Views) (models.Views, error)
	// Increment bumps the current month's counter for a cell.
	Increment(ctx context.Context, menu models.Menu, category models.Category) error
	Summary(ctx context.Context, menu models.Menu, category models.Category, period analytics.Period) ([]analytics.MonthMetric, error)
}

type service struct {
	repo   repository.ViewsRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo repository.ViewsRepository, logger zerolog.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.With().Str("component", "views_service").Logger(),
		now:    time.Now,
	}
}

func checkDimensions(menu models.Menu, category models.Category) error {
	if !models.IsValidMenu(menu) || !models.IsValidCategory(category) {
		return errs.New(errs.KindValidation, "unknown menu or category")
	}
	// Only the artwork menu is subdivided by category.
	if menu != models.MenuArtwork && category != models.CategoryAll {
		return analytics.ErrInvalidCategory
	}
	return nil
}

func (s *service) Create(ctx context.Context, views models.Views) (models.Views, error) {
	if views.Month < 1 || views.Month > 12 {
		return models.Views{}, analytics.ErrInvalidMonth
	}
	if err := checkDimensions(views.Menu, views.Category); err != nil {
		return models.Views{}, err
	}
	if views.Views < 0 {
		return models.Views{}, errs.New(errs.KindValidation, "views count cannot be negative")
	}

	exists, err := s.repo.ExistsForPeriod(ctx, views.Year, views.Month)
	if err != nil {
		return models.Views{}, err
	}
	if exists {
		return models.Views{}, errs.Newf(errs.KindConflict, "views for %d-%02d already exist", views.Year, views.Month)
	}

	return s.repo.Create(ctx, views)
}

func (s *service) Increment(ctx context.Context, menu models.Menu, category models.Category) error {
	if err := checkDimensions(menu, category); err != nil {
		return err
	}

	now := s.now()
	return s.repo.Increment(ctx, now.Year(), int(now.Month()), menu, category)
}

func (s *service) Summary(ctx context.Context, menu models.Menu, category models.Category, period analytics.Period) ([]analytics.MonthMetric, error) {
	// Validation order matters: months, then the dimension rule,
	// then period bounds.
	if err := period.CheckMonths(); err != nil {
		return nil, err
	}
	if err := checkDimensions(menu, category); err != nil {
		return nil, err
	}
	if err := period.CheckBounds(); err != nil {
		return nil, err
	}

	rows, err := s.repo.SumByPeriod(ctx, menu, category, period)
	if err != nil {
		return nil, err
	}
	return analytics.Fill(period, rows), nil
}
