// Package inquiry implements the contact-request workflow: intake
// with attachments, the answer trail, and period counts.
package inquiry

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/studiohaven/cms-api/internal/analytics"
	"github.com/studiohaven/cms-api/internal/errs"
	"github.com/studiohaven/cms-api/internal/models"
	"github.com/studiohaven/cms-api/internal/repository"
	"github.com/studiohaven/cms-api/internal/storage"
)

// Dispatcher triggers notification fan-out for a newly created
// request. The temporal-backed implementation retries on its own;
// a start failure here is logged, not rolled back.
type Dispatcher interface {
	DispatchInquiry(ctx context.Context, requestID string) error
}

type CreateInput struct {
	Category     string `json:"category" validate:"required"`
	ProjectName  string `json:"project_name"`
	ClientName   string `json:"client_name" validate:"required"`
	Organization string `json:"organization"`
	Contact      string `json:"contact"`
	Email        string `json:"email" validate:"required,email"`
	Position     string `json:"position"`
	Description  string `json:"description"`
}

type Attachment struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Mailer mirrors notification.Mailer; declared here so the workflow
// only depends on what it calls.
type Mailer interface {
	Send(to, subject, body string) (bool, error)
}

type Service interface {
	Create(ctx context.Context, input CreateInput, attachments []Attachment) (models.Request, error)
	Get(ctx context.Context, requestID string) (models.Request, error)
	List(ctx context.Context, page, size int) ([]models.Request, int64, error)
	RecordAnswer(ctx context.Context, requestID, text string, state models.RequestState) (models.Answer, error)
	CountByPeriod(ctx context.Context, category, state string, period analytics.Period) ([]analytics.MonthMetric, error)
}

type service struct {
	repo       repository.InquiryRepository
	blobs      storage.BlobStore
	mailer     Mailer
	dispatcher Dispatcher
	validate   *validator.Validate
	logger     zerolog.Logger
	now        func() time.Time
}

func NewService(repo repository.InquiryRepository, blobs storage.BlobStore, mailer Mailer, dispatcher Dispatcher, logger zerolog.Logger) Service {
	return &service{
		repo:       repo,
		blobs:      blobs,
		mailer:     mailer,
		dispatcher: dispatcher,
		validate:   validator.New(),
		logger:     logger.With().Str("component", "inquiry_service").Logger(),
		now:        time.Now,
	}
}

func (s *service) Create(ctx context.Context, input CreateInput, attachments []Attachment) (models.Request, error) {
	// Validation runs before any upload or persistence; a bad email
	// must not leave objects in the store.
	if err := s.validate.Struct(input); err != nil {
		return models.Request{}, errs.Wrap(errs.KindValidation, err, "invalid inquiry")
	}

	fileURLs := make([]string, 0, len(attachments))
	for _, att := range attachments {
		url, err := s.blobs.Upload(ctx, att.Filename, att.Reader, att.Size, att.ContentType)
		if err != nil {
			// Earlier uploads are not cleaned up here; the store is
			// swept separately.
			return models.Request{}, err
		}
		fileURLs = append(fileURLs, url)
	}

	now := s.now()
	req := models.Request{
		Category:     input.Category,
		ProjectName:  input.ProjectName,
		ClientName:   input.ClientName,
		Organization: input.Organization,
		Contact:      input.Contact,
		Email:        input.Email,
		Position:     input.Position,
		Description:  input.Description,
		FileURLs:     fileURLs,
		Year:         now.Year(),
		Month:        int(now.Month()),
		State:        models.StateWaiting,
	}

	created, err := s.repo.Create(ctx, req)
	if err != nil {
		return models.Request{}, err
	}

	sent, err := s.mailer.Send(created.Email, confirmationSubject, confirmationBody(created))
	if err != nil {
		return models.Request{}, errs.Wrap(errs.KindDelivery, err, "failed to send confirmation email")
	}
	if !sent {
		return models.Request{}, errs.New(errs.KindValidation, "confirmation email exceeds the size limit")
	}

	if err := s.dispatcher.DispatchInquiry(ctx, created.ID); err != nil {
		s.logger.Warn().Err(err).Str("request_id", created.ID).Msg("failed to start notification dispatch")
	}

	s.logger.Info().Str("request_id", created.ID).Str("category", created.Category).Msg("inquiry created")
	return created, nil
}

func (s *service) Get(ctx context.Context, requestID string) (models.Request, error) {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Request{}, errs.Newf(errs.KindNotFound, "request %s not found", requestID)
		}
		return models.Request{}, err
	}
	return req, nil
}

func (s *service) List(ctx context.Context, page, size int) ([]models.Request, int64, error) {
	return s.repo.List(ctx, page, size)
}

func (s *service) RecordAnswer(ctx context.Context, requestID, text string, state models.RequestState) (models.Answer, error) {
	if strings.TrimSpace(text) == "" || !state.IsAnswerable() {
		return models.Answer{}, errs.New(errs.KindValidation, "answer text and a non-waiting state are required")
	}

	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Answer{}, errs.Newf(errs.KindNotFound, "request %s not found", requestID)
		}
		return models.Answer{}, err
	}

	answer, err := s.repo.AppendAnswer(ctx, req.ID, models.Answer{Text: text, State: state})
	if err != nil {
		return models.Answer{}, err
	}

	if _, err := s.mailer.Send(req.Email, answerSubject(state), answerBody(req, answer)); err != nil {
		s.logger.Warn().Err(err).Str("request_id", req.ID).Msg("failed to email answer to requester")
	}

	return answer, nil
}

func (s *service) CountByPeriod(ctx context.Context, category, state string, period analytics.Period) ([]analytics.MonthMetric, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	category = normalizeFilter(category)
	state = normalizeFilter(state)

	rows, err := s.repo.CountByPeriod(ctx, category, state, period)
	if err != nil {
		return nil, err
	}
	return analytics.Fill(period, rows), nil
}

func normalizeFilter(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, repository.FilterAll) {
		return repository.FilterAll
	}
	return value
}

const confirmationSubject = "We received your inquiry"

func confirmationBody(req models.Request) string {
	b := strings.Builder{}
	b.WriteString(fmt.Sprintf("Hello %s,\n\n", req.ClientName))
	b.WriteString("Thank you for reaching out. Your inquiry has been received and our team will get back to you shortly.\n\n")
	b.WriteString(fmt.Sprintf("Category: %s\n", req.Category))
	if req.ProjectName != "" {
		b.WriteString(fmt.Sprintf("Project: %s\n", req.ProjectName))
	}
	b.WriteString(fmt.Sprintf("Submitted: %s\n", req.CreatedAt.Format("2006-01-02 15:04")))
	return b.String()
}

func answerSubject(state models.RequestState) string {
	return fmt.Sprintf("Your inquiry has been updated: %s", state)
}

func answerBody(req models.Request, answer models.Answer) string {
	b := strings.Builder{}
	b.WriteString(fmt.Sprintf("Hello %s,\n\n", req.ClientName))
	b.WriteString("There is an update on your inquiry:\n\n")
	b.WriteString(answer.Text)
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Status: %s\n", answer.State))
	return b.String()
}
