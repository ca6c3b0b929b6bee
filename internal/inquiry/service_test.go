package inquiry

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studiohaven/cms-api/internal/analytics"
	"github.com/studiohaven/cms-api/internal/errs"
	"github.com/studiohaven/cms-api/internal/models"
)

type fakeInquiryRepo struct {
	requests map[string]models.Request
	rows     []analytics.MonthMetric
	nextID   int
}

func newFakeInquiryRepo() *fakeInquiryRepo {
	return &fakeInquiryRepo{requests: make(map[string]models.Request)}
}

func (f *fakeInquiryRepo) Create(_ context.Context, req models.Request) (models.Request, error) {
	f.nextID++
	req.ID = fmt.Sprintf("req-%d", f.nextID)
	req.CreatedAt = time.Now()
	f.requests[req.ID] = req
	return req, nil
}

func (f *fakeInquiryRepo) GetByID(_ context.Context, requestID string) (models.Request, error) {
	req, ok := f.requests[requestID]
	if !ok {
		return models.Request{}, sql.ErrNoRows
	}
	return req, nil
}

func (f *fakeInquiryRepo) List(_ context.Context, page, size int) ([]models.Request, int64, error) {
	out := make([]models.Request, 0, len(f.requests))
	for _, req := range f.requests {
		out = append(out, req)
	}
	return out, int64(len(out)), nil
}

func (f *fakeInquiryRepo) AppendAnswer(_ context.Context, requestID string, answer models.Answer) (models.Answer, error) {
	req, ok := f.requests[requestID]
	if !ok {
		return models.Answer{}, sql.ErrNoRows
	}
	answer.ID = fmt.Sprintf("ans-%d", len(req.Answers)+1)
	answer.RequestID = requestID
	answer.CreatedAt = time.Now()
	req.Answers = append(req.Answers, answer)
	req.State = answer.State
	f.requests[requestID] = req
	return answer, nil
}

func (f *fakeInquiryRepo) CountByPeriod(_ context.Context, category, state string, period analytics.Period) ([]analytics.MonthMetric, error) {
	return f.rows, nil
}

type fakeBlobStore struct {
	uploads int
	deletes int
}

func (f *fakeBlobStore) Upload(_ context.Context, filename string, _ io.Reader, _ int64, _ string) (string, error) {
	f.uploads++
	return "https://blobs.test/studio-cms/" + filename, nil
}

func (f *fakeBlobStore) Delete(_ context.Context, _ string) error {
	f.deletes++
	return nil
}

type fakeMailer struct {
	sent      []string
	oversized bool
	err       error
}

func (f *fakeMailer) Send(to, subject, body string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.oversized {
		return false, nil
	}
	f.sent = append(f.sent, to)
	return true, nil
}

type fakeDispatcher struct {
	dispatched []string
	err        error
}

func (f *fakeDispatcher) DispatchInquiry(_ context.Context, requestID string) error {
	f.dispatched = append(f.dispatched, requestID)
	return f.err
}

type harness struct {
	svc        Service
	repo       *fakeInquiryRepo
	blobs      *fakeBlobStore
	mailer     *fakeMailer
	dispatcher *fakeDispatcher
}

func newHarness() *harness {
	h := &harness{
		repo:       newFakeInquiryRepo(),
		blobs:      &fakeBlobStore{},
		mailer:     &fakeMailer{},
		dispatcher: &fakeDispatcher{},
	}
	h.svc = NewService(h.repo, h.blobs, h.mailer, h.dispatcher, zerolog.Nop())
	return h
}

func validInput() CreateInput {
	return CreateInput{
		Category:   "DRAMA",
		ClientName: "Jordan Lee",
		Email:      "jordan@example.com",
	}
}

func TestCreateInvalidEmailUploadsNothing(t *testing.T) {
	h := newHarness()

	input := validInput()
	input.Email = "not-an-email"

	_, err := h.svc.Create(context.Background(), input, []Attachment{
		{Filename: "brief.pdf", Reader: strings.NewReader("x"), Size: 1},
	})
	require.Error(t, err)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))

	// Validation must run before any store traffic.
	assert.Zero(t, h.blobs.uploads)
	assert.Empty(t, h.repo.requests)
	assert.Empty(t, h.mailer.sent)
}

func TestCreatePersistsWaitingWithBucketKeys(t *testing.T) {
	h := newHarness()
	fixed := time.Date(2024, time.August, 15, 10, 0, 0, 0, time.UTC)
	h.svc.(*service).now = func() time.Time { return fixed }

	created, err := h.svc.Create(context.Background(), validInput(), []Attachment{
		{Filename: "brief.pdf", Reader: strings.NewReader("x"), Size: 1},
		{Filename: "deck.pdf", Reader: strings.NewReader("y"), Size: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, models.StateWaiting, created.State)
	assert.Equal(t, 2024, created.Year)
	assert.Equal(t, 8, created.Month)
	assert.Len(t, created.FileURLs, 2)
	assert.Equal(t, 2, h.blobs.uploads)
	assert.Equal(t, []string{"jordan@example.com"}, h.mailer.sent)
	assert.Equal(t, []string{created.ID}, h.dispatcher.dispatched)
}

func TestCreateOversizedConfirmationFails(t *testing.T) {
	h := newHarness()
	h.mailer.oversized = true

	_, err := h.svc.Create(context.Background(), validInput(), nil)
	require.Error(t, err)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
}

func TestCreateMailerErrorIsDeliveryKind(t *testing.T) {
	h := newHarness()
	h.mailer.err = fmt.Errorf("smtp refused")

	_, err := h.svc.Create(context.Background(), validInput(), nil)
	require.Error(t, err)
	assert.Equal(t, errs.KindDelivery, errs.KindOf(err))
}

func TestCreateDispatchFailureDoesNotFailCreate(t *testing.T) {
	h := newHarness()
	h.dispatcher.err = fmt.Errorf("temporal unavailable")

	created, err := h.svc.Create(context.Background(), validInput(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
}

func TestGetUnknownRequest(t *testing.T) {
	h := newHarness()

	_, err := h.svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}

func TestRecordAnswerUnknownRequest(t *testing.T) {
	h := newHarness()

	_, err := h.svc.RecordAnswer(context.Background(), "missing", "hello", models.StateApproved)
	require.Error(t, err)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}

func TestRecordAnswerRejectsBlankTextAndWaiting(t *testing.T) {
	h := newHarness()
	created, err := h.svc.Create(context.Background(), validInput(), nil)
	require.NoError(t, err)

	_, err = h.svc.RecordAnswer(context.Background(), created.ID, "   ", models.StateApproved)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))

	// WAITING is never re-enterable.
	_, err = h.svc.RecordAnswer(context.Background(), created.ID, "hello", models.StateWaiting)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))

	// No mutation happened.
	got, err := h.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateWaiting, got.State)
	assert.Empty(t, got.Answers)
}

func TestRecordAnswerMovesState(t *testing.T) {
	h := newHarness()
	created, err := h.svc.Create(context.Background(), validInput(), nil)
	require.NoError(t, err)

	answer, err := h.svc.RecordAnswer(context.Background(), created.ID, "Approved, see attached quote.", models.StateApproved)
	require.NoError(t, err)
	assert.Equal(t, models.StateApproved, answer.State)

	got, err := h.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateApproved, got.State)
	require.Len(t, got.Answers, 1)

	// A later answer may move it again, including back to DISCUSSING.
	_, err = h.svc.RecordAnswer(context.Background(), created.ID, "Reopening for scope talks.", models.StateDiscussing)
	require.NoError(t, err)
	got, _ = h.svc.Get(context.Background(), created.ID)
	assert.Equal(t, models.StateDiscussing, got.State)
}

func TestRecordAnswerEmailFailureIsNotFatal(t *testing.T) {
	h := newHarness()
	created, err := h.svc.Create(context.Background(), validInput(), nil)
	require.NoError(t, err)

	h.mailer.err = fmt.Errorf("smtp refused")
	_, err = h.svc.RecordAnswer(context.Background(), created.ID, "done", models.StateApproved)
	require.NoError(t, err)
}

func TestCountByPeriodFillsGaps(t *testing.T) {
	h := newHarness()
	h.repo.rows = []analytics.MonthMetric{{Year: 2024, Month: 8, Value: 8}}

	period := analytics.Period{StartYear: 2024, StartMonth: 7, EndYear: 2024, EndMonth: 9}
	dense, err := h.svc.CountByPeriod(context.Background(), "", "", period)
	require.NoError(t, err)

	require.Len(t, dense, 3)
	assert.Equal(t, int64(0), dense[0].Value)
	assert.Equal(t, int64(8), dense[1].Value)
	assert.Equal(t, int64(0), dense[2].Value)
}

func TestCountByPeriodValidatesFirst(t *testing.T) {
	h := newHarness()

	period := analytics.Period{StartYear: 2024, StartMonth: 5, EndYear: 2024, EndMonth: 5}
	_, err := h.svc.CountByPeriod(context.Background(), "all", "all", period)
	assert.ErrorIs(t, err, analytics.ErrInvalidRange)
}
