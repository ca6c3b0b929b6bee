package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/studiohaven/cms-api/internal/analytics"
	"github.com/studiohaven/cms-api/internal/errs"
	"github.com/studiohaven/cms-api/internal/inquiry"
	"github.com/studiohaven/cms-api/internal/models"
)

// maxInquiryFormBytes bounds the multipart form kept in memory.
const maxInquiryFormBytes = 32 << 20

type InquiryHandler struct {
	service inquiry.Service
	logger  zerolog.Logger
}

func NewInquiryHandler(service inquiry.Service, logger zerolog.Logger) *InquiryHandler {
	return &InquiryHandler{
		service: service,
		logger:  logger.With().Str("handler", "inquiry").Logger(),
	}
}

// Create accepts multipart form data: the inquiry fields plus zero or
// more parts named "files".
func (h *InquiryHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxInquiryFormBytes); err != nil {
		writeError(w, h.logger, errs.Wrap(errs.KindValidation, err, "invalid multipart form"))
		return
	}

	input := inquiry.CreateInput{
		Category:     r.FormValue("category"),
		ProjectName:  r.FormValue("project_name"),
		ClientName:   r.FormValue("client_name"),
		Organization: r.FormValue("organization"),
		Contact:      r.FormValue("contact"),
		Email:        r.FormValue("email"),
		Position:     r.FormValue("position"),
		Description:  r.FormValue("description"),
	}

	var attachments []inquiry.Attachment
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["files"] {
			file, err := header.Open()
			if err != nil {
				writeError(w, h.logger, errs.Wrap(errs.KindValidation, err, "unreadable attachment"))
				return
			}
			defer file.Close()
			attachments = append(attachments, inquiry.Attachment{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Size:        header.Size,
				Reader:      file,
			})
		}
	}

	created, err := h.service.Create(r.Context(), input, attachments)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, "inquiry received", created)
}

func (h *InquiryHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := strings.TrimSpace(mux.Vars(r)["requestID"])
	req, err := h.service.Get(r.Context(), requestID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", req)
}

func (h *InquiryHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	requests, total, err := h.service.List(r.Context(), page, size)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", paged{Items: requests, Page: page, Size: size, Total: total})
}

type answerRequest struct {
	Text  string              `json:"text"`
	State models.RequestState `json:"state"`
}

func (h *InquiryHandler) RecordAnswer(w http.ResponseWriter, r *http.Request) {
	requestID := strings.TrimSpace(mux.Vars(r)["requestID"])

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, errs.New(errs.KindValidation, "invalid request body"))
		return
	}

	answer, err := h.service.RecordAnswer(r.Context(), requestID, req.Text, req.State)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, "answer recorded", answer)
}

// Counts serves the dashboard: one count per month of the period,
// optionally filtered by category and state ("all" disables a filter).
func (h *InquiryHandler) Counts(w http.ResponseWriter, r *http.Request) {
	period, err := periodFromQuery(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	counts, err := h.service.CountByPeriod(
		r.Context(),
		r.URL.Query().Get("category"),
		r.URL.Query().Get("state"),
		period,
	)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", counts)
}

func periodFromQuery(r *http.Request) (analytics.Period, error) {
	var period analytics.Period
	var ok bool
	if period.StartYear, ok = intQuery(r, "start_year"); !ok {
		return period, errs.New(errs.KindValidation, "start_year is required")
	}
	if period.StartMonth, ok = intQuery(r, "start_month"); !ok {
		return period, errs.New(errs.KindValidation, "start_month is required")
	}
	if period.EndYear, ok = intQuery(r, "end_year"); !ok {
		return period, errs.New(errs.KindValidation, "end_year is required")
	}
	if period.EndMonth, ok = intQuery(r, "end_month"); !ok {
		return period, errs.New(errs.KindValidation, "end_month is required")
	}
	return period, nil
}
