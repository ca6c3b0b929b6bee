package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/studiohaven/cms-api/internal/errs"
	"github.com/studiohaven/cms-api/internal/models"
	"github.com/studiohaven/cms-api/internal/repository"
)

type FAQHandler struct {
	repo   repository.FAQRepository
	logger zerolog.Logger
}

func NewFAQHandler(repo repository.FAQRepository, logger zerolog.Logger) *FAQHandler {
	return &FAQHandler{
		repo:   repo,
		logger: logger.With().Str("handler", "faq").Logger(),
	}
}

func (h *FAQHandler) Create(w http.ResponseWriter, r *http.Request) {
	var faq models.FAQ
	if err := json.NewDecoder(r.Body).Decode(&faq); err != nil {
		writeError(w, h.logger, errs.New(errs.KindValidation, "invalid request body"))
		return
	}
	if strings.TrimSpace(faq.Question) == "" || strings.TrimSpace(faq.Answer) == "" {
		writeError(w, h.logger, errs.New(errs.KindValidation, "question and answer are required"))
		return
	}

	created, err := h.repo.Create(faq)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, "faq created", created)
}

func (h *FAQHandler) List(w http.ResponseWriter, r *http.Request) {
	faqs, err := h.repo.List()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", faqs)
}

func (h *FAQHandler) Update(w http.ResponseWriter, r *http.Request) {
	var faq models.FAQ
	if err := json.NewDecoder(r.Body).Decode(&faq); err != nil {
		writeError(w, h.logger, errs.New(errs.KindValidation, "invalid request body"))
		return
	}
	faq.ID = mux.Vars(r)["faqID"]

	updated, err := h.repo.Update(faq)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, h.logger, errs.New(errs.KindNotFound, "faq not found"))
			return
		}
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, "faq updated", updated)
}

func (h *FAQHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(mux.Vars(r)["faqID"]); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, h.logger, errs.New(errs.KindNotFound, "faq not found"))
			return
		}
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, "faq deleted", nil)
}
