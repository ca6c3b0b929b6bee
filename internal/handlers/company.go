package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/studiohaven/cms-api/internal/errs"
	"github.com/studiohaven/cms-api/internal/models"
	"github.com/studiohaven/cms-api/internal/repository"
)

type CompanyHandler struct {
	repo   repository.CompanyRepository
	logger zerolog.Logger
}

func NewCompanyHandler(repo repository.CompanyRepository, logger zerolog.Logger) *CompanyHandler {
	return &CompanyHandler{
		repo:   repo,
		logger: logger.With().Str("handler", "company").Logger(),
	}
}

func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	info, err := h.repo.Get()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, h.logger, errs.New(errs.KindNotFound, "company information not set"))
			return
		}
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", info)
}

// Put replaces the single company-information row.
func (h *CompanyHandler) Put(w http.ResponseWriter, r *http.Request) {
	var info models.CompanyInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		writeError(w, h.logger, errs.New(errs.KindValidation, "invalid request body"))
		return
	}

	updated, err := h.repo.Upsert(info)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, "company information saved", updated)
}
