package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/studiohaven/cms-api/internal/errs"
	"github.com/studiohaven/cms-api/internal/models"
	"github.com/studiohaven/cms-api/internal/views"
)

type ViewsHandler struct {
	service views.Service
	logger  zerolog.Logger
}

func NewViewsHandler(service views.Service, logger zerolog.Logger) *ViewsHandler {
	return &ViewsHandler{
		service: service,
		logger:  logger.With().Str("handler", "views").Logger(),
	}
}

type createViewsRequest struct {
	Year     int             `json:"year"`
	Month    int             `json:"month"`
	Views    int64           `json:"views"`
	Menu     models.Menu     `json:"menu"`
	Category models.Category `json:"category"`
}

func (h *ViewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createViewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, errs.New(errs.KindValidation, "invalid request body"))
		return
	}

	created, err := h.service.Create(r.Context(), models.Views{
		Year:     req.Year,
		Month:    req.Month,
		Views:    req.Views,
		Menu:     req.Menu,
		Category: req.Category,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, "views created", created)
}

type incrementRequest struct {
	Menu     models.Menu     `json:"menu"`
	Category models.Category `json:"category"`
}

// Increment is called by the public site on page load.
func (h *ViewsHandler) Increment(w http.ResponseWriter, r *http.Request) {
	var req incrementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, errs.New(errs.KindValidation, "invalid request body"))
		return
	}
	if req.Category == "" {
		req.Category = models.CategoryAll
	}

	if err := h.service.Increment(r.Context(), req.Menu, req.Category); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, "counted", nil)
}

func (h *ViewsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	period, err := periodFromQuery(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	menu := models.Menu(r.URL.Query().Get("menu"))
	category := models.Category(r.URL.Query().Get("category"))
	if menu == "" {
		menu = models.MenuAll
	}
	if category == "" {
		category = models.CategoryAll
	}

	summary, err := h.service.Summary(r.Context(), menu, category, period)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", summary)
}
