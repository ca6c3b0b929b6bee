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
	"github.com/studiohaven/cms-api/internal/storage"
)

type ProjectHandler struct {
	repo   repository.ProjectRepository
	blobs  storage.BlobStore
	logger zerolog.Logger
}

func NewProjectHandler(repo repository.ProjectRepository, blobs storage.BlobStore, logger zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{
		repo:   repo,
		blobs:  blobs,
		logger: logger.With().Str("handler", "project").Logger(),
	}
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, h.logger, errs.Wrap(errs.KindValidation, err, "invalid multipart form"))
		return
	}

	project := models.Project{
		Name:       strings.TrimSpace(r.FormValue("name")),
		Category:   models.Category(r.FormValue("category")),
		Client:     r.FormValue("client"),
		Department: r.FormValue("department"),
		Date:       r.FormValue("date"),
		Link:       r.FormValue("link"),
		Slot:       models.SlotBasic,
		IsPosted:   r.FormValue("is_posted") != "false",
	}
	if project.Name == "" {
		writeError(w, h.logger, errs.New(errs.KindValidation, "name is required"))
		return
	}
	if !models.IsValidCategory(project.Category) {
		writeError(w, h.logger, errs.New(errs.KindValidation, "unknown category"))
		return
	}

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		imageURL, err := h.blobs.Upload(r.Context(), header.Filename, file, header.Size, header.Header.Get("Content-Type"))
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		project.ImageURL = imageURL
	}

	created, err := h.repo.Create(project)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, "project created", created)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.repo.GetByID(mux.Vars(r)["projectID"])
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, h.logger, errs.New(errs.KindNotFound, "project not found"))
			return
		}
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", project)
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	if slot := models.ProjectSlot(r.URL.Query().Get("slot")); slot != "" {
		projects, err := h.repo.ListBySlot(slot)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, "ok", projects)
		return
	}

	page, size := pageParams(r)
	projects, total, err := h.repo.List(page, size)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", paged{Items: projects, Page: page, Size: size, Total: total})
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	var project models.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		writeError(w, h.logger, errs.New(errs.KindValidation, "invalid request body"))
		return
	}
	project.ID = mux.Vars(r)["projectID"]

	updated, err := h.repo.Update(project)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, h.logger, errs.New(errs.KindNotFound, "project not found"))
			return
		}
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, "project updated", updated)
}

type slotRequest struct {
	Slot models.ProjectSlot `json:"slot"`
}

// UpdateSlot moves a project between the basic pool, the top carousel
// and the main spot. Slot capacities are fixed; exceeding one is a
// conflict.
func (h *ProjectHandler) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["projectID"]

	var req slotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, errs.New(errs.KindValidation, "invalid request body"))
		return
	}

	var capacity int
	switch req.Slot {
	case models.SlotBasic:
		capacity = -1
	case models.SlotTop:
		capacity = models.MaxTopProjects
	case models.SlotMain:
		capacity = models.MaxMainProjects
	default:
		writeError(w, h.logger, errs.New(errs.KindValidation, "unknown slot"))
		return
	}

	if capacity >= 0 {
		// Check-then-update with no DB-side guard: two concurrent
		// moves into the last free spot can both pass this count.
		count, err := h.repo.CountBySlot(req.Slot, projectID)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		if count >= capacity {
			writeError(w, h.logger, errs.Newf(errs.KindConflict, "slot %s is full (%d)", req.Slot, capacity))
			return
		}
	}

	if err := h.repo.UpdateSlot(projectID, req.Slot); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, h.logger, errs.New(errs.KindNotFound, "project not found"))
			return
		}
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, "slot updated", nil)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["projectID"]

	project, err := h.repo.GetByID(projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, h.logger, errs.New(errs.KindNotFound, "project not found"))
			return
		}
		writeError(w, h.logger, err)
		return
	}

	if err := h.repo.Delete(projectID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if object := objectNameFromURL(project.ImageURL); object != "" {
		if err := h.blobs.Delete(r.Context(), object); err != nil {
			h.logger.Warn().Err(err).Str("object", object).Msg("failed to delete project image")
		}
	}

	writeJSON(w, http.StatusOK, "project deleted", nil)
}
