package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/studiohaven/cms-api/internal/errs"
	"github.com/studiohaven/cms-api/internal/models"
	"github.com/studiohaven/cms-api/internal/repository"
	"github.com/studiohaven/cms-api/internal/storage"
)

const maxImageBytes = 10 << 20

type NewsHandler struct {
	repo   repository.NewsRepository
	blobs  storage.BlobStore
	logger zerolog.Logger
}

func NewNewsHandler(repo repository.NewsRepository, blobs storage.BlobStore, logger zerolog.Logger) *NewsHandler {
	return &NewsHandler{
		repo:   repo,
		blobs:  blobs,
		logger: logger.With().Str("handler", "news").Logger(),
	}
}

// Create accepts multipart form data with the news fields and an
// optional "image" part.
func (h *NewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, h.logger, errs.Wrap(errs.KindValidation, err, "invalid multipart form"))
		return
	}

	news := models.News{
		Title:   strings.TrimSpace(r.FormValue("title")),
		Source:  r.FormValue("source"),
		URL:     r.FormValue("url"),
		Visible: r.FormValue("visible") != "false",
	}
	if news.Title == "" {
		writeError(w, h.logger, errs.New(errs.KindValidation, "title is required"))
		return
	}

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		imageURL, err := h.blobs.Upload(r.Context(), header.Filename, file, header.Size, header.Header.Get("Content-Type"))
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		news.ImageURL = imageURL
	}

	created, err := h.repo.Create(news)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, "news created", created)
}

func (h *NewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	news, err := h.repo.GetByID(mux.Vars(r)["newsID"])
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, h.logger, errs.New(errs.KindNotFound, "news not found"))
			return
		}
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", news)
}

func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	items, total, err := h.repo.List(page, size)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", paged{Items: items, Page: page, Size: size, Total: total})
}

func (h *NewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var news models.News
	if err := json.NewDecoder(r.Body).Decode(&news); err != nil {
		writeError(w, h.logger, errs.New(errs.KindValidation, "invalid request body"))
		return
	}
	news.ID = mux.Vars(r)["newsID"]

	updated, err := h.repo.Update(news)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, h.logger, errs.New(errs.KindNotFound, "news not found"))
			return
		}
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, "news updated", updated)
}

func (h *NewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	newsID := mux.Vars(r)["newsID"]

	news, err := h.repo.GetByID(newsID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, h.logger, errs.New(errs.KindNotFound, "news not found"))
			return
		}
		writeError(w, h.logger, err)
		return
	}

	if err := h.repo.Delete(newsID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	// Removing the stored image is best effort.
	if object := objectNameFromURL(news.ImageURL); object != "" {
		if err := h.blobs.Delete(r.Context(), object); err != nil {
			h.logger.Warn().Err(err).Str("object", object).Msg("failed to delete news image")
		}
	}

	writeJSON(w, http.StatusOK, "news deleted", nil)
}

func objectNameFromURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return path.Base(parsed.Path)
}
