package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/studiohaven/cms-api/internal/authz"
	"github.com/studiohaven/cms-api/internal/errs"
	"github.com/studiohaven/cms-api/internal/notification"
	"github.com/studiohaven/cms-api/internal/stream"
)

type NotificationHandler struct {
	service notification.Service
	logger  zerolog.Logger
}

func NewNotificationHandler(service notification.Service, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		logger:  logger.With().Str("handler", "notification").Logger(),
	}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.service.RetrieveAll(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", notifications)
}

func (h *NotificationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.UserIDFromRequest(r)
	if !ok {
		http.Error(w, "Missing user context", http.StatusUnauthorized)
		return
	}

	records, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", records)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.UserIDFromRequest(r)
	if !ok {
		http.Error(w, "Missing user context", http.StatusUnauthorized)
		return
	}

	notifID := strings.TrimSpace(mux.Vars(r)["notificationID"])
	if notifID == "" {
		writeError(w, h.logger, errs.New(errs.KindValidation, "notification id is required"))
		return
	}

	if err := h.service.MarkRead(r.Context(), userID, notifID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, h.logger, errs.New(errs.KindNotFound, "notification not found"))
			return
		}
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, "marked read", nil)
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.UserIDFromRequest(r)
	if !ok {
		http.Error(w, "Missing user context", http.StatusUnauthorized)
		return
	}

	notifID := strings.TrimSpace(mux.Vars(r)["notificationID"])
	if err := h.service.DeleteForUser(r.Context(), userID, notifID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, h.logger, errs.New(errs.KindNotFound, "notification not found"))
			return
		}
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, "deleted", nil)
}

// Stream is the SSE endpoint. One event stream per admin; frames
// carry serialized notifications. Client disconnect, idle timeout and
// write failure all funnel into the same DropStream teardown.
func (h *NotificationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.UserIDFromRequest(r)
	if !ok {
		http.Error(w, "Missing user context", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	emitter := h.service.OpenStream(userID)
	defer h.service.DropStream(emitter)

	// Initial comment so proxies commit to the stream right away.
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	idle := time.NewTimer(stream.IdleTimeout)
	defer idle.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-emitter.Done():
			return
		case <-idle.C:
			h.logger.Debug().Str("user_id", userID).Msg("stream idle timeout")
			return
		case payload := <-emitter.Events():
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				h.logger.Debug().Err(err).Str("user_id", userID).Msg("stream write failed")
				return
			}
			flusher.Flush()
			if !idle.Stop() {
				<-idle.C
			}
			idle.Reset(stream.IdleTimeout)
		}
	}
}
