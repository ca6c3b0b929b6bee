package notification

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/studiohaven/cms-api/internal/errs"
	"github.com/studiohaven/cms-api/internal/models"
	"github.com/studiohaven/cms-api/internal/repository"
	"github.com/studiohaven/cms-api/internal/stream"
)

// ErrNoRecipients is returned when fan-out finds no approved
// accounts; nothing is persisted in that case.
var ErrNoRecipients = errs.New(errs.KindNotFound, "no approved recipients")

// UserDirectory is the slice of the user store the dispatcher needs.
type UserDirectory interface {
	ListApprovedIDs() ([]string, error)
}

type Service interface {
	// Subscribe records one notification for the triggering request
	// with a fan-out row per approved recipient, then pushes it to
	// every live stream. No dedup: calling it twice for the same
	// request writes two notifications.
	Subscribe(ctx context.Context, requestID string) (models.Notification, error)
	// CreateNotification persists a notification plus a single
	// fan-out row for userID, then broadcasts to every live stream.
	CreateNotification(ctx context.Context, userID, requestID string) (models.Notification, error)
	RetrieveAll(ctx context.Context) ([]models.Notification, error)
	ListForUser(ctx context.Context, userID string) ([]models.UserNotification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	DeleteForUser(ctx context.Context, userID, notificationID string) error

	// OpenStream registers a live emitter for userID, replacing any
	// previous one. DropStream is the single deregistration path for
	// disconnect, idle timeout and send error alike.
	OpenStream(userID string) *stream.Emitter
	DropStream(e *stream.Emitter)
}

type service struct {
	repo     repository.NotificationRepository
	users    UserDirectory
	registry stream.Registry
	logger   zerolog.Logger
}

func NewService(repo repository.NotificationRepository, users UserDirectory, registry stream.Registry, logger zerolog.Logger) Service {
	return &service{
		repo:     repo,
		users:    users,
		registry: registry,
		logger:   logger.With().Str("component", "notification_service").Logger(),
	}
}

func (s *service) Subscribe(ctx context.Context, requestID string) (models.Notification, error) {
	recipients, err := s.users.ListApprovedIDs()
	if err != nil {
		return models.Notification{}, err
	}
	if len(recipients) == 0 {
		return models.Notification{}, ErrNoRecipients
	}

	notif, err := s.repo.CreateWithRecipients(ctx, requestID, recipients)
	if err != nil {
		return models.Notification{}, err
	}

	s.broadcast(notif)
	return notif, nil
}

func (s *service) CreateNotification(ctx context.Context, userID, requestID string) (models.Notification, error) {
	notif, err := s.repo.Create(ctx, requestID)
	if err != nil {
		return models.Notification{}, err
	}
	if err := s.repo.CreateUserNotification(ctx, userID, notif.ID); err != nil {
		return models.Notification{}, err
	}

	s.broadcast(notif)
	return notif, nil
}

// broadcast pushes the payload to every registered emitter. A failed
// channel is closed and pruned; delivery to the rest continues.
func (s *service) broadcast(notif models.Notification) {
	payload, err := json.Marshal(notif)
	if err != nil {
		s.logger.Error().Err(err).Str("notification_id", notif.ID).Msg("failed to encode notification payload")
		return
	}

	var failed []string
	for _, e := range s.registry.All() {
		if err := e.Send(payload); err != nil {
			e.Close()
			s.registry.Delete(e.ID())
			failed = append(failed, e.ID())
		}
	}

	if len(failed) > 0 {
		s.logger.Warn().
			Str("notification_id", notif.ID).
			Strs("recipients", failed).
			Msg("pruned dead streams during broadcast")
	}
}

func (s *service) RetrieveAll(ctx context.Context) ([]models.Notification, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) ListForUser(ctx context.Context, userID string) ([]models.UserNotification, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.repo.MarkRead(ctx, userID, notificationID)
}

func (s *service) DeleteForUser(ctx context.Context, userID, notificationID string) error {
	return s.repo.DeleteUserNotification(ctx, userID, notificationID)
}

func (s *service) OpenStream(userID string) *stream.Emitter {
	e := stream.NewEmitter(userID)
	s.registry.Save(userID, e)
	s.logger.Debug().Str("user_id", userID).Msg("stream opened")
	return e
}

func (s *service) DropStream(e *stream.Emitter) {
	e.Close()
	// Only deregister this exact emitter; a reconnect may already
	// have replaced it under the same id.
	s.registry.CompareAndDelete(e.ID(), e)
	s.logger.Debug().Str("user_id", e.ID()).Msg("stream dropped")
}
