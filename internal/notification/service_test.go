package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studiohaven/cms-api/internal/models"
	"github.com/studiohaven/cms-api/internal/stream"
)

type fakeNotificationRepo struct {
	notifications     []models.Notification
	userNotifications []models.UserNotification
	nextID            int
}

func (f *fakeNotificationRepo) newID() string {
	f.nextID++
	return fmt.Sprintf("n-%d", f.nextID)
}

func (f *fakeNotificationRepo) Create(_ context.Context, requestID string) (models.Notification, error) {
	notif := models.Notification{ID: f.newID(), RequestID: requestID, CreatedAt: time.Now()}
	f.notifications = append(f.notifications, notif)
	return notif, nil
}

func (f *fakeNotificationRepo) CreateWithRecipients(ctx context.Context, requestID string, userIDs []string) (models.Notification, error) {
	notif, err := f.Create(ctx, requestID)
	if err != nil {
		return models.Notification{}, err
	}
	for _, userID := range userIDs {
		f.userNotifications = append(f.userNotifications, models.UserNotification{
			UserID:         userID,
			NotificationID: notif.ID,
		})
	}
	return notif, nil
}

func (f *fakeNotificationRepo) CreateUserNotification(_ context.Context, userID, notificationID string) error {
	f.userNotifications = append(f.userNotifications, models.UserNotification{
		UserID:         userID,
		NotificationID: notificationID,
	})
	return nil
}

func (f *fakeNotificationRepo) ListAll(_ context.Context) ([]models.Notification, error) {
	return append([]models.Notification{}, f.notifications...), nil
}

func (f *fakeNotificationRepo) ListForUser(_ context.Context, userID string) ([]models.UserNotification, error) {
	var out []models.UserNotification
	for _, un := range f.userNotifications {
		if un.UserID == userID {
			out = append(out, un)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, userID, notificationID string) error {
	for i, un := range f.userNotifications {
		if un.UserID == userID && un.NotificationID == notificationID {
			f.userNotifications[i].IsRead = true
			return nil
		}
	}
	return fmt.Errorf("not found")
}

func (f *fakeNotificationRepo) DeleteUserNotification(_ context.Context, userID, notificationID string) error {
	for i, un := range f.userNotifications {
		if un.UserID == userID && un.NotificationID == notificationID {
			f.userNotifications = append(f.userNotifications[:i], f.userNotifications[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("not found")
}

type fakeDirectory struct {
	ids []string
}

func (f *fakeDirectory) ListApprovedIDs() ([]string, error) {
	return f.ids, nil
}

func newTestService(repo *fakeNotificationRepo, dir *fakeDirectory) (Service, stream.Registry) {
	registry := stream.NewRegistry()
	svc := NewService(repo, dir, registry, zerolog.Nop())
	return svc, registry
}

func TestSubscribeNoRecipients(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc, _ := newTestService(repo, &fakeDirectory{})

	_, err := svc.Subscribe(context.Background(), "req-1")
	require.ErrorIs(t, err, ErrNoRecipients)

	// Nothing persisted when there is nobody to notify.
	assert.Empty(t, repo.notifications)
	assert.Empty(t, repo.userNotifications)
}

func TestSubscribeFansOutToAllRecipients(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc, _ := newTestService(repo, &fakeDirectory{ids: []string{"u1", "u2", "u3"}})

	notif, err := svc.Subscribe(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, "req-1", notif.RequestID)

	require.Len(t, repo.notifications, 1)
	assert.Len(t, repo.userNotifications, 3)
}

func TestSubscribeDoesNotDeduplicate(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc, _ := newTestService(repo, &fakeDirectory{ids: []string{"u1"}})

	_, err := svc.Subscribe(context.Background(), "req-1")
	require.NoError(t, err)
	_, err = svc.Subscribe(context.Background(), "req-1")
	require.NoError(t, err)

	assert.Len(t, repo.notifications, 2)
	assert.Len(t, repo.userNotifications, 2)
}

func TestSubscribePushesToLiveStreams(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc, _ := newTestService(repo, &fakeDirectory{ids: []string{"u1", "u2"}})

	e1 := svc.OpenStream("u1")
	e2 := svc.OpenStream("u2")

	notif, err := svc.Subscribe(context.Background(), "req-1")
	require.NoError(t, err)

	for _, e := range []*stream.Emitter{e1, e2} {
		select {
		case payload := <-e.Events():
			var got models.Notification
			require.NoError(t, json.Unmarshal(payload, &got))
			assert.Equal(t, notif.ID, got.ID)
		default:
			t.Fatalf("emitter %s received nothing", e.ID())
		}
	}
}

func TestBroadcastPrunesFailedStreams(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc, registry := newTestService(repo, &fakeDirectory{ids: []string{"u1", "u2"}})

	healthy := svc.OpenStream("u1")
	dead := svc.OpenStream("u2")
	dead.Close()

	_, err := svc.Subscribe(context.Background(), "req-1")
	require.NoError(t, err)

	// The closed stream is gone; the healthy one still got the push.
	_, ok := registry.Get("u2")
	assert.False(t, ok)
	_, ok = registry.Get("u1")
	assert.True(t, ok)

	select {
	case <-healthy.Events():
	default:
		t.Fatal("healthy emitter received nothing")
	}
}

func TestCreateNotificationRoundTrip(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc, _ := newTestService(repo, &fakeDirectory{})

	created, err := svc.CreateNotification(context.Background(), "u1", "req-1")
	require.NoError(t, err)

	all, err := svc.RetrieveAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, created.ID, all[0].ID)

	mine, err := svc.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].NotificationID)
}

func TestDropStreamKeepsReconnectedReplacement(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc, registry := newTestService(repo, &fakeDirectory{})

	old := svc.OpenStream("u1")
	replacement := svc.OpenStream("u1")

	// The old handler tearing down must not deregister the reconnect.
	svc.DropStream(old)

	current, ok := registry.Get("u1")
	require.True(t, ok)
	assert.Same(t, replacement, current)

	svc.DropStream(replacement)
	_, ok = registry.Get("u1")
	assert.False(t, ok)
}
