package activities

import (
	"context"
	"errors"

	"github.com/studiohaven/cms-api/internal/notification"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
)

type Activities struct {
	Notifications notification.Service
}

// DispatchInquiryActivity records the notification with its fan-out
// rows and pushes it to live streams. Having no approved recipients
// is terminal; retrying cannot fix it.
func (a *Activities) DispatchInquiryActivity(ctx context.Context, requestID string) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Dispatching inquiry notification", "requestID", requestID)

	_, err := a.Notifications.Subscribe(ctx, requestID)
	if err != nil {
		if errors.Is(err, notification.ErrNoRecipients) {
			return temporal.NewNonRetryableApplicationError("no approved recipients", "NoRecipients", err)
		}
		logger.Error("Failed to dispatch inquiry notification", "error", err)
		return err
	}
	return nil
}
