package workflows

import (
	"github.com/studiohaven/cms-api/internal/temporal"
	"github.com/studiohaven/cms-api/internal/temporal/activities"
	"go.temporal.io/sdk/workflow"
)

// DispatchWorkflow fans a new inquiry out to the back office. The
// request row is already committed when this starts, so the workflow
// owns all retrying; the HTTP path never blocks on delivery.
func DispatchWorkflow(ctx workflow.Context, params temporal.DispatchParams) error {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: temporal.DefaultActivityTimeout,
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	logger := workflow.GetLogger(ctx)
	logger.Info("Starting dispatch workflow", "RequestID", params.RequestID)

	// The actual implementation is on the worker; this is just a proxy.
	var a *activities.Activities

	if err := workflow.ExecuteActivity(ctx, a.DispatchInquiryActivity, params.RequestID).Get(ctx, nil); err != nil {
		logger.Error("Notification fan-out failed.", "error", err)
		return err
	}

	logger.Info("Dispatch workflow complete", "RequestID", params.RequestID)
	return nil
}
