package temporal

import (
	"context"

	"github.com/pkg/errors"
	tc "go.temporal.io/sdk/client"
)

// WorkflowDispatcher starts a dispatch workflow per created inquiry.
// It satisfies inquiry.Dispatcher.
type WorkflowDispatcher struct {
	client tc.Client
}

func NewWorkflowDispatcher(client tc.Client) *WorkflowDispatcher {
	return &WorkflowDispatcher{client: client}
}

func (d *WorkflowDispatcher) DispatchInquiry(ctx context.Context, requestID string) error {
	options := tc.StartWorkflowOptions{
		ID:        DispatchWorkflowIDPrefix + requestID,
		TaskQueue: TaskQueueName,
	}

	// Referenced by name to avoid importing the workflows package
	// from the starter side.
	_, err := d.client.ExecuteWorkflow(ctx, options, "DispatchWorkflow", DispatchParams{RequestID: requestID})
	return errors.Wrap(err, "start dispatch workflow")
}
