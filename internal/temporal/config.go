package temporal

import "time"

// TaskQueueName is the Temporal task queue for notification dispatch.
const TaskQueueName = "STUDIO_CMS_DISPATCH"

// DispatchWorkflowIDPrefix prefixes dispatch workflow IDs; the suffix
// is the triggering request id.
const DispatchWorkflowIDPrefix = "inquiry-dispatch-"

// DefaultActivityTimeout bounds a single dispatch activity attempt.
const DefaultActivityTimeout = time.Minute

// DispatchParams is the input to the dispatch workflow.
type DispatchParams struct {
	RequestID string
}
