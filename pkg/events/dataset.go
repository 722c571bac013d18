package events

import "time"

const (
	TypeDatasetInvalidated = "DATASET_INVALIDATED"

	// ReasonRefresh, ReasonReset and ReasonClear say why a dataset was
	// dropped.
	ReasonRefresh = "refresh"
	ReasonReset   = "reset"
	ReasonClear   = "clear"
)

// NewDatasetInvalidated tells other instances to drop their in-memory copy
// of a category. An empty category means every category.
func NewDatasetInvalidated(category, instanceID, reason string, at time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeDatasetInvalidated,
		Data: map[string]interface{}{
			"category":    category,
			"instance_id": instanceID,
			"reason":      reason,
		},
		OccurredAt: at,
	}
}
