package engine

import (
	"errors"
	"fmt"
)

// ErrUnknownTask is returned by CheckSelection for ids missing from the catalog.
var ErrUnknownTask = errors.New("unknown task")

// TierNotOfferedError indicates a selection of a tier the task does not offer.
// The engine scores such a tier as zero; callers taking fresh input reject it.
type TierNotOfferedError struct {
	TaskID string
	Tier   Tier
}

func (e TierNotOfferedError) Error() string {
	return fmt.Sprintf("task '%s' has no %s tier", e.TaskID, e.Tier)
}

// CheckSelection validates a tier selection before it is applied.
func CheckSelection(catalog *Catalog, taskID string, tier Tier) error {
	task := catalog.Task(taskID)
	if task == nil {
		return fmt.Errorf("%w: %q", ErrUnknownTask, taskID)
	}
	if !tier.IsValid() {
		return fmt.Errorf("invalid tier: %q", tier)
	}
	if !TierOffered(task, tier) {
		return TierNotOfferedError{TaskID: taskID, Tier: tier}
	}
	return nil
}
