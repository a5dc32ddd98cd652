package engine

import (
	"time"

	"github.com/google/uuid"

	"flowstate/pkg/models"
)

// StartInstance creates a fresh instance of a validated definition, placed
// at the definition's unique initial state with empty history.
//
// A definition whose initial state is disabled is still a valid definition;
// the rejection happens here, at start time.
func StartInstance(def *models.WorkflowDefinition) (*models.WorkflowInstance, error) {
	initial := def.InitialState()
	if initial == nil {
		// Precluded for definitions that passed Validate; kept as a guard
		// against structural drift in the store.
		return nil, transitionErrorf(KindUnknownTargetState, "definition %q has no initial state", def.ID)
	}
	if !initial.Enabled {
		return nil, transitionErrorf(KindInitialStateDisabled, "cannot start: initial state %q is disabled", initial.ID)
	}

	return &models.WorkflowInstance{
		ID:             uuid.New().String(),
		DefinitionID:   def.ID,
		CurrentStateID: initial.ID,
		History:        []models.HistoryEntry{},
		Version:        1,
	}, nil
}

// ExecuteAction computes the result of applying an action to an instance.
// It never mutates its inputs: on success it returns a new instance value
// with the advanced state and one appended history entry, and the caller is
// responsible for swapping it into the store atomically.
//
// Checks run in a fixed order and the first failure wins:
// unknown action, action disabled, instance in a final state, current state
// not a listed source, unknown target state, target state disabled.
func ExecuteAction(inst *models.WorkflowInstance, def *models.WorkflowDefinition, actionID string) (*models.WorkflowInstance, error) {
	action := def.ActionByID(actionID)
	if action == nil {
		return nil, transitionErrorf(KindUnknownAction, "action %q does not exist in definition %q", actionID, def.ID)
	}
	if !action.Enabled {
		return nil, transitionErrorf(KindActionDisabled, "action %q is disabled", action.ID)
	}

	// Final states are absorbing: no action is ever valid from one, even if
	// the action nominally lists it as a source.
	if current := def.StateByID(inst.CurrentStateID); current != nil && current.IsFinal {
		return nil, transitionErrorf(KindInstanceFinal, "instance %q is in final state %q", inst.ID, current.ID)
	}

	allowed := false
	for _, from := range action.FromStates {
		if from == inst.CurrentStateID {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, transitionErrorf(KindInvalidSourceState, "action %q cannot be executed from state %q", action.ID, inst.CurrentStateID)
	}

	target := def.StateByID(action.ToState)
	if target == nil {
		// Precluded by validation; re-checked against structural drift.
		return nil, transitionErrorf(KindUnknownTargetState, "action %q targets unknown state %q", action.ID, action.ToState)
	}
	if !target.Enabled {
		return nil, transitionErrorf(KindTargetStateDisabled, "target state %q is disabled", target.ID)
	}

	history := make([]models.HistoryEntry, len(inst.History), len(inst.History)+1)
	copy(history, inst.History)
	history = append(history, models.HistoryEntry{
		ActionID:  action.ID,
		Timestamp: time.Now().UTC(),
	})

	next := *inst
	next.CurrentStateID = target.ID
	next.History = history
	next.Version = inst.Version + 1
	return &next, nil
}
