// Package engine holds the workflow core: structural validation of
// definitions and the pure transition functions that advance instances.
package engine

import "flowstate/pkg/models"

// Validate checks a candidate workflow definition against the structural
// rules a definition must satisfy before it may be stored. It is pure and
// total: no side effects, and every input yields either nil or a
// *ValidationError describing the first violated rule.
//
// A definition that passes is accepted verbatim; identifiers are
// caller-supplied and are not normalized or regenerated here. Collisions
// with already-stored definitions are the store's concern, not a
// validation failure.
func Validate(def *models.WorkflowDefinition) error {
	if def == nil {
		return validationErrorf("definition payload is required")
	}
	if len(def.States) == 0 {
		return validationErrorf("definition %q must contain at least one state", def.ID)
	}
	if def.Actions == nil {
		return validationErrorf("definition %q is missing its actions collection (an empty list is allowed)", def.ID)
	}

	stateIDs := make(map[string]struct{}, len(def.States))
	for _, s := range def.States {
		if s.ID == "" {
			return validationErrorf("definition %q contains a state with an empty id", def.ID)
		}
		if _, dup := stateIDs[s.ID]; dup {
			return validationErrorf("duplicate state id %q", s.ID)
		}
		stateIDs[s.ID] = struct{}{}
	}

	actionIDs := make(map[string]struct{}, len(def.Actions))
	for _, a := range def.Actions {
		if a.ID == "" {
			return validationErrorf("definition %q contains an action with an empty id", def.ID)
		}
		if _, dup := actionIDs[a.ID]; dup {
			return validationErrorf("duplicate action id %q", a.ID)
		}
		actionIDs[a.ID] = struct{}{}
	}

	initials := 0
	for _, s := range def.States {
		if s.IsInitial {
			initials++
		}
	}
	if initials != 1 {
		return validationErrorf("definition %q must have exactly one initial state, found %d", def.ID, initials)
	}

	for _, a := range def.Actions {
		if len(a.FromStates) == 0 {
			return validationErrorf("action %q must list at least one source state", a.ID)
		}
		seen := make(map[string]struct{}, len(a.FromStates))
		for _, from := range a.FromStates {
			if from == "" {
				return validationErrorf("action %q lists an empty source state id", a.ID)
			}
			if _, dup := seen[from]; dup {
				return validationErrorf("action %q lists source state %q more than once", a.ID, from)
			}
			seen[from] = struct{}{}
			if _, ok := stateIDs[from]; !ok {
				return validationErrorf("action %q references unknown source state %q", a.ID, from)
			}
		}
		if _, ok := stateIDs[a.ToState]; !ok {
			return validationErrorf("action %q references unknown target state %q", a.ID, a.ToState)
		}
	}

	return nil
}
