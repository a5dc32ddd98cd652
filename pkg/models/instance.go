package models

import "time"

// HistoryEntry records one executed transition. Entries are append-only and
// chronological.
type HistoryEntry struct {
	ActionID  string    `json:"action_id"`
	Timestamp time.Time `json:"timestamp"`
}

// WorkflowInstance is a live execution of a workflow definition. It holds a
// reference to its definition by id; the definition is shared, read-only and
// outlives the instance.
//
// Version supports optimistic locking: every committed transition increments
// it, and the store rejects a replace whose expected version is stale.
type WorkflowInstance struct {
	ID             string         `json:"id"`
	DefinitionID   string         `json:"definition_id"`
	CurrentStateID string         `json:"current_state_id"`
	History        []HistoryEntry `json:"history"`
	Version        int            `json:"version"`
}
