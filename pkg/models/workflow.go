// Package models defines the domain models for the workflow service
package models

// State is a single node in a workflow definition's state graph.
type State struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsInitial bool   `json:"is_initial"`
	IsFinal   bool   `json:"is_final"`
	Enabled   bool   `json:"enabled"`
}

// Action is a directed transition rule: it may be taken from any of its
// FromStates and always lands on ToState.
type Action struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Enabled    bool     `json:"enabled"`
	FromStates []string `json:"from_states"`
	ToState    string   `json:"to_state"`
}

// WorkflowDefinition is the immutable blueprint of a workflow: its states
// and the actions that move instances between them. A definition is
// validated once at creation time and never modified afterwards.
type WorkflowDefinition struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	States  []State  `json:"states"`
	Actions []Action `json:"actions"`
}

// StateByID returns the state with the given identifier, or nil.
func (d *WorkflowDefinition) StateByID(id string) *State {
	for i := range d.States {
		if d.States[i].ID == id {
			return &d.States[i]
		}
	}
	return nil
}

// ActionByID returns the action with the given identifier, or nil. Lookup is
// scoped to this definition; an action id from another definition is unknown.
func (d *WorkflowDefinition) ActionByID(id string) *Action {
	for i := range d.Actions {
		if d.Actions[i].ID == id {
			return &d.Actions[i]
		}
	}
	return nil
}

// InitialState returns the state flagged as initial, or nil. Validated
// definitions have exactly one.
func (d *WorkflowDefinition) InitialState() *State {
	for i := range d.States {
		if d.States[i].IsInitial {
			return &d.States[i]
		}
	}
	return nil
}
