package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowstate/pkg/models"
)

func validDefinition() *models.WorkflowDefinition {
	return &models.WorkflowDefinition{
		ID:   "document-approval",
		Name: "Document Approval",
		States: []models.State{
			{ID: "draft", Name: "Draft", IsInitial: true, Enabled: true},
			{ID: "review", Name: "Review", Enabled: true},
			{ID: "approved", Name: "Approved", IsFinal: true, Enabled: true},
		},
		Actions: []models.Action{
			{ID: "submit-for-review", Name: "Submit for Review", Enabled: true, FromStates: []string{"draft"}, ToState: "review"},
			{ID: "approve", Name: "Approve", Enabled: true, FromStates: []string{"review"}, ToState: "approved"},
		},
	}
}

func TestValidateAcceptsWellFormedDefinition(t *testing.T) {
	assert.NoError(t, Validate(validDefinition()))
}

func TestValidateAcceptsEmptyActionList(t *testing.T) {
	def := validDefinition()
	def.Actions = []models.Action{}
	assert.NoError(t, Validate(def))
}

func TestValidateAcceptsDisabledInitialState(t *testing.T) {
	// A disabled initial state is a start-time rejection, not a
	// validation failure.
	def := validDefinition()
	def.States[0].Enabled = false
	assert.NoError(t, Validate(def))
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(def *models.WorkflowDefinition)
		wantMsg string
	}{
		{
			name:    "no states",
			mutate:  func(def *models.WorkflowDefinition) { def.States = nil },
			wantMsg: "at least one state",
		},
		{
			name:    "missing actions collection",
			mutate:  func(def *models.WorkflowDefinition) { def.Actions = nil },
			wantMsg: "actions collection",
		},
		{
			name: "state with empty id",
			mutate: func(def *models.WorkflowDefinition) {
				def.States = append(def.States, models.State{Name: "Nameless"})
			},
			wantMsg: "empty id",
		},
		{
			name: "duplicate state ids",
			mutate: func(def *models.WorkflowDefinition) {
				def.States = append(def.States, models.State{ID: "draft", Name: "Draft Again"})
			},
			wantMsg: `duplicate state id "draft"`,
		},
		{
			name: "action with empty id",
			mutate: func(def *models.WorkflowDefinition) {
				def.Actions = append(def.Actions, models.Action{Name: "Nameless", FromStates: []string{"draft"}, ToState: "review"})
			},
			wantMsg: "empty id",
		},
		{
			name: "duplicate action ids",
			mutate: func(def *models.WorkflowDefinition) {
				def.Actions = append(def.Actions, def.Actions[0])
			},
			wantMsg: `duplicate action id "submit-for-review"`,
		},
		{
			name: "no initial state",
			mutate: func(def *models.WorkflowDefinition) {
				def.States[0].IsInitial = false
			},
			wantMsg: "exactly one initial state",
		},
		{
			name: "two initial states",
			mutate: func(def *models.WorkflowDefinition) {
				def.States[1].IsInitial = true
			},
			wantMsg: "exactly one initial state",
		},
		{
			name: "action without source states",
			mutate: func(def *models.WorkflowDefinition) {
				def.Actions[0].FromStates = nil
			},
			wantMsg: "at least one source state",
		},
		{
			name: "action with empty source state id",
			mutate: func(def *models.WorkflowDefinition) {
				def.Actions[0].FromStates = []string{"draft", ""}
			},
			wantMsg: "empty source state",
		},
		{
			name: "action with duplicate source states",
			mutate: func(def *models.WorkflowDefinition) {
				def.Actions[0].FromStates = []string{"draft", "draft"}
			},
			wantMsg: "more than once",
		},
		{
			name: "action with unknown source state",
			mutate: func(def *models.WorkflowDefinition) {
				def.Actions[0].FromStates = []string{"draft", "archived"}
			},
			wantMsg: `unknown source state "archived"`,
		},
		{
			name: "action with unknown target state",
			mutate: func(def *models.WorkflowDefinition) {
				def.Actions[1].ToState = "published"
			},
			wantMsg: `unknown target state "published"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := validDefinition()
			tt.mutate(def)

			err := Validate(def)
			require.Error(t, err)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.Error(), tt.wantMsg)
		})
	}
}

func TestValidateRejectsNilDefinition(t *testing.T) {
	err := Validate(nil)
	require.Error(t, err)

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestValidateIsPure(t *testing.T) {
	def := validDefinition()
	require.NoError(t, Validate(def))
	assert.Equal(t, validDefinition(), def)
}
