package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowstate/internal/engine"
	"flowstate/internal/repository"
	"flowstate/pkg/models"
)

func approvalDefinition() *models.WorkflowDefinition {
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

func newTestService() (*WorkflowService, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	return NewWorkflowService(store, slog.New(slog.DiscardHandler)), store
}

func TestCreateDefinition(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	t.Run("valid definition is stored", func(t *testing.T) {
		created, err := svc.CreateDefinition(ctx, approvalDefinition())
		require.NoError(t, err)
		assert.Equal(t, "document-approval", created.ID)

		stored, err := store.GetDefinition(ctx, "document-approval")
		require.NoError(t, err)
		assert.Equal(t, created, stored)
	})

	t.Run("duplicate id conflicts", func(t *testing.T) {
		_, err := svc.CreateDefinition(ctx, approvalDefinition())
		assert.ErrorIs(t, err, repository.ErrConflict)
	})

	t.Run("invalid definition is rejected and not stored", func(t *testing.T) {
		def := approvalDefinition()
		def.ID = "broken"
		def.States[0].IsInitial = false

		_, err := svc.CreateDefinition(ctx, def)
		var vErr *engine.ValidationError
		require.ErrorAs(t, err, &vErr)

		_, err = store.GetDefinition(ctx, "broken")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestStartInstance(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	_, err := svc.CreateDefinition(ctx, approvalDefinition())
	require.NoError(t, err)

	t.Run("unknown definition", func(t *testing.T) {
		_, err := svc.StartInstance(ctx, "nope")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("instance starts at initial state and is stored", func(t *testing.T) {
		inst, err := svc.StartInstance(ctx, "document-approval")
		require.NoError(t, err)
		assert.Equal(t, "draft", inst.CurrentStateID)
		assert.Empty(t, inst.History)

		stored, err := store.GetInstance(ctx, inst.ID)
		require.NoError(t, err)
		assert.Equal(t, inst, stored)
	})

	t.Run("disabled initial state rejects and stores nothing", func(t *testing.T) {
		def := approvalDefinition()
		def.ID = "frozen"
		def.States[0].Enabled = false
		_, err := svc.CreateDefinition(ctx, def)
		require.NoError(t, err)

		_, err = svc.StartInstance(ctx, "frozen")
		var tErr *engine.TransitionError
		require.ErrorAs(t, err, &tErr)
		assert.Equal(t, engine.KindInitialStateDisabled, tErr.Kind)

		insts, err := svc.ListInstances(ctx)
		require.NoError(t, err)
		for _, inst := range insts {
			assert.NotEqual(t, "frozen", inst.DefinitionID)
		}
	})
}

func TestExecuteAction(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	_, err := svc.CreateDefinition(ctx, approvalDefinition())
	require.NoError(t, err)
	inst, err := svc.StartInstance(ctx, "document-approval")
	require.NoError(t, err)

	t.Run("unknown instance", func(t *testing.T) {
		_, err := svc.ExecuteAction(ctx, "nope", "approve")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("rejected transition leaves the store unchanged", func(t *testing.T) {
		_, err := svc.ExecuteAction(ctx, inst.ID, "approve")
		var tErr *engine.TransitionError
		require.ErrorAs(t, err, &tErr)
		assert.Equal(t, engine.KindInvalidSourceState, tErr.Kind)

		stored, err := store.GetInstance(ctx, inst.ID)
		require.NoError(t, err)
		assert.Equal(t, "draft", stored.CurrentStateID)
		assert.Empty(t, stored.History)
	})

	t.Run("successful transition is persisted", func(t *testing.T) {
		next, err := svc.ExecuteAction(ctx, inst.ID, "submit-for-review")
		require.NoError(t, err)
		assert.Equal(t, "review", next.CurrentStateID)
		require.Len(t, next.History, 1)
		assert.Equal(t, "submit-for-review", next.History[0].ActionID)

		stored, err := store.GetInstance(ctx, inst.ID)
		require.NoError(t, err)
		assert.Equal(t, next, stored)
	})
}

// conflictOnceStore wraps the memory store and fails the first replace with
// a conflict, as a concurrent transition winning the race would.
type conflictOnceStore struct {
	*repository.MemoryStore
	conflicted bool
}

func (s *conflictOnceStore) ReplaceInstance(ctx context.Context, inst *models.WorkflowInstance) error {
	if !s.conflicted {
		s.conflicted = true
		return repository.ErrConflict
	}
	return s.MemoryStore.ReplaceInstance(ctx, inst)
}

func TestExecuteActionRetriesOnConflict(t *testing.T) {
	ctx := context.Background()
	store := &conflictOnceStore{MemoryStore: repository.NewMemoryStore()}
	svc := NewWorkflowService(store, slog.New(slog.DiscardHandler))

	_, err := svc.CreateDefinition(ctx, approvalDefinition())
	require.NoError(t, err)
	inst, err := svc.StartInstance(ctx, "document-approval")
	require.NoError(t, err)

	next, err := svc.ExecuteAction(ctx, inst.ID, "submit-for-review")
	require.NoError(t, err)
	assert.Equal(t, "review", next.CurrentStateID)
	assert.True(t, store.conflicted)
}
