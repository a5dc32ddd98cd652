// Package services wires the workflow engine to a store and exposes the
// service-level operations the transports (REST, MCP) call into.
package services

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"flowstate/internal/engine"
	"flowstate/internal/repository"
	"flowstate/pkg/models"
)

// replaceAttempts bounds the read-compute-swap retry loop in ExecuteAction.
const replaceAttempts = 5

// WorkflowService implements the service operations over an injected store.
// Definitions are validated exactly once, on create; transitions go through
// the engine and are committed with a compare-and-swap so concurrent
// executions against the same instance serialize instead of losing updates.
type WorkflowService struct {
	store  repository.Store
	logger *slog.Logger

	instancesStarted    metric.Int64Counter
	transitionsExecuted metric.Int64Counter
}

// NewWorkflowService creates a new WorkflowService.
func NewWorkflowService(store repository.Store, logger *slog.Logger) *WorkflowService {
	meter := otel.Meter("flowstate/services")
	started, _ := meter.Int64Counter("workflow.instances.started",
		metric.WithDescription("Number of workflow instances started"))
	executed, _ := meter.Int64Counter("workflow.transitions.executed",
		metric.WithDescription("Number of successfully executed transitions"))

	return &WorkflowService{
		store:               store,
		logger:              logger,
		instancesStarted:    started,
		transitionsExecuted: executed,
	}
}

// CreateDefinition validates a candidate definition and stores it. The
// definition id is caller-supplied; colliding with a stored definition
// yields repository.ErrConflict, not a validation failure.
func (s *WorkflowService) CreateDefinition(ctx context.Context, def *models.WorkflowDefinition) (*models.WorkflowDefinition, error) {
	if err := engine.Validate(def); err != nil {
		return nil, err
	}
	if err := s.store.CreateDefinition(ctx, def); err != nil {
		return nil, err
	}
	s.logger.Info("workflow definition created", "definition_id", def.ID, "name", def.Name)
	return def, nil
}

// GetDefinition retrieves a stored definition.
func (s *WorkflowService) GetDefinition(ctx context.Context, id string) (*models.WorkflowDefinition, error) {
	return s.store.GetDefinition(ctx, id)
}

// ListDefinitions returns all stored definitions.
func (s *WorkflowService) ListDefinitions(ctx context.Context) ([]*models.WorkflowDefinition, error) {
	return s.store.ListDefinitions(ctx)
}

// StartInstance creates a new instance of the given definition at its
// initial state.
func (s *WorkflowService) StartInstance(ctx context.Context, definitionID string) (*models.WorkflowInstance, error) {
	def, err := s.store.GetDefinition(ctx, definitionID)
	if err != nil {
		return nil, err
	}
	inst, err := engine.StartInstance(def)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateInstance(ctx, inst); err != nil {
		return nil, err
	}
	s.instancesStarted.Add(ctx, 1)
	s.logger.Info("workflow instance started",
		"instance_id", inst.ID, "definition_id", def.ID, "state", inst.CurrentStateID)
	return inst, nil
}

// GetInstance retrieves a stored instance.
func (s *WorkflowService) GetInstance(ctx context.Context, id string) (*models.WorkflowInstance, error) {
	return s.store.GetInstance(ctx, id)
}

// ListInstances returns all stored instances.
func (s *WorkflowService) ListInstances(ctx context.Context) ([]*models.WorkflowInstance, error) {
	return s.store.ListInstances(ctx)
}

// ExecuteAction advances an instance by one validated transition. The
// read-compute-swap cycle retries on optimistic-lock conflicts, so a caller
// racing another transition re-evaluates against the fresh current state
// rather than committing a lost update.
func (s *WorkflowService) ExecuteAction(ctx context.Context, instanceID, actionID string) (*models.WorkflowInstance, error) {
	var lastErr error
	for attempt := 0; attempt < replaceAttempts; attempt++ {
		inst, err := s.store.GetInstance(ctx, instanceID)
		if err != nil {
			return nil, err
		}
		def, err := s.store.GetDefinition(ctx, inst.DefinitionID)
		if err != nil {
			return nil, err
		}

		next, err := engine.ExecuteAction(inst, def, actionID)
		if err != nil {
			return nil, err
		}

		if err := s.store.ReplaceInstance(ctx, next); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}

		s.transitionsExecuted.Add(ctx, 1)
		s.logger.Info("workflow action executed",
			"instance_id", next.ID, "action_id", actionID, "state", next.CurrentStateID)
		return next, nil
	}
	return nil, lastErr
}
