// Package repository provides keyed storage for workflow definitions and
// instances. Stores hold no business logic; validation and transition rules
// live in the engine.
package repository

import (
	"context"
	"errors"

	"flowstate/pkg/models"
)

var (
	// ErrNotFound is returned when a definition or instance id does not
	// resolve.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an insert collides with an existing id,
	// or when an instance replace loses an optimistic-lock race.
	ErrConflict = errors.New("conflict")
)

// Store is the persistence contract the workflow service depends on.
//
// Creates are insert-if-absent: exactly one of two concurrent creates with
// the same id wins, the other receives ErrConflict. ReplaceInstance is a
// compare-and-swap keyed on the instance version: the passed instance must
// carry Version = stored.Version + 1, and the swap fails with ErrConflict
// if the stored version has moved on. Replaces of different instances never
// block each other beyond the store's own critical section.
type Store interface {
	// CreateDefinition inserts a definition if its id is absent.
	CreateDefinition(ctx context.Context, def *models.WorkflowDefinition) error
	// GetDefinition retrieves a definition by id.
	GetDefinition(ctx context.Context, id string) (*models.WorkflowDefinition, error)
	// ListDefinitions returns all stored definitions.
	ListDefinitions(ctx context.Context) ([]*models.WorkflowDefinition, error)

	// CreateInstance inserts a new workflow instance if its id is absent.
	CreateInstance(ctx context.Context, inst *models.WorkflowInstance) error
	// GetInstance retrieves an instance by id.
	GetInstance(ctx context.Context, id string) (*models.WorkflowInstance, error)
	// ListInstances returns all stored instances.
	ListInstances(ctx context.Context) ([]*models.WorkflowInstance, error)
	// ReplaceInstance swaps a stored instance for its successor value,
	// failing with ErrConflict if the stored version is not inst.Version-1.
	ReplaceInstance(ctx context.Context, inst *models.WorkflowInstance) error
}
