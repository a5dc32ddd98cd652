package repository

import (
	"context"
	"sync"

	"flowstate/pkg/models"
)

// MemoryStore is the in-process implementation of Store. It is the
// authoritative store for a single-node deployment: plain maps guarded by a
// read-write mutex, with version-checked instance replacement standing in
// for compare-and-swap.
type MemoryStore struct {
	mu          sync.RWMutex
	definitions map[string]*models.WorkflowDefinition
	instances   map[string]*models.WorkflowInstance
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		definitions: make(map[string]*models.WorkflowDefinition),
		instances:   make(map[string]*models.WorkflowInstance),
	}
}

// CreateDefinition inserts a definition if its id is absent.
func (s *MemoryStore) CreateDefinition(_ context.Context, def *models.WorkflowDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.definitions[def.ID]; exists {
		return ErrConflict
	}
	s.definitions[def.ID] = def
	return nil
}

// GetDefinition retrieves a definition by id.
func (s *MemoryStore) GetDefinition(_ context.Context, id string) (*models.WorkflowDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	def, ok := s.definitions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return def, nil
}

// ListDefinitions returns a snapshot of all stored definitions.
func (s *MemoryStore) ListDefinitions(_ context.Context) ([]*models.WorkflowDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	defs := make([]*models.WorkflowDefinition, 0, len(s.definitions))
	for _, def := range s.definitions {
		defs = append(defs, def)
	}
	return defs, nil
}

// CreateInstance inserts an instance if its id is absent.
func (s *MemoryStore) CreateInstance(_ context.Context, inst *models.WorkflowInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.instances[inst.ID]; exists {
		return ErrConflict
	}
	s.instances[inst.ID] = inst
	return nil
}

// GetInstance retrieves an instance by id.
func (s *MemoryStore) GetInstance(_ context.Context, id string) (*models.WorkflowInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inst, ok := s.instances[id]
	if !ok {
		return nil, ErrNotFound
	}
	return inst, nil
}

// ListInstances returns a snapshot of all stored instances.
func (s *MemoryStore) ListInstances(_ context.Context) ([]*models.WorkflowInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	insts := make([]*models.WorkflowInstance, 0, len(s.instances))
	for _, inst := range s.instances {
		insts = append(insts, inst)
	}
	return insts, nil
}

// ReplaceInstance swaps the stored instance for its successor value. The
// swap only commits if the stored version equals inst.Version-1, so two
// racing transitions computed from the same snapshot cannot both win.
func (s *MemoryStore) ReplaceInstance(_ context.Context, inst *models.WorkflowInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.instances[inst.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != inst.Version-1 {
		return ErrConflict
	}
	s.instances[inst.ID] = inst
	return nil
}
