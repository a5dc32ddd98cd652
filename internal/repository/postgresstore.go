package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"flowstate/pkg/models"
)

// PostgresStore is a PostgreSQL implementation of the Store interface.
// Entities are stored as JSONB documents; the instance row additionally
// carries its version so replacement can be an optimistic-lock UPDATE.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the store's tables if they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS workflow_definitions (
			id  TEXT PRIMARY KEY,
			doc JSONB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS workflow_instances (
			id            TEXT PRIMARY KEY,
			definition_id TEXT NOT NULL REFERENCES workflow_definitions(id),
			doc           JSONB NOT NULL,
			version       INT NOT NULL
		);`)
	return err
}

// CreateDefinition inserts a definition if its id is absent.
func (s *PostgresStore) CreateDefinition(ctx context.Context, def *models.WorkflowDefinition) error {
	doc, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to encode definition: %w", err)
	}
	tag, err := s.db.Exec(ctx,
		"INSERT INTO workflow_definitions (id, doc) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING",
		def.ID, doc)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

// GetDefinition retrieves a definition by id.
func (s *PostgresStore) GetDefinition(ctx context.Context, id string) (*models.WorkflowDefinition, error) {
	var doc []byte
	err := s.db.QueryRow(ctx, "SELECT doc FROM workflow_definitions WHERE id = $1", id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var def models.WorkflowDefinition
	if err := json.Unmarshal(doc, &def); err != nil {
		return nil, fmt.Errorf("failed to decode definition %s: %w", id, err)
	}
	return &def, nil
}

// ListDefinitions returns all stored definitions.
func (s *PostgresStore) ListDefinitions(ctx context.Context) ([]*models.WorkflowDefinition, error) {
	rows, err := s.db.Query(ctx, "SELECT doc FROM workflow_definitions ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	defs := make([]*models.WorkflowDefinition, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var def models.WorkflowDefinition
		if err := json.Unmarshal(doc, &def); err != nil {
			return nil, fmt.Errorf("failed to decode definition: %w", err)
		}
		defs = append(defs, &def)
	}
	return defs, rows.Err()
}

// CreateInstance inserts an instance if its id is absent.
func (s *PostgresStore) CreateInstance(ctx context.Context, inst *models.WorkflowInstance) error {
	doc, err := json.Marshal(inst)
	if err != nil {
		return fmt.Errorf("failed to encode instance: %w", err)
	}
	tag, err := s.db.Exec(ctx,
		"INSERT INTO workflow_instances (id, definition_id, doc, version) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING",
		inst.ID, inst.DefinitionID, doc, inst.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

// GetInstance retrieves an instance by id.
func (s *PostgresStore) GetInstance(ctx context.Context, id string) (*models.WorkflowInstance, error) {
	var doc []byte
	err := s.db.QueryRow(ctx, "SELECT doc FROM workflow_instances WHERE id = $1", id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var inst models.WorkflowInstance
	if err := json.Unmarshal(doc, &inst); err != nil {
		return nil, fmt.Errorf("failed to decode instance %s: %w", id, err)
	}
	return &inst, nil
}

// ListInstances returns all stored instances.
func (s *PostgresStore) ListInstances(ctx context.Context) ([]*models.WorkflowInstance, error) {
	rows, err := s.db.Query(ctx, "SELECT doc FROM workflow_instances ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	insts := make([]*models.WorkflowInstance, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var inst models.WorkflowInstance
		if err := json.Unmarshal(doc, &inst); err != nil {
			return nil, fmt.Errorf("failed to decode instance: %w", err)
		}
		insts = append(insts, &inst)
	}
	return insts, rows.Err()
}

// ReplaceInstance swaps a stored instance for its successor value using an
// optimistic-lock UPDATE keyed on the previous version.
func (s *PostgresStore) ReplaceInstance(ctx context.Context, inst *models.WorkflowInstance) error {
	doc, err := json.Marshal(inst)
	if err != nil {
		return fmt.Errorf("failed to encode instance: %w", err)
	}
	tag, err := s.db.Exec(ctx,
		"UPDATE workflow_instances SET doc = $2, version = $3 WHERE id = $1 AND version = $4",
		inst.ID, doc, inst.Version, inst.Version-1)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Row either absent or at a different version.
		var exists bool
		if err := s.db.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM workflow_instances WHERE id = $1)", inst.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrConflict
	}
	return nil
}
