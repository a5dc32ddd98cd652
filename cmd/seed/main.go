package main

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"flowstate/internal/config"
	"flowstate/internal/engine"
	"flowstate/internal/logging"
	"flowstate/internal/repository"
	"flowstate/pkg/models"
)

// seedDefinitions are the sample workflows installed by this command. The
// document-approval flow doubles as a smoke test for the whole pipeline:
// validate, store, start, transition.
var seedDefinitions = []*models.WorkflowDefinition{
	{
		ID:   "document-approval",
		Name: "Document Approval",
		States: []models.State{
			{ID: "draft", Name: "Draft", IsInitial: true, Enabled: true},
			{ID: "review", Name: "Review", Enabled: true},
			{ID: "approved", Name: "Approved", IsFinal: true, Enabled: true},
			{ID: "rejected", Name: "Rejected", IsFinal: true, Enabled: true},
		},
		Actions: []models.Action{
			{ID: "submit-for-review", Name: "Submit for Review", Enabled: true, FromStates: []string{"draft"}, ToState: "review"},
			{ID: "approve", Name: "Approve", Enabled: true, FromStates: []string{"review"}, ToState: "approved"},
			{ID: "reject", Name: "Reject", Enabled: true, FromStates: []string{"review"}, ToState: "rejected"},
			{ID: "rework", Name: "Send Back for Rework", Enabled: true, FromStates: []string{"review"}, ToState: "draft"},
		},
	},
	{
		ID:   "incident-triage",
		Name: "Incident Triage",
		States: []models.State{
			{ID: "open", Name: "Open", IsInitial: true, Enabled: true},
			{ID: "investigating", Name: "Investigating", Enabled: true},
			{ID: "resolved", Name: "Resolved", IsFinal: true, Enabled: true},
		},
		Actions: []models.Action{
			{ID: "acknowledge", Name: "Acknowledge", Enabled: true, FromStates: []string{"open"}, ToState: "investigating"},
			{ID: "resolve", Name: "Resolve", Enabled: true, FromStates: []string{"open", "investigating"}, ToState: "resolved"},
		},
	},
}

func main() {
	ctx := context.Background()

	// Load config
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := logging.NewLogger(cfg.Log.Level)

	// Connect to DB
	pool, err := pgxpool.New(ctx, cfg.ConnString())
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pool.Close()

	store := repository.NewPostgresStore(pool)
	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	for _, def := range seedDefinitions {
		if err := engine.Validate(def); err != nil {
			log.Fatalf("Seed definition %s is invalid: %v", def.ID, err)
		}
		err := store.CreateDefinition(ctx, def)
		if errors.Is(err, repository.ErrConflict) {
			logger.Info("Skipping existing workflow", "definition_id", def.ID)
			continue
		}
		if err != nil {
			log.Fatalf("Failed to seed workflow %s: %v", def.ID, err)
		}
		logger.Info("Seeded workflow", "definition_id", def.ID, "name", def.Name)
	}
}
