package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"flowstate/pkg/models"
)

// CreateWorkflow validates and stores a new workflow definition
// (POST /api/v1/workflows)
func (s *Server) CreateWorkflow(c echo.Context) error {
	ctx := c.Request().Context()

	var def models.WorkflowDefinition
	if err := c.Bind(&def); err != nil {
		return writeProblem(c, http.StatusBadRequest, "Invalid request body", err.Error())
	}

	created, err := s.Workflows.CreateDefinition(ctx, &def)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// ListWorkflows returns a list of all workflow definitions
// (GET /api/v1/workflows)
func (s *Server) ListWorkflows(c echo.Context) error {
	ctx := c.Request().Context()

	defs, err := s.Workflows.ListDefinitions(ctx)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, defs)
}

// GetWorkflow returns a single workflow definition by id
// (GET /api/v1/workflows/:id)
func (s *Server) GetWorkflow(c echo.Context) error {
	ctx := c.Request().Context()

	def, err := s.Workflows.GetDefinition(ctx, c.Param("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, def)
}
