package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// StartInstance creates a new instance of a stored workflow definition
// (POST /api/v1/workflows/:id/instances)
func (s *Server) StartInstance(c echo.Context) error {
	ctx := c.Request().Context()

	inst, err := s.Workflows.StartInstance(ctx, c.Param("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, inst)
}

// ListInstances returns all workflow instances
// (GET /api/v1/instances)
func (s *Server) ListInstances(c echo.Context) error {
	ctx := c.Request().Context()

	insts, err := s.Workflows.ListInstances(ctx)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, insts)
}

// GetInstance returns a single workflow instance by id
// (GET /api/v1/instances/:id)
func (s *Server) GetInstance(c echo.Context) error {
	ctx := c.Request().Context()

	inst, err := s.Workflows.GetInstance(ctx, c.Param("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, inst)
}

// ExecuteAction advances an instance by executing an action against it
// (POST /api/v1/instances/:id/actions/:actionID)
func (s *Server) ExecuteAction(c echo.Context) error {
	ctx := c.Request().Context()

	inst, err := s.Workflows.ExecuteAction(ctx, c.Param("id"), c.Param("actionID"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, inst)
}
