// Package api contains the HTTP handlers for the workflow service
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"flowstate/internal/engine"
	"flowstate/internal/repository"
	"flowstate/internal/services"
)

// Server holds the dependencies for the API server.
type Server struct {
	Workflows *services.WorkflowService
}

// NewServer creates a new Server.
func NewServer(workflows *services.WorkflowService) *Server {
	return &Server{Workflows: workflows}
}

// RegisterRoutes mounts all workflow routes on the given group.
func (s *Server) RegisterRoutes(g *echo.Group) {
	g.POST("/workflows", s.CreateWorkflow)
	g.GET("/workflows", s.ListWorkflows)
	g.GET("/workflows/:id", s.GetWorkflow)
	g.POST("/workflows/:id/instances", s.StartInstance)
	g.GET("/instances", s.ListInstances)
	g.GET("/instances/:id", s.GetInstance)
	g.POST("/instances/:id/actions/:actionID", s.ExecuteAction)
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
}

// HandleHealth returns basic health status (always returns 200 OK)
func (s *Server) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Service:   "flowstate",
		Version:   "1.0.0",
	})
}

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
}

// writeProblem writes an RFC 7807 Problem Details JSON error response
func writeProblem(c echo.Context, status int, title, detail string) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/problem+json")
	c.Response().WriteHeader(status)
	return json.NewEncoder(c.Response()).Encode(ProblemDetails{
		Type:   "about:blank",
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

// writeDomainError maps core rejections to their HTTP status: malformed
// definitions and refused transitions are 400, unresolved ids 404 and
// duplicate creates 409.
func writeDomainError(c echo.Context, err error) error {
	var vErr *engine.ValidationError
	if errors.As(err, &vErr) {
		return writeProblem(c, http.StatusBadRequest, "Validation failed", vErr.Error())
	}
	var tErr *engine.TransitionError
	if errors.As(err, &tErr) {
		return writeProblem(c, http.StatusBadRequest, "Transition rejected", tErr.Error())
	}
	if errors.Is(err, repository.ErrNotFound) {
		return writeProblem(c, http.StatusNotFound, "Not found", err.Error())
	}
	if errors.Is(err, repository.ErrConflict) {
		return writeProblem(c, http.StatusConflict, "Conflict", err.Error())
	}
	return writeProblem(c, http.StatusInternalServerError, "Internal error", err.Error())
}
