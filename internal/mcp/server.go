package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"flowstate/internal/services"
	"flowstate/pkg/models"
)

type Server struct {
	mcpServer *server.MCPServer
	workflows *services.WorkflowService
}

func NewServer(workflows *services.WorkflowService) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"Flowstate Workflows",
			"1.0.0",
			server.WithToolCapabilities(true),
		),
		workflows: workflows,
	}

	s.registerTools()
	return s
}

func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"create_workflow",
			mcp.WithDescription("Create a new workflow definition from a JSON document of states and actions"),
			mcp.WithString("definition", mcp.Required(), mcp.Description("The workflow definition as a JSON document")),
		),
		s.handleCreateWorkflow,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_workflows",
			mcp.WithDescription("List all stored workflow definitions"),
		),
		s.handleListWorkflows,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"start_workflow",
			mcp.WithDescription("Start a new instance of a workflow definition"),
			mcp.WithString("definition_id", mcp.Required(), mcp.Description("The ID of the workflow definition")),
		),
		s.handleStartWorkflow,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"execute_action",
			mcp.WithDescription("Execute an action against a running workflow instance"),
			mcp.WithString("instance_id", mcp.Required(), mcp.Description("The ID of the workflow instance")),
			mcp.WithString("action_id", mcp.Required(), mcp.Description("The ID of the action to execute")),
		),
		s.handleExecuteAction,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_instance",
			mcp.WithDescription("Get a workflow instance with its current state and history"),
			mcp.WithString("instance_id", mcp.Required(), mcp.Description("The ID of the workflow instance")),
		),
		s.handleGetInstance,
	)
}

func (s *Server) handleCreateWorkflow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	raw, ok := args["definition"].(string)
	if !ok || raw == "" {
		return mcp.NewToolResultError("Missing required parameter: definition"), nil
	}

	var def models.WorkflowDefinition
	if err := json.Unmarshal([]byte(raw), &def); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid definition JSON: %v", err)), nil
	}

	created, err := s.workflows.CreateDefinition(ctx, &def)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create workflow: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(created)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleListWorkflows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	defs, err := s.workflows.ListDefinitions(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list workflows: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(defs)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleStartWorkflow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	definitionID, ok := args["definition_id"].(string)
	if !ok || definitionID == "" {
		return mcp.NewToolResultError("Missing required parameter: definition_id"), nil
	}

	inst, err := s.workflows.StartInstance(ctx, definitionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to start workflow: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(inst)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleExecuteAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	instanceID, ok := args["instance_id"].(string)
	if !ok || instanceID == "" {
		return mcp.NewToolResultError("Missing required parameter: instance_id"), nil
	}

	actionID, ok := args["action_id"].(string)
	if !ok || actionID == "" {
		return mcp.NewToolResultError("Missing required parameter: action_id"), nil
	}

	inst, err := s.workflows.ExecuteAction(ctx, instanceID, actionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to execute action: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(inst)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleGetInstance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	instanceID, ok := args["instance_id"].(string)
	if !ok || instanceID == "" {
		return mcp.NewToolResultError("Missing required parameter: instance_id"), nil
	}

	inst, err := s.workflows.GetInstance(ctx, instanceID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get instance: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(inst)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func MountHTTPHandlers(mux *http.ServeMux, mcpServer *server.MCPServer) {
	// Use SSE server for /mcp/sse and /mcp/message endpoints
	sseServer := server.NewSSEServer(mcpServer, server.WithStaticBasePath("/mcp"))

	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		// Direct POST for tool calls
		if r.Method == http.MethodPost {
			sseServer.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	// SSE endpoints
	mux.HandleFunc("/mcp/sse", sseServer.ServeHTTP)
	mux.HandleFunc("/mcp/message", sseServer.ServeHTTP)
}
