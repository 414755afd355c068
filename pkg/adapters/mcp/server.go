// Package mcp exposes the contact form and the site content to MCP clients.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/folio/internal/content"
	"github.com/aretw0/folio/internal/logging"
	"github.com/aretw0/folio/internal/presentation/graph"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/form"
	"github.com/aretw0/folio/pkg/validation"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	// ContentURI is the resource holding the site content as markdown.
	ContentURI = "folio://content"
	// GraphURI is the resource holding the form state diagram.
	GraphURI = "folio://graph"
)

// FieldResult is the structured output of validate_field.
type FieldResult struct {
	Field   string `json:"field" jsonschema_description:"The validated field"`
	Valid   bool   `json:"valid" jsonschema_description:"Whether the value passes every rule"`
	Message string `json:"message,omitempty" jsonschema_description:"The inline error shown for an invalid value"`
}

// SendResult is the structured output of send_message.
type SendResult struct {
	Sent    bool              `json:"sent" jsonschema_description:"Whether the backend accepted the message"`
	Message string            `json:"message" jsonschema_description:"The banner text a visitor would see"`
	Errors  map[string]string `json:"errors,omitempty" jsonschema_description:"Validation failures by field"`
}

// Server exposes the form controller as an MCP server.
type Server struct {
	ctrl      *form.Controller
	content   *content.Source
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer creates a new MCP server instance.
func NewServer(ctrl *form.Controller, src *content.Source, version string, opts ...Option) *Server {
	s := &Server{
		ctrl:      ctrl,
		content:   src,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("folio-mcp", version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop MCP server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	validateTool := mcp.NewTool("validate_field",
		mcp.WithDescription("Validate one contact form value with the same rules the page applies."),
		mcp.WithString("field", mcp.Required(), mcp.Description("Field id"), mcp.Enum("name", "email", "subject", "message")),
		mcp.WithString("value", mcp.Description("The value to check")),
		mcp.WithOutputSchema[FieldResult](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidateField))

	sendTool := mcp.NewTool("send_message",
		mcp.WithDescription("Send a message through the contact form backend."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Sender name")),
		mcp.WithString("email", mcp.Required(), mcp.Description("Sender email address")),
		mcp.WithString("subject", mcp.Required(), mcp.Description("Message subject")),
		mcp.WithString("message", mcp.Required(), mcp.Description("Message body, at least 10 characters")),
		mcp.WithOutputSchema[SendResult](),
	)
	s.mcpServer.AddTool(sendTool, mcp.NewStructuredToolHandler(s.handleSendMessage))

	s.mcpServer.AddTool(mcp.NewTool("get_form_graph",
		mcp.WithDescription("Get the contact form state machine as a Mermaid diagram."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(graph.GenerateMermaid(form.Transitions(), nil)), nil
	})
}

func (s *Server) handleValidateField(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (FieldResult, error) {
	id, _ := args["field"].(string)
	value, _ := args["value"].(string)

	var target *domain.Field
	for _, f := range domain.ContactFields() {
		if string(f.ID) == id {
			f := f
			target = &f
			break
		}
	}
	if target == nil {
		return FieldResult{}, fmt.Errorf("%w: %q", domain.ErrUnknownField, id)
	}

	clean, err := validation.SanitizeInput(value)
	if err != nil {
		s.logger.Warn("MCP validate_field: input rejected", "err", err, "size", len(value))
		return FieldResult{}, fmt.Errorf("input rejected: %w", err)
	}
	target.Value = clean

	res := validation.Validate(*target)
	return FieldResult{Field: id, Valid: res.Valid, Message: res.Message}, nil
}

func (s *Server) handleSendMessage(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SendResult, error) {
	values := make(map[domain.FieldID]string, 4)
	for _, f := range domain.ContactFields() {
		v, _ := args[string(f.ID)].(string)
		values[f.ID] = v
	}

	_, err := s.ctrl.Send(ctx, "mcp", values)
	var fieldErrs form.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		out := SendResult{Errors: make(map[string]string, len(fieldErrs))}
		for id, msg := range fieldErrs {
			out.Errors[string(id)] = msg
		}
		out.Message = "Please fix the highlighted fields."
		return out, nil
	case err != nil:
		return SendResult{Message: domain.MsgSubmitFailure}, nil
	default:
		return SendResult{Sent: true, Message: domain.MsgSubmitSuccess}, nil
	}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(ContentURI, "Site content",
		mcp.WithMIMEType("text/markdown"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      ContentURI,
				MIMEType: "text/markdown",
				Text:     s.content.Site().Markdown(),
			},
		}, nil
	})

	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Contact form state machine",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      GraphURI,
				MIMEType: "text/plain",
				Text:     graph.GenerateMermaid(form.Transitions(), nil),
			},
		}, nil
	})
}
