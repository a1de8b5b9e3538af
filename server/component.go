package server

import (
	"context"

	"github.com/kbukum/wirekit/component"
)

const componentName = "inspect-server"

var _ component.Component = (*Component)(nil)

// Component wraps a Server so the bootstrap registry can manage it.
type Component struct {
	server *Server
}

// NewComponent returns a component.Component backed by the given Server.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

// Name returns the component name used for registration.
func (sc *Component) Name() string { return componentName }

// Start starts the underlying HTTP server.
func (sc *Component) Start(ctx context.Context) error {
	return sc.server.Start(ctx)
}

// Stop gracefully shuts down the underlying HTTP server.
func (sc *Component) Stop(ctx context.Context) error {
	return sc.server.Stop(ctx)
}

// Health reports healthy while the server is listening.
func (sc *Component) Health(ctx context.Context) component.Health {
	if sc.server.Listening() {
		return component.Health{Name: componentName, Status: component.StatusHealthy}
	}
	return component.Health{
		Name:    componentName,
		Status:  component.StatusUnhealthy,
		Message: "inspection server not listening",
	}
}

// Server returns the wrapped server.
func (sc *Component) Server() *Server { return sc.server }
