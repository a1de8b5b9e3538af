package server

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/wirekit/appcontext"
	"github.com/kbukum/wirekit/component"
	"github.com/kbukum/wirekit/di"
	apperrors "github.com/kbukum/wirekit/errors"
	"github.com/kbukum/wirekit/validation"
	"github.com/kbukum/wirekit/version"
)

// HealthFunc reports the health of the application's components.
type HealthFunc func(ctx context.Context) []component.Health

// HealthReport is the body of GET /health.
type HealthReport struct {
	Status     component.HealthStatus `json:"status"`
	ContextID  string                 `json:"context_id"`
	Components []component.Health     `json:"components"`
}

// ContextNode describes one context in the tree returned by GET /contexts.
type ContextNode struct {
	ID        string        `json:"id"`
	Name      string        `json:"name,omitempty"`
	ParentID  string        `json:"parent_id,omitempty"`
	Wirings   int           `json:"wirings"`
	Listeners int           `json:"listeners"`
	Children  []ContextNode `json:"children,omitempty"`
}

// RegisterInspectRoutes mounts the read-only inspection endpoints for root
// on engine. health may be nil.
func RegisterInspectRoutes(engine *gin.Engine, root *appcontext.Context, health HealthFunc) {
	h := &inspectHandler{root: root, health: health}
	engine.GET("/health", h.getHealth)
	engine.GET("/wirings", h.listWirings)
	engine.GET("/wirings/:key", h.getWiring)
	engine.GET("/contexts", h.getContexts)
	engine.GET("/contexts/:id/wirings", h.listContextWirings)
	engine.GET("/version", h.getVersion)
}

type inspectHandler struct {
	root   *appcontext.Context
	health HealthFunc
}

func (h *inspectHandler) getHealth(c *gin.Context) {
	report := HealthReport{
		Status:     component.StatusHealthy,
		ContextID:  h.root.ID(),
		Components: []component.Health{},
	}
	if h.health != nil {
		report.Components = append(report.Components, h.health(c.Request.Context())...)
	}
	for _, ch := range report.Components {
		switch ch.Status {
		case component.StatusUnhealthy:
			report.Status = component.StatusUnhealthy
		case component.StatusDegraded:
			if report.Status == component.StatusHealthy {
				report.Status = component.StatusDegraded
			}
		}
	}
	if h.root.Destroyed() {
		report.Status = component.StatusUnhealthy
	}
	RespondOK(c, report)
}

func (h *inspectHandler) listWirings(c *gin.Context) {
	RespondList(c, h.root.Resolver().Wirings())
}

func (h *inspectHandler) getWiring(c *gin.Context) {
	key := c.Param("key")
	info, ok := h.root.Resolver().Wiring(key)
	if !ok {
		RespondWithError(c, apperrors.UnresolvedKey(key))
		return
	}
	RespondOK(c, info)
}

func (h *inspectHandler) getContexts(c *gin.Context) {
	RespondOK(c, describe(h.root))
}

func (h *inspectHandler) listContextWirings(c *gin.Context) {
	id := c.Param("id")
	if err := validation.New().RequiredUUID("id", id).Validate(); err != nil {
		RespondWithError(c, err)
		return
	}
	ctx, ok := h.root.Find(id)
	if !ok {
		RespondWithError(c, apperrors.NotFound("context", id))
		return
	}
	RespondList[di.WiringInfo](c, ctx.Resolver().Wirings())
}

func (h *inspectHandler) getVersion(c *gin.Context) {
	RespondOK(c, version.Get())
}

func describe(ctx *appcontext.Context) ContextNode {
	node := ContextNode{
		ID:        ctx.ID(),
		Name:      ctx.Name(),
		ParentID:  ctx.ParentID(),
		Wirings:   len(ctx.Resolver().Wirings()),
		Listeners: ctx.Listeners(),
	}
	for _, child := range ctx.Children() {
		node.Children = append(node.Children, describe(child))
	}
	return node
}
