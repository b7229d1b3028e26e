package router

import (
	"context"
	"net/http"

	"github.com/crazycusti/ticket-desk/internal/handler"
	"github.com/gin-gonic/gin"
)

const (
	PathHealth = "/health"
	PathReady  = "/ready"
)

type Deps struct {
	Tickets *handler.TicketHandler
	// Ready is polled by the readiness probe.
	Ready func(ctx context.Context) error
	// Operators maps operator user names to passwords for the admin group.
	Operators gin.Accounts
}

func New(deps Deps) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), handler.NoStore)
	r.GET(PathHealth, handler.Health)
	r.GET(PathReady, handler.Ready(deps.Ready))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/tickets", deps.Tickets.Create)
		v1.GET("/tickets/:uid", deps.Tickets.Get)
	}

	admin := v1.Group("/admin", gin.BasicAuth(deps.Operators))
	{
		admin.GET("/tickets", deps.Tickets.List)
		admin.PUT("/tickets/:uid/status", deps.Tickets.UpdateStatus)
	}

	return r
}
