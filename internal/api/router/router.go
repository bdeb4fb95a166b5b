package router

import (
	"github.com/wb-go/wbf/ginext"

	"github.com/jamdungjobs/reminder-dispatcher/internal/api/handlers/dispatcher"
	"github.com/jamdungjobs/reminder-dispatcher/internal/api/handlers/health"
)

func New(dispatcherHandler *dispatcher.Handler, healthHandler *health.Handler) *ginext.Engine {
	e := ginext.New()
	e.Use(ginext.Logger())
	e.Use(ginext.Recovery())

	e.GET("/healthz", healthHandler.Check)

	api := e.Group("/api/dispatcher")

	api.GET("/stats", dispatcherHandler.Stats)
	api.POST("/run", dispatcherHandler.Run)

	return e
}
