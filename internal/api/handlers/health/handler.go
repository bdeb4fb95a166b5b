package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/jamdungjobs/reminder-dispatcher/internal/api/respond"
)

//go:generate mockgen -source=handler.go -destination=../../../mocks/api/handlers/health/mock.go -package=mocks

type pinger interface {
	PingContext(ctx context.Context) error
}

const pingTimeout = 2 * time.Second

type Handler struct {
	db pinger
}

func NewHandler(db pinger) *Handler {
	return &Handler{db: db}
}

// Check reports whether the database is reachable.
func (h *Handler) Check(c *ginext.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		zlog.Logger.Error().Err(err).Msg("health check: database unreachable")
		respond.Fail(c.Writer, http.StatusServiceUnavailable, fmt.Errorf("database unavailable"))
		return
	}

	respond.OK(c.Writer, "ok")
}
