package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/jamdungjobs/reminder-dispatcher/internal/api/respond"
	"github.com/jamdungjobs/reminder-dispatcher/internal/service/reminder"
)

//go:generate mockgen -source=handler.go -destination=../../../mocks/api/handlers/dispatcher/mock.go -package=mocks

type reminderDispatcher interface {
	Run(ctx context.Context) (reminder.RunStats, error)
	LastRun() (reminder.RunStats, bool)
}

type Handler struct {
	dispatcher reminderDispatcher
}

func NewHandler(d reminderDispatcher) *Handler {
	return &Handler{dispatcher: d}
}

// Run triggers a dispatch pass outside the regular schedule.
func (h *Handler) Run(c *ginext.Context) {
	stats, err := h.dispatcher.Run(c.Request.Context())
	if err != nil {
		if errors.Is(err, reminder.ErrRunInProgress) {
			zlog.Logger.Warn().Msg("manual run rejected, dispatch already in progress")
			respond.Fail(c.Writer, http.StatusConflict, reminder.ErrRunInProgress)
			return
		}

		zlog.Logger.Error().Err(err).Msg("manual dispatch run failed")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, stats)
}

// Stats returns the statistics of the last completed run.
func (h *Handler) Stats(c *ginext.Context) {
	stats, ok := h.dispatcher.LastRun()
	if !ok {
		respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("no dispatch run yet"))
		return
	}

	respond.OK(c.Writer, stats)
}
