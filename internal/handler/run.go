package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/cinema-transaction-seeder/internal/seeder"
)

// RunHandler exposes run control: starting a generation run and polling
// the status of the latest one.
type RunHandler struct {
	svc *seeder.Service
	log zerolog.Logger
}

// NewRunHandler constructs a RunHandler.
func NewRunHandler(svc *seeder.Service, log zerolog.Logger) *RunHandler {
	return &RunHandler{svc: svc, log: log}
}

// Start launches a generation run.  The run executes in the background;
// the response is 202 with the initial status.  A run already in
// progress yields 409 with the current status.
func (h *RunHandler) Start(c echo.Context) error {
	st, err := h.svc.Start()
	if err != nil {
		if errors.Is(err, seeder.ErrRunInProgress) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error(), "run": st})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start run"})
	}
	if op, ok := c.Get("operator").(string); ok {
		h.log.Info().Str("run_id", st.ID).Str("operator", op).Msg("run started via API")
	}
	return c.JSON(http.StatusAccepted, st)
}

// Latest returns the status of the most recent run, or 404 when no run
// has been started since the process came up.
func (h *RunHandler) Latest(c echo.Context) error {
	st, ok := h.svc.Latest()
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no run has been started"})
	}
	return c.JSON(http.StatusOK, st)
}
