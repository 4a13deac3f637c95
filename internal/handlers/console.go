package handlers

import (
	"net/http"

	"nara_fleet/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	errSetFilter = "failed to set filter"
	errSetMode   = "failed to set target mode"
	errSelect    = "failed to select pillar"
)

type modeRequest struct {
	Mode models.TargetMode `json:"mode" binding:"required"`
}

type selectRequest struct {
	PID string `json:"pid" binding:"required"`
}

// @Summary      Current filter
// @Tags         console
// @Produce      json
// @Success      200  {object}  models.FilterCriteria
// @Router       /api/v1/filter [get]
func (h *Handler) getFilter(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Console.Filter())
}

// @Summary      Replace filter
// @Tags         console
// @Accept       json
// @Produce      json
// @Param        body  body  models.FilterCriteria  true  "Filter"
// @Success      200  {object}  models.FilterCriteria
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/filter [put]
func (h *Handler) putFilter(c *gin.Context) {
	var req models.FilterCriteria
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	f, err := h.services.Console.SetFilter(req)
	if err != nil {
		h.respondError(c, errSetFilter, "filter_set_failed", err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// @Summary      Console state
// @Description  Command composition state plus the option lists for each selector.
// @Tags         console
// @Produce      json
// @Success      200  {object}  service.ConsoleView
// @Router       /api/v1/console [get]
func (h *Handler) getConsole(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Console.View())
}

// @Summary      Switch target mode
// @Description  All resets to MCMD / "All Halls"; Slave resets to SCMD and the first slave.
// @Tags         console
// @Accept       json
// @Produce      json
// @Param        body  body  modeRequest  true  "Mode"
// @Success      200  {object}  models.ConsoleState
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/console/mode [post]
func (h *Handler) setTargetMode(c *gin.Context) {
	var req modeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	st, err := h.services.Console.SetTargetMode(req.Mode)
	if err != nil {
		h.respondError(c, errSetMode, "console_mode_failed", err, "mode", req.Mode)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Select pillar
// @Tags         console
// @Accept       json
// @Produce      json
// @Param        body  body  selectRequest  true  "Pillar"
// @Success      200  {object}  models.ConsoleState
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/console/select [post]
func (h *Handler) selectPillar(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	st, err := h.services.Console.SelectPillar(req.PID)
	if err != nil {
		h.respondError(c, errSelect, "console_select_failed", err, "pid", req.PID)
		return
	}
	c.JSON(http.StatusOK, st)
}
