package handlers

import (
	"errors"
	"io"
	"net/http"

	"nara_fleet/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusSent = "sent"

	errCommand = "failed to send command"
	errFlash   = "failed to flash pillar"
)

// @Summary      Send command
// @Description  Empty target, type or id fall back to the console state.
// @Tags         commands
// @Accept       json
// @Produce      json
// @Param        body  body  service.CommandRequest  true  "Command"
// @Success      200  {object}  map[string]interface{}  "status, command"
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/commands [post]
func (h *Handler) executeCommand(c *gin.Context) {
	var req service.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badBody(c, err)
		return
	}
	env, err := h.services.Commands.Execute(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, errCommand, "command_failed", err, "target", req.TargetMode, "id", req.Selection)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  statusSent,
		"command": env,
	})
}

// @Summary      Flash pillar
// @Description  Sends the test flash frame to one pillar, hidden or not.
// @Tags         commands
// @Produce      json
// @Param        pid  path  string  true  "Pillar id"
// @Success      200  {object}  map[string]interface{}  "status, command"
// @Failure      404  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/pillars/{pid}/flash [post]
func (h *Handler) flashPillar(c *gin.Context) {
	pid := c.Param("pid")
	env, err := h.services.Commands.Flash(c.Request.Context(), pid)
	if err != nil {
		h.respondError(c, errFlash, "flash_failed", err, "pid", pid)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  statusSent,
		"command": env,
	})
}
