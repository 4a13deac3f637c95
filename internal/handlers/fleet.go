package handlers

import (
	"net/http"
	"strconv"

	"nara_fleet/internal/fleet"
	"nara_fleet/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errTree    = "failed to build fleet tree"
	errPillars = "failed to list pillars"
	errLimit   = "invalid 'limit'; use a non-negative integer"
)

// filterFromQuery overlays hall, signal and search query parameters on base.
func filterFromQuery(c *gin.Context, base models.FilterCriteria) models.FilterCriteria {
	if v, ok := c.GetQuery("hall"); ok {
		base.Hall = v
	}
	if v, ok := c.GetQuery("signal"); ok {
		base.Signal = v
	}
	if v, ok := c.GetQuery("search"); ok {
		base.Search = v
	}
	return base
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	resp := gin.H{"status": statusOK}
	if h.services != nil && h.services.Broker != nil {
		resp["broker"] = h.services.Broker.Status().State
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Fleet tree
// @Description  Group, slave, pillar hierarchy under the current filter. hall and search override it for this call.
// @Tags         fleet
// @Produce      json
// @Param        hall    query  string  false  "Hall"  Enums(All,H1,H2)
// @Param        search  query  string  false  "Substring of pid or bid"
// @Success      200  {object}  map[string]interface{}  "groups"
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/fleet/tree [get]
func (h *Handler) getTree(c *gin.Context) {
	f := filterFromQuery(c, h.services.Console.Filter())
	proj, err := h.services.Fleet.Tree(f)
	if err != nil {
		h.respondError(c, errTree, "fleet_tree_failed", err)
		return
	}
	c.JSON(http.StatusOK, proj)
}

// @Summary      Pillar list
// @Description  Flat analytics list with hall, signal and search filters. limit=0 returns every visible pillar.
// @Tags         fleet
// @Produce      json
// @Param        hall    query  string  false  "Hall"    Enums(All,H1,H2)
// @Param        signal  query  string  false  "Signal"  Enums(All,Good,Low)
// @Param        search  query  string  false  "Substring of pid or bid"
// @Param        limit   query  int     false  "Max entries (default 12)"
// @Success      200  {object}  map[string]interface{}  "count, pillars"
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/fleet/pillars [get]
func (h *Handler) listPillars(c *gin.Context) {
	limit := fleet.AnalyticsLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errLimit})
			return
		}
		limit = n
	}
	f := filterFromQuery(c, h.services.Console.Filter())
	list, err := h.services.Fleet.Pillars(f, limit)
	if err != nil {
		h.respondError(c, errPillars, "fleet_pillars_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(list),
		"pillars": list,
	})
}

// @Summary      Pillar detail
// @Tags         fleet
// @Produce      json
// @Param        pid  path  string  true  "Pillar id"
// @Success      200  {object}  models.Pillar
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/fleet/pillars/{pid} [get]
func (h *Handler) getPillar(c *gin.Context) {
	p, err := h.services.Fleet.Pillar(c.Param("pid"))
	if err != nil {
		h.respondError(c, errPillars, "fleet_pillar_failed", err, "pid", c.Param("pid"))
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Slaves
// @Tags         fleet
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, slaves"
// @Router       /api/v1/fleet/slaves [get]
func (h *Handler) listSlaves(c *gin.Context) {
	slaves := h.services.Fleet.Slaves()
	c.JSON(http.StatusOK, gin.H{
		"count":  len(slaves),
		"slaves": slaves,
	})
}

// @Summary      Fleet stats
// @Tags         fleet
// @Produce      json
// @Success      200  {object}  models.FleetStats
// @Router       /api/v1/fleet/stats [get]
func (h *Handler) getStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Fleet.Stats())
}

// @Summary      Heat map
// @Tags         fleet
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "cells"
// @Router       /api/v1/fleet/heatmap [get]
func (h *Handler) getHeatMap(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cells": h.services.Fleet.HeatMap()})
}
