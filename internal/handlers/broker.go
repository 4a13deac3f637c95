package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"nara_fleet/internal/config"

	"github.com/gin-gonic/gin"
)

const (
	statusReconfigured = "reconfigured"

	errReconfigure = "failed to reconfigure broker"
)

// brokerRequest overlays the running settings. Password is write-only.
type brokerRequest struct {
	config.MQTTConfig
	Password             *string   `json:"password,omitempty"`
	ConnectTimeout       *duration `json:"connect_timeout,omitempty"`
	ReconnectInterval    *duration `json:"reconnect_interval,omitempty"`
	MaxReconnectInterval *duration `json:"max_reconnect_interval,omitempty"`
}

func (r brokerRequest) toConfig() config.MQTTConfig {
	cfg := r.MQTTConfig
	if r.Password != nil {
		cfg.Password = *r.Password
	}
	if r.ConnectTimeout != nil {
		cfg.ConnectTimeout = time.Duration(*r.ConnectTimeout)
	}
	if r.ReconnectInterval != nil {
		cfg.ReconnectInterval = time.Duration(*r.ReconnectInterval)
	}
	if r.MaxReconnectInterval != nil {
		cfg.MaxReconnectInterval = time.Duration(*r.MaxReconnectInterval)
	}
	return cfg
}

// duration accepts "4s" style strings as well as integer nanoseconds.
type duration time.Duration

func (d *duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case string:
		parsed, err := time.ParseDuration(x)
		if err != nil {
			return err
		}
		*d = duration(parsed)
	case float64:
		*d = duration(time.Duration(x))
	default:
		return fmt.Errorf("invalid duration %s", b)
	}
	return nil
}

// @Summary      Broker status
// @Tags         broker
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, config"
// @Router       /api/v1/broker [get]
func (h *Handler) getBroker(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": h.services.Broker.Status(),
		"config": h.services.Broker.Config(),
	})
}

// @Summary      Reconfigure broker
// @Description  Fields left out keep their running value. Durations take Go duration strings ("4s") or integer nanoseconds. The session is torn down and rebuilt.
// @Tags         broker
// @Accept       json
// @Produce      json
// @Param        body  body  config.MQTTConfig  true  "Broker settings"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/broker [put]
func (h *Handler) putBroker(c *gin.Context) {
	req := brokerRequest{MQTTConfig: h.services.Broker.Config()}
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	cfg := req.toConfig()
	if err := cfg.Validate(); err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, err.Error(), "broker_config_invalid", err)
		return
	}
	if err := h.services.Broker.Reconfigure(cfg); err != nil {
		h.respondError(c, errReconfigure, "broker_reconfigure_failed", err, "broker", cfg.BrokerURL())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": statusReconfigured,
		"broker": h.services.Broker.Status(),
	})
}
