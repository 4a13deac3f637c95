package config

import (
	"sync"

	"nara_fleet/internal/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Watcher re-reads the config file on change and reports new broker settings.
type Watcher struct {
	v        *viper.Viper
	log      *logger.Logger
	onChange func(MQTTConfig)

	mu      sync.Mutex
	current MQTTConfig
}

// NewWatcher tracks changes relative to current.
func NewWatcher(v *viper.Viper, current MQTTConfig, onChange func(MQTTConfig), log *logger.Logger) *Watcher {
	return &Watcher{v: v, log: log, onChange: onChange, current: current}
}

// Start installs the fsnotify hook.
func (w *Watcher) Start() {
	w.v.OnConfigChange(w.handle)
	w.v.WatchConfig()
}

// Current returns the last applied broker settings.
func (w *Watcher) Current() MQTTConfig {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Set records settings applied from elsewhere (the API) so a later file
// change is compared against what is actually running.
func (w *Watcher) Set(cfg MQTTConfig) {
	w.mu.Lock()
	w.current = cfg
	w.mu.Unlock()
}

func (w *Watcher) handle(e fsnotify.Event) {
	next, err := Decode(w.v)
	if err != nil {
		if w.log != nil {
			w.log.Errorw("config_reload_failed", "file", e.Name, "err", err)
		}
		return
	}

	w.mu.Lock()
	changed := next.MQTT != w.current
	if changed {
		w.current = next.MQTT
	}
	w.mu.Unlock()

	if !changed {
		if w.log != nil {
			w.log.Debugw("config_reloaded", "file", e.Name, "mqtt_changed", false)
		}
		return
	}
	if w.log != nil {
		w.log.Infow("config_reloaded", "file", e.Name, "mqtt_changed", true, "broker", next.MQTT.BrokerURL())
	}
	if w.onChange != nil {
		w.onChange(next.MQTT)
	}
}
