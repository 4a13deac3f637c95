package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. NARA_MQTT_HOST.
const EnvPrefix = "NARA"

// Config is the process configuration read from configs/config.yml.
type Config struct {
	Port     string       `mapstructure:"port"`
	LogLevel string       `mapstructure:"log_level"`
	DB       DBConfig     `mapstructure:"db"`
	MQTT     MQTTConfig   `mapstructure:"mqtt"`
	Roster   RosterConfig `mapstructure:"roster"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type RosterConfig struct {
	Path string `mapstructure:"path"`
}

// MQTTConfig holds the broker connection parameters. It is comparable so
// hot reloads can tell whether the session needs to be rebuilt.
type MQTTConfig struct {
	Host                 string        `mapstructure:"host" json:"host"`
	Port                 int           `mapstructure:"port" json:"port"`
	Scheme               string        `mapstructure:"scheme" json:"scheme"`
	Path                 string        `mapstructure:"path" json:"path"`
	ClientID             string        `mapstructure:"client_id" json:"client_id"`
	Username             string        `mapstructure:"username" json:"username,omitempty"`
	Password             string        `mapstructure:"password" json:"-"`
	ConnectTimeout       time.Duration `mapstructure:"connect_timeout" json:"connect_timeout"`
	ReconnectInterval    time.Duration `mapstructure:"reconnect_interval" json:"reconnect_interval"`
	MaxReconnectInterval time.Duration `mapstructure:"max_reconnect_interval" json:"max_reconnect_interval"`
	Topics               TopicsConfig  `mapstructure:"topics" json:"topics"`
}

type TopicsConfig struct {
	PillarStatus string `mapstructure:"pillar_status" json:"pillar_status"`
	SlaveStatus  string `mapstructure:"slave_status" json:"slave_status"`
	Command      string `mapstructure:"command" json:"command"`
}

// Defaults.
const (
	DefaultPort                 = "8080"
	DefaultLogLevel             = "info"
	DefaultDBPath               = "nara.db"
	DefaultRosterPath           = "configs/roster.yml"
	DefaultMQTTHost             = "127.0.0.1"
	DefaultMQTTPort             = 9001
	DefaultMQTTScheme           = "ws"
	DefaultMQTTPath             = "/mqtt"
	DefaultConnectTimeout       = 4 * time.Second
	DefaultReconnectInterval    = 1 * time.Second
	DefaultMaxReconnectInterval = 30 * time.Second
	DefaultPillarTopic          = "nara/status/pid/+"
	DefaultSlaveTopic           = "nara/status/slaves/+"
	DefaultCommandTopic         = "nara/cmd"
)

// SetDefaults registers every key so environment overrides work for all of them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", DefaultPort)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("db.path", DefaultDBPath)
	v.SetDefault("roster.path", DefaultRosterPath)
	v.SetDefault("mqtt.host", DefaultMQTTHost)
	v.SetDefault("mqtt.port", DefaultMQTTPort)
	v.SetDefault("mqtt.scheme", DefaultMQTTScheme)
	v.SetDefault("mqtt.path", DefaultMQTTPath)
	v.SetDefault("mqtt.client_id", "")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.connect_timeout", DefaultConnectTimeout)
	v.SetDefault("mqtt.reconnect_interval", DefaultReconnectInterval)
	v.SetDefault("mqtt.max_reconnect_interval", DefaultMaxReconnectInterval)
	v.SetDefault("mqtt.topics.pillar_status", DefaultPillarTopic)
	v.SetDefault("mqtt.topics.slave_status", DefaultSlaveTopic)
	v.SetDefault("mqtt.topics.command", DefaultCommandTopic)
}

// Load reads config.yml from dir into v and unmarshals it. A missing file is
// not an error; defaults and environment still apply.
func Load(v *viper.Viper, dir string) (Config, error) {
	SetDefaults(v)
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return Decode(v)
}

// Decode unmarshals the current viper state and validates it.
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.MQTT.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the broker parameters.
func (c MQTTConfig) Validate() error {
	switch c.Scheme {
	case "ws", "wss", "tcp", "ssl", "mqtt", "mqtts":
	default:
		return fmt.Errorf("mqtt: unsupported scheme %q", c.Scheme)
	}
	if strings.TrimSpace(c.Host) == "" {
		return errors.New("mqtt: host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("mqtt: port %d out of range", c.Port)
	}
	if c.ConnectTimeout <= 0 || c.ReconnectInterval <= 0 || c.MaxReconnectInterval < c.ReconnectInterval {
		return fmt.Errorf("mqtt: invalid timeouts connect=%s reconnect=%s max_reconnect=%s",
			c.ConnectTimeout, c.ReconnectInterval, c.MaxReconnectInterval)
	}
	if c.Topics.PillarStatus == "" || c.Topics.SlaveStatus == "" || c.Topics.Command == "" {
		return errors.New("mqtt: all topics are required")
	}
	return nil
}

// BrokerURL is the paho server URL. The path only applies to websocket schemes.
func (c MQTTConfig) BrokerURL() string {
	url := fmt.Sprintf("%s://%s:%d", c.Scheme, c.Host, c.Port)
	if c.Scheme == "ws" || c.Scheme == "wss" {
		path := c.Path
		if path != "" && !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		url += path
	}
	return url
}
