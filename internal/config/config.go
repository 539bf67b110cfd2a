// Package config provides centralized configuration management for the
// blackbox pipeline daemon and its admin tooling.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the master configuration struct for blackboxd.
type Config struct {
	Network Network `mapstructure:"network"`
	Model   Model   `mapstructure:"model"`
	Storage Storage `mapstructure:"storage"`
	Defense Defense `mapstructure:"defense"`
	Admin   Admin   `mapstructure:"admin"`
	Logging Logging `mapstructure:"logging"`
}

// Network holds ingest-side settings: ports, ring sizing, rate limits.
type Network struct {
	UDPPort        int `mapstructure:"udp_port"`
	TCPPort        int `mapstructure:"tcp_port"`
	RingBufferSize int `mapstructure:"ring_buffer_size"`
	RefillRate     float64 `mapstructure:"refill_rate"`
	MaxBurst       float64 `mapstructure:"max_burst"`
}

// Model holds inference and classification settings.
type Model struct {
	Path             string  `mapstructure:"model_path"`
	AnomalyThreshold float64 `mapstructure:"anomaly_threshold"`
	BatchSize        int     `mapstructure:"batch_size"`
	RulesPath        string  `mapstructure:"rules_path"`
}

// Storage holds analytics-sink and pub/sub settings.
type Storage struct {
	ClickHouseURL    string        `mapstructure:"clickhouse_url"`
	Table            string        `mapstructure:"table"`
	FlushBatchSize   int           `mapstructure:"flush_batch_size"`
	FlushInterval    time.Duration `mapstructure:"flush_interval"`
	RedisURL         string        `mapstructure:"redis_url"`
	AlertChannel     string        `mapstructure:"alert_channel"`
}

// Defense holds alert-cooldown and active-defense settings.
type Defense struct {
	CooldownSeconds    int     `mapstructure:"cooldown_seconds"`
	CriticalThreshold  float64 `mapstructure:"critical_threshold"`
	DefaultBanSeconds  int     `mapstructure:"default_ban_seconds"`
	ActiveDefense      bool    `mapstructure:"active_defense_enabled"`
	FirewallCommand    string  `mapstructure:"firewall_command"`
}

// Admin holds the admin HTTP surface's listen settings.
type Admin struct {
	Port int `mapstructure:"port"`
}

// Logging holds logging level/format settings.
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from $BLACKBOX_CONFIG_DIR/blackbox.yaml and
// environment variables prefixed BLACKBOX_, falling back to defaults for
// every key named in the specification.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	configDir := os.Getenv("BLACKBOX_CONFIG_DIR")
	if configDir == "" {
		configDir = "/etc/blackbox"
	}

	v.SetConfigFile(fmt.Sprintf("%s/blackbox.yaml", configDir))
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BLACKBOX")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("network.udp_port", 514)
	v.SetDefault("network.tcp_port", 601)
	v.SetDefault("network.ring_buffer_size", 65536)
	v.SetDefault("network.refill_rate", 100.0)
	v.SetDefault("network.max_burst", 500.0)

	v.SetDefault("model.model_path", "models/autoencoder.plan")
	v.SetDefault("model.anomaly_threshold", 0.8)
	v.SetDefault("model.batch_size", 32)
	v.SetDefault("model.rules_path", "/etc/blackbox/rules.yaml")

	v.SetDefault("storage.clickhouse_url", "http://localhost:8123")
	v.SetDefault("storage.table", "blackbox_events")
	v.SetDefault("storage.flush_batch_size", 1000)
	v.SetDefault("storage.flush_interval", "1s")
	v.SetDefault("storage.redis_url", "redis://localhost:6379/0")
	v.SetDefault("storage.alert_channel", "blackbox:alerts")

	v.SetDefault("defense.cooldown_seconds", 300)
	v.SetDefault("defense.critical_threshold", 0.95)
	v.SetDefault("defense.default_ban_seconds", 600)
	v.SetDefault("defense.active_defense_enabled", true)
	v.SetDefault("defense.firewall_command", "/usr/sbin/blackbox-fwctl")

	v.SetDefault("admin.port", 9090)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
