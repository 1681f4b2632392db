package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// LogConfig holds logging settings.
type LogConfig struct {
	Dir   string `json:"dir" mapstructure:"dir"`
	Level string `json:"level" mapstructure:"level"`
}

// ExportConfig holds CSV export settings.
type ExportConfig struct {
	Dir      string `json:"dir" mapstructure:"dir"`
	Compress bool   `json:"compress" mapstructure:"compress"`
}

// MemoryConfig holds in-memory/JSON storage backend settings.
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// GormConfig holds database storage backend settings.
type GormConfig struct {
	FlushInterval time.Duration `json:"flushInterval" mapstructure:"flushInterval"`
	QueueSize     int           `json:"queueSize" mapstructure:"queueSize"`
}

// WebsocketConfig holds live feed backend settings.
type WebsocketConfig struct {
	URL        string `json:"url" mapstructure:"url"`
	Token      string `json:"token" mapstructure:"token"`
	SendBuffer int    `json:"sendBuffer" mapstructure:"sendBuffer"`
}

// StorageConfig selects and parametrizes the archival backend.
type StorageConfig struct {
	Backend   string          `json:"backend" mapstructure:"backend"`
	Memory    MemoryConfig    `json:"memory" mapstructure:"memory"`
	Gorm      GormConfig      `json:"gorm" mapstructure:"gorm"`
	Websocket WebsocketConfig `json:"websocket" mapstructure:"websocket"`
}

// DBConfig holds postgres connection settings.
type DBConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	User     string `json:"user" mapstructure:"user"`
	Password string `json:"password" mapstructure:"password"`
	Name     string `json:"name" mapstructure:"name"`
}

// InfluxConfig holds activity metrics settings.
type InfluxConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Protocol string `json:"protocol" mapstructure:"protocol"`
	Token    string `json:"token" mapstructure:"token"`
	Org      string `json:"org" mapstructure:"org"`
}

// URL returns the server URL the influx client dials.
func (c InfluxConfig) URL() string {
	return c.Protocol + "://" + net.JoinHostPort(c.Host, c.Port)
}

// GraylogConfig holds GELF log forwarding settings.
type GraylogConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Host    string `json:"host" mapstructure:"host"`
	Port    string `json:"port" mapstructure:"port"`
}

// Address returns host:port for the GELF writer.
func (c GraylogConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// OTelConfig holds OpenTelemetry metric export settings.
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// HubConfig holds review hub upload settings.
type HubConfig struct {
	URL   string `json:"url" mapstructure:"url"`
	Token string `json:"token" mapstructure:"token"`
}

// DemoConfig holds settings for the demo subcommand.
type DemoConfig struct {
	Streams        int `json:"streams" mapstructure:"streams"`
	MarksPerStream int `json:"marksPerStream" mapstructure:"marksPerStream"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file; pass "" to search
// the working directory and the directory of the executable.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")
	viper.SetDefault("exportDir", "./exports")
	viper.SetDefault("exportCompress", false)

	viper.SetDefault("storage.backend", "memory")
	viper.SetDefault("storage.memory.outputDir", "./reviews")
	viper.SetDefault("storage.memory.compressOutput", false)
	viper.SetDefault("storage.gorm.flushInterval", "3s")
	viper.SetDefault("storage.gorm.queueSize", 256)
	viper.SetDefault("storage.websocket.url", "ws://localhost:8787/feed")
	viper.SetDefault("storage.websocket.token", "")
	viper.SetDefault("storage.websocket.sendBuffer", 64)

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.user", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.name", "reelmark")

	viper.SetDefault("sqlite.archiveDir", "./archive")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "reelmark-metrics")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.host", "localhost")
	viper.SetDefault("graylog.port", "12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "reelmark")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetDefault("hub.url", "")
	viper.SetDefault("hub.token", "")

	viper.SetDefault("demo.streams", 3)
	viper.SetDefault("demo.marksPerStream", 2)

	viper.SetConfigName("reelmark.cfg.json")
	viper.SetConfigType("json")

	if configDir != "" {
		viper.AddConfigPath(configDir)
	} else {
		viper.AddConfigPath(".")
		if exe, err := os.Executable(); err == nil {
			viper.AddConfigPath(filepath.Dir(exe))
		}
	}

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// IsNotFound reports whether a Load error only means no config file exists.
// Defaults are already in place in that case, so callers may continue.
func IsNotFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf)
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a duration config value.
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// GetLogConfig assembles the logging settings.
func GetLogConfig() LogConfig {
	return LogConfig{
		Dir:   viper.GetString("logsDir"),
		Level: viper.GetString("logLevel"),
	}
}

// GetExportConfig assembles the CSV export settings.
func GetExportConfig() ExportConfig {
	return ExportConfig{
		Dir:      viper.GetString("exportDir"),
		Compress: viper.GetBool("exportCompress"),
	}
}

// GetStorageConfig assembles the archival backend settings. Values are read
// key by key so defaults apply even when the file sets a partial subtree.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Backend: viper.GetString("storage.backend"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		Gorm: GormConfig{
			FlushInterval: viper.GetDuration("storage.gorm.flushInterval"),
			QueueSize:     viper.GetInt("storage.gorm.queueSize"),
		},
		Websocket: WebsocketConfig{
			URL:        viper.GetString("storage.websocket.url"),
			Token:      viper.GetString("storage.websocket.token"),
			SendBuffer: viper.GetInt("storage.websocket.sendBuffer"),
		},
	}
}

// GetDBConfig assembles the postgres connection settings.
func GetDBConfig() DBConfig {
	return DBConfig{
		Host:     viper.GetString("db.host"),
		Port:     viper.GetString("db.port"),
		User:     viper.GetString("db.user"),
		Password: viper.GetString("db.password"),
		Name:     viper.GetString("db.name"),
	}
}

// GetInfluxConfig assembles the activity metrics settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:  viper.GetBool("influx.enabled"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetString("influx.port"),
		Protocol: viper.GetString("influx.protocol"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
	}
}

// GetGraylogConfig assembles the GELF forwarding settings.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Host:    viper.GetString("graylog.host"),
		Port:    viper.GetString("graylog.port"),
	}
}

// GetOTelConfig assembles the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetHubConfig assembles the review hub settings.
func GetHubConfig() HubConfig {
	return HubConfig{
		URL:   viper.GetString("hub.url"),
		Token: viper.GetString("hub.token"),
	}
}

// GetDemoConfig assembles the demo subcommand settings.
func GetDemoConfig() DemoConfig {
	return DemoConfig{
		Streams:        viper.GetInt("demo.streams"),
		MarksPerStream: viper.GetInt("demo.marksPerStream"),
	}
}
