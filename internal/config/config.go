package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	HTTPAddr        string
	SessionTTL      time.Duration
	SweepInterval   time.Duration
	MaxBodyBytes    int64
	PipelinePath    string
	CLDBPath        string
	Utt2DAPath      string
	MQTTBrokerURL   string
	MQTTClientID    string
	MQTTUsername    string
	MQTTPassword    string
	MQTTTopicPrefix string
}

type CLIConfig struct {
	ServerURL    string
	PipelinePath string
	CLDBPath     string
	Utt2DAPath   string
	Timeout      time.Duration
}

// LoadDotEnv loads the first .env file found among paths into the process
// environment. Variables already set win. Missing files are not an error.
func LoadDotEnv(paths ...string) (string, error) {
	if len(paths) == 0 {
		paths = []string{".env", "config/.env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return "", fmt.Errorf("load %s: %w", path, err)
		}
		return path, nil
	}
	return "", nil
}

func LoadServerConfig() (ServerConfig, error) {
	cfg := ServerConfig{
		HTTPAddr:        getenvDefault("DIALCORE_HTTP_ADDR", ":9020"),
		SessionTTL:      time.Duration(getenvIntDefault("DIALCORE_SESSION_TTL_SECONDS", 1800)) * time.Second,
		SweepInterval:   time.Duration(getenvIntDefault("DIALCORE_SWEEP_INTERVAL_SECONDS", 60)) * time.Second,
		MaxBodyBytes:    getenvInt64Default("DIALCORE_MAX_BODY_BYTES", 64<<10),
		PipelinePath:    os.Getenv("DIALCORE_CONFIG"),
		CLDBPath:        os.Getenv("DIALCORE_CLDB_PATH"),
		Utt2DAPath:      os.Getenv("DIALCORE_UTT2DA_PATH"),
		MQTTBrokerURL:   strings.TrimSpace(os.Getenv("MQTT_BROKER_URL")),
		MQTTClientID:    getenvDefault("MQTT_CLIENT_ID", "dialcore-server"),
		MQTTUsername:    os.Getenv("MQTT_USERNAME"),
		MQTTPassword:    os.Getenv("MQTT_PASSWORD"),
		MQTTTopicPrefix: strings.Trim(getenvDefault("MQTT_TOPIC_PREFIX", "dialcore"), "/"),
	}

	if cfg.SessionTTL <= 0 {
		return ServerConfig{}, fmt.Errorf("DIALCORE_SESSION_TTL_SECONDS must be positive")
	}
	if cfg.SweepInterval <= 0 {
		return ServerConfig{}, fmt.Errorf("DIALCORE_SWEEP_INTERVAL_SECONDS must be positive")
	}
	if cfg.MaxBodyBytes <= 0 {
		return ServerConfig{}, fmt.Errorf("DIALCORE_MAX_BODY_BYTES must be positive")
	}
	if cfg.MQTTBrokerURL != "" && cfg.MQTTTopicPrefix == "" {
		return ServerConfig{}, fmt.Errorf("MQTT_TOPIC_PREFIX is required when MQTT_BROKER_URL is set")
	}

	return cfg, nil
}

// MQTTEnabled reports whether a broker is configured.
func (c ServerConfig) MQTTEnabled() bool { return c.MQTTBrokerURL != "" }

func LoadCLIConfig() CLIConfig {
	return CLIConfig{
		ServerURL:    os.Getenv("DIALCORE_SERVER_URL"),
		PipelinePath: os.Getenv("DIALCORE_CONFIG"),
		CLDBPath:     os.Getenv("DIALCORE_CLDB_PATH"),
		Utt2DAPath:   os.Getenv("DIALCORE_UTT2DA_PATH"),
		Timeout:      time.Duration(getenvIntDefault("DIALCORE_CLIENT_TIMEOUT_SECONDS", 5)) * time.Second,
	}
}

func getenvDefault(key, val string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return val
}

func getenvIntDefault(key string, val int) int {
	v := os.Getenv(key)
	if v == "" {
		return val
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return val
	}
	return n
}

func getenvInt64Default(key string, val int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return val
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return val
	}
	return n
}
