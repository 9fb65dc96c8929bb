package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config holds the configuration for a L.U.M.E.N. agent
type Config struct {
	// MQTT configuration
	MQTTBroker   string `yaml:"mqtt_broker"`
	MQTTPort     int    `yaml:"mqtt_port"`
	MQTTUser     string `yaml:"mqtt_user"`
	MQTTPassword string `yaml:"mqtt_password"`
	MQTTClientID string `yaml:"mqtt_client_id"`

	// Redis configuration
	RedisHost     string `yaml:"redis_host"`
	RedisPort     int    `yaml:"redis_port"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	// Postgres configuration (target history)
	PostgresHost            string        `yaml:"postgres_host"`
	PostgresPort            int           `yaml:"postgres_port"`
	PostgresUser            string        `yaml:"postgres_user"`
	PostgresPassword        string        `yaml:"postgres_password"`
	PostgresDB              string        `yaml:"postgres_db"`
	PostgresMaxConnections  int           `yaml:"postgres_max_connections"`
	PostgresMaxIdleConns    int           `yaml:"postgres_max_idle_connections"`
	PostgresConnMaxLifetime time.Duration `yaml:"postgres_conn_max_lifetime"`
	EnableHistory           bool          `yaml:"enable_history"`

	// Service configuration
	ServiceName string `yaml:"service_name"`
	HealthPort  int    `yaml:"health_port"`
	LogLevel    string `yaml:"log_level"`

	// Location
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`

	// Circadian engine configuration
	CCTMinK             int     `yaml:"cct_min_k"`
	CCTMaxK             int     `yaml:"cct_max_k"`
	IntensityMinPct     float64 `yaml:"intensity_min_pct"`
	IntensityMaxPct     float64 `yaml:"intensity_max_pct"`
	Curve               string  `yaml:"curve"`
	UpdateIntervalSec   int     `yaml:"update_interval_sec"`
	ScheduleIntervalMin int     `yaml:"schedule_interval_min"`
	LuxCalibration      string  `yaml:"lux_calibration"`
	WeatherStaleMinutes int     `yaml:"weather_stale_minutes"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		MQTTBroker:    "localhost",
		MQTTPort:      1883,
		MQTTUser:      "",
		MQTTPassword:  "",
		MQTTClientID:  "",
		RedisHost:     "localhost",
		RedisPort:     6379,
		RedisPassword: "",
		RedisDB:       0,

		PostgresHost:            "localhost",
		PostgresPort:            5432,
		PostgresUser:            "lumen",
		PostgresPassword:        "",
		PostgresDB:              "lumen",
		PostgresMaxConnections:  10,
		PostgresMaxIdleConns:    2,
		PostgresConnMaxLifetime: 30 * time.Minute,
		EnableHistory:           false,

		ServiceName: "lumen-agent",
		HealthPort:  8080,
		LogLevel:    "info",

		// Location defaults (Helsinki coordinates)
		Latitude:  60.1695,
		Longitude: 24.9354,

		// Circadian engine defaults
		CCTMinK:             1700,
		CCTMaxK:             5500,
		IntensityMinPct:     5,
		IntensityMaxPct:     100,
		Curve:               "physics",
		UpdateIntervalSec:   60,
		ScheduleIntervalMin: 30,
		LuxCalibration:      "",
		WeatherStaleMinutes: 60,
	}
}

// LoadFromFile overlays configuration from a YAML file. A missing file
// is not an error so deployments can rely on env and flags alone.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables with LUMEN_ prefix
func (c *Config) LoadFromEnv() {
	// MQTT configuration
	if v := os.Getenv("LUMEN_MQTT_BROKER"); v != "" {
		c.MQTTBroker = v
	}
	if v := os.Getenv("LUMEN_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.MQTTPort = port
		}
	}
	if v := os.Getenv("LUMEN_MQTT_USER"); v != "" {
		c.MQTTUser = v
	}
	if v := os.Getenv("LUMEN_MQTT_PASSWORD"); v != "" {
		c.MQTTPassword = v
	}
	if v := os.Getenv("LUMEN_MQTT_CLIENT_ID"); v != "" {
		c.MQTTClientID = v
	}

	// Redis configuration
	if v := os.Getenv("LUMEN_REDIS_HOST"); v != "" {
		c.RedisHost = v
	}
	if v := os.Getenv("LUMEN_REDIS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.RedisPort = port
		}
	}
	if v := os.Getenv("LUMEN_REDIS_PASSWORD"); v != "" {
		c.RedisPassword = v
	}
	if v := os.Getenv("LUMEN_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.RedisDB = db
		}
	}

	// Postgres configuration
	if v := os.Getenv("LUMEN_POSTGRES_HOST"); v != "" {
		c.PostgresHost = v
	}
	if v := os.Getenv("LUMEN_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.PostgresPort = port
		}
	}
	if v := os.Getenv("LUMEN_POSTGRES_USER"); v != "" {
		c.PostgresUser = v
	}
	if v := os.Getenv("LUMEN_POSTGRES_PASSWORD"); v != "" {
		c.PostgresPassword = v
	}
	if v := os.Getenv("LUMEN_POSTGRES_DB"); v != "" {
		c.PostgresDB = v
	}
	if v := os.Getenv("LUMEN_ENABLE_HISTORY"); v != "" {
		if enable, err := strconv.ParseBool(v); err == nil {
			c.EnableHistory = enable
		}
	}

	// Service configuration
	if v := os.Getenv("LUMEN_SERVICE_NAME"); v != "" {
		c.ServiceName = v
	}
	if v := os.Getenv("LUMEN_HEALTH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.HealthPort = port
		}
	}
	if v := os.Getenv("LUMEN_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	// Location
	if v := os.Getenv("LUMEN_LATITUDE"); v != "" {
		if lat, err := strconv.ParseFloat(v, 64); err == nil {
			c.Latitude = lat
		}
	}
	if v := os.Getenv("LUMEN_LONGITUDE"); v != "" {
		if lon, err := strconv.ParseFloat(v, 64); err == nil {
			c.Longitude = lon
		}
	}

	// Circadian engine configuration
	if v := os.Getenv("LUMEN_CCT_MIN_K"); v != "" {
		if k, err := strconv.Atoi(v); err == nil {
			c.CCTMinK = k
		}
	}
	if v := os.Getenv("LUMEN_CCT_MAX_K"); v != "" {
		if k, err := strconv.Atoi(v); err == nil {
			c.CCTMaxK = k
		}
	}
	if v := os.Getenv("LUMEN_INTENSITY_MIN_PCT"); v != "" {
		if pct, err := strconv.ParseFloat(v, 64); err == nil {
			c.IntensityMinPct = pct
		}
	}
	if v := os.Getenv("LUMEN_INTENSITY_MAX_PCT"); v != "" {
		if pct, err := strconv.ParseFloat(v, 64); err == nil {
			c.IntensityMaxPct = pct
		}
	}
	if v := os.Getenv("LUMEN_CURVE"); v != "" {
		c.Curve = v
	}
	if v := os.Getenv("LUMEN_UPDATE_INTERVAL_SEC"); v != "" {
		if interval, err := strconv.Atoi(v); err == nil {
			c.UpdateIntervalSec = interval
		}
	}
	if v := os.Getenv("LUMEN_SCHEDULE_INTERVAL_MIN"); v != "" {
		if interval, err := strconv.Atoi(v); err == nil {
			c.ScheduleIntervalMin = interval
		}
	}
	if v := os.Getenv("LUMEN_LUX_CALIBRATION"); v != "" {
		c.LuxCalibration = v
	}
	if v := os.Getenv("LUMEN_WEATHER_STALE_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil {
			c.WeatherStaleMinutes = minutes
		}
	}
}

// LoadFromFlags parses command-line flags and overrides config values
func (c *Config) LoadFromFlags() {
	// MQTT flags
	pflag.StringVar(&c.MQTTBroker, "mqtt-broker", c.MQTTBroker, "MQTT broker hostname")
	pflag.IntVar(&c.MQTTPort, "mqtt-port", c.MQTTPort, "MQTT broker port")
	pflag.StringVar(&c.MQTTUser, "mqtt-user", c.MQTTUser, "MQTT username")
	pflag.StringVar(&c.MQTTPassword, "mqtt-password", c.MQTTPassword, "MQTT password")
	pflag.StringVar(&c.MQTTClientID, "mqtt-client-id", c.MQTTClientID, "MQTT client ID")

	// Redis flags
	pflag.StringVar(&c.RedisHost, "redis-host", c.RedisHost, "Redis hostname")
	pflag.IntVar(&c.RedisPort, "redis-port", c.RedisPort, "Redis port")
	pflag.StringVar(&c.RedisPassword, "redis-password", c.RedisPassword, "Redis password")
	pflag.IntVar(&c.RedisDB, "redis-db", c.RedisDB, "Redis database number")

	// Postgres flags
	pflag.StringVar(&c.PostgresHost, "postgres-host", c.PostgresHost, "Postgres hostname")
	pflag.IntVar(&c.PostgresPort, "postgres-port", c.PostgresPort, "Postgres port")
	pflag.StringVar(&c.PostgresUser, "postgres-user", c.PostgresUser, "Postgres username")
	pflag.StringVar(&c.PostgresPassword, "postgres-password", c.PostgresPassword, "Postgres password")
	pflag.StringVar(&c.PostgresDB, "postgres-db", c.PostgresDB, "Postgres database name")
	pflag.BoolVar(&c.EnableHistory, "enable-history", c.EnableHistory, "Record published targets in Postgres")

	// Service flags
	pflag.StringVar(&c.ServiceName, "service-name", c.ServiceName, "Service name")
	pflag.IntVar(&c.HealthPort, "health-port", c.HealthPort, "Health check HTTP port")
	pflag.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")

	// Location flags
	pflag.Float64Var(&c.Latitude, "latitude", c.Latitude, "Geographic latitude for daylight calculation")
	pflag.Float64Var(&c.Longitude, "longitude", c.Longitude, "Geographic longitude for daylight calculation")

	// Circadian engine flags
	pflag.IntVar(&c.CCTMinK, "cct-min", c.CCTMinK, "Minimum color temperature in Kelvin")
	pflag.IntVar(&c.CCTMaxK, "cct-max", c.CCTMaxK, "Maximum color temperature in Kelvin")
	pflag.Float64Var(&c.IntensityMinPct, "intensity-min", c.IntensityMinPct, "Minimum intensity percentage")
	pflag.Float64Var(&c.IntensityMaxPct, "intensity-max", c.IntensityMaxPct, "Maximum intensity percentage")
	pflag.StringVar(&c.Curve, "curve", c.Curve, "Daylight curve model")
	pflag.IntVar(&c.UpdateIntervalSec, "update-interval", c.UpdateIntervalSec, "Target update interval in seconds")
	pflag.IntVar(&c.ScheduleIntervalMin, "schedule-interval", c.ScheduleIntervalMin, "Schedule grid spacing in minutes")
	pflag.StringVar(&c.LuxCalibration, "lux-calibration", c.LuxCalibration, "Lux calibration map as cct:lux,cct:lux pairs")
	pflag.IntVar(&c.WeatherStaleMinutes, "weather-stale-minutes", c.WeatherStaleMinutes, "Minutes before weather context is considered stale")

	pflag.Parse()
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT broker is required")
	}
	if c.MQTTPort <= 0 || c.MQTTPort > 65535 {
		return fmt.Errorf("MQTT port must be between 1 and 65535")
	}
	if c.RedisHost == "" {
		return fmt.Errorf("Redis host is required")
	}
	if c.RedisPort <= 0 || c.RedisPort > 65535 {
		return fmt.Errorf("Redis port must be between 1 and 65535")
	}
	if c.HealthPort <= 0 || c.HealthPort > 65535 {
		return fmt.Errorf("Health port must be between 1 and 65535")
	}
	if c.ServiceName == "" {
		return fmt.Errorf("Service name is required")
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	if c.CCTMinK < 1000 || c.CCTMinK > 20000 {
		return fmt.Errorf("cct-min must be between 1000 and 20000")
	}
	if c.CCTMaxK < 1000 || c.CCTMaxK > 20000 {
		return fmt.Errorf("cct-max must be between 1000 and 20000")
	}
	if c.IntensityMinPct < 0 || c.IntensityMinPct > 100 {
		return fmt.Errorf("intensity-min must be between 0 and 100")
	}
	if c.IntensityMaxPct < 0 || c.IntensityMaxPct > 100 {
		return fmt.Errorf("intensity-max must be between 0 and 100")
	}
	if c.UpdateIntervalSec <= 0 {
		return fmt.Errorf("update interval must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// MQTTAddress returns the full MQTT broker address
func (c *Config) MQTTAddress() string {
	return fmt.Sprintf("tcp://%s:%d", c.MQTTBroker, c.MQTTPort)
}

// RedisAddress returns the full Redis address
func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// PostgresConnectionString returns the lib/pq connection string
func (c *Config) PostgresConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB)
}
