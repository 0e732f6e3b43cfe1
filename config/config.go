package config

import (
	"fmt"
	"time"

	"nfl-dynasty-go/logging"
	"nfl-dynasty-go/models"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig `json:"database"`

	// Logging configuration
	Logging LoggingConfig `json:"logging"`

	// Dynasty configuration
	Dynasty DynastyConfig `json:"dynasty"`

	// Simulation configuration
	Simulation SimulationConfig `json:"simulation"`
}

// DatabaseConfig holds SQLite configuration
type DatabaseConfig struct {
	Path        string        `json:"path"`
	BusyTimeout time.Duration `json:"busy_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string `json:"level"`
	Prefix      string `json:"prefix"`
	EnableColor bool   `json:"enable_color"`
	// File redirects log output to a file when non-empty; stdout otherwise.
	File string `json:"file"`
}

// DynastyConfig identifies the dynasty the process drives
type DynastyConfig struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	StartSeason int    `json:"start_season"`
}

// SimulationConfig holds the fast-mode switches and the demo seed
type SimulationConfig struct {
	SkipGameSimulation  bool  `json:"skip_game_simulation"`
	SkipTransactionAI   bool  `json:"skip_transaction_ai"`
	SkipOffseasonEvents bool  `json:"skip_offseason_events"`
	Seed                int64 `json:"seed"`
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Don't treat missing .env as an error
		logging.Warnf("Could not load .env file: %v", err)
	}

	config := &Config{
		Database: DatabaseConfig{
			Path:        getEnv("DB_PATH", "./dynasty.db"),
			BusyTimeout: getDurationEnv("DB_BUSY_TIMEOUT", 5*time.Second),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Prefix:      getEnv("LOG_PREFIX", "nfl-dynasty"),
			EnableColor: getBoolEnv("LOG_COLOR", true),
			File:        getEnv("LOG_FILE", ""),
		},
		Dynasty: DynastyConfig{
			ID:          getEnv("DYNASTY_ID", "default"),
			Name:        getEnv("DYNASTY_NAME", "Default Dynasty"),
			StartSeason: getIntEnv("START_SEASON", 0),
		},
		Simulation: SimulationConfig{
			SkipGameSimulation:  getBoolEnv("SKIP_GAME_SIMULATION", false),
			SkipTransactionAI:   getBoolEnv("SKIP_TRANSACTION_AI", false),
			SkipOffseasonEvents: getBoolEnv("SKIP_OFFSEASON_EVENTS", false),
			Seed:                int64(getIntEnv("SIMULATION_SEED", 0)),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration for required fields and sensible values
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Database.BusyTimeout <= 0 {
		return fmt.Errorf("database busy timeout must be positive")
	}

	if c.Dynasty.ID == "" {
		return fmt.Errorf("dynasty id is required")
	}
	if s := c.Dynasty.StartSeason; s != 0 && (s < 1920 || s > 9999) {
		return fmt.Errorf("start season must be a plausible year, got: %d", s)
	}

	return nil
}

// SimulationSettings converts the simulation switches to the engine's
// value object
func (c *Config) SimulationSettings() models.SimulationSettings {
	return models.SimulationSettings{
		SkipGameSimulation:  c.Simulation.SkipGameSimulation,
		SkipTransactionAI:   c.Simulation.SkipTransactionAI,
		SkipOffseasonEvents: c.Simulation.SkipOffseasonEvents,
	}
}

// LogConfiguration logs the current configuration
func (c *Config) LogConfiguration() {
	logging.Info("=== Application Configuration ===")
	logging.Infof("Database: %s (busy timeout: %s)", c.Database.Path, c.Database.BusyTimeout)
	logging.Infof("Logging: Level=%s, Prefix=%s, Color=%t, File=%q",
		c.Logging.Level, c.Logging.Prefix, c.Logging.EnableColor, c.Logging.File)
	logging.Infof("Dynasty: ID=%s, Name=%q, StartSeason=%d",
		c.Dynasty.ID, c.Dynasty.Name, c.Dynasty.StartSeason)
	logging.Infof("Simulation: SkipGames=%t, SkipTrades=%t, SkipOffseason=%t, Seed=%d",
		c.Simulation.SkipGameSimulation, c.Simulation.SkipTransactionAI,
		c.Simulation.SkipOffseasonEvents, c.Simulation.Seed)
	logging.Info("================================")
}
