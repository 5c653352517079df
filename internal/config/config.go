package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds the runtime configuration, sourced from the environment
// (optionally via a .env file).
type Config struct {
	ServerAddr       string
	LogLevel         string
	DBDriver         string
	DBDSN            string
	DBMaxOpenConns   int
	DBMaxIdleConns   int
	DBConnMaxLife    time.Duration
	VerifyingKeyPath string
	MaxProofBytes    int64
	ShutdownTimeout  time.Duration
}

// LoadConfig reads configuration from the environment with sensible
// defaults for local development (embedded sqlite, port 8080).
func LoadConfig() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("No config file found: %v", err)
	}

	viper.SetDefault("SERVER_ADDR", ":8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_DSN", "scoreproof.db")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFE", "1h")
	viper.SetDefault("VERIFYING_KEY_PATH", "keys/vk.bin")
	viper.SetDefault("MAX_PROOF_BYTES", 1<<20)
	viper.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	return &Config{
		ServerAddr:       viper.GetString("SERVER_ADDR"),
		LogLevel:         viper.GetString("LOG_LEVEL"),
		DBDriver:         viper.GetString("DB_DRIVER"),
		DBDSN:            viper.GetString("DB_DSN"),
		DBMaxOpenConns:   viper.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns:   viper.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnMaxLife:    viper.GetDuration("DB_CONN_MAX_LIFE"),
		VerifyingKeyPath: viper.GetString("VERIFYING_KEY_PATH"),
		MaxProofBytes:    viper.GetInt64("MAX_PROOF_BYTES"),
		ShutdownTimeout:  viper.GetDuration("SHUTDOWN_TIMEOUT"),
	}
}
