package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Auth
		Consistency
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret   string
		TokenExpiry time.Duration
		BcryptCost  int
	}
	// Consistency configures the periodic availability audit. Repair is
	// off by default: drift is reported, not silently corrected.
	Consistency struct {
		Enabled  bool
		Schedule string // Cron format: "0 * * * *" = hourly
		Repair   bool
	}
	Global struct {
		ShutdownTimeoutInSeconds int
		Debug                    bool
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("debug", false)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Auth defaults
	v.SetDefault("jwt_secret", "")
	v.SetDefault("token_expiry", "24h")
	v.SetDefault("bcrypt_cost", 12)

	// Consistency audit defaults
	v.SetDefault("consistency_enabled", true)
	v.SetDefault("consistency_schedule", "0 * * * *") // Hourly at :00
	v.SetDefault("consistency_repair", false)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Auth: Auth{
			JWTSecret:   v.GetString("JWT_SECRET"),
			TokenExpiry: v.GetDuration("TOKEN_EXPIRY"),
			BcryptCost:  v.GetInt("BCRYPT_COST"),
		},
		Consistency: Consistency{
			Enabled:  v.GetBool("CONSISTENCY_ENABLED"),
			Schedule: v.GetString("CONSISTENCY_SCHEDULE"),
			Repair:   v.GetBool("CONSISTENCY_REPAIR"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
			Debug:                    v.GetBool("DEBUG"),
		},
	}
}
