package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Admin    AdminConfig
}

type AppConfig struct {
	Name                string
	Port                string
	Debug               bool
	LogPath             string
	RegistrationEnabled bool
}

type DatabaseConfig struct {
	URI  string
	Name string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type AdminConfig struct {
	// Key is the shared secret that gates admin self-registration.
	Key string
	// ReservedEmail is the admin address regular users may not register.
	ReservedEmail string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_NAME", "account_portal")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("ENABLE_REGISTRATION", false)
	viper.SetDefault("LOG_PATH", "logs/")

	if err := viper.ReadInConfig(); err != nil {
		// Env-only deployments have no .env file; anything else is fatal.
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:                viper.GetString("APP_NAME"),
			Port:                viper.GetString("PORT"),
			Debug:               viper.GetBool("DEBUG"),
			LogPath:             viper.GetString("LOG_PATH"),
			RegistrationEnabled: viper.GetBool("ENABLE_REGISTRATION"),
		},
		Database: DatabaseConfig{
			URI:  viper.GetString("MONGODB_URI"),
			Name: viper.GetString("DB_NAME"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		Admin: AdminConfig{
			Key:           viper.GetString("ADMIN_KEY"),
			ReservedEmail: viper.GetString("ADMIN_EMAIL"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate fails fast at startup when a required value is absent.
func (c *Config) validate() error {
	var missing []string

	if c.Database.URI == "" {
		missing = append(missing, "MONGODB_URI")
	}
	if c.JWT.Secret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.Admin.Key == "" {
		missing = append(missing, "ADMIN_KEY")
	}
	if c.Admin.ReservedEmail == "" {
		missing = append(missing, "ADMIN_EMAIL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	return nil
}
