package config

import (
	"fmt"
	"strings"
)

// ValidateConfig checks that every value the service cannot run without
// is present, regardless of where it was loaded from.
func ValidateConfig(cfg *Config) error {
	required := []struct {
		name  string
		value string
	}{
		{"server port", cfg.ServerPort},
		{"db host", cfg.DBHost},
		{"db port", cfg.DBPort},
		{"db user", cfg.DBUser},
		{"db password", cfg.DBPassword},
		{"db name", cfg.DBName},
		{"jwt secret", cfg.JWTSecret},
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}

	// Redis needs either a URL or a host/port pair.
	if cfg.RedisURL == "" && (cfg.RedisHost == "" || cfg.RedisPort == "") {
		missing = append(missing, "redis url or host/port")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return nil
}
