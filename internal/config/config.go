package config

import (
	"errors"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the runtime settings for the Collabry backend.
type Config struct {
	LogLevel  string `yaml:"log_level" env:"COLLABRY_LOG_LEVEL" env-default:"INFO"`
	Address   string `yaml:"address" env:"COLLABRY_ADDR" env-default:":8080"`
	DBPath    string `yaml:"db_path" env:"COLLABRY_DB_PATH" env-default:"data/collabry.db"`
	StaticDir string `yaml:"static_dir" env:"COLLABRY_STATIC_DIR" env-default:"web/dist"`
}

// MustLoad reads the configuration from the given yaml file, falling back to
// environment variables when the path is empty or the file does not exist.
func MustLoad(configPath string) Config {
	var cfg Config

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read env: %s", err)
		}
		return cfg
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pe *os.PathError
		if errors.As(err, &pe) {
			if err := cleanenv.ReadEnv(&cfg); err != nil {
				log.Fatalf("cannot read env: %s", err)
			}
			return cfg
		}
		log.Fatalf("cannot read config %q: %s", configPath, err)
	}

	return cfg
}

// EnvOrDefault returns the environment variable value or fallback when it is
// empty. Used for flag defaults before the config itself is loaded.
func EnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
