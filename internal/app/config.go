package app

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"
)

type HeaderConfig struct {
	Name  string `toml:"name"`
	Value string `toml:"value"`
}

type Config struct {
	Server struct {
		Port     string `toml:"port"`
		SeedDemo bool   `toml:"seed_demo"`
	} `toml:"server"`

	Database struct {
		DSN string `toml:"dsn"`
	} `toml:"database"`

	Auth struct {
		Comparer string `toml:"comparer"`
	} `toml:"auth"`

	API struct {
		RequiredHeaders []HeaderConfig `toml:"required_headers"`
	} `toml:"api"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :9999")
	}
	if config.Database.DSN == "" {
		return nil, fmt.Errorf("Database DSN is not specified in config")
	}

	logger.Debug.Printf("Loaded config with database DSN: %s", config.Database.DSN)

	return &config, nil
}
