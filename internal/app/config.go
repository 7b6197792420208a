package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"
)

type Config struct {
	Server struct {
		Port           string   `toml:"port"`
		AllowedOrigins []string `toml:"allowed_origins"`
	} `toml:"server"`

	Storage struct {
		DSN           string `toml:"dsn"`
		Document      string `toml:"document"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"storage"`

	Admin struct {
		Username string `toml:"username"`
		Password string `toml:"password"`
		Token    string `toml:"token"`
	} `toml:"admin"`

	Metrics struct {
		Courses []string `toml:"courses"`
	} `toml:"metrics"`

	Export struct {
		Path     string `toml:"path"`
		Sheet    string `toml:"sheet"`
		Schedule string `toml:"schedule"`
	} `toml:"export"`
}

// DefaultConfig is what the service runs with when no config file is present.
func DefaultConfig() *Config {
	var config Config
	config.Server.Port = ":3000"
	config.Server.AllowedOrigins = []string{"*"}
	config.Storage.DSN = "data.json"
	config.Storage.Document = "quiz:submissions"
	config.Storage.MigrationsDir = "./migrations"
	config.Admin.Username = "admin"
	config.Admin.Password = "password123"
	config.Admin.Token = "mock-auth-token-123"
	config.Export.Path = "submissions.xlsx"
	config.Export.Sheet = "Sheet1"
	return &config
}

// LoadConfig overlays the TOML file at path on top of DefaultConfig.
// A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info.Printf("Config file %s not found, using defaults", path)
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :3000")
	}
	if config.Storage.DSN == "" {
		return nil, fmt.Errorf("Storage dsn is not specified in config, use a file path like data.json")
	}

	logger.Debug.Printf("Loaded storage config: %+v", config.Storage)

	return config, nil
}
