// Package config reads process configuration from the environment, after
// loading a .env file when one is present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var ErrMissingToken = errors.New("DISCORD_TOKEN is not set")

type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN"`
	AppID        string `env:"DISCORD_APP_ID"`
	// GuildID scopes deployment to one guild; empty deploys globally.
	GuildID string `env:"DISCORD_GUILD_ID"`

	// Intents is the gateway intent mask; zero keeps the guilds intent.
	Intents int `env:"DISCORD_INTENTS"`

	DeployOnStart bool `env:"DEPLOY_ON_START" envDefault:"true"`
	ForceDeploy   bool `env:"FORCE_DEPLOY"`

	StoragePath  string   `env:"STORAGE_PATH" envDefault:"datastore.json"`
	DeveloperIDs []string `env:"DEVELOPER_ID" envSeparator:","`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"true"`

	FailureMessage string `env:"FAILURE_MESSAGE"`
}

// Load reads files (".env" when none are given) into the environment without
// overriding variables that are already set, then parses the environment.
// Missing files are not an error.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	return Parse()
}

// Parse reads the configuration from the environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// Validate checks what every process talking to Discord needs.
func (c *Config) Validate() error {
	if c.DiscordToken == "" {
		return ErrMissingToken
	}
	return nil
}

func (c *Config) IsDeveloper(userID string) bool {
	return userID != "" && slices.Contains(c.DeveloperIDs, userID)
}
