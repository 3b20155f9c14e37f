// Package config loads runtime settings for the two binaries from the
// environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Client holds settings for the billed CLI.
type Client struct {
	// APIBaseURL is the backend to talk to. Empty disables the remote
	// store entirely: the client then runs in the disconnected mode where
	// login persists a session but performs no remote call.
	APIBaseURL string `env:"BILLED_API_URL" envDefault:"http://localhost:5678"`

	// StatePath is the JSON file holding the persisted session and token.
	StatePath string `env:"BILLED_STATE_PATH" envDefault:"./data/state.json"`

	// PolicyPath optionally points at a YAML policy table replacing the
	// built-in demo identities.
	PolicyPath string `env:"BILLED_POLICY_PATH"`
}

// Server holds settings for the billed-server stub backend.
type Server struct {
	Addr      string        `env:"BILLED_LISTEN_ADDR" envDefault:":5678"`
	DBPath    string        `env:"BILLED_DB_PATH" envDefault:"./data/billed.db"`
	UploadDir string        `env:"BILLED_UPLOAD_DIR" envDefault:"./data/uploads"`
	JWTSecret string        `env:"BILLED_JWT_SECRET" envDefault:"change-this-jwt-secret"`
	TokenTTL  time.Duration `env:"BILLED_TOKEN_TTL" envDefault:"24h"`
	Seed      bool          `env:"BILLED_SEED" envDefault:"true"`
}

// LoadClient parses the client configuration from the environment.
func LoadClient() (Client, error) {
	var cfg Client
	if err := env.Parse(&cfg); err != nil {
		return Client{}, fmt.Errorf("failed to parse client config: %w", err)
	}
	return cfg, nil
}

// LoadServer parses the server configuration from the environment.
func LoadServer() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("failed to parse server config: %w", err)
	}
	return cfg, nil
}
