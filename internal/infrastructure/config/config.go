package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// AppBaseURL is the public web app origin, used to build shareable links
	// and preview-image URLs.
	AppBaseURL string `env:"APP_BASE_URL, default=https://curationl.ink"`

	// IdentitySecret verifies tokens minted by the external identity
	// provider; SessionSecret signs our own session tokens.
	IdentitySecret string `env:"IDENTITY_SECRET"`
	SessionSecret  string `env:"SESSION_SECRET"`

	// AdminSubjects lists identity subjects allowed to create official
	// templates.
	AdminSubjects []string `env:"ADMIN_SUBJECTS"`

	RenderWorkers int `env:"RENDER_WORKERS, default=4"`

	// OGFontPath points at a font file used for preview-image text. Leave
	// empty to use the bundled Go fonts; set a JP-capable face (for example
	// Noto Sans JP) so Japanese titles and labels render with real glyphs.
	OGFontPath string `env:"OG_FONT_PATH"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=curation_board"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
