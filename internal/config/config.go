package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"projectzipper/internal/archive"
	"projectzipper/internal/parser"
)

type Server struct {
	ListenAddr  string `env:"LISTEN_ADDR, default=0.0.0.0:8000"`
	AuthEnabled bool   `env:"AUTH_ENABLED, default=false"`
	AuthUser    string `env:"AUTH_USER"`
	AuthPass    string `env:"AUTH_PASS"`
}

type Storage struct {
	DataDir string `env:"DATA_DIR, default=./projectzipperData"`
	// Persist stores every submitted diagram so it can be fetched again.
	Persist       bool          `env:"PERSIST, default=true"`
	CacheTTL      time.Duration `env:"CACHE_TTL, default=10m"`
	CacheMaxBytes int64         `env:"CACHE_MAX_BYTES, default=67108864"`
}

type Parser struct {
	HeuristicFile string `env:"HEURISTIC_FILE"`
	ASCII         bool   `env:"ASCII, default=false"`
	InferParents  bool   `env:"INFER_PARENTS, default=false"`
}

type Archive struct {
	DefaultFormat   string `env:"DEFAULT_FORMAT, default=zip"`
	MaxDiagramBytes int64  `env:"MAX_DIAGRAM_BYTES, default=1048576"`
}

type Config struct {
	Server   Server  `env:",prefix=PZ_SERVER_"`
	Storage  Storage `env:",prefix=PZ_STORAGE_"`
	Parser   Parser  `env:",prefix=PZ_PARSER_"`
	Archive  Archive `env:",prefix=PZ_ARCHIVE_"`
	LogLevel string  `env:"PZ_LOG_LEVEL, default=info"`
}

// Load reads an optional .env file and then the environment.
func Load(ctx context.Context, dotenv ...string) (*Config, error) {
	if err := godotenv.Load(dotenv...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: Server{ListenAddr: "0.0.0.0:8000"},
		Storage: Storage{
			DataDir:       "./projectzipperData",
			Persist:       true,
			CacheTTL:      10 * time.Minute,
			CacheMaxBytes: 64 << 20,
		},
		Archive: Archive{
			DefaultFormat:   archive.FormatZip,
			MaxDiagramBytes: 1 << 20,
		},
		LogLevel: "info",
	}
}

func (c *Config) Validate() error {
	_, port, err := net.SplitHostPort(c.Server.ListenAddr)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", c.Server.ListenAddr, err)
	}
	if p, err := strconv.Atoi(port); err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if c.Server.AuthEnabled && (c.Server.AuthUser == "" || c.Server.AuthPass == "") {
		return fmt.Errorf("authentication requires both username and password")
	}
	if c.Storage.Persist && c.Storage.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}
	if c.Storage.CacheMaxBytes < 0 {
		return fmt.Errorf("cache size cannot be negative")
	}
	if c.Archive.MaxDiagramBytes < 1 {
		return fmt.Errorf("maximum diagram size must be positive")
	}
	if _, err := archive.ParseFormat(c.Archive.DefaultFormat); err != nil {
		return err
	}
	return nil
}

// Heuristic builds the parser heuristic described by the configuration.
// A heuristic file wins over the ASCII switch; InferParents is applied on top.
func (c *Config) Heuristic() (*parser.Heuristic, error) {
	var h *parser.Heuristic
	switch {
	case c.Parser.HeuristicFile != "":
		loaded, err := parser.LoadHeuristic(c.Parser.HeuristicFile)
		if err != nil {
			return nil, err
		}
		h = loaded
	case c.Parser.ASCII:
		h = parser.ASCIIHeuristic()
	default:
		h = parser.DefaultHeuristic()
	}
	if c.Parser.InferParents {
		h.InferParents = true
	}
	return h, nil
}
