package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StoreS3       = "s3"
	StorePostgres = "postgres"
)

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	LogFormat     string
	PublicBaseURL string
	Store         string
	DatabaseURL   string
	S3            S3Config
	CacheSize     int
	Scanner       string
	Generation    GenerationConfig
}

type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type GenerationConfig struct {
	APIKey string
	Model  string
	Fake   bool
}

// Enabled reports whether any generation backend can be built.
func (g GenerationConfig) Enabled() bool {
	return g.Fake || strings.TrimSpace(g.APIKey) != ""
}

func (c *Config) IsLocal() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "local")
}

// Load reads .env, then command-line flags, then the environment.
func Load() (*Config, error) {
	return LoadArgs(os.Args[1:])
}

func LoadArgs(args []string) (*Config, error) {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("gateway", flag.ContinueOnError)
	port := fs.String("port", ":8080", "server port")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if envPort := strings.TrimSpace(os.Getenv("PORT")); envPort != "" {
		*port = envPort
	}
	if !strings.HasPrefix(*port, ":") && !strings.Contains(*port, ":") {
		*port = ":" + *port
	}

	env := firstNonEmpty(strings.TrimSpace(os.Getenv("APP_ENV")), "local")
	cfg := &Config{
		Port:          *port,
		Env:           env,
		LogLevel:      strings.ToLower(firstNonEmpty(strings.TrimSpace(os.Getenv("LOG_LEVEL")), "info")),
		PublicBaseURL: strings.TrimRight(strings.TrimSpace(os.Getenv("PREVIEW_PUBLIC_BASE_URL")), "/"),
		Store:         strings.ToLower(firstNonEmpty(strings.TrimSpace(os.Getenv("PREVIEW_STORE")), StoreMemory)),
		DatabaseURL:   strings.TrimSpace(os.Getenv("PREVIEW_PG_DSN")),
		S3: S3Config{
			Endpoint:  strings.TrimSpace(os.Getenv("PREVIEW_S3_ENDPOINT")),
			Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("PREVIEW_S3_REGION")), "us-east-1"),
			AccessKey: strings.TrimSpace(os.Getenv("PREVIEW_S3_ACCESS_KEY")),
			SecretKey: strings.TrimSpace(os.Getenv("PREVIEW_S3_SECRET_KEY")),
			Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("PREVIEW_S3_BUCKET")), "tota-previews"),
			UseSSL:    parseBool(os.Getenv("PREVIEW_S3_USE_SSL"), true),
		},
		CacheSize: parseInt(os.Getenv("PREVIEW_CACHE_SIZE"), 256),
		Scanner:   strings.ToLower(firstNonEmpty(strings.TrimSpace(os.Getenv("PREVIEW_SCANNER")), "regex")),
		Generation: GenerationConfig{
			APIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
			Model:  firstNonEmpty(strings.TrimSpace(os.Getenv("GEMINI_MODEL")), "gemini-2.5-flash"),
			Fake:   parseBool(os.Getenv("GENERATION_FAKE"), false),
		},
	}
	defaultFormat := "json"
	if cfg.IsLocal() {
		defaultFormat = "console"
		applyLocalDefaults(cfg)
	}
	cfg.LogFormat = strings.ToLower(firstNonEmpty(strings.TrimSpace(os.Getenv("LOG_FORMAT")), defaultFormat))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store {
	case StoreMemory, StoreS3, StorePostgres:
	default:
		return fmt.Errorf("PREVIEW_STORE must be memory, s3 or postgres, got %q", c.Store)
	}
	if c.Store == StorePostgres && c.DatabaseURL == "" {
		return fmt.Errorf("PREVIEW_PG_DSN is required for the postgres store")
	}
	switch c.Scanner {
	case "regex", "token":
	default:
		return fmt.Errorf("PREVIEW_SCANNER must be regex or token, got %q", c.Scanner)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.LogFormat)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("PREVIEW_CACHE_SIZE must be positive")
	}
	return nil
}

func parseBool(raw string, def bool) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func parseInt(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
