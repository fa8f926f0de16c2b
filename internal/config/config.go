package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kudzaitsapo/fileflow-web/internal/constants"
	"gopkg.in/yaml.v3"
)

//go:embed mime_types.yaml
var mimeTypesYAML []byte

type Config struct {
	Backend   BackendConfig
	Web       WebConfig
	Database  DatabaseConfig
	Log       LogConfig
	MimeTypes MimeTypesConfig
}

type BackendConfig struct {
	URL      string        // FileFlow API base URL, e.g. http://localhost:8190/v1
	Username string        // used by CLI commands only
	Password string        // used by CLI commands only
	Timeout  time.Duration // per-request timeout
}

type WebConfig struct {
	Host           string
	Port           int
	SessionSecret  string
	SecureCookies  bool     // set Secure on cookies (HTTPS deployments)
	AllowedOrigins []string // extra CORS origins
	AllowLocalhost bool     // accept any localhost origin, for local development only
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL, sessions are in-memory only when empty
	MaxOpenConns int    // Maximum open connections (default 10)
	MaxIdleConns int    // Maximum idle connections (default 2)
}

type LogConfig struct {
	Level  string
	Pretty bool
}

type MimeTypesConfig struct {
	Options []MimeTypeOption `yaml:"mime_types"`
}

// MimeTypeOption is one selectable entry of the allowed-file-types picker.
type MimeTypeOption struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envBool reads an environment variable as a boolean, falling back on parse errors.
func envBool(key string, defaultVal bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return defaultVal
	}
	return b
}

// envList splits a comma-separated environment variable, dropping blanks.
func envList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func Load() *Config {
	var mimeTypes MimeTypesConfig
	if err := yaml.Unmarshal(mimeTypesYAML, &mimeTypes); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded mime_types.yaml: " + err.Error())
	}

	timeout := constants.DefaultBackendTimeout
	if secs := envInt("BACKEND_TIMEOUT_SECONDS", 0); secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}

	return &Config{
		Backend: BackendConfig{
			URL:      strings.TrimRight(os.Getenv("FILEFLOW_BACKEND_URL"), "/"),
			Username: os.Getenv("FILEFLOW_USERNAME"),
			Password: os.Getenv("FILEFLOW_PASSWORD"),
			Timeout:  timeout,
		},
		Web: WebConfig{
			Host:           os.Getenv("WEB_HOST"),
			Port:           envInt("WEB_PORT", 0),
			SessionSecret:  os.Getenv("WEB_SESSION_SECRET"),
			SecureCookies:  envBool("WEB_SECURE_COOKIES", false),
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
			AllowLocalhost: envBool("WEB_ALLOW_LOCALHOST_ORIGINS", false),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 2),
		},
		Log: LogConfig{
			Level:  os.Getenv("LOG_LEVEL"),
			Pretty: envBool("LOG_PRETTY", false),
		},
		MimeTypes: mimeTypes,
	}
}

// MimeTypeLabel returns the display label for a MIME type, or the type itself.
func (c *Config) MimeTypeLabel(mimeType string) string {
	for _, opt := range c.MimeTypes.Options {
		if opt.Value == mimeType {
			return opt.Label
		}
	}
	return mimeType
}
