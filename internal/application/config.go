package application

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-triptych/internal/domain"
	"github.com/ahrav/go-triptych/internal/ports"
)

// Environment variables that override file settings.
const (
	EnvAPIKey  = "GEMINI_API_KEY"
	EnvBaseURL = "GEMINI_BASE_URL"
)

// DefaultBaseURL is the public Gemini API root.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Transport names accepted in configuration.
const (
	TransportREST  = "rest"
	TransportGenAI = "genai"
)

// AppConfig is the complete runtime configuration of the comparison tool.
type AppConfig struct {
	// APIKey authenticates every call. It may also come from the
	// environment or the credential store, so it is optional here.
	APIKey string `yaml:"api_key"`
	// BaseURL is the API root including its version segment.
	BaseURL string `yaml:"base_url" validate:"required,url"`
	// Transport selects how requests reach the API.
	Transport string `yaml:"transport" validate:"omitempty,oneof=rest genai"`
	// Timeout bounds each call. Zero leaves calls unbounded.
	Timeout time.Duration `yaml:"timeout" validate:"min=0"`
	// Slots binds each output position to a model.
	Slots map[domain.SlotID]domain.ModelID `yaml:"slots" validate:"required,min=1,max=3,dive,keys,required,alphanum,max=32,endkeys,required,modelid"`
	// Generation holds the default sampling options for every call.
	Generation domain.GenerationOptions `yaml:"generation"`
	// StorePath is the BoltDB file for keys, templates and history.
	StorePath string `yaml:"store_path"`
	// ExportDir is where session exports are written by default.
	ExportDir string `yaml:"export_dir"`

	LogLevel       string `yaml:"log_level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
	LogFormat      string `yaml:"log_format" validate:"omitempty,oneof=text json"`
	MetricsEnabled bool   `yaml:"metrics_enabled"`
}

// DefaultConfig returns the built-in configuration for the given default
// slot selection.
func DefaultConfig(slots map[domain.SlotID]domain.ModelID) AppConfig {
	return AppConfig{
		BaseURL:   DefaultBaseURL,
		Transport: TransportREST,
		Slots:     copySlots(slots),
		StorePath: defaultStorePath(),
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "triptych.db"
	}
	return filepath.Join(dir, "triptych", "triptych.db")
}

// ConfigLoader reads, merges and validates AppConfig from YAML and the
// environment.
type ConfigLoader struct {
	validator *validator.Validate
	defaults  AppConfig
	getenv    func(string) string
}

// NewConfigLoader creates a loader that fills unset values from defaults.
func NewConfigLoader(defaults AppConfig) (*ConfigLoader, error) {
	v := validator.New()
	if err := registerConfigValidators(v); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}
	return &ConfigLoader{validator: v, defaults: defaults, getenv: os.Getenv}, nil
}

// Load reads the YAML file at path. An empty path skips the file and uses
// defaults plus environment overrides. A missing file yields a ConfigError
// wrapping ports.ErrConfigNotFound.
func (cl *ConfigLoader) Load(path string) (*AppConfig, error) {
	if path == "" {
		return cl.finish(cl.base())
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ports.NewConfigError(path, ports.ErrConfigNotFound)
		}
		return nil, ports.NewConfigError(path, fmt.Errorf("failed to read file: %w", err))
	}
	return cl.LoadFromReader(bytes.NewReader(data))
}

// LoadFromReader decodes YAML from r on top of the defaults.
func (cl *ConfigLoader) LoadFromReader(r io.Reader) (*AppConfig, error) {
	cfg := cl.base()
	cfg.Slots = nil

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("YAML decode failed: %w", err)
	}
	if len(cfg.Slots) == 0 {
		cfg.Slots = copySlots(cl.defaults.Slots)
	}
	return cl.finish(cfg)
}

func (cl *ConfigLoader) base() AppConfig {
	cfg := cl.defaults
	cfg.Slots = copySlots(cl.defaults.Slots)
	cfg.Generation = copyOptions(cl.defaults.Generation)
	return cfg
}

// finish applies environment overrides and validates.
func (cl *ConfigLoader) finish(cfg AppConfig) (*AppConfig, error) {
	if v := strings.TrimSpace(cl.getenv(EnvAPIKey)); v != "" {
		cfg.APIKey = v
	}
	if v := strings.TrimSpace(cl.getenv(EnvBaseURL)); v != "" {
		cfg.BaseURL = v
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Transport == "" {
		cfg.Transport = TransportREST
	}

	if err := cl.validator.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("struct validation failed: %w", err)
	}
	return &cfg, nil
}

var modelIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._\-]*$`)

func registerConfigValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("modelid", validateModelID); err != nil {
		return fmt.Errorf("failed to register modelid validator: %w", err)
	}
	return nil
}

// validateModelID accepts identifiers such as gemini-2.5-flash.
func validateModelID(fl validator.FieldLevel) bool {
	return modelIDPattern.MatchString(fl.Field().String())
}
