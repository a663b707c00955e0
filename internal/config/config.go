package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/kart/internal/catalog"
	"github.com/five82/kart/internal/location"
	"github.com/five82/kart/internal/messages"
)

// Config is kart's runtime configuration.
type Config struct {
	BaseURL           string        `toml:"base_url" validate:"required,url"`
	RequestTimeout    time.Duration `toml:"request_timeout" validate:"gt=0"`
	RequestsPerSecond float64       `toml:"requests_per_second" validate:"gte=0"`
	RefreshInterval   time.Duration `toml:"refresh_interval" validate:"gte=0"`
	LogFile           string        `toml:"log_file"`
	LogLevel          string        `toml:"log_level" validate:"oneof=trace debug info warn warning error"`

	Connectivity Connectivity            `toml:"connectivity"`
	Location     Location                `toml:"location"`
	Share        Share                   `toml:"share"`
	Messages     map[messages.Key]string `toml:"messages" validate:"dive,keys,message_key,endkeys"`
}

// Connectivity selects how reachability is probed.
type Connectivity struct {
	Mode    string        `toml:"mode" validate:"oneof=dial assume-online"`
	Timeout time.Duration `toml:"timeout" validate:"gt=0"`
}

// Location selects where positions and place names come from.
type Location struct {
	Mode       string        `toml:"mode" validate:"oneof=none static ip"`
	Latitude   float64       `toml:"latitude" validate:"gte=-90,lte=90"`
	Longitude  float64       `toml:"longitude" validate:"gte=-180,lte=180"`
	LookupURL  string        `toml:"lookup_url" validate:"omitempty,url"`
	GeocodeURL string        `toml:"geocode_url" validate:"omitempty,url"`
	Timeout    time.Duration `toml:"timeout" validate:"gt=0"`
}

// Share selects where share text goes.
type Share struct {
	Target string `toml:"target" validate:"oneof=clipboard stdout both"`
}

const (
	defaultConfigPath = "~/.config/kart/config.toml"
	defaultLogFile    = "~/.local/state/kart/kart.log"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		BaseURL:           catalog.DefaultBaseURL,
		RequestTimeout:    10 * time.Second,
		RequestsPerSecond: 5,
		LogFile:           mustExpand(defaultLogFile),
		LogLevel:          "info",
		Connectivity:      Connectivity{Mode: "dial", Timeout: 2 * time.Second},
		Location: Location{
			Mode:       "ip",
			LookupURL:  location.DefaultLookupURL,
			GeocodeURL: location.DefaultGeocodeURL,
			Timeout:    10 * time.Second,
		},
		Share: Share{Target: "clipboard"},
	}
}

// Load locates and parses the kart config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := raw.apply(&cfg); err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// rawConfig mirrors the file layout. Durations are strings ("10s") and
// pointers mark keys that were actually present.
type rawConfig struct {
	BaseURL           string   `toml:"base_url"`
	RequestTimeout    string   `toml:"request_timeout"`
	RequestsPerSecond *float64 `toml:"requests_per_second"`
	RefreshInterval   string   `toml:"refresh_interval"`
	LogFile           *string  `toml:"log_file"`
	LogLevel          string   `toml:"log_level"`

	Connectivity struct {
		Mode    string `toml:"mode"`
		Timeout string `toml:"timeout"`
	} `toml:"connectivity"`

	Location struct {
		Mode       string   `toml:"mode"`
		Latitude   *float64 `toml:"latitude"`
		Longitude  *float64 `toml:"longitude"`
		LookupURL  string   `toml:"lookup_url"`
		GeocodeURL string   `toml:"geocode_url"`
		Timeout    string   `toml:"timeout"`
	} `toml:"location"`

	Share struct {
		Target string `toml:"target"`
	} `toml:"share"`

	Messages map[string]string `toml:"messages"`
}

func (raw rawConfig) apply(cfg *Config) error {
	setString(&cfg.BaseURL, raw.BaseURL)
	setString(&cfg.LogLevel, strings.ToLower(raw.LogLevel))
	setString(&cfg.Connectivity.Mode, strings.ToLower(raw.Connectivity.Mode))
	setString(&cfg.Location.Mode, strings.ToLower(raw.Location.Mode))
	setString(&cfg.Location.LookupURL, raw.Location.LookupURL)
	setString(&cfg.Location.GeocodeURL, raw.Location.GeocodeURL)
	setString(&cfg.Share.Target, strings.ToLower(raw.Share.Target))

	if raw.RequestsPerSecond != nil {
		cfg.RequestsPerSecond = *raw.RequestsPerSecond
	}
	if raw.Location.Latitude != nil {
		cfg.Location.Latitude = *raw.Location.Latitude
	}
	if raw.Location.Longitude != nil {
		cfg.Location.Longitude = *raw.Location.Longitude
	}
	if raw.LogFile != nil {
		cfg.LogFile = strings.TrimSpace(*raw.LogFile)
		if cfg.LogFile != "" {
			cfg.LogFile = mustExpand(cfg.LogFile)
		}
	}

	durations := []struct {
		key string
		in  string
		out *time.Duration
	}{
		{"request_timeout", raw.RequestTimeout, &cfg.RequestTimeout},
		{"refresh_interval", raw.RefreshInterval, &cfg.RefreshInterval},
		{"connectivity.timeout", raw.Connectivity.Timeout, &cfg.Connectivity.Timeout},
		{"location.timeout", raw.Location.Timeout, &cfg.Location.Timeout},
	}
	for _, d := range durations {
		if strings.TrimSpace(d.in) == "" {
			continue
		}
		parsed, err := time.ParseDuration(strings.TrimSpace(d.in))
		if err != nil {
			return fmt.Errorf("parse config: %s: %w", d.key, err)
		}
		*d.out = parsed
	}

	if len(raw.Messages) > 0 {
		cfg.Messages = make(map[messages.Key]string, len(raw.Messages))
		for k, v := range raw.Messages {
			cfg.Messages[messages.Key(strings.TrimSpace(k))] = v
		}
	}
	return nil
}

func setString(dst *string, v string) {
	if trimmed := strings.TrimSpace(v); trimmed != "" {
		*dst = trimmed
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("message_key", func(fl validator.FieldLevel) bool {
		return messages.Known(messages.Key(fl.Field().String()))
	}); err != nil {
		panic(fmt.Sprintf("register message_key validation: %v", err))
	}
	return v
}

// Validate checks cfg and reports the first offending key.
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		field := strings.TrimPrefix(first.Namespace(), "Config.")
		if first.Tag() == "message_key" {
			known := make([]string, 0, len(messages.Keys()))
			for _, k := range messages.Keys() {
				known = append(known, string(k))
			}
			return fmt.Errorf("invalid config: unknown message key %q (known: %s)", first.Value(), strings.Join(known, ", "))
		}
		return fmt.Errorf("invalid config: %s fails %q", field, first.Tag())
	}
	return fmt.Errorf("invalid config: %w", err)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
