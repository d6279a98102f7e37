package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"route-alternatives/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	SourceOSRM     = "osrm"
	SourceStatic   = "static"
	SourceSnapshot = "snapshot"
)

type Config struct {
	Port string `validate:"required,numeric"`

	LogLevel  string `validate:"omitempty,oneof=debug info warn error"`
	LogPretty bool

	OSRMBaseURL string        `validate:"required,url"`
	OSRMProfile string        `validate:"required"`
	OSRMTimeout time.Duration `validate:"gt=0"`

	RouteSource string `validate:"oneof=osrm static snapshot"`
	DatabaseURL string `validate:"required_if=RouteSource snapshot"`

	Origin      domain.Endpoint
	Destination domain.Endpoint

	View View
}

// View is the in-memory surface viewport.
type View struct {
	Width        int     `validate:"gt=0"`
	Height       int     `validate:"gt=0"`
	Zoom         float64 `validate:"gte=0,lte=22"`
	HitTolerance float64 `validate:"gte=0"`
}

// Load reads .env (if present) and the process environment.
// It reports whether a .env file was found so callers can log it.
func Load() (*Config, bool, error) {
	loadedDotenv := godotenv.Load() == nil

	cfg, err := FromEnv()
	if err != nil {
		return nil, loadedDotenv, err
	}
	return cfg, loadedDotenv, nil
}

// FromEnv builds a Config from environment variables with defaults.
func FromEnv() (*Config, error) {
	var errs []string

	cfg := &Config{
		Port:        Get("PORT", "8080"),
		LogLevel:    strings.ToLower(Get("LOG_LEVEL", "info")),
		LogPretty:   getBool("LOG_PRETTY", false, &errs),
		OSRMBaseURL: strings.TrimRight(Get("OSRM_BASE_URL", "https://router.project-osrm.org"), "/"),
		OSRMProfile: Get("OSRM_PROFILE", "driving"),
		OSRMTimeout: getDuration("OSRM_TIMEOUT", 10*time.Second, &errs),
		RouteSource: strings.ToLower(Get("ROUTE_SOURCE", SourceOSRM)),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Origin: domain.Endpoint{
			Name: Get("ORIGIN_NAME", "Amsterdam"),
			Lon:  getFloat("ORIGIN_LON", 4.9041, &errs),
			Lat:  getFloat("ORIGIN_LAT", 52.3676, &errs),
		},
		Destination: domain.Endpoint{
			Name: Get("DEST_NAME", "Rotterdam"),
			Lon:  getFloat("DEST_LON", 4.4777, &errs),
			Lat:  getFloat("DEST_LAT", 51.9244, &errs),
		},
		View: View{
			Width:        getInt("VIEW_WIDTH", 800, &errs),
			Height:       getInt("VIEW_HEIGHT", 500, &errs),
			Zoom:         getFloat("VIEW_ZOOM", 8.5, &errs),
			HitTolerance: getFloat("HIT_TOLERANCE_PX", 3, &errs),
		},
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return cfg, nil
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64, errs *[]string) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: invalid number %q", key, v))
		return fallback
	}
	return f
}

func getInt(key string, fallback int, errs *[]string) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: invalid integer %q", key, v))
		return fallback
	}
	return n
}

func getBool(key string, fallback bool, errs *[]string) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: invalid bool %q", key, v))
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration, errs *[]string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: invalid duration %q", key, v))
		return fallback
	}
	return d
}
