package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Config holds everything the server and CLI need to wire the app. Values
// come from defaults, then an optional YAML file, then environment variables,
// later layers winning.
type Config struct {
	Port        int    `yaml:"port"`
	DBPath      string `yaml:"db_path"`
	PhotoDir    string `yaml:"photo_dir"`
	LibraryRoot string `yaml:"library_root"`
	AlbumPrefix string `yaml:"album_prefix"`

	// GeocodeEndpoint overrides the public Nominatim instance; empty keeps
	// the default.
	GeocodeEndpoint string `yaml:"geocode_endpoint"`

	// LocationAllowed mirrors the device's foreground location permission.
	LocationAllowed bool `yaml:"location_allowed"`

	// Latitude/Longitude are the configured device position; both must be
	// set for a fix source to exist.
	Latitude  *float64 `yaml:"latitude"`
	Longitude *float64 `yaml:"longitude"`
}

// Environment variables:
//   - GEOPHOTO_CONFIG: path to an optional YAML config file
//   - GEOPHOTO_PORT, GEOPHOTO_DB_PATH, GEOPHOTO_PHOTO_DIR,
//     GEOPHOTO_LIBRARY_ROOT, GEOPHOTO_ALBUM_PREFIX, GEOPHOTO_GEOCODE_ENDPOINT
//   - GEOPHOTO_LOCATION_ALLOWED: "true" / "false"
//   - GEOPHOTO_LAT, GEOPHOTO_LON: configured device position
func Load() (Config, error) {
	cfg := Config{
		Port:        8080,
		DBPath:      "./geophoto.db",
		PhotoDir:    "./photos",
		LibraryRoot: "./library",
		AlbumPrefix: "geoPhoto",
	}

	if path := os.Getenv("GEOPHOTO_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("GEOPHOTO_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid GEOPHOTO_PORT %q: %w", v, err)
		}
		c.Port = port
	}

	if v := os.Getenv("GEOPHOTO_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("GEOPHOTO_PHOTO_DIR"); v != "" {
		c.PhotoDir = v
	}
	if v := os.Getenv("GEOPHOTO_LIBRARY_ROOT"); v != "" {
		c.LibraryRoot = v
	}
	if v := os.Getenv("GEOPHOTO_ALBUM_PREFIX"); v != "" {
		c.AlbumPrefix = v
	}
	if v := os.Getenv("GEOPHOTO_GEOCODE_ENDPOINT"); v != "" {
		c.GeocodeEndpoint = v
	}

	if v := os.Getenv("GEOPHOTO_LOCATION_ALLOWED"); v != "" {
		c.LocationAllowed = strings.EqualFold(v, "true")
	}

	if v := os.Getenv("GEOPHOTO_LAT"); v != "" {
		lat, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid GEOPHOTO_LAT %q: %w", v, err)
		}
		c.Latitude = &lat
	}
	if v := os.Getenv("GEOPHOTO_LON"); v != "" {
		lon, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid GEOPHOTO_LON %q: %w", v, err)
		}
		c.Longitude = &lon
	}

	return nil
}

// HasFix reports whether a device position is configured.
func (c *Config) HasFix() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// Validate checks that the configuration can run the server.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db path cannot be empty")
	}
	if c.PhotoDir == "" {
		return fmt.Errorf("photo dir cannot be empty")
	}
	if c.LibraryRoot == "" {
		return fmt.Errorf("library root cannot be empty")
	}
	return nil
}
