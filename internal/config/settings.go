package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"

	ioutils "github.com/handiism/album-ratings/internal/io"
	"github.com/handiism/album-ratings/internal/sorting"
)

// Supported backends.
const (
	BackendMemory    = "memory"
	BackendPostgrest = "postgrest"
	BackendSQLite    = "sqlite"
	BackendMySQL     = "mysql"
	BackendDiskv     = "diskv"
)

// Settings holds all configuration options.
type Settings struct {
	// Store settings
	Backend string `json:"backend"` // memory, postgrest, sqlite, mysql, diskv
	Table   string `json:"table"`

	// PostgREST / Supabase
	SupabaseURL string  `json:"supabase_url"`
	SupabaseKey string  `json:"supabase_anon_key"`
	HTTPTimeout float64 `json:"http_timeout"` // seconds
	UserAgent   string  `json:"user_agent"`

	// SQL backends: a file path for sqlite, a go-sql-driver DSN for mysql
	DSN string `json:"dsn"`

	// diskv backend
	DataDir string `json:"data_dir"`

	// View settings
	Locale      string `json:"locale"`
	DefaultSort string `json:"default_sort"`

	// Cover settings
	CoversDir                  string `json:"covers_dir"` // covers extracted from MP3s
	ShowCovers                 bool   `json:"show_covers"`
	CoverWidth                 int    `json:"cover_width"`
	MaxConcurrentCoverDownload int    `json:"max_concurrent_cover_download"`

	// Refresh the view when a file-backed store changes on disk
	WatchStore bool `json:"watch_store"`
}

// Environment variables read by ApplyEnv.
const (
	EnvSupabaseURL = "SUPABASE_URL"
	EnvSupabaseKey = "SUPABASE_ANON_KEY"
	EnvBackend     = "ALBUMS_BACKEND"
	EnvDSN         = "ALBUMS_DSN"
	EnvDataDir     = "ALBUMS_DATA_DIR"
	EnvLocale      = "ALBUMS_LOCALE"
	EnvSort        = "ALBUMS_SORT"
	EnvHTTPTimeout = "ALBUMS_HTTP_TIMEOUT"
)

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	base := defaultBaseDir()
	return &Settings{
		Backend: BackendSQLite,
		Table:   "albums",

		HTTPTimeout: 30,
		UserAgent:   "AlbumRatings",

		DSN:     filepath.Join(base, "albums.db"),
		DataDir: filepath.Join(base, "albums"),

		Locale:      "en",
		DefaultSort: string(sorting.Default),

		CoversDir:                  filepath.Join(base, "covers"),
		ShowCovers:                 true,
		CoverWidth:                 24,
		MaxConcurrentCoverDownload: 4,

		WatchStore: true,
	}
}

// DefaultPath returns the default location of the settings file.
func DefaultPath() string {
	return filepath.Join(defaultBaseDir(), "config.json")
}

func defaultBaseDir() string {
	home, err := homedir.Dir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "album-ratings")
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return ioutils.WriteFile(path, data)
}

// ApplyEnv loads the given dotenv files (".env" when none are given) into the
// process environment and overlays the recognised variables onto s.
// Missing dotenv files are ignored; variables already set in the environment
// win over dotenv values.
func (s *Settings) ApplyEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	if v := os.Getenv(EnvSupabaseURL); v != "" {
		s.SupabaseURL = v
	}
	if v := os.Getenv(EnvSupabaseKey); v != "" {
		s.SupabaseKey = v
	}
	if v := os.Getenv(EnvBackend); v != "" {
		s.Backend = v
	}
	if v := os.Getenv(EnvDSN); v != "" {
		s.DSN = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		s.DataDir = v
	}
	if v := os.Getenv(EnvLocale); v != "" {
		s.Locale = v
	}
	if v := os.Getenv(EnvSort); v != "" {
		s.DefaultSort = v
	}
	if v := os.Getenv(EnvHTTPTimeout); v != "" {
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvHTTPTimeout, err)
		}
		s.HTTPTimeout = secs
	}

	return nil
}

// Validate checks that the selected backend has what it needs.
func (s *Settings) Validate() error {
	switch s.Backend {
	case BackendMemory:
	case BackendPostgrest:
		if s.SupabaseURL == "" || s.SupabaseKey == "" {
			return fmt.Errorf("backend %s requires %s and %s", s.Backend, EnvSupabaseURL, EnvSupabaseKey)
		}
	case BackendSQLite, BackendMySQL:
		if s.DSN == "" {
			return fmt.Errorf("backend %s requires a dsn", s.Backend)
		}
	case BackendDiskv:
		if s.DataDir == "" {
			return fmt.Errorf("backend %s requires a data_dir", s.Backend)
		}
	default:
		return fmt.Errorf("unknown backend %q", s.Backend)
	}

	if s.Table == "" {
		return errors.New("table must not be empty")
	}
	return nil
}

// Timeout returns HTTPTimeout as a duration.
func (s *Settings) Timeout() time.Duration {
	return time.Duration(s.HTTPTimeout * float64(time.Second))
}

// SortKey returns DefaultSort, or sorting.Default when it is not supported.
func (s *Settings) SortKey() sorting.Key {
	if k, ok := sorting.ParseKey(s.DefaultSort); ok {
		return k
	}
	return sorting.Default
}

// Sorter returns a sorter for the configured locale.
func (s *Settings) Sorter() sorting.Sorter {
	return sorting.New(s.Locale)
}
