package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/handiism/album-ratings/internal/sorting"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if s.Backend != BackendSQLite {
		t.Errorf("Backend = %q, want %q", s.Backend, BackendSQLite)
	}
	if s.SortKey() != sorting.RatingDesc {
		t.Errorf("SortKey() = %q, want %q", s.SortKey(), sorting.RatingDesc)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	s := DefaultSettings()
	s.Backend = BackendPostgrest
	s.SupabaseURL = "https://example.supabase.co"
	s.SupabaseKey = "anon"
	s.DefaultSort = string(sorting.TitleAsc)

	if err := s.Save(path); err != nil {
		t.Fatalf("Save() = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if *got != *s {
		t.Errorf("Load() = %+v, want %+v", got, s)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"backend":"memory"}`), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if s.Backend != BackendMemory {
		t.Errorf("Backend = %q, want memory", s.Backend)
	}
	if s.Table != "albums" {
		t.Errorf("Table = %q, want default", s.Table)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on invalid JSON")
	}
}

func TestApplyEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "SUPABASE_URL=https://from-dotenv.supabase.co\nSUPABASE_ANON_KEY=dotenv-key\nALBUMS_SORT=artist-asc\n"
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	// Real environment wins over dotenv. t.Setenv also restores the
	// variables godotenv sets during the test.
	t.Setenv(EnvSupabaseURL, "")
	t.Setenv(EnvSupabaseKey, "")
	t.Setenv(EnvSort, "")
	t.Setenv(EnvBackend, "postgrest")
	t.Setenv(EnvHTTPTimeout, "2.5")
	os.Unsetenv(EnvSupabaseURL)
	os.Unsetenv(EnvSupabaseKey)
	os.Unsetenv(EnvSort)

	s := DefaultSettings()
	if err := s.ApplyEnv(envFile); err != nil {
		t.Fatalf("ApplyEnv() = %v", err)
	}

	if s.SupabaseURL != "https://from-dotenv.supabase.co" {
		t.Errorf("SupabaseURL = %q", s.SupabaseURL)
	}
	if s.SupabaseKey != "dotenv-key" {
		t.Errorf("SupabaseKey = %q", s.SupabaseKey)
	}
	if s.Backend != BackendPostgrest {
		t.Errorf("Backend = %q, want postgrest", s.Backend)
	}
	if s.SortKey() != sorting.ArtistAsc {
		t.Errorf("SortKey() = %q, want artist-asc", s.SortKey())
	}
	if s.Timeout() != 2500*time.Millisecond {
		t.Errorf("Timeout() = %v, want 2.5s", s.Timeout())
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestApplyEnv_MissingDotenvIgnored(t *testing.T) {
	s := DefaultSettings()
	if err := s.ApplyEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("ApplyEnv(missing) = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults", func(*Settings) {}, false},
		{"memory", func(s *Settings) { s.Backend = BackendMemory }, false},
		{"postgrest without key", func(s *Settings) {
			s.Backend = BackendPostgrest
			s.SupabaseURL = "https://x.supabase.co"
		}, true},
		{"mysql without dsn", func(s *Settings) { s.Backend = BackendMySQL; s.DSN = "" }, true},
		{"diskv without dir", func(s *Settings) { s.Backend = BackendDiskv; s.DataDir = "" }, true},
		{"unknown backend", func(s *Settings) { s.Backend = "redis" }, true},
		{"empty table", func(s *Settings) { s.Table = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			if err := s.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSortKey_Unknown(t *testing.T) {
	s := DefaultSettings()
	s.DefaultSort = "year-desc"
	if s.SortKey() != sorting.Default {
		t.Errorf("SortKey() = %q, want default", s.SortKey())
	}
}
