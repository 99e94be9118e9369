// Package config provides configuration management for album-ratings.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Overlaying .env files and environment variables
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// SQLite database at ~/.config/album-ratings/albums.db
//	// sorted by rating, highest first
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Environment
//
// ApplyEnv reads .env (via godotenv) and then the process environment:
//
//	SUPABASE_URL=https://xyz.supabase.co
//	SUPABASE_ANON_KEY=...
//	ALBUMS_BACKEND=postgrest
//
// Other variables: ALBUMS_DSN, ALBUMS_DATA_DIR, ALBUMS_LOCALE, ALBUMS_SORT,
// ALBUMS_HTTP_TIMEOUT (seconds).
package config
