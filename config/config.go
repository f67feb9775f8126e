// Package config loads libsys configuration from libsys.toml and the
// LIBSYS_ environment, with programmatic defaults for every key.
package config

// Config represents the full libsys configuration
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Images    ImagesConfig    `mapstructure:"images"`
	Lending   LendingConfig   `mapstructure:"lending"`
	Predictor PredictorConfig `mapstructure:"predictor"`
}

// DatabaseConfig configures the SQLite database
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ArtifactsConfig locates the precomputed recommendation artifacts
type ArtifactsConfig struct {
	// Dir holds popular.csv, pivot_titles.csv, books.csv, similarity.csv
	// and the optional books_extra.csv backfill catalog.
	Dir string `mapstructure:"dir"`
	// Watch reloads the recommendation session when artifact files change.
	Watch bool `mapstructure:"watch"`
}

// RecommendConfig tunes the recommendation engine
type RecommendConfig struct {
	// FuzzyCutoff is the minimum similarity ratio for the fuzzy title
	// matching tier. Queries below this resolve to "not found".
	FuzzyCutoff float64 `mapstructure:"fuzzy_cutoff"`
	// TopK is how many similar books a recommendation returns.
	TopK int `mapstructure:"top_k"`
	// TopListSize is how many rows the popularity top list shows.
	TopListSize int `mapstructure:"top_list_size"`
}

// ImagesConfig configures the cover-image cache
type ImagesConfig struct {
	CacheDir       string  `mapstructure:"cache_dir"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	FetchesPerSec  float64 `mapstructure:"fetches_per_sec"`
}

// LendingConfig configures loan periods and fines
type LendingConfig struct {
	LoanPeriodDays int     `mapstructure:"loan_period_days"`
	FinePerDay     float64 `mapstructure:"fine_per_day"`
}

// PredictorConfig points at the external holding-duration service
type PredictorConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Defaults preserved from the desktop application: 0.6 fuzzy cutoff,
// 4 similar books, a 10-book top list, 14-day loans at Rs 5.00/day fine.
const (
	DefaultFuzzyCutoff    = 0.6
	DefaultTopK           = 4
	DefaultTopListSize    = 10
	DefaultLoanPeriodDays = 14
	DefaultFinePerDay     = 5.0
)
