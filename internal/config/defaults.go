package config

// DefaultFuzzyThreshold is the minimum similarity for a fuzzy skill match.
const DefaultFuzzyThreshold = 0.8

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/screener/data/db/screener.db"
	}
	if cfg.Storage.LibraryIndexPath == "" {
		cfg.Storage.LibraryIndexPath = "/usr/local/var/screener/data/indices/library"
	}
	if cfg.Matching.FuzzyThreshold == 0 {
		cfg.Matching.FuzzyThreshold = DefaultFuzzyThreshold
	}
	if cfg.Matching.Workers == 0 {
		cfg.Matching.Workers = 4
	}
	if cfg.Matching.MaxUploadMB == 0 {
		cfg.Matching.MaxUploadMB = 32
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".txt", ".md", ".pdf", ".docx", ".odt", ".xlsx"}
	}
	// Recursive defaults to true when unset (nil).
	if len(cfg.Watch.Directories) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}
