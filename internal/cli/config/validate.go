package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Content == "" {
		return fmt.Errorf("content is required")
	}
	if c.Answers == "" && c.Hook == "" {
		return fmt.Errorf("answers or hook is required")
	}
	if c.SlugCacheSize < 0 {
		return fmt.Errorf("slug_cache_size must not be negative")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return ValidateStorage(c.Storage)
}

// ValidateStorage checks the storage section.
func ValidateStorage(s *StorageConfig) error {
	if s == nil {
		return nil
	}
	switch normalizeStorageType(s.Type) {
	case "", StorageFS:
		return nil
	case StorageS3:
		if s.S3 == nil {
			return fmt.Errorf("storage.s3 is required when storage.type is s3")
		}
		var missing []string
		if s.S3.Endpoint == "" {
			missing = append(missing, "endpoint")
		}
		if s.S3.Bucket == "" {
			missing = append(missing, "bucket")
		}
		if len(missing) > 0 {
			return fmt.Errorf("storage.s3 is missing: %s", strings.Join(missing, ", "))
		}
		return nil
	default:
		return fmt.Errorf("unknown storage type %q (available: %s, %s)", s.Type, StorageFS, StorageS3)
	}
}

// IsS3 reports whether the storage writes to an S3 bucket. The type is matched case-insensitively.
func (s *StorageConfig) IsS3() bool {
	return s != nil && normalizeStorageType(s.Type) == StorageS3
}

func normalizeStorageType(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// ValidateContent checks that the content file exists.
func (c *Config) ValidateContent() error {
	if _, err := os.Stat(c.Content); os.IsNotExist(err) {
		return fmt.Errorf("content file does not exist: %s\nHint: export your CMS content or use --content to specify a different path", c.Content)
	}
	return nil
}

// ParseLogLevel converts a level name to a slog level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}
