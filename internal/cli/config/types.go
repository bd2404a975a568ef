// Package config provides configuration management for the sitewriter CLI.
//
// Values are layered with koanf: defaults, then sitewriter.yaml, then
// SITEWRITER_ environment variables (a .env file is honored), then flags.
package config

// Config holds all CLI configuration options.
type Config struct {
	// ProjectRoot is the directory relative paths are resolved against
	ProjectRoot string `koanf:"-"`

	Content          string               `koanf:"content"`
	Answers          string               `koanf:"answers"`
	OutputDir        string               `koanf:"output_dir"`
	FullAssetObjects bool                 `koanf:"full_asset_objects"`
	Hook             string               `koanf:"hook"`
	Strict           bool                 `koanf:"strict"`
	HTMLToMarkdown   bool                 `koanf:"html_to_markdown"`
	SlugCacheSize    int                  `koanf:"slug_cache_size"`
	Environment      string               `koanf:"environment"`
	Verbose          bool                 `koanf:"verbose"`
	LogLevel         string               `koanf:"log_level"`
	OutputFormat     string               `koanf:"output"`
	Storage          *StorageConfig       `koanf:"storage"`
	Environments     map[string]EnvConfig `koanf:"environments"`
}

// StorageConfig selects where built files are written.
type StorageConfig struct {
	// Type is "fs" or "s3"
	Type string    `koanf:"type"`
	S3   *S3Config `koanf:"s3"`
}

// S3Config holds S3-compatible bucket settings.
// Credentials may reference environment variables as ${VAR}.
type S3Config struct {
	Endpoint  string `koanf:"endpoint"`
	Region    string `koanf:"region"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Bucket    string `koanf:"bucket"`
	Prefix    string `koanf:"prefix"`
	UseSSL    bool   `koanf:"use_ssl"`
}

// EnvConfig holds environment-specific overrides, e.g. a preview bucket.
type EnvConfig struct {
	Content   string         `koanf:"content"`
	OutputDir string         `koanf:"output_dir"`
	Storage   *StorageConfig `koanf:"storage"`
}

// Storage types.
const (
	StorageFS = "fs"
	StorageS3 = "s3"
)

// Default configuration values.
const (
	DefaultContent       = "content.json"
	DefaultAnswers       = "sitewriter.answers.yml"
	DefaultOutputDir     = "."
	DefaultSlugCacheSize = 4096
	DefaultLogLevel      = "warn"
	DefaultOutput        = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// ConfigFileNames lists the file names searched for a project config.
var ConfigFileNames = []string{"sitewriter.yaml", "sitewriter.yml"}
