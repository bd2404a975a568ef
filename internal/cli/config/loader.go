package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// EnvPrefix prefixes environment variables read into the config.
const EnvPrefix = "SITEWRITER_"

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config // Stores the loaded config for access by commands
)

// configIn returns the config file in dir, if any.
func configIn(dir string) string {
	for _, name := range ConfigFileNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// findProjectRootUpward searches upward from startDir for a sitewriter config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findProjectRootUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if configIn(dir) != "" {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// inferProjectRoot determines the project root.
// Priority:
//  1. Directory of an explicit config file
//  2. Search upward from CWD for sitewriter.yaml
//  3. Current working directory
func inferProjectRoot(cfgFile string) string {
	if cfgFile != "" {
		if abs, err := filepath.Abs(cfgFile); err == nil {
			return filepath.Dir(abs)
		}
		return filepath.Dir(cfgFile)
	}

	cwd, _ := os.Getwd()
	if cwd == "" {
		return "."
	}
	if root := findProjectRootUpward(cwd); root != "" {
		return root
	}
	return cwd
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	return LoadConfigWithEnv(cfgFile, "", flags)
}

// LoadConfigWithEnv loads configuration and applies the overrides of the named
// environment. An empty envOverride falls back to the configured environment.
func LoadConfigWithEnv(cfgFile, envOverride string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")

	projectRoot := inferProjectRoot(cfgFile)

	// Paths given as flags are relative to CWD, not the project root.
	flagPaths := make(map[string]string)
	if flags != nil {
		for _, name := range []string{"content", "answers", "output-dir", "hook"} {
			if f := flags.Lookup(name); f != nil && f.Changed && f.Value.String() != "" {
				abs, err := filepath.Abs(f.Value.String())
				if err == nil {
					flagPaths[name] = abs
				}
			}
		}
	}

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"content":         DefaultContent,
		"answers":         DefaultAnswers,
		"output_dir":      DefaultOutputDir,
		"slug_cache_size": DefaultSlugCacheSize,
		"log_level":       DefaultLogLevel,
		"verbose":         false,
		"output":          DefaultOutput,
		"storage.type":    StorageFS,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	if cfgFile == "" {
		cfgFile = configIn(projectRoot)
	}
	configFileUsed = cfgFile
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load .env then environment variables (SITEWRITER_ prefix)
	// Transform: SITEWRITER_OUTPUT_DIR -> output_dir, SITEWRITER_STORAGE__S3__BUCKET -> storage.s3.bucket
	_ = godotenv.Load(filepath.Join(projectRoot, ".env"))
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			switch f.Name {
			case "config", "env":
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ProjectRoot = projectRoot

	// 6. Apply environment overrides
	envName := cfg.Environment
	if envOverride != "" {
		envName = envOverride
	}
	if envName != "" {
		envCfg, ok := cfg.Environments[envName]
		if !ok && envOverride != "" {
			return nil, fmt.Errorf("environment %q is not defined in %s", envName, displayConfigFile())
		}
		if ok {
			cfg.Environment = envName
			if envCfg.Content != "" {
				cfg.Content = envCfg.Content
			}
			if envCfg.OutputDir != "" {
				cfg.OutputDir = envCfg.OutputDir
			}
			cfg.Storage = MergeStorageConfig(cfg.Storage, envCfg.Storage)
		}
	}

	// 7. Resolve paths; flag paths were made absolute against CWD above
	cfg.Content = pick(flagPaths["content"], resolvePathRelativeTo(cfg.Content, projectRoot))
	cfg.Answers = pick(flagPaths["answers"], resolvePathRelativeTo(cfg.Answers, projectRoot))
	cfg.OutputDir = pick(flagPaths["output-dir"], resolvePathRelativeTo(cfg.OutputDir, projectRoot))
	cfg.Hook = pick(flagPaths["hook"], resolvePathRelativeTo(cfg.Hook, projectRoot))

	if cfg.Storage == nil {
		cfg.Storage = &StorageConfig{Type: StorageFS}
	}
	expandStorageEnvVars(cfg.Storage)
	cfg.Storage.Type = normalizeStorageType(cfg.Storage.Type)

	if err := ValidateStorage(cfg.Storage); err != nil {
		return nil, fmt.Errorf("invalid storage configuration: %w", err)
	}

	currentConfig = &cfg
	return &cfg, nil
}

func pick(preferred, fallback string) string {
	if preferred != "" {
		return preferred
	}
	return fallback
}

func displayConfigFile() string {
	if configFileUsed == "" {
		return "configuration"
	}
	return configFileUsed
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig or LoadConfigWithEnv is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.New(slog.DiscardHandler)
	}
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if not found
	})
}

// expandStorageEnvVars expands environment variables in sensitive storage fields.
func expandStorageEnvVars(s *StorageConfig) {
	if s == nil || s.S3 == nil {
		return
	}
	s.S3.Endpoint = expandEnvVars(s.S3.Endpoint)
	s.S3.AccessKey = expandEnvVars(s.S3.AccessKey)
	s.S3.SecretKey = expandEnvVars(s.S3.SecretKey)
	s.S3.Bucket = expandEnvVars(s.S3.Bucket)
}

// MergeStorageConfig merges two storage configs, with override taking precedence.
func MergeStorageConfig(base, override *StorageConfig) *StorageConfig {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := &StorageConfig{Type: base.Type}
	if override.Type != "" {
		merged.Type = override.Type
	}

	switch {
	case base.S3 == nil:
		merged.S3 = override.S3
	case override.S3 == nil:
		s3 := *base.S3
		merged.S3 = &s3
	default:
		s3 := *base.S3
		o := override.S3
		if o.Endpoint != "" {
			s3.Endpoint = o.Endpoint
		}
		if o.Region != "" {
			s3.Region = o.Region
		}
		if o.AccessKey != "" {
			s3.AccessKey = o.AccessKey
		}
		if o.SecretKey != "" {
			s3.SecretKey = o.SecretKey
		}
		if o.Bucket != "" {
			s3.Bucket = o.Bucket
		}
		if o.Prefix != "" {
			s3.Prefix = o.Prefix
		}
		if o.UseSSL {
			s3.UseSSL = true
		}
		merged.S3 = &s3
	}

	return merged
}
