package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/leapstack-labs/sitewriter/internal/cli/config"
	"github.com/leapstack-labs/sitewriter/internal/cli/output"
	"github.com/leapstack-labs/sitewriter/internal/hook"
	"github.com/leapstack-labs/sitewriter/internal/loader"
	"github.com/leapstack-labs/sitewriter/internal/router"
	"github.com/leapstack-labs/sitewriter/internal/sink"
	"github.com/leapstack-labs/sitewriter/internal/slugify"
	"github.com/leapstack-labs/sitewriter/pkg/core"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Utils builds the capabilities handed to write functions.
func (c *CommandContext) Utils() (core.Utils, error) {
	if c.Cfg.SlugCacheSize == 0 {
		return core.Utils{Slugify: slugify.Make}, nil
	}
	cache, err := slugify.New(c.Cfg.SlugCacheSize)
	if err != nil {
		return core.Utils{}, err
	}
	return core.Utils{Slugify: cache.Slugify}, nil
}

// Router loads the setup answers and compiles them.
func (c *CommandContext) Router() (*router.Router, error) {
	answers, err := loader.LoadAnswers(c.Cfg.Answers)
	if err != nil {
		return nil, err
	}

	opts := []router.Option{router.WithLogger(c.Logger)}
	if c.Cfg.Strict {
		opts = append(opts, router.WithStrict())
	}
	r := router.Compile(answers, opts...)
	c.Logger.Debug("routing compiled", slog.String("answers", c.Cfg.Answers), slog.Int("rules", r.Len()))
	return r, nil
}

// WriteFunc returns the configured write function and a description of
// where it came from. A hook script takes precedence over setup answers.
func (c *CommandContext) WriteFunc() (core.WriteFunc, string, error) {
	if c.Cfg.Hook != "" {
		h, err := hook.Load(c.Cfg.Hook, c.Logger)
		if err != nil {
			return nil, "", err
		}
		return h.WriteFunc(), c.Cfg.Hook, nil
	}

	r, err := c.Router()
	if err != nil {
		return nil, "", err
	}
	return r.WriteFunc(), c.Cfg.Answers, nil
}

// Store returns the configured output store.
func (c *CommandContext) Store() (sink.Store, error) {
	s := c.Cfg.Storage
	if !s.IsS3() {
		return sink.NewFSStore(c.Cfg.OutputDir), nil
	}
	return sink.NewS3Store(sink.S3Config{
		Endpoint:  s.S3.Endpoint,
		Region:    s.S3.Region,
		AccessKey: s.S3.AccessKey,
		SecretKey: s.S3.SecretKey,
		Bucket:    s.S3.Bucket,
		Prefix:    s.S3.Prefix,
		UseSSL:    s.S3.UseSSL,
	})
}

// storeName describes the store for user-facing output.
func (c *CommandContext) storeName() string {
	s := c.Cfg.Storage
	if !s.IsS3() || s.S3 == nil {
		return c.Cfg.OutputDir
	}
	if s.S3.Prefix != "" {
		return fmt.Sprintf("s3://%s/%s", s.S3.Bucket, s.S3.Prefix)
	}
	return "s3://" + s.S3.Bucket
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	slugCacheSize := config.DefaultSlugCacheSize
	if n, err := strconv.Atoi(os.Getenv("SITEWRITER_SLUG_CACHE_SIZE")); err == nil {
		slugCacheSize = n
	}

	return &config.Config{
		Content:       getEnvOrDefault("SITEWRITER_CONTENT", config.DefaultContent),
		Answers:       getEnvOrDefault("SITEWRITER_ANSWERS", config.DefaultAnswers),
		OutputDir:     getEnvOrDefault("SITEWRITER_OUTPUT_DIR", config.DefaultOutputDir),
		Hook:          os.Getenv("SITEWRITER_HOOK"),
		Strict:        os.Getenv("SITEWRITER_STRICT") == "true",
		SlugCacheSize: slugCacheSize,
		Environment:   os.Getenv("SITEWRITER_ENVIRONMENT"),
		Verbose:       os.Getenv("SITEWRITER_VERBOSE") == "true",
		LogLevel:      getEnvOrDefault("SITEWRITER_LOG_LEVEL", config.DefaultLogLevel),
		OutputFormat:  os.Getenv("SITEWRITER_OUTPUT"),
		Storage:       &config.StorageConfig{Type: config.StorageFS},
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
