// Package cli provides the carsearch command-line interface.
// It implements a driving adapter following hexagonal architecture principles.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/carsearch/internal/core/domain"
	"github.com/custodia-labs/carsearch/internal/core/ports/driving"
	"github.com/custodia-labs/carsearch/internal/logger"
)

// version is set at build time through SetVersion.
var version = "dev"

// envOpenAIKey supplies the OpenAI key when --provider switches to openai.
const envOpenAIKey = "OPENAI_API_KEY"

// ErrNotConfigured is returned when a command runs before its services are injected.
var ErrNotConfigured = errors.New("cli: services not configured")

// SettingsOpener opens the settings service. With ephemeral set, nothing is
// read from or written to configDir.
type SettingsOpener func(configDir string, ephemeral bool) (driving.SettingsService, error)

// Pipeline is a built retrieval pipeline.
type Pipeline struct {
	// Retrieval answers queries.
	Retrieval driving.RetrievalService

	// Index reports build state and statistics.
	Index driving.IndexBuilder

	// Close releases the embedding and index adapters. May be nil.
	Close func()

	// Watch reports changes to the dataset file. May be nil.
	Watch func(ctx context.Context) (<-chan domain.DatasetChange, error)
}

func (p *Pipeline) close() {
	if p != nil && p.Close != nil {
		p.Close()
	}
}

// PipelineBuilder loads the dataset described by settings and builds the
// index. Rows skipped for missing fields are reported to warn.
type PipelineBuilder func(ctx context.Context, settings *domain.AppSettings, warn io.Writer) (*Pipeline, error)

var (
	openSettings  SettingsOpener
	buildPipeline PipelineBuilder
)

// Global flags shared by every command.
var (
	verbose      bool
	configDir    string
	noConfig     bool
	csvPath      string
	strict       bool
	provider     string
	metric       string
	chunkSize    int
	chunkOverlap int
)

var rootCmd = &cobra.Command{
	Use:   "carsearch",
	Short: "Semantic retrieval over a car dataset",
	Long: `carsearch loads a CSV of cars, renders every row as a labelled text block,
chunks and embeds the blocks into an in-memory vector index, and answers
free-text questions with the most similar cars.

The index is rebuilt on every run; nothing is persisted besides the
configuration file (~/.carsearch/config.toml).`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "log pipeline stages to stderr")
	pf.StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.carsearch)")
	pf.BoolVar(&noConfig, "no-config", false, "ignore the configuration file and use defaults")
	pf.StringVar(&csvPath, "csv", "", "path to the car dataset CSV")
	pf.BoolVar(&strict, "strict", false, "fail on rows with missing fields instead of skipping them")
	pf.StringVar(&provider, "provider", "", "embedding provider (hashing, ollama, openai)")
	pf.StringVar(&metric, "metric", "", "similarity metric (cosine, l2)")
	pf.IntVar(&chunkSize, "chunk-size", 0, "maximum chunk length in characters")
	pf.IntVar(&chunkOverlap, "overlap", 0, "characters shared by consecutive chunks")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetSettingsOpener injects the settings service factory.
func SetSettingsOpener(fn SettingsOpener) {
	openSettings = fn
}

// SetPipelineBuilder injects the pipeline factory.
func SetPipelineBuilder(fn PipelineBuilder) {
	buildPipeline = fn
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadSettings reads the stored settings, applies flag overrides and validates
// the result.
func loadSettings(cmd *cobra.Command) (*domain.AppSettings, error) {
	if openSettings == nil {
		return nil, fmt.Errorf("%w: settings", ErrNotConfigured)
	}

	svc, err := openSettings(configDir, noConfig)
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}

	settings, err := svc.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("csv") {
		settings.DataPath = csvPath
	}
	if flags.Changed("strict") {
		settings.Index.Strict = strict
	}
	if flags.Changed("metric") {
		settings.Index.Metric = domain.Metric(metric)
	}
	if flags.Changed("chunk-size") {
		settings.Index.ChunkSize = chunkSize
	}
	if flags.Changed("overlap") {
		settings.Index.Overlap = chunkOverlap
	}
	if flags.Changed("provider") {
		p := domain.AIProvider(provider)
		if p != settings.Embedding.Provider {
			settings.Embedding.Provider = p
			settings.Embedding.Model = domain.DefaultEmbeddingModels()[p]
			settings.Embedding.Dimensions = 0
			settings.Embedding.APIKey = ""
			if p == domain.AIProviderOpenAI {
				settings.Embedding.APIKey = os.Getenv(envOpenAIKey)
			}
		}
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	logger.Debug("Settings: csv=%s provider=%s model=%s metric=%s chunk=%d/%d",
		settings.DataPath, settings.Embedding.Provider, settings.Embedding.Model,
		settings.Index.Metric, settings.Index.ChunkSize, settings.Index.Overlap)
	return settings, nil
}

// openPipeline loads settings and builds the index. The caller must close the
// returned pipeline.
func openPipeline(cmd *cobra.Command) (*Pipeline, *domain.AppSettings, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, nil, err
	}
	if buildPipeline == nil {
		return nil, nil, fmt.Errorf("%w: pipeline", ErrNotConfigured)
	}

	stderr := cmd.ErrOrStderr()
	fmt.Fprintln(stderr, "Loading dataset...")
	fmt.Fprintln(stderr, "Creating vector store...")

	p, err := buildPipeline(commandContext(cmd), settings, stderr)
	if err != nil {
		return nil, nil, err
	}
	if p == nil || p.Retrieval == nil {
		p.close()
		return nil, nil, fmt.Errorf("%w: pipeline has no retrieval service", ErrNotConfigured)
	}
	return p, settings, nil
}

// commandContext returns the command context, falling back to Background
// when the command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
