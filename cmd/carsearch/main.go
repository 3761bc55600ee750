// Command carsearch answers free-text questions about a car dataset by
// nearest-neighbour search over embedded row descriptions.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/carsearch/internal/adapters/driven/ai"
	"github.com/custodia-labs/carsearch/internal/adapters/driven/config/file"
	"github.com/custodia-labs/carsearch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/carsearch/internal/adapters/driving/cli"
	"github.com/custodia-labs/carsearch/internal/connectors/csvfile"
	"github.com/custodia-labs/carsearch/internal/core/domain"
	"github.com/custodia-labs/carsearch/internal/core/ports/driven"
	"github.com/custodia-labs/carsearch/internal/core/ports/driving"
	"github.com/custodia-labs/carsearch/internal/core/services"
	"github.com/custodia-labs/carsearch/internal/logger"
	"github.com/custodia-labs/carsearch/internal/normalisers/car"
	"github.com/custodia-labs/carsearch/internal/postprocessors"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetSettingsOpener(openSettings)
	cli.SetPipelineBuilder(buildPipeline)

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// openSettings backs settings with config.toml, or with an in-memory store
// when ephemeral.
func openSettings(configDir string, ephemeral bool) (driving.SettingsService, error) {
	var store driven.ConfigStore
	if ephemeral {
		store = memory.NewConfigStore(nil)
	} else {
		fileStore, err := file.NewConfigStore(configDir)
		if err != nil {
			return nil, err
		}
		logger.Debug("Config file: %s", fileStore.Path())
		store = fileStore
	}
	return services.NewSettingsService(store, ai.NewConfigValidator()), nil
}

// buildPipeline wires the CSV source, car normaliser, chunking pipeline and
// embedding adapters, then builds the index once.
func buildPipeline(ctx context.Context, settings *domain.AppSettings, warn io.Writer) (*cli.Pipeline, error) {
	adapters, err := ai.Init(settings)
	if err != nil {
		return nil, err
	}

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	pipelineCfg := settings.Index.PipelineConfig()
	pipeline, err := registry.BuildPipeline(pipelineCfg.Processors, pipelineCfg.ProcessorConfigs)
	if err != nil {
		adapters.Close()
		return nil, fmt.Errorf("build chunking pipeline: %w", err)
	}

	source := csvfile.New(settings.DataPath)
	index := services.NewIndexService(
		source,
		car.New(),
		pipeline,
		adapters.EmbeddingService,
		adapters.VectorIndex,
		services.WithStrict(settings.Index.Strict),
		services.WithSkipHandler(func(skipped *domain.MissingFieldError) {
			fmt.Fprintf(warn, "warning: skipping %v\n", skipped)
		}),
	)

	if _, err := index.Build(ctx); err != nil {
		adapters.Close()
		return nil, err
	}

	return &cli.Pipeline{
		Retrieval: index,
		Index:     index,
		Close: func() {
			_ = source.Close()
			adapters.Close()
		},
		Watch: source.Watch,
	}, nil
}
