package cli

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/carsearch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/carsearch/internal/core/domain"
	"github.com/custodia-labs/carsearch/internal/core/ports/driving"
	"github.com/custodia-labs/carsearch/internal/core/services"
)

// mockRetrievalService implements driving.RetrievalService for CLI tests.
type mockRetrievalService struct {
	results []domain.RetrievalResult
	err     error
	queries []string
	gotK    int
}

func (m *mockRetrievalService) Retrieve(_ context.Context, query string, k int) ([]domain.RetrievalResult, error) {
	m.queries = append(m.queries, query)
	m.gotK = k
	if m.err != nil {
		return nil, m.err
	}
	if k < len(m.results) {
		return m.results[:k], nil
	}
	return m.results, nil
}

// mockIndexBuilder implements driving.IndexBuilder for CLI tests.
type mockIndexBuilder struct{}

func (mockIndexBuilder) Build(context.Context) (driving.RetrievalService, error) {
	return nil, domain.ErrAlreadyBuilt
}

func (mockIndexBuilder) State() domain.IndexState { return domain.StateReady }

func (mockIndexBuilder) Stats() domain.BuildStats {
	return domain.BuildStats{Records: 2, Documents: 2, Chunks: 2, Dimensions: 8}
}

func sampleResults() []domain.RetrievalResult {
	return []domain.RetrievalResult{
		{Content: "Car Company: Porsche\nModel: 911\nHorsepower: 379 HP\n", Source: "Porsche_911", Score: 0.91},
		{Content: "Car Company: BMW\nModel: M3\nHorsepower: 473 HP\n", Source: "BMW_M3", Score: 0.87},
		{Content: "Car Company: Tesla\nModel: Model 3\nHorsepower: 283 HP\n", Source: "Tesla_Model 3", Score: 0.42},
		{Content: "Car Company: Kia\nModel: EV6\nHorsepower: 320 HP\n", Source: "Kia_EV6", Score: 0.40},
	}
}

// testEnv records what the injected factories were called with.
type testEnv struct {
	retrieval *mockRetrievalService
	config    map[string]any
	buildErr  error

	configDir string
	ephemeral bool
	settings  *domain.AppSettings
	store     *memory.ConfigStore
	closed    bool
}

// setupTestServices injects in-memory settings and a fake pipeline, and
// restores the previous factories and flag values when the test ends.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{retrieval: &mockRetrievalService{results: sampleResults()}}

	prevOpen, prevBuild := openSettings, buildPipeline
	SetSettingsOpener(func(dir string, ephemeral bool) (driving.SettingsService, error) {
		env.configDir, env.ephemeral = dir, ephemeral
		if env.store == nil {
			env.store = memory.NewConfigStore(env.config)
		}
		return services.NewSettingsService(env.store, nil), nil
	})
	SetPipelineBuilder(func(_ context.Context, settings *domain.AppSettings, _ io.Writer) (*Pipeline, error) {
		env.settings = settings
		if env.buildErr != nil {
			return nil, env.buildErr
		}
		return &Pipeline{
			Retrieval: env.retrieval,
			Index:     mockIndexBuilder{},
			Close:     func() { env.closed = true },
		}, nil
	})

	t.Cleanup(func() {
		openSettings, buildPipeline = prevOpen, prevBuild
		resetCommand(rootCmd)
	})
	return env
}

// resetCommand restores flag defaults and IO on cmd and its subcommands.
func resetCommand(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	cmd.SetArgs(nil)
	cmd.SetIn(nil)
	cmd.SetOut(nil)
	cmd.SetErr(nil)
	for _, sub := range cmd.Commands() {
		resetCommand(sub)
	}
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	rootCmd.SetIn(bytes.NewBufferString(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { resetCommand(rootCmd) })

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}
