package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/carsearch/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/carsearch/internal/adapters/driving/mcp"
	"github.com/custodia-labs/carsearch/internal/logger"
)

// shutdownTimeout bounds graceful shutdown of the HTTP server.
const shutdownTimeout = 10 * time.Second

var (
	serveAddr  string
	serveNoMCP bool
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the retrieval API over HTTP",
	Long: `Build the index and serve it over HTTP until interrupted.

Endpoints:
  GET  /health       - liveness and index state
  GET  /v1/index     - build statistics
  POST /v1/retrieve  - {"query": "...", "k": 3} -> ranked results
  /mcp               - MCP streamable HTTP endpoint (disable with --no-mcp)

The index is built once. With --watch, a change to the CSV file marks the
index stale in /health; restart the server to rebuild.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().BoolVar(&serveNoMCP, "no-mcp", false, "do not mount the MCP endpoint")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", true, "report dataset changes as a stale index")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	p, settings, err := openPipeline(cmd)
	if err != nil {
		return err
	}
	defer p.close()

	var mcpHandler http.Handler
	if !serveNoMCP {
		server, err := mcp.NewServer(&mcp.Ports{
			Retrieval: p.Retrieval,
			Index:     p.Index,
			DefaultK:  settings.K,
		})
		if err != nil {
			return err
		}
		mcpHandler = server.Handler()
	}

	handlers := httpapi.NewHandlers(p.Retrieval, p.Index, settings.K)
	srv := httpapi.NewServer(serveAddr, httpapi.NewRouter(handlers, mcpHandler))

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()
	if serveWatch {
		watchDataset(ctx, p, handlers)
	}

	cmd.Printf("Serving on %s\n", serveAddr)
	return listenAndServe(ctx, srv)
}

// watchDataset marks handlers stale whenever the dataset changes. A watch
// failure is logged and serving continues without it.
func watchDataset(ctx context.Context, p *Pipeline, handlers *httpapi.Handlers) {
	if p.Watch == nil {
		return
	}
	changes, err := p.Watch(ctx)
	if err != nil {
		logger.Warn("dataset watch disabled: %v", err)
		return
	}
	go func() {
		for change := range changes {
			reason := fmt.Sprintf("%s %s; restart to rebuild", filepath.Base(change.Path), change.Type)
			logger.Warn("index is stale: %s", reason)
			handlers.MarkStale(reason)
		}
	}()
}

// listenAndServe runs srv until ctx is cancelled, then shuts it down gracefully.
func listenAndServe(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	<-errCh
	return nil
}
