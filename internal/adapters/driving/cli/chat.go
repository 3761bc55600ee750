package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/carsearch/internal/adapters/driving/tui"
	"github.com/custodia-labs/carsearch/internal/core/ports/driving"
)

// linePrompt is printed before every question in line mode.
const linePrompt = "Ask a question about cars (e.g., 'Which cars have over 300 HP?'): "

var chatPlain bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions about the dataset interactively",
	Long: `Builds the index once and then answers questions until you type 'exit'.

On a terminal the chat runs as a full-screen interface:
  Enter  - Ask
  ↑/↓    - Move between results
  Esc    - Clear
  Ctrl+C - Quit

When input or output is not a terminal, or with --plain, questions are read
one per line from stdin and results are printed as text.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatPlain, "plain", false, "use the line-based prompt even on a terminal")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	p, settings, err := openPipeline(cmd)
	if err != nil {
		return err
	}
	defer p.close()

	ctx := commandContext(cmd)
	in, out := cmd.InOrStdin(), cmd.OutOrStdout()

	if chatPlain || !isTerminal(in) || !isTerminal(out) {
		return runLineChat(ctx, in, out, p.Retrieval, settings.K)
	}

	ports := &tui.Ports{Retrieval: p.Retrieval, Index: p.Index, DefaultK: settings.K}
	return tui.Run(ctx, ports, tea.WithInput(in), tea.WithOutput(out))
}

// runLineChat answers one question per input line until exit or EOF.
// Retrieval errors are printed and the loop continues.
func runLineChat(ctx context.Context, in io.Reader, out io.Writer, svc driving.RetrievalService, k int) error {
	fmt.Fprintln(out, tui.Welcome)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, linePrompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(question, tui.ExitCommand) {
			return nil
		}
		if question == "" {
			continue
		}

		results, err := svc.Retrieve(ctx, question, k)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return err
			}
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		writeResults(out, results)
	}
}

// isTerminal reports whether v is an *os.File attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
