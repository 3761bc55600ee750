package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	queryK    int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query <question>",
	Short: "Retrieve the cars most similar to a question",
	Long: `Builds the index, answers a single question and exits.

Each result is the matching chunk of a car's description followed by its
source tag (Company_Model). Results are ordered best match first.`,
	Example: `  carsearch query "Which cars have over 300 HP?"
  carsearch query -k 5 --json "electric SUV"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryK, "top", "k", 0, "number of results (default from config, 3)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	p, settings, err := openPipeline(cmd)
	if err != nil {
		return err
	}
	defer p.close()

	k := settings.K
	if cmd.Flags().Changed("top") {
		k = queryK
	}

	results, err := p.Retrieval.Retrieve(commandContext(cmd), question, k)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return writeResultsJSON(cmd.OutOrStdout(), results)
	}
	writeResults(cmd.OutOrStdout(), results)
	return nil
}
