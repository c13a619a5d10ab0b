package cli

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/slidestream/internal/parser"
)

func (c *CLI) parseCommand() *cobra.Command {
	var opts parserOpts

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a complete markup file in one pass",
		Long: `Parse a complete slide markup file and print the resulting documents.

Examples:
  slidectl parse deck.xml                # Outline view
  slidectl parse deck.xml -f json        # Documents as JSON
  cat deck.xml | slidectl parse -        # Read stdin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			start := time.Now()
			docs := parser.ParseAll(text, c.options(&opts))
			c.Logger.Debug("parsed", "documents", len(docs), "bytes", len(text), "elapsed", time.Since(start).Round(time.Microsecond))

			if opts.format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(docs)
			}
			return renderOutline(cmd.OutOrStdout(), docs)
		},
	}
	opts.register(cmd)
	return cmd
}
