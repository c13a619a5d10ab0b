package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dgallion1/slidestream/internal/parser"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a CLI whose logger writes to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "slidectl",
		Short:        "slidectl parses streamed slide markup",
		Long:         `slidectl converts the slide markup a model streams into typed slide documents, either in one pass or by replaying the text as a stream.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.parseCommand())
	root.AddCommand(c.replayCommand())
	return root
}

// parserOpts holds the flags shared by commands that drive a parser.
type parserOpts struct {
	markdown  bool
	noPreview bool
	mode      string
	format    string
}

func (o *parserOpts) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.markdown, "markdown", false, "split markdown emphasis inside text runs")
	cmd.Flags().BoolVar(&o.noPreview, "no-preview", false, "do not emit the open trailing section")
	cmd.Flags().StringVar(&o.mode, "mode", "auto", "chunk mode: auto, cumulative or delta")
	cmd.Flags().StringVarP(&o.format, "format", "f", "outline", "output format: outline or json")
}

func (o *parserOpts) validate() error {
	switch o.format {
	case "outline", "json":
	default:
		return fmt.Errorf("unknown format %q (want outline or json)", o.format)
	}
	switch o.mode {
	case "auto", "cumulative", "delta":
	default:
		return fmt.Errorf("unknown mode %q (want auto, cumulative or delta)", o.mode)
	}
	return nil
}

// options routes parser logging through the CLI logger, which is also a
// slog handler.
func (c *CLI) options(o *parserOpts) parser.Options {
	return parser.Options{
		Logger:         slog.New(c.Logger),
		Mode:           parser.ParseChunkMode(o.mode),
		DisablePreview: o.noPreview,
		MarkdownInline: o.markdown,
	}
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
