package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/slidestream/internal/parser"
	"github.com/dgallion1/slidestream/internal/replay"
	"github.com/dgallion1/slidestream/internal/slide"
)

type replayOpts struct {
	parserOpts
	tokens     int
	bytes      int
	cumulative bool
	offsets    bool
}

// replayEvent is one line of JSON replay output.
type replayEvent struct {
	Step      int              `json:"step"`
	Offset    int              `json:"offset"`
	Bytes     int              `json:"bytes"`
	Final     bool             `json:"final,omitempty"`
	Documents []slide.Document `json:"documents"`
}

func (c *CLI) replayCommand() *cobra.Command {
	var opts replayOpts

	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Feed a markup file to the parser as a simulated stream",
		Long: `Split a markup file into stream chunks and feed them to the parser one by one,
printing what each chunk created or changed.

Examples:
  slidectl replay deck.xml                    # ~4 tokens per chunk
  slidectl replay deck.xml --bytes 1          # One byte at a time
  slidectl replay deck.xml --cumulative       # Whole text so far each step
  slidectl replay deck.xml -f json            # One JSON event per step`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			return c.runReplay(cmd, text, &opts)
		},
	}
	opts.register(cmd)
	cmd.Flags().IntVar(&opts.tokens, "tokens", replay.DefaultConfig().ChunkTokens, "approximate tokens per chunk")
	cmd.Flags().IntVar(&opts.bytes, "bytes", 0, "bytes per chunk (overrides --tokens)")
	cmd.Flags().BoolVar(&opts.cumulative, "cumulative", false, "send the whole text so far on every step")
	cmd.Flags().BoolVar(&opts.offsets, "offsets", false, "feed deltas with their stream offsets")
	return cmd
}

func (c *CLI) runReplay(cmd *cobra.Command, text string, opts *replayOpts) error {
	if opts.offsets && opts.cumulative {
		return fmt.Errorf("--offsets needs delta chunks, not --cumulative")
	}
	chunks := replay.Split(text, replay.Config{
		ChunkTokens: opts.tokens,
		ChunkBytes:  opts.bytes,
		Cumulative:  opts.cumulative,
	})
	c.Logger.Debug("replaying", "chunks", len(chunks), "bytes", len(text))

	p := parser.New(c.options(&opts.parserOpts))
	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	emit := func(ev replayEvent) error {
		if opts.format == "json" {
			if ev.Documents == nil {
				ev.Documents = []slide.Document{}
			}
			return enc.Encode(ev)
		}
		if len(ev.Documents) == 0 {
			return nil
		}
		return renderStep(out, ev)
	}

	for i, ch := range chunks {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		var docs []slide.Document
		if opts.offsets {
			var err error
			if docs, err = p.FeedAt(ch.Offset, ch.Text); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		} else {
			docs = p.ParseChunk(ch.Text)
		}
		if err := emit(replayEvent{Step: i + 1, Offset: ch.Offset, Bytes: len(ch.Text), Documents: docs}); err != nil {
			return err
		}
	}

	docs := p.Finalize()
	p.ClearAllGeneratingMarks()
	if err := emit(replayEvent{Step: len(chunks) + 1, Offset: len(text), Final: true, Documents: docs}); err != nil {
		return err
	}
	if opts.format == "json" {
		return nil
	}
	fmt.Fprintln(out)
	return renderOutline(out, p.Documents())
}
