package cli

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/cache"
	"github.com/matzehuels/treemap/pkg/config"
	"github.com/matzehuels/treemap/pkg/io"
	"github.com/matzehuels/treemap/pkg/treemap"
)

type layoutFlags struct {
	output  string
	from    string
	noCache bool
	width   float64
	depth   float64
	padding float64
	debug   bool
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var flags layoutFlags
	def := config.Default()

	cmd := &cobra.Command{
		Use:   "layout [items.json|items.toml]",
		Short: "Lay out an item hierarchy, reusing the previous layout",
		Long: `Lay out an item hierarchy as nested rectangles.

The input lists items with an id, a size and optional children. Inner items
are as large as the sum of their children. The output is a layout.json file
with one padded rectangle per item and the segment graphs needed to update
the layout later.

The layout written for an input is remembered locally. When the same input
is laid out again, sibling groups that mostly survived are updated
incrementally so that items keep their relative positions. Use --from to
start from an explicit layout file instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := c.settings
			if cmd.Flags().Changed("width") {
				s.Layout.Width = flags.width
			}
			if cmd.Flags().Changed("depth") {
				s.Layout.Depth = flags.depth
			}
			if cmd.Flags().Changed("padding") {
				s.Layout.Padding = flags.padding
			}
			if cmd.Flags().Changed("debug") {
				s.Debug = flags.debug
			}
			if err := s.Validate(); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], s, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVar(&flags.from, "from", "", "previous layout file to update")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "do not remember or reuse layouts")
	cmd.Flags().Float64Var(&flags.width, "width", def.Layout.Width, "layout width")
	cmd.Flags().Float64Var(&flags.depth, "depth", def.Layout.Depth, "layout depth")
	cmd.Flags().Float64Var(&flags.padding, "padding", def.Layout.Padding, "inset per nesting level")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "validate the partition after every edit")

	return cmd
}

// runLayout loads the items and the previous layout, lays out, and writes
// the result.
func (c *CLI) runLayout(ctx context.Context, input string, s config.Settings, flags layoutFlags) error {
	logger := loggerFromContext(ctx)

	items, err := io.ImportItems(input)
	if err != nil {
		return fmt.Errorf("load items %s: %w", input, err)
	}

	store, err := newCache(flags.noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer store.Close()

	abs, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	bounds := s.Bounds()
	key := cache.LayoutKey(abs, bounds)

	prev, err := previousLayout(ctx, store, key, flags.from)
	if err != nil {
		return err
	}
	if prev != nil {
		logger.Debug("updating previous layout", "items", prev.Len(), "groups", len(prev.Groups))
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	prog := newProgress(logger)
	l, stats, err := c.newEngine(s).LayoutStats(prev, items, bounds)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done("Laid out items", "items", l.Len(), "groups", len(l.Groups))

	file, skipped := io.NewLayoutFile(l, s.Layout.Padding)
	if skipped > 0 {
		printWarning("%d rectangles too small for padding %g were left unpadded", skipped, s.Layout.Padding)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
	}
	if err := io.ExportLayout(outputPath, file); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	var buf bytes.Buffer
	if err := io.WriteLayout(&buf, file); err == nil {
		if err := store.Set(ctx, key, buf.Bytes(), cache.DefaultTTL); err != nil {
			logger.Warn("could not remember layout", "err", err)
		}
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	fmt.Println(formatStats(l.Len(), stats))
	printNewline()
	printNextStep("Check", appName+" check "+outputPath)

	return nil
}

// previousLayout returns the layout to update: the --from file if given,
// otherwise the remembered one. A remembered layout that cannot be restored
// is dropped.
func previousLayout(ctx context.Context, store cache.Cache, key, from string) (*treemap.Layout, error) {
	logger := loggerFromContext(ctx)
	if from != "" {
		_, l, err := io.ImportLayout(from)
		if err != nil {
			return nil, fmt.Errorf("load previous layout %s: %w", from, err)
		}
		return l, nil
	}

	data, hit, err := store.Get(ctx, key)
	if err != nil {
		logger.Warn("cache lookup failed", "err", err)
		return nil, nil
	}
	if !hit {
		return nil, nil
	}
	_, l, err := io.ReadLayout(bytes.NewReader(data))
	if err != nil {
		logger.Warn("ignoring unreadable remembered layout", "err", err)
		_ = store.Delete(ctx, key)
		return nil, nil
	}
	return l, nil
}
