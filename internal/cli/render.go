package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slotframe/pkg/page"
	"github.com/matzehuels/slotframe/pkg/pipeline"
	"github.com/matzehuels/slotframe/pkg/render"
)

// stdoutPath selects standard output for a single-format render.
const stdoutPath = "-"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output file (single format) or base path (multiple)
	formats string // comma-separated output formats
	noCache bool
	opts    pipeline.Options
}

// renderCommand composes a page file and writes the requested artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	ro := renderOpts{formats: pipeline.DefaultFormat}

	cmd := &cobra.Command{
		Use:   "render <page>",
		Short: "Compose a page and render it to HTML, JSON, DOT, SVG, PNG or PDF",
		Long: `Compose a page and render it.

The page file may be TOML, YAML or JSON; the format follows the extension.
Each requested format is written next to the input (home.toml -> home.html)
unless -o names a file or base path. Use -o - to write a single format to
standard output.

PNG and PDF output require rsvg-convert on PATH.

Composed documents and artifacts are cached locally; --no-cache disables the
cache and --refresh recomputes while still updating it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := render.ParseFormats(ro.formats)
			if err != nil {
				return err
			}
			ro.opts.Formats = formats
			if ro.output == stdoutPath && len(formats) != 1 {
				return fmt.Errorf("-o - needs exactly one format, got %s", strings.Join(formats, ","))
			}
			return c.runRender(cmd.Context(), args[0], &ro, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (single format), base path (multiple) or - for stdout")
	cmd.Flags().StringVarP(&ro.formats, "format", "f", ro.formats, "output format(s): "+strings.Join(render.Formats, ", ")+" (comma-separated)")
	cmd.Flags().BoolVar(&ro.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&ro.opts.Refresh, "refresh", false, "ignore cached results but store fresh ones")
	cmd.Flags().BoolVar(&ro.opts.Standalone, "standalone", false, "wrap HTML output in a complete document")
	cmd.Flags().Float64Var(&ro.opts.Scale, "scale", 2, "PNG resolution factor")
	cmd.Flags().IntVar(&ro.opts.MaxDepth, "max-depth", 0, "maximum layout nesting depth (default 16)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, ro *renderOpts, stdout io.Writer) error {
	p, err := page.Import(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ro.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := ro.opts
	opts.Page = p
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", p.Name))
	spinner.Start()
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if ro.output == stdoutPath {
		_, err := stdout.Write(res.Artifacts[opts.Formats[0]])
		return err
	}

	paths := outputPaths(input, ro.output, opts.Formats)
	for _, f := range opts.Formats {
		if err := os.WriteFile(paths[f], res.Artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[f], err)
		}
	}

	printSuccess("Rendered %s", p.Name)
	for _, f := range opts.Formats {
		printFile(paths[f])
	}
	printStats(res.Stats.Layouts, res.Stats.Issues, res.CacheInfo.ComposeHit && res.CacheInfo.RenderHit)
	if len(res.Document.Issues) > 0 {
		printIssues(res.Document.Issues)
		printNextStep("Details", "slotframe check "+input)
	}
	return nil
}

// outputPaths maps each format to its output file. A single format honours
// output verbatim; several formats treat output as a base path. Without
// output the input path with its extension replaced is used.
func outputPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath strips a known format extension from output, or derives the base
// from input when output is empty.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(render.Formats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
