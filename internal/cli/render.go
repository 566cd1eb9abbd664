package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/campaigncanvas/pkg/canvas"
	"github.com/matzehuels/campaigncanvas/pkg/geometry"
	bio "github.com/matzehuels/campaigncanvas/pkg/io"
	"github.com/matzehuels/campaigncanvas/pkg/render"
)

// Output formats accepted by render.
const (
	formatSVG      = "svg"      // native SVG renderer, board coordinates
	formatGraphviz = "graphviz" // SVG laid out by Graphviz
	formatDOT      = "dot"      // Graphviz source
	formatJSON     = "json"     // normalized board document
)

// validFormats is the set of supported output formats.
var validFormats = map[string]string{
	formatSVG:      ".svg",
	formatGraphviz: ".graphviz.svg",
	formatDOT:      ".dot",
	formatJSON:     ".json",
}

// boardSource is a loaded board plus the base name used for output files.
type boardSource struct {
	*canvas.Board
	name string
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string   // output file (single format) or base path (multiple)
	formats   []string // output formats
	theme     string   // light or dark
	curvature float64  // bezier curvature
	noLabels  bool     // omit block labels
	padding   float64  // SVG padding around the bounds
	fromStore bool     // treat the argument as a stored board id
	tenant    string
	watch     bool // re-render whenever the board file changes
}

func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{theme: "light", curvature: geometry.DefaultCurvature, padding: 24}

	cmd := &cobra.Command{
		Use:   "render <file|->",
		Short: "Render a board to SVG, Graphviz SVG, DOT or JSON",
		Example: `  campaigncanvas render launch.json
  campaigncanvas render launch.json -f svg,dot -o out/launch
  campaigncanvas render --from-store spring-launch --theme dark
  campaigncanvas render launch.json --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			if _, err := render.ThemeByName(opts.theme); err != nil {
				return err
			}

			if opts.watch && (opts.fromStore || args[0] == "-") {
				return fmt.Errorf("--watch needs a board file")
			}

			src, err := c.renderSource(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			if err := c.runRender(cmd.Context(), src, opts); err != nil {
				return err
			}
			if opts.watch {
				return c.watchRender(cmd.Context(), args[0], opts)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), graphviz, dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.theme, "theme", opts.theme, "color theme: light, dark")
	cmd.Flags().Float64Var(&opts.curvature, "curvature", opts.curvature, "bezier edge curvature")
	cmd.Flags().Float64Var(&opts.padding, "padding", opts.padding, "padding around the board in SVG output")
	cmd.Flags().BoolVar(&opts.noLabels, "no-labels", false, "omit block labels")
	cmd.Flags().BoolVar(&opts.fromStore, "from-store", false, "read the board from the configured store by id")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render whenever the board file changes")
	tenantFlag(cmd, &opts.tenant)

	return cmd
}

func (c *CLI) renderSource(ctx context.Context, arg string, opts renderOpts) (*boardSource, error) {
	if !opts.fromStore {
		return loadBoard(arg)
	}
	st, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	b, err := st.Get(ctx, opts.tenant, arg)
	if err != nil {
		return nil, err
	}
	return &boardSource{Board: b, name: b.ID}, nil
}

// runRender writes every requested format concurrently.
func (c *CLI) runRender(ctx context.Context, src *boardSource, opts renderOpts) error {
	prog := newProgress(c.Logger)
	paths := outputPaths(src.name, opts.output, opts.formats)

	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.formats {
		g.Go(func() error {
			data, err := renderFormat(gctx, src.Board, format, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", format, err)
			}
			return writeOutput(paths[format], data)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	routed := len(src.Route(opts.curvature))
	prog.done(fmt.Sprintf("Rendered %s", src.name))
	printStats(len(src.Blocks), len(src.Edges), routed)
	for _, f := range opts.formats {
		if p := paths[f]; p != "" {
			printFile(p)
		}
	}
	return nil
}

// watchRender re-renders path on every change until ctx ends. Errors in an
// edited board are reported and the watch continues.
func (c *CLI) watchRender(ctx context.Context, path string, opts renderOpts) error {
	bw, err := newBoardWatcher(path, c.Logger)
	if err != nil {
		return err
	}
	printInfo("Watching %s %s", StyleHighlight.Render(path), StyleDim.Render("(ctrl+c to stop)"))
	return bw.Run(ctx, func() {
		src, err := loadBoard(path)
		if err == nil {
			err = c.runRender(ctx, src, opts)
		}
		if err != nil {
			printError("%v", err)
		}
	})
}

func renderFormat(ctx context.Context, b *canvas.Board, format string, opts renderOpts) ([]byte, error) {
	switch format {
	case formatSVG:
		theme, _ := render.ThemeByName(opts.theme)
		svgOpts := []render.SVGOption{
			render.WithTheme(theme),
			render.WithCurvature(opts.curvature),
			render.WithPadding(opts.padding),
		}
		if opts.noLabels {
			svgOpts = append(svgOpts, render.WithoutLabels())
		}
		return render.SVG(b, svgOpts...), nil
	case formatGraphviz:
		return render.RenderDOT(ctx, render.ToDOT(b))
	case formatDOT:
		return []byte(render.ToDOT(b)), nil
	case formatJSON:
		var buf bytes.Buffer
		err := bio.WriteJSON(b, &buf)
		return buf.Bytes(), err
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// outputPaths maps each format to its file. A single format with an
// explicit output uses it verbatim; "-" means stdout and is recorded as "".
func outputPaths(name, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		if output == "-" {
			paths[formats[0]] = ""
		} else {
			paths[formats[0]] = output
		}
		return paths
	}
	base := name
	if output != "" {
		base = trimExt(output)
	}
	for _, f := range formats {
		paths[f] = base + validFormats[f]
	}
	return paths
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// parseFormats parses the --format flag. Empty means svg.
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	var out []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

func validateFormats(formats []string) error {
	if len(formats) == 0 {
		return fmt.Errorf("no output format given")
	}
	for _, f := range formats {
		if _, ok := validFormats[f]; !ok {
			return fmt.Errorf("invalid format: %s (must be svg, graphviz, dot or json)", f)
		}
	}
	return nil
}

// trimExt strips the extension from path, keeping its directory.
func trimExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
