package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/matzehuels/campaigncanvas/pkg/functions"
)

// functionUsage describes each function and a sample payload for help output.
var functionUsage = []struct {
	name, about, example string
}{
	{functions.ExtractColors, "brand palette from image URLs", `{"imageUrls":["https://example.com/logo.png"]}`},
	{functions.AnalyzeSentiment, "sentiment of a piece of copy", `{"content":"We love the new launch!"}`},
	{functions.ExtractTable, "table from a base64 screenshot", `@table-request.json`},
	{functions.ScrapeURL, "metadata, headings, links and text of a page", `{"url":"https://example.com"}`},
	{functions.SummarizeYouTube, "summary and key points of a video", `{"url":"https://youtu.be/dQw4w9WgXcQ"}`},
}

func (c *CLI) fnCommand() *cobra.Command {
	var (
		asJSON  bool
		noCache bool
	)

	var long strings.Builder
	long.WriteString("Fn runs an edge function locally with the configured AI provider and cache.\n")
	long.WriteString("The payload is inline JSON, @file, or - for stdin.\n\nFunctions:\n")
	for _, f := range functionUsage {
		fmt.Fprintf(&long, "  %-18s %s\n", f.name, f.about)
	}

	var example strings.Builder
	for _, f := range functionUsage {
		fmt.Fprintf(&example, "  %s fn %s '%s'\n", appName, f.name, f.example)
	}

	cmd := &cobra.Command{
		Use:       "fn <function> <payload>",
		Short:     "Invoke an edge function from the terminal",
		Long:      long.String(),
		Example:   strings.TrimRight(example.String(), "\n"),
		Args:      cobra.ExactArgs(2),
		ValidArgs: functionNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			body, err := readPayload(args[1], os.Stdin)
			if err != nil {
				return err
			}

			svc, closeCache, err := c.newFunctions(ctx, noCache)
			if err != nil {
				return err
			}
			defer closeCache()

			spinner := newSpinner(ctx, "Running "+args[0]+"...")
			spinner.Start()
			prog := newProgress(c.Logger)
			result, err := svc.Invoke(ctx, args[0], body)
			spinner.Stop()
			if err != nil {
				return err
			}
			prog.done("Ran " + args[0])

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			return printMarkdown(out, resultMarkdown(result))
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw JSON response")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the response cache")
	return cmd
}

func functionNames() []string {
	names := make([]string, len(functionUsage))
	for i, f := range functionUsage {
		names[i] = f.name
	}
	return names
}

// readPayload resolves the payload argument: "-" reads stdin, "@path" reads a
// file and anything else is taken as inline JSON.
func readPayload(arg string, stdin io.Reader) ([]byte, error) {
	switch {
	case arg == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	case strings.HasPrefix(arg, "@"):
		data, err := os.ReadFile(arg[1:])
		if err != nil {
			return nil, fmt.Errorf("read payload: %w", err)
		}
		return data, nil
	default:
		return []byte(arg), nil
	}
}

func printMarkdown(w io.Writer, md string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		_, err = io.WriteString(w, md)
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// resultMarkdown formats a function result for the terminal.
func resultMarkdown(v any) string {
	var b strings.Builder
	switch r := v.(type) {
	case *functions.ColorsResponse:
		b.WriteString("# Palette\n\n")
		rows := make([][]string, len(r.Colors))
		for i, c := range r.Colors {
			rows[i] = []string{"`" + c.Hex + "`", c.Name, c.Role}
		}
		b.WriteString(functions.Markdown([]string{"Hex", "Name", "Role"}, rows))

	case *functions.SentimentResponse:
		fmt.Fprintf(&b, "# Sentiment: %s\n\n", r.Sentiment)
		fmt.Fprintf(&b, "**Score** %.2f · **Confidence** %.0f%%\n\n", r.Score, r.Confidence*100)
		if r.Summary != "" {
			b.WriteString(r.Summary + "\n\n")
		}
		writeList(&b, "Emotions", r.Emotions)
		writeList(&b, "Keywords", r.Keywords)

	case *functions.TableResponse:
		b.WriteString("# Extracted table\n\n")
		b.WriteString(r.Markdown)

	case *functions.ScrapeResponse:
		title := r.Title
		if title == "" {
			title = r.URL
		}
		fmt.Fprintf(&b, "# %s\n\n", title)
		if r.SiteName != "" {
			fmt.Fprintf(&b, "_%s_ · %s\n\n", r.SiteName, r.URL)
		} else {
			fmt.Fprintf(&b, "%s\n\n", r.URL)
		}
		if r.Description != "" {
			fmt.Fprintf(&b, "> %s\n\n", r.Description)
		}
		if len(r.Headings) > 0 {
			b.WriteString("## Outline\n\n")
			for _, h := range r.Headings {
				fmt.Fprintf(&b, "%s- %s\n", strings.Repeat("  ", max(h.Level-1, 0)), h.Text)
			}
			b.WriteString("\n")
		}
		if len(r.Links) > 0 {
			fmt.Fprintf(&b, "## Links (%d)\n\n", len(r.Links))
			for _, l := range r.Links {
				text := l.Text
				if text == "" {
					text = l.URL
				}
				fmt.Fprintf(&b, "- [%s](%s)\n", text, l.URL)
			}
			b.WriteString("\n")
		}

	case *functions.YouTubeResponse:
		title := r.Title
		if title == "" {
			title = r.VideoID
		}
		fmt.Fprintf(&b, "# %s\n\n", title)
		if r.Author != "" {
			fmt.Fprintf(&b, "_%s_\n\n", r.Author)
		}
		b.WriteString(r.Summary + "\n\n")
		writeList(&b, "Key points", r.KeyPoints)

	default:
		data, _ := json.MarshalIndent(v, "", "  ")
		b.WriteString("```json\n" + string(data) + "\n```\n")
	}
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}
