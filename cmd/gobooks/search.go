package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tuannvm/gobooks/internal/app"
	"github.com/tuannvm/gobooks/internal/search"
	"github.com/tuannvm/gobooks/internal/services/books"
	"github.com/tuannvm/gobooks/internal/tui"
)

type searchOptions struct {
	format string
	limit  int
	width  int
}

func newSearchCmd(flags *globalFlags) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search [terms...]",
		Short: "Run a single search and print the results",
		Long: `Run one search against the Google Books API and print the results.

With no terms the configured default query is used, just like an empty
search box in the interactive UI.`,
		Example: `  gobooks search the go programming language
  gobooks search --format json --limit 5 dune`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			closer, err := app.Setup(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer closer.Close()

			limit := cfg.MaxResults
			if cmd.Flags().Changed("limit") {
				limit = opts.limit
			}
			if limit < 1 || limit > 40 {
				return fmt.Errorf("--limit must be between 1 and 40, got %d", limit)
			}
			if !validFormat(opts.format) {
				return fmt.Errorf("unknown format %q (want cards, json or yaml)", opts.format)
			}

			query := search.EffectiveQuery(strings.Join(args, " "), cfg.DefaultQuery)
			page, err := books.NewService(cfg).SearchLimit(cmd.Context(), query, limit)
			if err != nil {
				return err
			}
			return writePage(cmd.OutOrStdout(), opts, query, page)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "cards", "output format: cards, json or yaml")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "maximum number of results (default from config)")
	cmd.Flags().IntVar(&opts.width, "width", 100, "terminal width used to lay out cards")

	return cmd
}

func validFormat(f string) bool {
	switch f {
	case "cards", "json", "yaml":
		return true
	}
	return false
}

func writePage(w io.Writer, opts *searchOptions, query string, page *books.Page) error {
	switch opts.format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(page); err != nil {
			return err
		}
		return enc.Close()
	case "cards":
		if len(page.Items) == 0 {
			_, err := fmt.Fprintln(w, "No books found. Try a different search!")
			return err
		}
		if _, err := fmt.Fprintln(w, tui.RenderGrid(page.Items, opts.width, -1)); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "Showing %d of %d results for %q\n", len(page.Items), page.Total, query)
		return err
	default:
		return fmt.Errorf("unknown format %q (want cards, json or yaml)", opts.format)
	}
}
