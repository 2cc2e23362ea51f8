package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	infraerrors "github.com/drijfveer/linkmanager/infrastructure/errors"
	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
	"github.com/drijfveer/linkmanager/internal/bulk"
	"github.com/drijfveer/linkmanager/internal/importer"
)

var errNoInput = errors.New("pass --sources, --anchors and --targets, or --sheet")

type bulkInput struct {
	sources string
	anchors string
	targets string
	sheet   string
	remote  bool
}

func (in *bulkInput) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&in.sources, "sources", "", "file with one source URL per line")
	cmd.Flags().StringVar(&in.anchors, "anchors", "", "file with one anchor text per line")
	cmd.Flags().StringVar(&in.targets, "targets", "", "file with one target URL per line")
	cmd.Flags().StringVar(&in.sheet, "sheet", "", ".xlsx with source_url, anchor_text and target_url columns")
	cmd.Flags().BoolVar(&in.remote, "remote", false, "parse on the server instead of against the local website list")
	cmd.MarkFlagsRequiredTogether("sources", "anchors", "targets")
	cmd.MarkFlagsMutuallyExclusive("sheet", "sources")
}

// parse reads the inputs and matches them against the session's website list,
// or lets the server do it with --remote.
func (in *bulkInput) parse(ctx context.Context, a *app) (*importer.ParseResult, error) {
	if in.sheet != "" {
		f, err := os.Open(in.sheet)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", in.sheet, err)
		}
		defer f.Close()
		if in.remote {
			return a.client.ParseBulkSheet(ctx, filepath.Base(in.sheet), f)
		}
		registry, err := a.cache.Registry(ctx)
		if err != nil {
			return nil, infraerrors.Wrapf(err, "load websites")
		}
		return importer.ParseLinkSheet(f, registry)
	}

	if in.sources == "" {
		return nil, errNoInput
	}
	blocks := make([]string, 0, 3)
	for _, p := range []string{in.sources, in.anchors, in.targets} {
		text, err := readFile(p)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, text)
	}
	if in.remote {
		return a.client.ParseBulk(ctx, blocks[0], blocks[1], blocks[2])
	}
	registry, err := a.cache.Registry(ctx)
	if err != nil {
		return nil, infraerrors.Wrapf(err, "load websites")
	}
	return importer.ParseLines(blocks[0], blocks[1], blocks[2], registry)
}

func renderParse(w io.Writer, res *importer.ParseResult) {
	if len(res.Links) > 0 {
		t := newTable(w, table.Row{"Line", "Site", "Source URL", "Anchor", "Target URL", "Page ID"})
		for _, l := range res.Links {
			t.AppendRow(table.Row{l.Line, l.SiteName, l.OriginalSourceURL, l.AnchorText, l.TargetURL, l.PageID})
		}
		t.Render()
	}
	if len(res.Invalid) > 0 {
		t := newTable(w, table.Row{"Line", "Source URL", "Skipped Because"})
		for _, r := range res.Invalid {
			t.AppendRow(table.Row{r.Line, r.SourceURL, r.Reason})
		}
		t.Render()
	}
	fmt.Fprintf(w, "%d valid, %d invalid\n", res.ValidCount, res.InvalidCount)
}

func newBulkCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Parse and submit links in bulk",
	}
	cmd.AddCommand(newBulkParseCommand(a), newBulkRunCommand(a))
	return cmd
}

func newBulkParseCommand(a *app) *cobra.Command {
	var in bulkInput
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Preview which rows would be submitted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := in.parse(cmd.Context(), a)
			if err != nil {
				return infraerrors.Wrapf(err, "bulk parse rejected")
			}
			renderParse(cmd.OutOrStdout(), res)
			return nil
		},
	}
	in.register(cmd)
	return cmd
}

func newBulkRunCommand(a *app) *cobra.Command {
	var in bulkInput
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Submit every valid row, one at a time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			res, err := in.parse(ctx, a)
			if err != nil {
				return infraerrors.Wrapf(err, "bulk parse rejected")
			}

			out := cmd.OutOrStdout()
			renderParse(out, res)
			if len(res.Links) == 0 {
				fmt.Fprintln(out, "Nothing to submit")
				return nil
			}

			a.logger.Info("bulk run started", infralogger.Int("rows", len(res.Links)), infralogger.Duration("delay", a.delay))
			runner := bulk.NewRunner(a.client, a.delay, a.logger)
			summary := runner.Run(ctx, bulk.Rows(res.Links), func(p bulk.Progress) {
				fmt.Fprintf(out, "[%d/%d] %s %s: %s\n", p.Done, p.Total, status(p.Row.Success), p.Row.WebsiteURL, p.Row.Message)
			})

			fmt.Fprintf(out, "Completed: %d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
			if summary.Failed > 0 {
				for _, site := range summary.FailedWebsites() {
					fmt.Fprintf(out, "  failed: %s\n", site)
				}
				return fmt.Errorf("%d of %d rows failed", summary.Failed, summary.Total)
			}
			return nil
		},
	}
	in.register(cmd)
	return cmd
}
