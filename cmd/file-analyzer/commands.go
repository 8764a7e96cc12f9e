package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/file-analyzer/internal/analyzer"
	"github.com/joseph-ayodele/file-analyzer/internal/async"
	"github.com/joseph-ayodele/file-analyzer/internal/common"
	"github.com/joseph-ayodele/file-analyzer/internal/identity"
	"github.com/joseph-ayodele/file-analyzer/internal/ingest"
	"github.com/joseph-ayodele/file-analyzer/internal/ocr"
)

func (a *app) menuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive numbered menu (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMenu(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func (a *app) textCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "text <file>",
		Short: "Word statistics, top-words chart and reports for a text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runText(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func (a *app) csvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "csv <file>",
		Short: "Descriptive statistics for a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCSV(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func (a *app) scanIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan-id <file>",
		Short: "Scan a PDF or image for an identity number and save the record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScan(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func (a *app) scanDirCmd() *cobra.Command {
	var (
		exts          []string
		includeHidden bool
	)
	cmd := &cobra.Command{
		Use:   "scan-dir <dir>",
		Short: "Scan every document under a directory for identity numbers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			results, stats, err := ingest.ScanDirectory(cmd.Context(), args[0], exts, !includeHidden,
				func(ctx context.Context, path string) (bool, error) {
					scan, err := a.svc.ScanIdentity(ctx, path)
					if errors.Is(err, common.ErrNoMatch) {
						return false, nil
					}
					if err != nil {
						return false, err
					}
					fmt.Fprintf(w, "%s: page %d, %s\n", path, scan.Match.Page, scan.Match.Record.Identifier)
					return true, nil
				})
			if err != nil {
				return err
			}
			for _, r := range results {
				if r.Err != "" {
					fmt.Fprintf(w, "%s: failed: %s\n", r.Path, r.Err)
				}
			}
			fmt.Fprintf(w, "Scanned %d files: %d with identifier, %d without, %d failed\n",
				stats.Matched, stats.Found, stats.Succeeded-stats.Found, stats.Failed)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&exts, "ext", nil, "extensions to scan (default pdf and common image types)")
	cmd.Flags().BoolVar(&includeHidden, "hidden", false, "include hidden files and directories")
	return cmd
}

func (a *app) watchCmd() *cobra.Command {
	var (
		workers  int
		debounce time.Duration
		initial  bool
	)
	cmd := &cobra.Command{
		Use:   "watch <dir>...",
		Short: "Watch directories and scan new documents for identity numbers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := &lockedWriter{w: cmd.OutOrStdout()}

			q := async.NewWorkerQueue(func(ctx context.Context, path string) error {
				scan, err := a.svc.ScanIdentity(ctx, path)
				switch {
				case errors.Is(err, common.ErrNoMatch):
					fmt.Fprintf(out, "%s: no identifier\n", path)
					return nil
				case err != nil:
					fmt.Fprintf(out, "%s: %s\n", path, common.UserMessage(err))
					return err
				}
				fmt.Fprintf(out, "%s: page %d, %s\n", path, scan.Match.Page, scan.Match.Record.Identifier)
				return nil
			}, a.logger, async.WithWorkers(workers), async.WithProcessTimeout(a.cfg.OCR.Timeout))
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				q.Shutdown(sctx)
			}()

			events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
				Roots:       args,
				InitialScan: initial,
				Debounce:    debounce,
				Logger:      a.logger,
			})
			if err != nil {
				return err
			}
			a.logger.Info("watching", "roots", args, "workers", workers)

			for {
				select {
				case path, ok := <-events:
					if !ok {
						return nil
					}
					if err := q.Enqueue(ctx, async.Job{Path: path}); err != nil {
						return nil
					}
				case _, ok := <-errs:
					if !ok {
						errs = nil
					}
				}
			}
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 2, "concurrent scans")
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "wait for writes to settle before scanning")
	cmd.Flags().BoolVar(&initial, "initial", false, "also scan files already present")
	return cmd
}

func (a *app) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <file> <keyword>",
		Short: "Count case-insensitive occurrences of a keyword in a text file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSearch(cmd.Context(), cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func (a *app) specialCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "special <file>",
		Short: "Count special characters in a text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSpecial(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export the latest text and CSV analysis to a workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runExport(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func (a *app) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Write the final project summary from the latest results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSummary(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func (a *app) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored identity records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			recs, err := a.identities.ListIdentities(cmd.Context(), limit)
			if err != nil {
				return err
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Scanned", "Source", "Page", "Name", "ID Number", "DOB", "Gender"})
			table.SetAutoFormatHeaders(false)
			for _, r := range recs {
				row := identity.Record{
					Identifier:  r.Identifier,
					Name:        r.Name,
					DateOfBirth: r.DateOfBirth,
					Gender:      r.Gender,
				}.Row()
				table.Append(append([]string{
					r.CreatedAt.Local().Format("2006-01-02 15:04"),
					r.SourcePath,
					strconv.Itoa(r.Page),
				}, row...))
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum records to show (0 = all)")
	return cmd
}

func (a *app) ocrCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ocr <file>",
		Short: "Print the per-page text extracted from a PDF or image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := common.WithTimeout(cmd.Context(), a.cfg.OCR.Timeout)
			defer cancel()
			set, err := a.extractor.Pages(ctx, args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for i, p := range set.Pages {
				fmt.Fprintf(w, "--- page %d ---\n%s\n", i+1, ocr.Normalize(p))
			}
			for _, warn := range set.Warnings {
				fmt.Fprintf(w, "warning: %s\n", warn)
			}
			a.logger.Info("text extraction OK",
				"method", set.Method,
				"pages", len(set.Pages),
				"duration_ms", set.Duration.Milliseconds(),
			)
			return nil
		},
	}
}

func (a *app) runText(ctx context.Context, w io.Writer, path string) error {
	rep, err := a.svc.AnalyzeText(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "\nTEXT FILE ANALYSIS RESULT")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprint(w, rep.Summary)
	if rep.ChartPath != "" {
		fmt.Fprintf(w, "Chart saved at: %s\n", rep.ChartPath)
	}
	fmt.Fprintf(w, "Reports saved at:\n - %s\n - %s\n", rep.TextPath, rep.DocumentPath)
	return nil
}

func (a *app) runCSV(ctx context.Context, w io.Writer, path string) error {
	sum, err := a.svc.AnalyzeCSV(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "\nCSV FILE ANALYSIS RESULT")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprint(w, sum.String())
	return nil
}

func (a *app) runScan(ctx context.Context, w io.Writer, path string) error {
	scan, err := a.svc.ScanIdentity(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, analyzer.RenderMatch(scan.Match))
	fmt.Fprintf(w, "Data saved to Excel: %s (row %d)\n", a.cfg.IdentityWorkbook(), scan.WorkbookRow)
	fmt.Fprintf(w, "Record written to: %s\n", scan.JSONPath)
	for _, warn := range scan.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
	return nil
}

func (a *app) runSearch(ctx context.Context, w io.Writer, path, keyword string) error {
	n, err := a.svc.SearchKeyword(ctx, path, keyword)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Keyword '%s' found %d times.\n", keyword, n)
	return nil
}

func (a *app) runSpecial(ctx context.Context, w io.Writer, path string) error {
	n, err := a.svc.SpecialChars(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Special Characters Found: %d\n", n)
	return nil
}

func (a *app) runExport(ctx context.Context, w io.Writer) error {
	path, err := a.svc.ExportAnalysis(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Summary exported to Excel at: %s\n", path)
	return nil
}

func (a *app) runSummary(ctx context.Context, w io.Writer) error {
	path, err := a.svc.FinalSummary(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Final summary saved at: %s\n", path)
	return nil
}

// lockedWriter serializes writes from concurrent workers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
