package main

import (
	"fmt"
	"io"

	"github.com/alvmarrod/word-weaver/internal/config"
	"github.com/alvmarrod/word-weaver/internal/crawler"
	"github.com/alvmarrod/word-weaver/internal/metrics"
	"github.com/alvmarrod/word-weaver/internal/report"
	"github.com/alvmarrod/word-weaver/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const defaultArticle = "Python (programming language)"

// crawlOptions configures a one-off crawl
type crawlOptions struct {
	article     string
	depth       int
	percentile  int
	ignore      []string
	format      string
	top         int
	dbPath      string
	metricsPath string
}

// NewCrawlCmd creates the crawl command
func NewCrawlCmd(opts *rootOptions) *cobra.Command {
	co := &crawlOptions{}

	cmd := &cobra.Command{
		Use:   "crawl [article]",
		Short: "Run one crawl and print its word frequencies",
		Example: `  # Same crawl as the service's manual check
  wordweaver crawl

  # Two hops from a custom article, every word, JSON output
  wordweaver crawl "Guido van Rossum" -d 2 -p 0 -f json

  # Keep the top 2% and save the run to SQLite
  wordweaver crawl Planet -p 98 --db runs.db`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			co.article = defaultArticle
			if len(args) == 1 {
				co.article = args[0]
			}

			fetcher := crawler.NewWikiFetcher(cfg)
			defer fetcher.Close()

			return runCrawl(cmd.OutOrStdout(), cfg, fetcher, co)
		},
	}

	cmd.Flags().IntVarP(&co.depth, "depth", "d", 1, "Link hops to follow from the article")
	cmd.Flags().IntVarP(&co.percentile, "percentile", "p", 98, "Keep words at or above this frequency percentile (0-100)")
	cmd.Flags().StringSliceVarP(&co.ignore, "ignore", "i", []string{"bezae"}, "Words to leave out of the result")
	cmd.Flags().StringVarP(&co.format, "format", "f", "markdown", "Output format: markdown or json")
	cmd.Flags().IntVarP(&co.top, "top", "t", 50, "Rows in the markdown table (0 = all)")
	cmd.Flags().StringVar(&co.dbPath, "db", "", "Export the run to this SQLite file")
	cmd.Flags().StringVar(&co.metricsPath, "metrics", "", "Write crawl metrics to this JSON file")

	return cmd
}

func (co *crawlOptions) validate(cfg *config.Config) error {
	if co.article == "" {
		return fmt.Errorf("article must not be empty")
	}
	if co.depth < 0 || co.depth > cfg.MaxDepthLimit {
		return fmt.Errorf("depth must be between 0 and %d", cfg.MaxDepthLimit)
	}
	if co.percentile < 0 || co.percentile > 100 {
		return fmt.Errorf("percentile must be between 0 and 100")
	}
	if co.format != "markdown" && co.format != "json" {
		return fmt.Errorf("unknown format %q", co.format)
	}
	return nil
}

// runCrawl performs the crawl, exports it when asked, and writes the report
func runCrawl(w io.Writer, cfg *config.Config, fetcher crawler.Fetcher, co *crawlOptions) error {
	if err := co.validate(cfg); err != nil {
		return err
	}

	tracker := metrics.NewTracker()
	tracker.IncrementCrawlsStarted()

	logrus.Infof("Crawling '%s' to depth %d", co.article, co.depth)
	c := crawler.NewCrawler(fetcher, cfg.MaxLinksPerArticle, tracker.ObserveArticle)
	c.Crawl(co.article, 0, co.depth)
	tracker.IncrementCrawlsCompleted()

	result := c.FilterByPercentile(co.percentile, co.ignore)
	logrus.Infof("Crawl complete: %d articles, %d total words, %d kept",
		c.Visited(), result.TotalWords, result.FilteredWords)

	rep := report.Report{
		Article:         co.article,
		MaxDepth:        co.depth,
		Percentile:      co.percentile,
		Ignored:         co.ignore,
		ArticlesVisited: c.Visited(),
		Result:          result,
	}

	if co.dbPath != "" {
		if err := exportRun(co.dbPath, rep); err != nil {
			return err
		}
	}

	if co.metricsPath != "" {
		if err := tracker.WriteToFile(co.metricsPath, "completed"); err != nil {
			return err
		}
		logrus.Infof("Metrics written to %s", co.metricsPath)
	}

	if co.format == "json" {
		return report.WriteJSON(w, rep)
	}
	return report.WriteMarkdown(w, rep, co.top)
}

func exportRun(dbPath string, rep report.Report) error {
	store, err := storage.NewStorage(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	percentile := rep.Percentile
	runID, err := store.SaveRun(storage.Run{
		Article:         rep.Article,
		MaxDepth:        rep.MaxDepth,
		Percentile:      &percentile,
		ArticlesVisited: rep.ArticlesVisited,
		TotalWords:      rep.Result.TotalWords,
	}, rep.Result.WordCount, rep.Result.WordPercentage)
	if err != nil {
		return fmt.Errorf("failed to export run: %w", err)
	}

	logrus.Infof("Run %d saved to %s", runID, dbPath)
	return nil
}
