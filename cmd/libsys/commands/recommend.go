package commands

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/libsys-io/libsys/config"
	"github.com/libsys-io/libsys/errors"
	"github.com/libsys-io/libsys/imagecache"
	"github.com/libsys-io/libsys/logger"
	"github.com/libsys-io/libsys/recommend"
)

var (
	recommendTopKFlag        int
	recommendCoversFlag      bool
	recommendInteractiveFlag bool
	topCountFlag             int
)

// RecommendCmd finds books similar to a title.
var RecommendCmd = &cobra.Command{
	Use:   "recommend <title>",
	Short: "Find books similar to a title",
	Long: `recommend — Find similar books

The title match is forgiving: exact first, then substring, then a
fuzzy pass that tolerates typos.

Examples:
  libsys recommend "harry potter"
  libsys recommend "hary poter" -k 6      # typo still resolves
  libsys recommend "dune" --covers        # also prefetch cover images
  libsys recommend -i                     # interactive session`,
	Args: func(cmd *cobra.Command, args []string) error {
		if recommendInteractiveFlag {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: runRecommend,
}

// TopCmd shows the popularity list.
var TopCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the most popular books",
	Args:  cobra.NoArgs,
	RunE:  runTop,
}

func init() {
	RecommendCmd.Flags().IntVarP(&recommendTopKFlag, "top-k", "k", 0, "Number of similar books (default from config)")
	RecommendCmd.Flags().BoolVar(&recommendCoversFlag, "covers", false, "Prefetch cover images into the cache")
	RecommendCmd.Flags().BoolVarP(&recommendInteractiveFlag, "interactive", "i", false, "Read queries from stdin, keeping artifacts loaded")
	TopCmd.Flags().IntVarP(&topCountFlag, "count", "n", 0, "List length (default from config)")
}

func newEngine(cfg *config.Config) *recommend.Engine {
	return recommend.NewEngine(recommend.Options{
		ArtifactsDir: cfg.Artifacts.Dir,
		FuzzyCutoff:  cfg.Recommend.FuzzyCutoff,
		TopK:         cfg.Recommend.TopK,
		TopListSize:  cfg.Recommend.TopListSize,
	}, logger.Logger)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	engine := newEngine(cfg)
	if recommendInteractiveFlag {
		return runRecommendInteractive(cmd, cfg, engine)
	}
	return recommendOnce(cmd, cfg, engine, strings.Join(args, " "))
}

func recommendOnce(cmd *cobra.Command, cfg *config.Config, engine *recommend.Engine, query string) error {
	rec, err := engine.Recommend(cmd.Context(), query, recommendTopKFlag)
	if err != nil {
		if errors.Is(err, recommend.ErrNotFound) {
			pterm.Warning.Printf("No title matching %q\n", query)
			return nil
		}
		return err
	}

	if !strings.EqualFold(rec.Matched, strings.TrimSpace(query)) {
		pterm.Info.Printf("Showing results for %q", rec.Matched)
	}
	printRecords(rec.Records, false)

	if recommendCoversFlag {
		prefetchCovers(cmd, cfg, rec.Records)
	}
	return nil
}

// runRecommendInteractive keeps one session loaded across queries. With
// artifacts.watch enabled, regenerated artifact files are picked up
// without restarting.
func runRecommendInteractive(cmd *cobra.Command, cfg *config.Config, engine *recommend.Engine) error {
	engine.WarmUp(cmd.Context())

	if cfg.Artifacts.Watch {
		watcher, err := recommend.NewArtifactWatcher(engine, logger.Logger)
		if err != nil {
			return errors.Wrap(err, "failed to watch artifacts dir")
		}
		watcher.Start()
		defer watcher.Close()
	}

	pterm.Info.Println("Enter a title per line (empty line quits)")
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			break
		}
		if err := recommendOnce(cmd, cfg, engine, query); err != nil {
			pterm.Error.Println(err)
		}
	}
	return scanner.Err()
}

func runTop(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	records, err := newEngine(cfg).Top(cmd.Context(), topCountFlag)
	if err != nil {
		return err
	}
	printRecords(records, true)
	return nil
}

func printRecords(records []recommend.Record, withRatings bool) {
	if withRatings {
		fmt.Printf("%-4s %-36s %-24s %-8s %s\n", "#", "TITLE", "AUTHOR", "RATINGS", "AVG")
		for i, r := range records {
			fmt.Printf("%-4d %-36s %-24s %-8d %.2f\n", i+1, r.Title, r.Author, r.NumRatings, r.AvgRating)
		}
		return
	}
	fmt.Printf("%-4s %-36s %s\n", "#", "TITLE", "AUTHOR")
	for i, r := range records {
		fmt.Printf("%-4d %-36s %s\n", i+1, r.Title, r.Author)
	}
}

func prefetchCovers(cmd *cobra.Command, cfg *config.Config, records []recommend.Record) {
	cache := imagecache.New(imagecache.Options{
		Dir:           cfg.Images.CacheDir,
		Timeout:       time.Duration(cfg.Images.TimeoutSeconds) * time.Second,
		FetchesPerSec: cfg.Images.FetchesPerSec,
	}, logger.Logger)

	urls := make([]string, len(records))
	for i, r := range records {
		urls[i] = r.ImageURL
	}
	cache.GetAll(cmd.Context(), urls)
	pterm.Info.Printf("Covers cached under %s", cfg.Images.CacheDir)
}
