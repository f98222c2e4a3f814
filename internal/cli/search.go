package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/causalab/gies/pkg/cache"
	"github.com/causalab/gies/pkg/graphio"
	"github.com/causalab/gies/pkg/score"
	"github.com/causalab/gies/pkg/search"
)

// searchOpts holds the command-line flags for the search command.
type searchOpts struct {
	configPath string // optional TOML configuration file
	output     string // result JSON output path
	phases     string // comma-separated phase override
	maxDegree  string // comma-separated degree-bound override
	workers    int    // candidate-evaluation worker override
	backend    string // cache backend override
	ttl        string // cache entry TTL override
	noCache    bool   // disable score memoization
}

// searchCommand creates the search command: load a score table, hill climb
// to convergence, report the result.
func (c *CLI) searchCommand() *cobra.Command {
	var opts searchOpts

	cmd := &cobra.Command{
		Use:   "search [score-file]",
		Short: "Run a structure search against a score table",
		Long: `Run the greedy structure search against a JSON score table.

The search starts from the empty graph and hill climbs through edge
additions, removals, and reversals until no single-edge change improves
the score. Configuration comes from an optional TOML file (--config),
with flags taking precedence.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSearch(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "TOML configuration file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the full result as JSON")
	cmd.Flags().StringVar(&opts.phases, "phases", "", "phase order, comma-separated (default forward,backward,turning)")
	cmd.Flags().StringVar(&opts.maxDegree, "max-degree", "", "degree bound: fraction, integer, or per-vertex list")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "candidate evaluation workers (default NumCPU)")
	cmd.Flags().StringVar(&opts.backend, "cache", "", "score cache backend: none, memory, file, redis, mongo")
	cmd.Flags().StringVar(&opts.ttl, "cache-ttl", "", "score cache entry TTL, e.g. 24h (default no expiry)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable score memoization")

	return cmd
}

func (c *CLI) runSearch(ctx context.Context, scorePath string, opts *searchOpts) error {
	cfg := &Config{}
	if opts.configPath != "" {
		var err error
		if cfg, err = LoadConfig(opts.configPath); err != nil {
			return err
		}
	}
	applyFlagOverrides(cfg, opts)

	table, err := score.ReadTableFile(scorePath)
	if err != nil {
		return err
	}
	c.Logger.Infof("Loaded score table: %d vertices", len(table.Nodes()))

	scorer, closeCache, err := c.newScorer(ctx, table, scorePath, cfg.Cache)
	if err != nil {
		return err
	}
	defer closeCache()

	engineOpts, err := cfg.SearchOptions(table)
	if err != nil {
		return err
	}
	engineOpts.Logger = c.Logger

	searcher, err := search.New(scorer, engineOpts)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	sp := newSpinnerWithContext(ctx, "Searching...")
	sp.Start()
	res, err := searcher.Run(ctx)
	sp.Stop()
	if err != nil {
		if sp.Cancelled() {
			printWarning("Search cancelled")
		}
		return err
	}
	prog.done(fmt.Sprintf("Accepted %d moves in %d passes", res.Moves, res.Passes))

	printSuccess("Search converged")
	printKeyValue("score", strconv.FormatFloat(res.Score, 'g', -1, 64))
	printKeyValue("moves", strconv.Itoa(res.Moves))
	printKeyValue("passes", strconv.Itoa(res.Passes))
	printKeyValue("edges", strconv.Itoa(res.DAG.EdgeCount()))
	printKeyValue("duration", res.Duration.String())

	if opts.output != "" {
		if err := graphio.ExportResult(res, opts.output); err != nil {
			return err
		}
		printFile(opts.output)
		printNextStep("Render the result", fmt.Sprintf("%s render %s", appName, opts.output))
	}
	return nil
}

// newScorer wraps the table with cache memoization per the configuration.
// The returned func closes the cache backend; it is safe to call when the
// scorer is uncached.
func (c *CLI) newScorer(ctx context.Context, table *score.Table, scorePath string, cfg CacheConfig) (score.LocalScorer, func(), error) {
	if cfg.Backend == "" || cfg.Backend == cacheNone {
		return table, func() {}, nil
	}

	ttl, err := parseTTL(cfg.TTL)
	if err != nil {
		return nil, nil, err
	}
	backend, err := newCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// Namespace by the score file path, so different tables sharing one
	// backend never mix entries.
	abs, err := filepath.Abs(scorePath)
	if err != nil {
		abs = scorePath
	}
	namespace := cache.Hash([]byte(abs))[:12]

	c.Logger.Debugf("Score cache: %s backend, namespace %s", cfg.Backend, namespace)
	closeCache := func() {
		if err := backend.Close(); err != nil {
			c.Logger.Debugf("Close cache: %v", err)
		}
	}
	return score.NewCached(table, backend, namespace, ttl), closeCache, nil
}

// applyFlagOverrides lets command-line flags take precedence over the
// configuration file.
func applyFlagOverrides(cfg *Config, opts *searchOpts) {
	if opts.phases != "" {
		cfg.Phases = strings.Split(opts.phases, ",")
	}
	if opts.maxDegree != "" {
		cfg.MaxDegree = parseDegrees(opts.maxDegree)
	}
	if opts.workers > 0 {
		cfg.Workers = opts.workers
	}
	if opts.backend != "" {
		cfg.Cache.Backend = opts.backend
	}
	if opts.ttl != "" {
		cfg.Cache.TTL = opts.ttl
	}
	if opts.noCache {
		cfg.Cache.Backend = cacheNone
	}
}

// parseDegrees parses the --max-degree flag. Unparseable entries map to -1
// and are rejected by the engine's validation, which produces the better
// error message.
func parseDegrees(s string) []float64 {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		val, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			val = -1
		}
		out = append(out, val)
	}
	return out
}
