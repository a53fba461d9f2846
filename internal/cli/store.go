package cli

import (
	"context"
	"fmt"

	"tag-engine/internal/cache"
	"tag-engine/internal/codec"
	"tag-engine/internal/config"
	"tag-engine/internal/graph"
	"tag-engine/internal/signature"
	"tag-engine/internal/store"
	"tag-engine/internal/textutil"
	"tag-engine/internal/worker"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func ingestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file-or-dir>",
		Short: "Store segments in PostgreSQL and record their markers in Neo4j",
		Long: `Parses every row of the given segment files, stores source and target tokens
with their signature keys in PostgreSQL, and records each source's markers
and marker pairs in the Neo4j marker graph.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runIngest(args[0])
		},
	}
}

func lookupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <source>...",
		Short: "Find the stored targets of exact source matches",
		Long: `Looks up each source by its source hash. Repeated sources are answered from
memory; --preload loads every stored segment first, which suits long lists.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preload, _ := cmd.Flags().GetBool("preload")
			return a.runLookup(cmd, args, preload)
		},
	}

	cmd.Flags().Bool("preload", false, "Load all stored segments into memory before looking up")

	return cmd
}

func inventoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inventory",
		Short: "List recorded markers by segment count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInventory(cmd)
		},
	}
}

// initDependencies connects to PostgreSQL and Neo4j.
func initDependencies(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, neo4j.DriverWithContext, error) {
	pgPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect PostgreSQL: %w", err)
	}

	if err := pgPool.Ping(ctx); err != nil {
		pgPool.Close()
		return nil, nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}
	log.Info().Msg("Connected to PostgreSQL")

	neo4jDriver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
	if err != nil {
		pgPool.Close()
		return nil, nil, fmt.Errorf("connect Neo4j: %w", err)
	}

	if err := neo4jDriver.VerifyConnectivity(ctx); err != nil {
		pgPool.Close()
		neo4jDriver.Close(ctx)
		return nil, nil, fmt.Errorf("verify Neo4j connectivity: %w", err)
	}
	log.Info().Msg("Connected to Neo4j")

	return pgPool, neo4jDriver, nil
}

// segmentsOf parses every row under path.
func segmentsOf(c *codec.Codec, path string) ([]store.Segment, error) {
	_, jobs, err := loadRows(path)
	if err != nil {
		return nil, err
	}

	segments := make([]store.Segment, len(jobs))
	for i, job := range jobs {
		segments[i] = store.NewSegment(job.row.ID, c.Parse(job.row.Source), c.Parse(job.row.Target))
	}
	return segments, nil
}

func (a *app) runIngest(path string) error {
	ctx, cancel := setupContext()
	defer cancel()

	c, err := a.codec()
	if err != nil {
		return err
	}

	segments, err := segmentsOf(c, path)
	if err != nil {
		return err
	}
	if len(segments) == 0 {
		log.Warn().Str("path", path).Msg("No segments found")
		return nil
	}
	log.Info().Int("segments", len(segments)).Msg("Parsed segments")

	pgPool, neo4jDriver, err := initDependencies(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer pgPool.Close()
	defer neo4jDriver.Close(ctx)

	segStore := store.NewSegmentStore(pgPool)
	if err := segStore.EnsureSchema(ctx); err != nil {
		return err
	}
	markerGraph := graph.NewMarkerGraph(neo4jDriver)
	if err := markerGraph.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure graph schema: %w", err)
	}

	batches := worker.Batch(segments, a.cfg.BatchSize)
	stored := 0
	for i, batch := range batches {
		n, err := segStore.Upsert(ctx, batch)
		if err != nil {
			return fmt.Errorf("store batch %d: %w", i+1, err)
		}
		stored += n
		log.Info().Int("batch", i+1).Int("of", len(batches)).Int("stored", n).Msg("Stored batch")
	}

	pool := worker.NewPool(a.cfg.WorkerCount, func(ctx context.Context, seg store.Segment) (struct{}, error) {
		return struct{}{}, markerGraph.RecordSegment(ctx, seg.ID, seg.Keys.SourceHash, seg.Source)
	})

	failed := 0
	for _, o := range pool.Execute(ctx, segments) {
		if o.Err != nil {
			failed++
			log.Warn().
				Err(o.Err).
				Str("segment", o.Input.ID).
				Str("source", textutil.Truncate(o.Input.Source.Text(), a.cfg.PreviewLength)).
				Msg("Failed to record markers")
		}
	}

	log.Info().
		Int("stored", stored).
		Int("graph_failures", failed).
		Msg("Ingestion complete")
	return ctx.Err()
}

type lookupView struct {
	Source     string `json:"source" yaml:"source"`
	SourceHash string `json:"source_hash" yaml:"source_hash"`
	Found      bool   `json:"found" yaml:"found"`
	Target     string `json:"target,omitempty" yaml:"target,omitempty"`
	Editor     string `json:"editor,omitempty" yaml:"editor,omitempty"`
}

func (a *app) runLookup(cmd *cobra.Command, sources []string, preload bool) error {
	ctx, cancel := setupContext()
	defer cancel()

	c, err := a.codec()
	if err != nil {
		return err
	}

	pgPool, neo4jDriver, err := initDependencies(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer pgPool.Close()
	defer neo4jDriver.Close(ctx)

	matches := cache.NewMatchCache(store.NewSegmentStore(pgPool))
	if preload {
		if err := matches.Preload(ctx); err != nil {
			return err
		}
	}
	return write(cmd.OutOrStdout(), a.output, lookupAll(ctx, c, matches, sources))
}

// lookupAll resolves every source through matches, in order.
func lookupAll(ctx context.Context, c *codec.Codec, matches *cache.MatchCache, sources []string) []lookupView {
	views := make([]lookupView, len(sources))
	for i, text := range sources {
		source := c.Parse(text)
		keys := signature.Of(source)
		views[i] = lookupView{Source: text, SourceHash: keys.SourceHash}
		if target, ok := matches.Get(ctx, keys.SourceHash); ok {
			views[i].Found = true
			views[i].Target = target.Text()
			views[i].Editor = c.SerializeToEditorSyntax(target, source)
		}
	}
	return views
}

func (a *app) runInventory(cmd *cobra.Command) error {
	ctx, cancel := setupContext()
	defer cancel()

	pgPool, neo4jDriver, err := initDependencies(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer pgPool.Close()
	defer neo4jDriver.Close(ctx)

	usage, err := graph.NewMarkerGraph(neo4jDriver).MarkerInventory(ctx)
	if err != nil {
		return err
	}
	return write(cmd.OutOrStdout(), a.output, usage)
}
