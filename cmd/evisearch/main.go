// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/poiesic/evisearch"
	"github.com/poiesic/evisearch/ai"
	"github.com/poiesic/evisearch/core"
	"github.com/poiesic/evisearch/ingestion"
	"github.com/poiesic/evisearch/reembed"
	"github.com/poiesic/evisearch/search"
)

func main() {
	app := &cli.App{
		Name:  "evisearch",
		Usage: "Semantic search over extracted clinical evidence",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "index",
				Usage:  "Build the evidence index from an extraction document",
				Action: indexCommand,
				Flags: append(embeddingFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "content",
						Aliases:  []string{"c"},
						Usage:    "Path to the extraction document (JSON)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of items to embed in each batch",
						Value: ingestion.DefaultBatchSize,
					},
					&cli.StringFlag{
						Name:  "weights",
						Usage: "Path to a YAML file with category weights",
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search the evidence index with one or more query variants",
				ArgsUsage: "QUERY [QUERY...]",
				Action:    searchCommand,
				Flags: append(embeddingFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Maximum number of results",
						Value:   search.DefaultTopK,
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Minimum similarity for a match",
						Value: search.DefaultSimilarityThreshold,
					},
				),
			},
			{
				Name:   "reembed",
				Usage:  "Reembed the stored index with a new embedding model",
				Action: reembedCommand,
				Flags: append(embeddingFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of items to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N items",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
			{
				Name:   "stats",
				Usage:  "Show index metadata and per-category counts",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "https://api.openai.com/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "text-embedding-3-large",
		},
		&cli.IntFlag{
			Name:  "embedding-dimension",
			Usage: "Expected embedding vector dimension",
			Value: 3072,
		},
	}
}

func aiConfigFromFlags(c *cli.Context) (*ai.Config, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithEmbeddingDimension(c.Int("embedding-dimension")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return aiConfig, nil
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()

	aiConfig, err := aiConfigFromFlags(c)
	if err != nil {
		return err
	}

	opts := []ingestion.Option{
		ingestion.WithBatchSize(c.Int("batch-size")),
	}
	if weightsPath := c.String("weights"); weightsPath != "" {
		weights, err := loadWeights(weightsPath)
		if err != nil {
			return err
		}
		opts = append(opts, ingestion.WithTypeWeights(weights))
	}

	db, err := evisearch.NewDatabase(c.String("db"), evisearch.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	pipeline, err := db.NewPipeline(opts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	content, err := os.Open(c.String("content"))
	if err != nil {
		return fmt.Errorf("failed to open extraction document: %w", err)
	}
	defer content.Close()

	start := time.Now()
	count, err := pipeline.IngestDocument(ctx, content)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Printf("Indexed %d evidence items in %v\n", count, time.Since(start).Round(time.Millisecond))
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	queries := c.Args().Slice()
	if len(queries) == 0 {
		return fmt.Errorf("at least one query is required")
	}

	aiConfig, err := aiConfigFromFlags(c)
	if err != nil {
		return err
	}

	db, err := evisearch.NewDatabase(c.String("db"), evisearch.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	engine, err := db.NewEngine(ctx,
		search.WithTopK(c.Int("top-k")),
		search.WithSimilarityThreshold(float32(c.Float64("threshold"))),
	)
	if err != nil {
		return fmt.Errorf("failed to create search engine: %w", err)
	}
	defer engine.Release()

	results, err := engine.SearchEvidence(ctx, queries)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No matching evidence found.")
		return nil
	}

	for _, result := range results {
		item := result.Item
		fmt.Printf("%2d. [%.3f] %s", result.SearchRank, result.SimilarityScore, item.Category)
		if item.Label != "" {
			fmt.Printf(" %q", item.Label)
		}
		if item.SourceDocument != "" {
			fmt.Printf(" (%s", item.SourceDocument)
			if item.PageNumber > 0 {
				fmt.Printf(" p.%d", item.PageNumber)
			}
			fmt.Print(")")
		}
		fmt.Println()
	}

	summary := search.Summarize(results, 3)
	fmt.Printf("\n%d results, scores %.3f to %.3f, sources: %s\n",
		summary.Total, summary.BestScore, summary.WorstScore,
		strings.Join(summary.TopSources, ", "))
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	aiConfig, err := aiConfigFromFlags(c)
	if err != nil {
		return err
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	db, err := evisearch.NewDatabase(c.String("db"), evisearch.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	reembedder, err := db.NewReembedder(reembedConfig)
	if err != nil {
		return fmt.Errorf("failed to create reembedder: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", aiConfig.EmbeddingHost)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", aiConfig.EmbeddingModel)
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	db, err := evisearch.NewDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	meta, err := db.SnapshotStore().Meta()
	if err != nil {
		return fmt.Errorf("failed to read index metadata: %w", err)
	}

	fmt.Printf("Items:     %d\n", meta.Count)
	fmt.Printf("Dimension: %d\n", meta.Dimension)
	fmt.Printf("Model:     %s\n", meta.Model)
	fmt.Printf("Created:   %s\n", meta.CreatedAt.Format(time.RFC3339))

	snapshot, err := db.SnapshotStore().LoadSnapshot()
	if err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}

	counts := make(map[core.Category]int)
	for _, item := range snapshot.Items {
		counts[item.Category]++
	}
	if len(counts) > 0 {
		fmt.Println("\nBy category:")
		for category, count := range counts {
			fmt.Printf("  %-16s %d\n", category, count)
		}
	}
	return nil
}

// loadWeights reads category weights from a YAML file keyed by category
// label, for example:
//
//	table: 1.3
//	extracted_image: 1.5
func loadWeights(path string) (core.TypeWeights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read weights file: %w", err)
	}

	var labels map[string]float32
	if err := yaml.Unmarshal(data, &labels); err != nil {
		return nil, fmt.Errorf("failed to parse weights file: %w", err)
	}

	weights, err := core.TypeWeightsFromLabels(labels)
	if err != nil {
		return nil, fmt.Errorf("invalid weights file: %w", err)
	}
	return weights, nil
}

func setup(c *cli.Context) error {
	// Environment files are optional.
	_ = godotenv.Load()

	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
