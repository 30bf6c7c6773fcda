// Copyright 2025 The medcodeapi authors
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

	"github.com/urfave/cli/v2"

	"github.com/mmakkena/medcodeapi"
	"github.com/mmakkena/medcodeapi/ai"
	"github.com/mmakkena/medcodeapi/backfill"
	"github.com/mmakkena/medcodeapi/core"
	"github.com/mmakkena/medcodeapi/search"
)

func main() {
	app := &cli.App{
		Name:  "medcode",
		Usage: "Hybrid retrieval engine for clinical code catalogs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search the code catalog",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Search mode (auto, exact, lexical, semantic, hybrid, faceted)",
						Value: "auto",
					},
					&cli.StringFlag{
						Name:  "system",
						Usage: "Restrict to one code system (icd10cm, icd10pcs, cpt, hcpcs)",
					},
					&cli.IntFlag{
						Name:  "year",
						Usage: "Restrict to one catalog version year (0 for all years)",
					},
					&cli.StringSliceFlag{
						Name:  "facet",
						Usage: "Facet constraint as key=value (repeatable)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: search.DefaultLimit,
					},
					&cli.Float64Flag{
						Name:  "min-similarity",
						Usage: "Drop results with a fused score below this threshold",
					},
					&cli.Float64Flag{
						Name:  "semantic-weight",
						Usage: "Weight of the semantic signal in hybrid fusion",
						Value: float64(search.DefaultSemanticWeight),
					},
					&cli.BoolFlag{
						Name:  "licensed",
						Usage: "Caller holds a license for restricted code text",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
				},
			},
			{
				Name:      "get",
				Usage:     "Look up one catalog record by system and code",
				ArgsUsage: "<system> <code>",
				Action:    getCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "year",
						Usage: "Catalog version year (0 for the latest)",
					},
					&cli.BoolFlag{
						Name:  "licensed",
						Usage: "Caller holds a license for restricted code text",
					},
				},
			},
			{
				Name:      "mappings",
				Usage:     "List cross-system mappings for a code",
				ArgsUsage: "<system> <code>",
				Action:    mappingsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
			{
				Name:   "backfill",
				Usage:  "Embed catalog records that are still missing vectors",
				Action: backfillCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
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
					&cli.IntFlag{
						Name:  "dimensions",
						Usage: "Expected embedding dimensionality (0 disables the check)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	mode, err := search.ParseMode(c.String("mode"))
	if err != nil {
		return err
	}

	system := core.CodeSystemAny
	if name := c.String("system"); name != "" {
		system, err = core.ParseCodeSystem(name)
		if err != nil {
			return err
		}
	}

	facets, err := parseFacets(c.StringSlice("facet"))
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	engine, err := db.NewSearchEngine()
	if err != nil {
		return fmt.Errorf("failed to create search engine: %w", err)
	}

	request := search.NewRequest(strings.Join(c.Args().Slice(), " "))
	request.Mode = mode
	request.System = system
	request.VersionYear = c.Int("year")
	request.Facets = facets
	request.Limit = c.Int("limit")
	request.MinSimilarity = float32(c.Float64("min-similarity"))
	request.SemanticWeight = float32(c.Float64("semantic-weight"))
	request.Licensed = c.Bool("licensed")

	response, err := engine.Search(ctx, request)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if response.Degraded {
		fmt.Fprintln(os.Stderr, "Warning: semantic retrieval was unavailable, results are lexical only")
	}
	fmt.Printf("Found %d hits (%d total)\n", len(response.Results), response.TotalResults)
	for i, hit := range response.Results {
		fmt.Printf("%d: %s %s (%d)[%0.3f] %s\n",
			i, hit.System, hit.Code, hit.VersionYear, hit.FusedScore, hit.Text)
		for _, edge := range hit.Mappings {
			fmt.Printf("   -> %s %s (%0.2f)\n", edge.ToSystem, edge.ToCode, edge.Confidence)
		}
	}

	return nil
}

func getCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() != 2 {
		return fmt.Errorf("expected <system> <code> arguments")
	}
	system, err := core.ParseCodeSystem(c.Args().Get(0))
	if err != nil {
		return err
	}
	code := c.Args().Get(1)

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	engine, err := db.NewSearchEngine()
	if err != nil {
		return fmt.Errorf("failed to create search engine: %w", err)
	}

	result, err := engine.GetByRef(ctx, system, code, c.Int("year"), c.Bool("licensed"))
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}
	if result == nil {
		fmt.Printf("No record for %s %s\n", system, code)
		return nil
	}

	fmt.Printf("%s %s (%d): %s\n", result.System, result.Code, result.VersionYear, result.Text)
	if result.Category != "" {
		fmt.Printf("Category: %s\n", result.Category)
	}
	for key, value := range result.Facets {
		fmt.Printf("Facet %s: %s\n", key, value)
	}
	for _, edge := range result.Mappings {
		fmt.Printf("Mapping -> %s %s (%0.2f)\n", edge.ToSystem, edge.ToCode, edge.Confidence)
	}

	return nil
}

func mappingsCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() != 2 {
		return fmt.Errorf("expected <system> <code> arguments")
	}
	system, err := core.ParseCodeSystem(c.Args().Get(0))
	if err != nil {
		return err
	}
	code := c.Args().Get(1)

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	engine, err := db.NewSearchEngine()
	if err != nil {
		return fmt.Errorf("failed to create search engine: %w", err)
	}

	edges, err := engine.Mappings(ctx, system, code)
	if err != nil {
		return fmt.Errorf("mapping lookup failed: %w", err)
	}

	fmt.Printf("Found %d mappings\n", len(edges))
	for _, edge := range edges {
		fmt.Printf("%s %s -> %s %s (%0.2f)\n",
			edge.FromSystem, edge.FromCode, edge.ToSystem, edge.ToCode, edge.Confidence)
	}

	return nil
}

func backfillCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	config := &backfill.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		Dimensions:     c.Int("dimensions"),
	}

	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	backfiller := db.NewBackfiller(config, os.Stderr)

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := backfiller.Run(ctx); err != nil {
		return fmt.Errorf("backfill failed: %w", err)
	}

	return nil
}

// openDatabase builds a Database from the common db and embedding flags.
func openDatabase(c *cli.Context) (*medcodeapi.Database, error) {
	dbPath := c.String("db")
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	var configOpts []ai.ConfigOption
	if host := c.String("embedding-host"); host != "" {
		configOpts = append(configOpts, ai.WithHost(host))
	}
	if model := c.String("embedding-model"); model != "" {
		configOpts = append(configOpts, ai.WithEmbeddingModel(model))
	}
	if dim := c.Int("dimensions"); dim > 0 {
		configOpts = append(configOpts, ai.WithDimensions(dim))
	}

	aiConfig := ai.NewConfig(configOpts...)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	db, err := medcodeapi.NewDatabase(dbPath, medcodeapi.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// parseFacets converts key=value pairs into the request facet map.
func parseFacets(pairs []string) (map[string][]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	facets := make(map[string][]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" || value == "" {
			return nil, fmt.Errorf("invalid facet %q: expected key=value", pair)
		}
		facets[key] = append(facets[key], value)
	}
	return facets, nil
}

func setupLogger(c *cli.Context) error {
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
