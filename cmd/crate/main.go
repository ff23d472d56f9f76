// Copyright 2025 Playlist Lab
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
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/playlistlab/crate"
	"github.com/playlistlab/crate/ai"
	"github.com/playlistlab/crate/catalog"
	"github.com/playlistlab/crate/core"
	"github.com/playlistlab/crate/facet"
	"github.com/playlistlab/crate/query"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:   "crate",
		Usage:  "Faceted semantic search over a song catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Rank songs against a free-text query, optionally filtered by facets",
				ArgsUsage: "[query text]",
				Action:    searchCommand,
				Flags: append(engineFlags(),
					&cli.StringSliceFlag{
						Name:    "filter",
						Aliases: []string{"f"},
						Usage:   "Facet filter as dimension=value[,value...] (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "match-all",
						Usage: "Require all values within a dimension instead of any",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"k"},
						Usage:   "Maximum number of results",
						Value:   5,
					},
				),
			},
			{
				Name:   "facets",
				Usage:  "List the facet values present in the catalog",
				Action: facetsCommand,
				Flags:  engineFlags(),
			},
			{
				Name:   "validate",
				Usage:  "Validate a catalog file without building a snapshot",
				Action: validateCommand,
				Flags: []cli.Flag{
					songsFlag(),
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func songsFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "songs",
		Aliases:  []string{"s"},
		Usage:    "Path to the catalog JSON file",
		Required: true,
	}
}

func engineFlags() []cli.Flag {
	return []cli.Flag{
		songsFlag(),
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
		&cli.StringFlag{
			Name:  "cache",
			Usage: "Path to a vector cache directory (skips re-embedding unchanged songs)",
		},
		&cli.IntFlag{
			Name:  "max-retries",
			Usage: "Maximum retry attempts for embedding calls",
			Value: 3,
		},
		&cli.DurationFlag{
			Name:  "retry-delay",
			Usage: "Base delay for exponential backoff",
			Value: 1 * time.Second,
		},
	}
}

func openLibrary(c *cli.Context) (*crate.Library, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithMaxRetries(c.Int("max-retries")),
		ai.WithRetryDelay(c.Duration("retry-delay")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := []crate.LibraryOption{crate.WithAIConfig(aiConfig)}
	if cachePath := c.String("cache"); cachePath != "" {
		opts = append(opts, crate.WithCachePath(cachePath))
	}

	lib, err := crate.Open(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open library: %w", err)
	}
	return lib, nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	filters, err := parseFilters(c.StringSlice("filter"))
	if err != nil {
		return err
	}
	if text == "" && len(filters) == 0 {
		return fmt.Errorf("nothing to do: provide query text, a --filter, or both")
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	if _, err := lib.PublishFile(ctx, c.String("songs")); err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	mode := facet.MatchAny
	if c.Bool("match-all") {
		mode = facet.MatchAll
	}

	result, err := lib.Query(ctx, query.Request{
		Text:    text,
		Filters: filters,
		Mode:    mode,
		Limit:   c.Int("limit"),
	})
	if err != nil {
		return err
	}

	if len(filters) > 0 {
		fmt.Printf("Songs in scope: %d of %d\n\n", result.Scoped, result.Total)
	}
	if len(result.Hits) == 0 {
		fmt.Println("No matches. Try loosening filters or changing wording.")
		return nil
	}

	for i, hit := range result.Hits {
		if hit.Scored {
			fmt.Printf("%d. %s - %s [%.3f %s]\n", i+1, hit.Record.Title, hit.Record.Artist(), hit.Score, query.MatchStrength(hit.Score))
		} else {
			fmt.Printf("%d. %s - %s\n", i+1, hit.Record.Title, hit.Record.Artist())
		}
		if desc := strings.TrimSpace(hit.Record.Description); desc != "" {
			fmt.Printf("   %s\n", desc)
		}
	}
	return nil
}

func facetsCommand(c *cli.Context) error {
	ctx := context.Background()

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	if _, err := lib.PublishFile(ctx, c.String("songs")); err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	for _, dim := range core.Dimensions() {
		values, err := lib.Facets(dim)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", dim, strings.Join(values, ", "))
	}
	return nil
}

func validateCommand(c *cli.Context) error {
	entries, err := catalog.ReadFile(c.String("songs"))
	if err != nil {
		return err
	}

	if _, err := catalog.Load(entries); err != nil {
		var verrs core.ValidationErrors
		if errors.As(err, &verrs) {
			for _, verr := range verrs {
				fmt.Fprintf(os.Stderr, "entry %d: field %q: %v\n", verr.Index, verr.Field, verr.Reason)
			}
			return fmt.Errorf("catalog invalid: %d problem(s)", len(verrs))
		}
		return err
	}

	fmt.Printf("Catalog valid: %d songs\n", len(entries))
	return nil
}

// parseFilters turns repeated dimension=value[,value...] flags into
// facet constraints. Repeating a dimension merges its values.
func parseFilters(raw []string) (facet.Constraints, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	filters := make(facet.Constraints)
	for _, item := range raw {
		dim, list, found := strings.Cut(item, "=")
		if !found {
			return nil, fmt.Errorf("invalid filter %q: expected dimension=value[,value...]", item)
		}

		dimension, ok := core.ParseDimension(strings.TrimSpace(dim))
		if !ok {
			return nil, fmt.Errorf("invalid filter %q: unknown dimension %q", item, dim)
		}

		var values []string
		for _, v := range strings.Split(list, ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("invalid filter %q: no values", item)
		}
		filters[dimension] = append(filters[dimension], values...)
	}
	return filters, nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
