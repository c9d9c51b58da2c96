package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/TobiSchelling/ContentForge/internal/feed"
	"github.com/TobiSchelling/ContentForge/internal/pipeline"
	"github.com/TobiSchelling/ContentForge/internal/source"
	"github.com/TobiSchelling/ContentForge/internal/watcher"
	"github.com/spf13/cobra"
)

// --- collect command ---

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Poll configured podcast feeds and process new episodes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.Sources.Feeds) == 0 {
			return fmt.Errorf("no feeds configured under sources.feeds")
		}

		ctx, cancel := signalContext()
		defer cancel()

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		pipe := pipeline.New(ctx, cfg, log, pipeline.WithDB(db))
		fetcher := source.NewFetcher(0, log)
		collector := feed.NewCollector(cfg.Sources.Feeds, db, fetcher, pipe, log)

		fmt.Printf("Collecting episodes from %d feed(s)...\n", len(cfg.Sources.Feeds))
		result := collector.Collect(ctx)

		for _, r := range result.Runs {
			if _, err := pipeline.WriteOutputs(pipeline.RunDir(cfg.GetDataDir(), r.RunID), r); err != nil {
				log.Error(ctx, "Writing outputs for %s: %v", r.Name, err)
			}
		}

		fmt.Println("\nCollection complete:")
		fmt.Printf("  Episodes found: %d\n", result.Found)
		fmt.Printf("  New episodes: %d\n", result.New)
		fmt.Printf("  Processed: %d\n", result.Processed)
		fmt.Printf("  No transcript: %d\n", result.NoTranscript)
		fmt.Printf("  Failed: %d\n", result.Failed)
		return nil
	},
}

// --- watch command ---

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the inbox directory and process new transcripts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		pipe := pipeline.New(ctx, cfg, log, pipeline.WithDB(db))
		inbox := cfg.GetInbox()
		if err := os.MkdirAll(inbox, 0o755); err != nil {
			return fmt.Errorf("creating inbox: %w", err)
		}

		handle := func(ctx context.Context, path string) error {
			t, err := source.LoadFile(path)
			if err != nil {
				return err
			}
			result, err := pipe.Run(ctx, pipeline.Input{Name: t.Name, Source: t.Source, Transcript: t.Text})
			if err != nil {
				return err
			}
			if _, err := pipeline.WriteOutputs(pipeline.RunDir(cfg.GetDataDir(), result.RunID), result); err != nil {
				return err
			}
			fmt.Printf("Processed %s -> run %s\n", t.Name, result.RunID)
			return nil
		}

		w, err := watcher.New(inbox, handle, log)
		if err != nil {
			return err
		}
		defer w.Stop()

		fmt.Printf("Watching %s for transcripts\n", inbox)
		fmt.Println("Press Ctrl+C to stop")
		if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
