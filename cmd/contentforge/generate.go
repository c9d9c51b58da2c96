package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/TobiSchelling/ContentForge/internal/pipeline"
	"github.com/TobiSchelling/ContentForge/internal/source"
	"github.com/spf13/cobra"
)

// --- generate command ---

var (
	noPolish  bool
	outputDir string
)

var generateCmd = &cobra.Command{
	Use:   "generate [file|url]",
	Short: "Generate content from a transcript file or URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		t, err := loadTranscript(ctx, args[0])
		if err != nil {
			return err
		}

		opts := []pipeline.Option{pipeline.WithDB(db)}
		if noPolish {
			opts = append(opts, pipeline.WithoutPolish())
		}
		pipe := pipeline.New(ctx, cfg, log, opts...)

		result, err := pipe.Run(ctx, pipeline.Input{Name: t.Name, Source: t.Source, Transcript: t.Text})
		if err != nil {
			return fmt.Errorf("processing %s: %w", t.Name, err)
		}

		dir := outputDir
		if dir == "" {
			dir = pipeline.RunDir(cfg.GetDataDir(), result.RunID)
		}
		written, err := pipeline.WriteOutputs(dir, result)
		if err != nil {
			return err
		}

		printManifest(result.Manifest)
		fmt.Printf("\nRun %s complete. Files:\n", result.RunID)
		for _, path := range written {
			fmt.Printf("  %s\n", path)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().BoolVar(&noPolish, "no-polish", false, "Skip the LLM polish pass")
	generateCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory for output files (default: data dir)")
}

func loadTranscript(ctx context.Context, arg string) (*source.Transcript, error) {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		fmt.Printf("Fetching transcript from %s...\n", arg)
		return source.NewFetcher(0, log).Fetch(ctx, arg)
	}
	return source.LoadFile(arg)
}

func printManifest(m pipeline.Manifest) {
	var issues pipeline.Manifest
	for _, o := range m {
		if o.Status == pipeline.StatusFailed || o.Status == pipeline.StatusWarn {
			issues = append(issues, o)
		}
	}
	if len(issues) == 0 {
		fmt.Println("All artifacts produced.")
		return
	}
	fmt.Println("Artifact issues:")
	for _, o := range issues {
		fmt.Printf("  %-8s %-8s %-6s %v\n", o.Artifact, o.Stage, o.Status, o.Err)
	}
}

// --- polish command ---

var polishCmd = &cobra.Command{
	Use:   "polish [run-id|report.md]",
	Short: "Re-run the LLM polish pass on a stored run or a generated report file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		pipe := pipeline.New(ctx, cfg, log, pipeline.WithDB(db))

		var runID, markdown, target string
		if data, err := os.ReadFile(args[0]); err == nil {
			markdown = string(data)
			target = filepath.Join(filepath.Dir(args[0]), pipeline.PolishedFile)
		} else {
			run, err := db.FindRun(args[0])
			if err != nil {
				return err
			}
			if run == nil {
				return fmt.Errorf("no run or file named %s", args[0])
			}
			runID, markdown = run.ID, run.GeneratedMarkdown
			target = filepath.Join(pipeline.RunDir(cfg.GetDataDir(), run.ID), pipeline.PolishedFile)
		}

		result, err := pipe.Polish(ctx, runID, markdown)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		if err := os.WriteFile(target, []byte(result.PolishedReport), 0o644); err != nil {
			return fmt.Errorf("writing polished report: %w", err)
		}

		printManifest(result.Manifest)
		fmt.Printf("\nPolished report: %s\n", target)
		return nil
	},
}
