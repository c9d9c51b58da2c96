package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/TobiSchelling/ContentForge/internal/database"
	"github.com/TobiSchelling/ContentForge/internal/export"
	"github.com/TobiSchelling/ContentForge/internal/server"
	"github.com/spf13/cobra"
)

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(db, port, log)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (default: server.port)")
}

// --- export command ---

var (
	exportFormat    string
	exportOutput    string
	exportGenerated bool
)

var exportCmd = &cobra.Command{
	Use:   "export [run-id]",
	Short: "Export a run's report as docx, html or markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		run, err := findRun(db, args[0])
		if err != nil {
			return err
		}

		markdown := run.Report()
		if exportGenerated {
			markdown = run.GeneratedMarkdown
		}

		path := exportOutput
		if path == "" {
			path = filepath.Join(cfg.GetDataDir(), "runs", run.ID, "content."+string(format))
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		if err := export.Write(format, run.Name, markdown, path); err != nil {
			return fmt.Errorf("exporting run %s: %w", run.ID, err)
		}
		fmt.Printf("Exported %s to %s\n", run.Name, path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "docx", "Export format: docx, html or md")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().BoolVar(&exportGenerated, "generated", false, "Export the generated report instead of the polished one")
}

// --- runs command ---

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List and inspect stored runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.GetRecentRuns(runsLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs yet. Start one with: contentforge generate <transcript>")
			return nil
		}

		for _, r := range runs {
			state := "generated"
			if r.PolishedMarkdown != nil {
				state = "polished"
			}
			created := ""
			if r.CreatedAt != nil {
				created = *r.CreatedAt
			}
			fmt.Printf("  %s  %-19s  %-9s  %s\n", shortID(r.ID), created, state, r.Name)
		}
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show a run's artifact outcomes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		run, err := findRun(db, args[0])
		if err != nil {
			return err
		}
		outcomes, err := db.GetOutcomes(run.ID)
		if err != nil {
			return err
		}

		fmt.Printf("Run: %s\n", run.ID)
		fmt.Printf("Name: %s\n", run.Name)
		if run.Source != nil {
			fmt.Printf("Source: %s\n", *run.Source)
		}
		fmt.Println("\nOutcomes:")
		for _, o := range outcomes {
			line := fmt.Sprintf("  %-8s %-8s %s", o.Artifact, o.Stage, o.Status)
			if o.Error != nil {
				line += ": " + *o.Error
			}
			fmt.Println(line)
		}
		return nil
	},
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete [run-id]",
	Short: "Delete a stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		run, err := findRun(db, args[0])
		if err != nil {
			return err
		}
		if err := db.DeleteRun(run.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted run %s: %s\n", run.ID, run.Name)
		return nil
	},
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Number of runs to list")
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDeleteCmd)
}

func findRun(db *database.DB, idOrPrefix string) (*database.Run, error) {
	run, err := db.FindRun(idOrPrefix)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("run %s not found", idOrPrefix)
	}
	return run, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
