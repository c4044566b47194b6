package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/quangtn/vietcal/internal/pipeline"
	"github.com/quangtn/vietcal/internal/worker"
	"github.com/spf13/cobra"
)

var (
	batchBaseFlag string
	batchFormat   string
	batchWorkers  int
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Parse a file of sentences, one per line",
	Long: `Batch reads sentences from a file (one per line, "-" for stdin) and
parses them concurrently. Results come out in input order, one per line.

Example:
  vietcal batch sentences.txt --base 2025-11-06 --workers 8
  cat sentences.txt | vietcal batch - --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchBaseFlag, "base", "", "reference instant for relative phrases (default: now)")
	batchCmd.Flags().StringVar(&batchFormat, "format", "", "output format: json, yaml, summary (default from config)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "concurrent workers (default from config)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	base, err := parseBase(batchBaseFlag)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	if batchFormat != "" {
		cfg.Output.Format = batchFormat
	}
	if batchWorkers > 0 {
		cfg.Concurrency.Workers = batchWorkers
	}
	if err := applyLLMFlags(cfg); err != nil {
		return err
	}

	lines, err := readLines(args[0])
	if err != nil {
		return err
	}
	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Parsing %d lines with %d workers\n", len(lines), cfg.Concurrency.Workers)
	}

	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	results := worker.NewBatchProcessor(p, cfg.Concurrency.Workers).
		Process(context.Background(), lines, base)

	renderer := pipeline.NewRenderer()
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "line %d: %v\n", r.Index+1, r.Err)
			continue
		}
		if cfg.Output.Format == "summary" {
			fmt.Printf("--- %s\n", r.Text)
		}
		if err := renderer.Render(r.Result, cfg.Output.Format, os.Stdout); err != nil {
			return fmt.Errorf("render line %d: %w", r.Index+1, err)
		}
	}
	return nil
}

// readLines loads the input file, "-" meaning stdin
func readLines(path string) ([]string, error) {
	var f *os.File
	if path == "-" {
		f = os.Stdin
	} else {
		var err error
		f, err = os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
	}

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return lines, nil
}
