package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/quangtn/vietcal/internal/llm"
	"github.com/quangtn/vietcal/internal/model"
	"github.com/quangtn/vietcal/internal/pipeline"
	"github.com/quangtn/vietcal/internal/validate"
	"github.com/spf13/cobra"
)

var (
	parseBaseFlag string
	parseFormat   string
	parseStrict   bool
	llmEnabled    bool
	llmModel      string
	llmBaseURL    string
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <text>",
	Short: "Parse one Vietnamese sentence into a calendar entry",
	Long: `Parse extracts the event name, time, location and reminder offset from
a single sentence.

Example:
  vietcal parse "họp nhóm lúc 10h sáng mai ở phòng 302, nhắc trước 15 phút"
  vietcal parse "t2 8h sang hop o van phong" --base 2025-11-06 --format yaml
  vietcal parse "ăn tối 7h" --llm --llm-model gpt-4o-mini`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&parseBaseFlag, "base", "", "reference instant for relative phrases (default: now)")
	parseCmd.Flags().StringVar(&parseFormat, "format", "", "output format: json, yaml, summary (default from config)")
	parseCmd.Flags().BoolVar(&parseStrict, "strict", false, "fail when event name or start time is missing")

	parseCmd.Flags().BoolVar(&llmEnabled, "llm", false, "ensemble with the model-based backend")
	parseCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "model name for the LLM backend")
	parseCmd.Flags().StringVar(&llmBaseURL, "llm-base-url", "", "OpenAI-compatible endpoint (optional)")
}

func runParse(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	base, err := parseBase(parseBaseFlag)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	if parseFormat != "" {
		cfg.Output.Format = parseFormat
	}
	if err := applyLLMFlags(cfg); err != nil {
		return err
	}

	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Parsing: %s\n", text)
		fmt.Fprintf(os.Stderr, "Base:    %s\n", base.Format("Mon 2006-01-02 15:04"))
		if cfg.LLM.Provider != "" {
			fmt.Fprintf(os.Stderr, "Backend: rule + %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	res, err := p.Process(context.Background(), text, base)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	issues := validate.CheckResult(res)
	for _, is := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", is.Severity, is.Field, is.Message)
	}
	if parseStrict && validate.HasErrors(issues) {
		return fmt.Errorf("result is missing mandatory fields")
	}

	return pipeline.NewRenderer().Render(res, cfg.Output.Format, os.Stdout)
}

// applyLLMFlags wires the optional model backend from flags and environment
func applyLLMFlags(cfg *model.Config) error {
	if !llmEnabled {
		return nil
	}
	cfg.LLM.Provider = "openai"
	cfg.LLM.Model = llmModel
	if llmBaseURL != "" {
		cfg.LLM.BaseURL = llmBaseURL
	}
	cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	return nil
}

// buildPipeline assembles the pipeline with the optional secondary backend.
// The LLM backend doubles as the named-entity tagger fallback.
func buildPipeline(cfg *model.Config) (*pipeline.Pipeline, error) {
	var secondary pipeline.Backend
	var tagger pipeline.Tagger

	backend, err := llm.New(llm.ConfigFromModel(cfg.LLM, cfg.RateLimiting))
	if err != nil {
		return nil, fmt.Errorf("initialize LLM backend: %w", err)
	}
	if backend != nil {
		secondary = backend
		tagger = backend
	}

	return pipeline.New(cfg, secondary, tagger), nil
}
