package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/foodanalyzer/backend/internal/domain"
	"github.com/foodanalyzer/backend/internal/rubric"
	"github.com/foodanalyzer/backend/internal/usecase"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type scoreFlags struct {
	vocabulary string
	format     string
	out        string
}

func newScoreCmd() *cobra.Command {
	f := &scoreFlags{}

	cmd := &cobra.Command{
		Use:   "score <product-file>",
		Short: "Score a product described in a YAML or JSON file",
		Long: `Score a product without contacting any product database.

The file holds product_name, nutrients (per 100g: energy_kcal, proteins,
carbohydrates, sugars, fiber, fat, saturated_fat, salt, sodium) and a list
of ingredients. Missing nutrients count as zero.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd.Context(), args[0], f, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.vocabulary, "vocabulary", "", "Vocabulary YAML file (default: built-in)")
	flags.StringVar(&f.format, "format", "text", "Output format: text or json")
	flags.StringVar(&f.out, "out", "", "Output file path (default: stdout)")

	return cmd
}

func runScore(ctx context.Context, path string, f *scoreFlags, stdout io.Writer) error {
	if f.format != "text" && f.format != "json" {
		return exitError(2, "unknown format %q (want text or json)", f.format)
	}

	r, err := loadRubric(f.vocabulary)
	if err != nil {
		return err
	}

	req, err := loadProductFile(path)
	if err != nil {
		return exitError(3, "failed to load product: %v", err)
	}

	svc := usecase.NewAnalysisService(nil, nil, nil, r, usecase.AnalysisServiceConfig{})
	analysis, err := svc.ScoreProduct(ctx, req)
	if err != nil {
		return exitError(3, "%v", err)
	}

	var rendered []byte
	switch f.format {
	case "json":
		rendered, err = json.MarshalIndent(analysis, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		rendered = append(rendered, '\n')
	default:
		rendered = []byte(renderText(analysis))
	}

	if f.out != "" {
		return os.WriteFile(f.out, rendered, 0o644)
	}
	_, err = stdout.Write(rendered)
	return err
}

func loadRubric(vocabularyPath string) (*rubric.Rubric, error) {
	if vocabularyPath == "" {
		return rubric.Default(), nil
	}
	vocab, err := rubric.LoadVocabulary(vocabularyPath)
	if err != nil {
		return nil, exitError(3, "failed to load vocabulary: %v", err)
	}
	return rubric.New(vocab), nil
}

// loadProductFile reads a ScoreRequest. .json files are decoded as JSON,
// anything else as YAML.
func loadProductFile(path string) (*domain.ScoreRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var req domain.ScoreRequest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &req)
	default:
		err = yaml.Unmarshal(data, &req)
	}
	if err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", filepath.Base(path), err)
	}
	return &req, nil
}

func renderText(a *domain.ProductAnalysis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Product:           %s\n", a.ProductName)
	fmt.Fprintf(&b, "Nutrition score:   %.1f / 5\n", a.NutritionScore)
	fmt.Fprintf(&b, "Diabetic score:    %.1f / 5\n", a.DiabeticScore)
	fmt.Fprintf(&b, "Processing level:  %s\n", a.ProcessingLevel)
	fmt.Fprintf(&b, "Guidelines met:    %d/%d (sugar %s, salt %s, saturated fat %s)\n",
		a.Compliance.Compliant(), domain.GuidelineCount,
		mark(a.Compliance.Sugar), mark(a.Compliance.Salt), mark(a.Compliance.SaturatedFat))

	fmt.Fprintf(&b, "Data completeness: %.0f%%", a.DataCompleteness.Ratio*100)
	if len(a.DataCompleteness.Missing) > 0 {
		missing := make([]string, len(a.DataCompleteness.Missing))
		for i, n := range a.DataCompleteness.Missing {
			missing[i] = string(n)
		}
		fmt.Fprintf(&b, " (missing: %s)", strings.Join(missing, ", "))
	}
	b.WriteString("\n")

	writeSection(&b, "Diabetic analysis", a.Details.Diabetic)
	writeSection(&b, "Processing analysis", map[string]string{
		"classification_reason": a.Details.Processing.Reason,
	})
	if len(a.Details.Processing.IndicatorsFound) > 0 {
		fmt.Fprintf(&b, "  indicators_found: %s\n", strings.Join(a.Details.Processing.IndicatorsFound, ", "))
	}
	writeSection(&b, "Guideline analysis", a.Details.Compliance)
	writeSection(&b, "Nutrition analysis", a.Details.Nutrition)

	return b.String()
}

func writeSection(b *strings.Builder, title string, details map[string]string) {
	if len(details) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)

	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "  %s: %s\n", k, details[k])
	}
}

func mark(ok bool) string {
	if ok {
		return "ok"
	}
	return "over"
}
