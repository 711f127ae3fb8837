package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/MartinBouvet/panel-entreprises/internal/ai"
	"github.com/MartinBouvet/panel-entreprises/internal/ai/gemini"
	"github.com/MartinBouvet/panel-entreprises/internal/criteria"
	"github.com/MartinBouvet/panel-entreprises/internal/logger"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <document.txt>",
	Short: "Analyze a tender document and suggest selection and attribution criteria",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		suggest(cmd, args[0])
	},
}

// suggestion is the JSON document written by the suggest command.
type suggestion struct {
	Keywords            []string                         `json:"keywords"`
	SelectionCriteria   []*criteria.Criterion            `json:"selectionCriteria"`
	AttributionCriteria []*criteria.AttributionCriterion `json:"attributionCriteria"`
}

func init() {
	rootCmd.AddCommand(suggestCmd)

	suggestCmd.Flags().String("criteria", "", "existing criteria file (.json) to merge the suggestions into")
	suggestCmd.Flags().StringP("output", "o", "", "write the suggested criteria to this file instead of stdout")
}

func suggest(cmd *cobra.Command, documentFile string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config.AI == nil || !config.AI.Enabled {
		logger.Fatal("document analysis needs the remote service",
			zap.String("hint", "enable it under the 'ai' section of the configuration file"),
		)
	}

	document, err := os.ReadFile(documentFile)
	if err != nil {
		logger.Fatal("reading the document", zap.Error(err))
	}

	suggester, err := newSuggester(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building the gemini suggester", zap.Error(err))
	}

	logger.Info("analyzing the document", zap.String("file", documentFile))

	insights, err := suggester.Analyze(ctx, string(document))
	if err != nil {
		logger.Fatal("analyzing the document", zap.Error(err))
	}

	existing, err := loadExistingCriteria(cmd.Flag("criteria").Value.String())
	if err != nil {
		logger.Fatal("loading the existing criteria", zap.Error(err))
	}

	merged := criteria.Merge(existing, insights.SelectionCriteria)

	attribution, err := criteria.NormalizeWeights(insights.AttributionCriteria)
	if err != nil {
		logger.Warn("dropping the suggested attribution weights", zap.Error(err))
		attribution = criteria.DefaultAttribution()
	}

	logger.Info("document analyzed",
		zap.Int("keywords", len(insights.Keywords)),
		zap.Int("selection_criteria", len(merged)),
		zap.Int("attribution_criteria", len(attribution)),
	)

	result := &suggestion{
		Keywords:            insights.Keywords,
		SelectionCriteria:   merged,
		AttributionCriteria: attribution,
	}

	if err := writeSuggestion(result, cmd.Flag("output").Value.String(), logger); err != nil {
		logger.Fatal("writing the suggested criteria", zap.Error(err))
	}
}

func newSuggester(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Suggester, error) {
	generator, err := newGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}

	suggesterLogger := logger.WithProvider(log, "gemini", generator.Model())

	return gemini.NewSuggester(generator, suggesterLogger, cfg.Gemini.MaxLogLength), nil
}

// loadExistingCriteria differs from loadCriteria by treating the empty path
// as an empty list: suggestions then stand on their own instead of being
// merged into the built-in defaults.
func loadExistingCriteria(path string) ([]*criteria.Criterion, error) {
	if path == "" {
		return nil, nil
	}
	return loadCriteria(path)
}

func writeSuggestion(result *suggestion, output string, logger *zap.Logger) error {
	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal suggested criteria: %w", err)
	}

	if output == "" {
		fmt.Println(string(pretty))
		return nil
	}

	if err := os.WriteFile(output, append(pretty, '\n'), 0o644); err != nil {
		return fmt.Errorf("write suggested criteria to %q: %w", output, err)
	}

	logger.Info("writing the suggested criteria", zap.String("filename", output))
	return nil
}
