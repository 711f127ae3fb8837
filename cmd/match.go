package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/MartinBouvet/panel-entreprises/internal/ai"
	"github.com/MartinBouvet/panel-entreprises/internal/ai/gemini"
	"github.com/MartinBouvet/panel-entreprises/internal/company"
	"github.com/MartinBouvet/panel-entreprises/internal/criteria"
	"github.com/MartinBouvet/panel-entreprises/internal/logger"
	"github.com/MartinBouvet/panel-entreprises/internal/matching"
	"github.com/MartinBouvet/panel-entreprises/internal/scoring"
	"github.com/MartinBouvet/panel-entreprises/internal/secrets"
)

const (
	PromptExportExcel   = "Export ranking to Excel"
	PromptRankingToFile = "Dump ranking to file"
	PromptReport        = "Report ranking"
	PromptQuit          = "Quit"

	defaultExportFile = "classement.xlsx"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Next action?",
	Items: []string{PromptExportExcel, PromptRankingToFile, PromptReport, PromptQuit},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank the company roster against the selection criteria",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("companies", "c", "", "company roster file (.json or .xlsx)")
	matchCmd.Flags().String("criteria", "", "selection criteria file (.json). Default is the built-in set.")
	matchCmd.Flags().StringP("output", "o", defaultExportFile, "path of the Excel export")
	matchCmd.Flags().Bool("no-ai", false, "skip the remote matcher even when it is configured")
	matchCmd.Flags().BoolP("auto-approve", "y", false, "export the ranking and exit without prompting")

	viper.BindPFlag("companies-file", matchCmd.Flags().Lookup("companies"))
	viper.BindPFlag("criteria-file", matchCmd.Flags().Lookup("criteria"))
	viper.BindPFlag("output-file", matchCmd.Flags().Lookup("output"))
}

// match is the main command for the cli.
func match(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the panel-entreprises matching", zap.String("version", version))

	companiesFile := viper.GetString("companies-file")
	if companiesFile == "" {
		logger.Fatal("company roster is required",
			zap.String("hint", "pass --companies or set 'companies-file' in the configuration file"),
		)
	}

	companies, err := loadCompanies(companiesFile)
	if err != nil {
		logger.Fatal("loading the company roster", zap.Error(err))
	}

	logger.Info("loading the company roster",
		zap.String("file", companiesFile),
		zap.Int("count", companies.Len()),
	)

	list, err := loadCriteria(viper.GetString("criteria-file"))
	if err != nil {
		logger.Fatal("loading the selection criteria", zap.Error(err))
	}

	logger.Info("loading the selection criteria",
		zap.Int("count", len(list)),
		zap.Int("selected", len(criteria.Selected(list))),
	)

	useAI := config.AI != nil && config.AI.Enabled
	if flag := cmd.Flag("no-ai"); flag != nil && flag.Value.String() == "true" {
		useAI = false
	}

	var remote ai.Matcher
	if useAI {
		remote, err = newRemoteMatcher(ctx, config.AI, logger)
		if err != nil {
			logger.Warn("skipping the remote matcher", zap.Error(err))
			useAI = false
		}
	}

	opts := []matching.Option{}
	if config.AI != nil && config.AI.Timeout > 0 {
		opts = append(opts, matching.WithRemoteTimeout(config.AI.Timeout))
	}

	orchestrator := matching.NewOrchestrator(remote, scoring.NewHeuristicMatcher(logger), logger, opts...)

	ranking, err := orchestrator.Match(ctx, companies, list, useAI)
	if err != nil {
		logger.Fatal("matching failed", zap.Error(err))
	}

	logger.Info("matching finished", zap.Int("ranked", ranking.Len()))

	if cmd.Flag("auto-approve").Value.String() == "true" {
		if err := exportRanking(ranking, logger); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, ranking, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, ranking *company.Ranking, logger *zap.Logger) error {
	switch action {
	case PromptExportExcel:
		return exportRanking(ranking, logger)
	case PromptRankingToFile:
		filename, err := ranking.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump ranking to file: %w", err)
		}
		logger.Info("dumping the ranking to file", zap.String("filename", filename))
		return nil
	case PromptReport:
		pretty, _ := json.MarshalIndent(ranking.Items, "", "  ")
		logger.Info(string(pretty), zap.Int("ranked", ranking.Len()))
		return nil
	case PromptQuit:
		logger.Info("exiting", zap.String("reason", "got quit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func exportRanking(ranking *company.Ranking, logger *zap.Logger) error {
	output := viper.GetString("output-file")
	if output == "" {
		output = defaultExportFile
	}

	if err := ranking.ToExcel(output); err != nil {
		return fmt.Errorf("export ranking to %q: %w", output, err)
	}

	logger.Info("exporting the ranking", zap.String("filename", output))
	return nil
}

func loadCompanies(path string) (*company.Companies, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return company.FromExcel(path)
	default:
		return company.FromFile(path)
	}
}

// loadCriteria reads the selection criteria from the given JSON file, falling
// back to the built-in set when no file is configured.
func loadCriteria(path string) ([]*criteria.Criterion, error) {
	if strings.TrimSpace(path) == "" {
		return criteria.DefaultSelection(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading criteria file %q: %w", path, err)
	}

	var list []*criteria.Criterion
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing criteria file %q: %w", path, err)
	}

	return list, nil
}

func newGenerator(ctx context.Context, cfg *AIConfig) (*gemini.Generator, error) {
	if cfg == nil || cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required under ai.gemini")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
		Value: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	return gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
}

func newRemoteMatcher(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Matcher, error) {
	generator, err := newGenerator(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("building the gemini generator: %w", err)
	}

	matcherLogger := logger.WithProvider(log, "gemini", generator.Model())

	return gemini.NewMatcher(generator, matcherLogger, cfg.Gemini.MaxLogLength), nil
}
