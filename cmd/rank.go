package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/candidate-ranker/internal/ai"
	"github.com/spigell/candidate-ranker/internal/ai/cache"
	"github.com/spigell/candidate-ranker/internal/ai/gemini"
	"github.com/spigell/candidate-ranker/internal/ai/lexicon"
	"github.com/spigell/candidate-ranker/internal/filtering"
	"github.com/spigell/candidate-ranker/internal/logger"
	"github.com/spigell/candidate-ranker/internal/metrics"
	"github.com/spigell/candidate-ranker/internal/ranking"
	"github.com/spigell/candidate-ranker/internal/secrets"
	"github.com/spigell/candidate-ranker/internal/talent"
)

const (
	PromptShowRanking         = "Show ranking"
	PromptShowBreakdown       = "Show candidate breakdown"
	PromptResultsToFile       = "Dump ranking to file"
	PromptCandidatesToFile    = "Dump filtered candidates to file"
	PromptAppendToExcludeFile = "Append ranked candidates to exclude file"
	PromptExit                = "Exit"
	PromptBack                = "back"

	providerGemini  = "gemini"
	providerLexicon = "lexicon"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowRanking, PromptShowBreakdown, PromptResultsToFile, PromptCandidatesToFile, PromptAppendToExcludeFile, PromptExit},
}

// session is what the interactive menu acts on after ranking.
type session struct {
	config     *Config
	job        *talent.JobRequirement
	candidates *talent.Candidates
	results    ranking.Results
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank candidates against a job",
	Run: func(cmd *cobra.Command, _ []string) {
		rank(cmd)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().String("job", "", "file with the job requirement (json or yaml)")
	rankCmd.Flags().StringP("candidates", "c", "", "file with candidate profiles (json or yaml)")
	rankCmd.Flags().StringP("exclude-file", "e", "", "special file with candidates to exclude. Default is unset.")
	rankCmd.Flags().BoolP("yes", "y", false, "print the ranking and exit without the interactive menu")
	rankCmd.Flags().IntP("top", "n", 0, "show only the first N candidates (0 shows all)")
	rankCmd.Flags().StringP("output", "o", outputTable, "output format: table or json")
	rankCmd.Flags().String("metrics-file", "", "write Prometheus metrics of the run to this file")
	rankCmd.Flags().Int("concurrency", 8, "candidates scored in parallel")
	rankCmd.Flags().String("provider", providerGemini, "semantic classifier: gemini or lexicon")
	rankCmd.Flags().StringSlice("disable-filter", nil, "skip a pre-ranking filter by name (duplicates, excluded_users, exclude_file)")

	viper.BindPFlag("job-file", rankCmd.Flags().Lookup("job"))
	viper.BindPFlag("candidates-file", rankCmd.Flags().Lookup("candidates"))
	viper.BindPFlag("exclude-file", rankCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("top", rankCmd.Flags().Lookup("top"))
	viper.BindPFlag("output", rankCmd.Flags().Lookup("output"))
	viper.BindPFlag("metrics-file", rankCmd.Flags().Lookup("metrics-file"))
	viper.BindPFlag("concurrency", rankCmd.Flags().Lookup("concurrency"))
	viper.BindPFlag("ai.provider", rankCmd.Flags().Lookup("provider"))
	viper.BindPFlag("disable-filters", rankCmd.Flags().Lookup("disable-filter"))
}

// rank is the main command for the cli.
func rank(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	baseLogger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer baseLogger.Sync() //nolint:errcheck // stderr sync errors are not actionable

	runID := uuid.NewString()
	logger := logger.WithRun(baseLogger, runID)

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		logger.Fatal("config is required")
	}

	logger.Info("starting the candidate-ranker", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if err := validateOutput(config.Output); err != nil {
		logger.Fatal("invalid output", zap.Error(err))
	}

	weights, err := buildWeights(config.Weights)
	if err != nil {
		logger.Fatal("invalid weights", zap.Error(err), zap.String("hint", "weights must be non-negative and sum to 1.0"))
	}

	job, candidates, err := loadInputs(config)
	if err != nil {
		logger.Fatal("loading inputs", zap.Error(err))
	}

	logger.Info("loaded candidates", zap.Int("count", candidates.Len()), zap.String("job", job.Title))

	filters, err := buildFilters(config.DisableFilters, logger)
	if err != nil {
		logger.Fatal("configuring filters", zap.Error(err))
	}

	candidates, err = filtering.Run(ctx, &filtering.Config{
		ExcludeUsers: config.ExcludeUsers,
		ExcludeNames: config.ExcludeNames,
		ExcludeFile:  config.ExcludeFile,
	}, filtering.Deps{Logger: logger}, filters, candidates)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	classifier, closeClassifier, err := newClassifier(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building the semantic classifier", zap.Error(err))
	}
	defer closeClassifier()

	manager := metrics.NewManager(
		metrics.WithConstLabels(map[string]string{"provider": providerName(config.AI)}),
		metrics.WithHistogramBuckets(config.MetricsBuckets),
	)

	ranker, err := ranking.New(classifier, logger,
		ranking.WithWeights(weights),
		ranking.WithConcurrency(config.Concurrency),
		ranking.WithCallTimeout(callTimeout(config.AI)),
		ranking.WithMetrics(manager),
	)
	if err != nil {
		logger.Fatal("creating the ranker", zap.Error(err))
	}

	ranked, err := ranker.Rank(ctx, candidates.Items, *job)
	if err != nil {
		if errors.Is(err, ranking.ErrClassifierUnreachable) {
			logger.Fatal("ranking aborted", zap.Error(err),
				zap.String("hint", "check network access and the api key, or use --provider lexicon"))
		}
		logger.Fatal("ranking failed", zap.Error(err))
	}

	if config.MetricsFile != "" {
		if err := manager.WriteToFile(config.MetricsFile); err != nil {
			logger.Warn("writing metrics", zap.Error(err))
		} else {
			logger.Info("metrics written", zap.String("filename", config.MetricsFile))
		}
	}

	results := ranking.Results(ranked).Top(config.Top)
	logger.Info("ranking summary", zap.Strings("candidates", results.Summary()))

	if results.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates left to rank"))
		if strings.EqualFold(config.Output, outputJSON) {
			printResults(os.Stdout, results, config.Output) //nolint:errcheck // stdout
		}
		return
	}

	if cmd.Flag("yes").Value.String() == "true" {
		if err := printResults(os.Stdout, results, config.Output); err != nil {
			logger.Fatal("printing results", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		s := session{config: config, job: job, candidates: candidates, results: results}
		if err := handleAction(action, os.Stdout, logger, s); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, out io.Writer, logger *zap.Logger, s session) error {
	switch action {
	case PromptShowRanking:
		return printResults(out, s.results, s.config.Output)
	case PromptShowBreakdown:
		return showBreakdown(out, s.results)
	case PromptResultsToFile:
		filename, err := s.results.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptCandidatesToFile:
		if s.candidates == nil {
			return errors.New("no candidates loaded")
		}
		filename, err := s.candidates.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump candidates to file: %w", err)
		}
		logger.Info("dumping filtered candidates to file", zap.String("filename", filename), zap.Int("count", s.candidates.Len()))
		return nil
	case PromptAppendToExcludeFile:
		return appendToExcludeFile(logger, s.config.ExcludeFile, s.job, s.results)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func showBreakdown(out io.Writer, results ranking.Results) error {
	items := make([]string, 0, results.Len()+1)
	for _, c := range results {
		items = append(items, fmt.Sprintf("%s (#%d, %.2f)", c.Username, c.Rank, c.TotalScore))
	}

	candidatePrompt := promptui.Select{
		Label: "Choose a candidate and press ENTER",
		Items: append(items, PromptBack),
		Size:  10,
	}

	_, selected, err := candidatePrompt.Run()
	if err != nil {
		return err
	}
	if selected == PromptBack {
		return nil
	}

	username := strings.Split(selected, " ")[0]
	candidate := results.FindByUsername(username)
	if candidate == nil {
		return fmt.Errorf("there is no such candidate %s", username)
	}

	_, err = fmt.Fprint(out, candidate.Explain())
	return err
}

func appendToExcludeFile(logger *zap.Logger, excludeFile string, job *talent.JobRequirement, results ranking.Results) error {
	if excludeFile == "" {
		logger.Warn("exclude file is not configured", zap.String("hint", "set exclude-file or pass --exclude-file"))
		return nil
	}

	excluded, err := talent.GetExcludedCandidatesFromFile(excludeFile)
	if err != nil {
		return err
	}

	reason := "ranked"
	if title := strings.TrimSpace(job.Title); title != "" {
		reason = "ranked for " + title
	}
	excluded.Append(talent.NewExcluded(results.Usernames(), reason, time.Now()))

	if err := excluded.ToFile(excludeFile); err != nil {
		return err
	}

	logger.Info("appended to exclude file", zap.String("filename", excludeFile), zap.Int("candidates", results.Len()))
	return nil
}

// buildFilters returns the default pipeline with the named filters switched off.
func buildFilters(disabled []string, logger *zap.Logger) ([]filtering.Filter, error) {
	filters := filtering.Default()
	for _, name := range disabled {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !filtering.DisableByName(filters, name, "disabled by configuration") {
			return nil, fmt.Errorf("unknown filter %q", name)
		}
	}

	for _, status := range filtering.Describe(filters) {
		logger.Debug("filter configured",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	return filters, nil
}

func loadInputs(config *Config) (*talent.JobRequirement, *talent.Candidates, error) {
	if strings.TrimSpace(config.JobFile) == "" {
		return nil, nil, errors.New("job file is required (--job or job-file)")
	}
	if strings.TrimSpace(config.CandidatesFile) == "" {
		return nil, nil, errors.New("candidates file is required (--candidates or candidates-file)")
	}

	job, err := talent.LoadJob(config.JobFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load job: %w", err)
	}

	candidates, err := talent.LoadCandidates(config.CandidatesFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load candidates: %w", err)
	}

	return job, candidates, nil
}

// buildWeights falls back to the default weights when none are configured.
func buildWeights(cfg *WeightsConfig) (ranking.ScoreWeights, error) {
	if cfg == nil {
		return ranking.DefaultScoreWeights(), nil
	}
	return ranking.NewScoreWeights(cfg.Skill, cfg.Experience, cfg.Activity, cfg.Domain)
}

func providerName(cfg *AIConfig) string {
	if cfg == nil {
		return providerGemini
	}
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider == "" {
		return providerGemini
	}
	return provider
}

func callTimeout(cfg *AIConfig) time.Duration {
	if cfg == nil {
		return 0
	}
	return cfg.Timeout
}

// newClassifier builds the configured backend and wraps it in the cache when enabled.
// The returned func releases cache connections.
func newClassifier(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Classifier, func(), error) {
	if cfg == nil {
		cfg = &AIConfig{}
	}

	var (
		classifier ai.Classifier
		namespace  string
	)

	switch provider := providerName(cfg); provider {
	case providerLexicon:
		classifier = lexicon.New(lexiconOptions(cfg.Lexicon)...)
		namespace = providerLexicon
		log.Info("using the offline lexicon classifier")
	case providerGemini:
		geminiClassifier, model, err := newGeminiClassifier(ctx, cfg.Gemini, log)
		if err != nil {
			return nil, nil, err
		}
		classifier = geminiClassifier
		namespace = providerGemini + ":" + model
	default:
		return nil, nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	closer := func() {}
	if cfg.Cache == nil || !cfg.Cache.Enabled {
		return classifier, closer, nil
	}

	password := ""
	if file := strings.TrimSpace(cfg.Cache.RedisPasswordFile); file != "" {
		var err error
		password, err = secrets.Load(secrets.Source{Name: "redis password", File: file})
		if err != nil {
			return nil, nil, err
		}
	}

	store := cache.NewStore(ctx, cfg.Cache.RedisAddr, password, log)
	if redisStore, ok := store.(*cache.RedisStore); ok {
		closer = func() {
			if err := redisStore.Close(); err != nil {
				log.Debug("closing redis", zap.Error(err))
			}
		}
	}

	return cache.New(classifier, store,
		cache.WithTTL(cfg.Cache.TTL),
		cache.WithNamespace(namespace),
		cache.WithLogger(log),
	), closer, nil
}

func lexiconOptions(cfg *LexiconConfig) []lexicon.Option {
	if cfg == nil {
		return nil
	}
	return []lexicon.Option{
		lexicon.WithSynonyms(cfg.Synonyms),
		lexicon.WithDomainKeywords(cfg.Domains),
	}
}

func newGeminiClassifier(ctx context.Context, cfg *GeminiConfig, log *zap.Logger) (*gemini.Classifier, string, error) {
	if cfg == nil {
		cfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.WithClassifier(log, providerGemini, cfg.Model).With(
		zap.Int("ai_retry_attempts", cfg.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Model, cfg.MaxRetries, genLogger)
	if err != nil {
		return nil, "", err
	}

	classifierLogger := logger.WithClassifier(log, providerGemini, generator.Model())

	return gemini.NewClassifier(generator, cfg.MaxLogLength, classifierLogger), generator.Model(), nil
}
