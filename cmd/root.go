package cmd

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "candidate-ranker"
	envPrefix = "CANDIDATE_RANKER"
)

type Config struct {
	JobFile        string         `mapstructure:"job-file"`
	CandidatesFile string         `mapstructure:"candidates-file"`
	ExcludeFile    string         `mapstructure:"exclude-file"`
	ExcludeUsers   []string       `mapstructure:"exclude-users"`
	ExcludeNames   []string       `mapstructure:"exclude-names"`
	DisableFilters []string       `mapstructure:"disable-filters"`
	Concurrency    int            `mapstructure:"concurrency"`
	Top            int            `mapstructure:"top"`
	Output         string         `mapstructure:"output"`
	MetricsFile    string         `mapstructure:"metrics-file"`
	MetricsBuckets []float64      `mapstructure:"metrics-buckets"`
	Weights        *WeightsConfig `mapstructure:"weights"`
	AI             *AIConfig      `mapstructure:"ai"`
}

type WeightsConfig struct {
	Skill      float64 `mapstructure:"skill"`
	Experience float64 `mapstructure:"experience"`
	Activity   float64 `mapstructure:"activity"`
	Domain     float64 `mapstructure:"domain"`
}

type AIConfig struct {
	Provider string         `mapstructure:"provider"`
	Timeout  time.Duration  `mapstructure:"timeout"`
	Gemini   *GeminiConfig  `mapstructure:"gemini"`
	Lexicon  *LexiconConfig `mapstructure:"lexicon"`
	Cache    *CacheConfig   `mapstructure:"cache"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

// LexiconConfig extends the built-in tables of the offline classifier.
type LexiconConfig struct {
	Synonyms map[string][]string `mapstructure:"synonyms"`
	Domains  map[string][]string `mapstructure:"domains"`
}

type CacheConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RedisAddr         string        `mapstructure:"redis-addr"`
	RedisPasswordFile string        `mapstructure:"redis-password-file"`
	TTL               time.Duration `mapstructure:"ttl"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "candidate-ranker scores sourced developer profiles against a job and ranks them",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is candidate-ranker.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("concurrency", 8)
	viper.SetDefault("output", outputTable)
	viper.SetDefault("weights.skill", 0.4)
	viper.SetDefault("weights.experience", 0.2)
	viper.SetDefault("weights.activity", 0.2)
	viper.SetDefault("weights.domain", 0.2)
	viper.SetDefault("ai.provider", providerGemini)
	viper.SetDefault("ai.timeout", 30*time.Second)
	viper.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	viper.SetDefault("ai.gemini.max-retries", 3)
	viper.SetDefault("ai.gemini.max-log-length", 200)
	viper.SetDefault("ai.cache.ttl", 24*time.Hour)
}

func initConfig() {
	// Config is needed only for the rank command.
	if rankCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Flags and environment are enough without the default config file,
	// but an explicitly given one must parse.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
