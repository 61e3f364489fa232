package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/phonemask/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "phonemask [text...]",
		Short: "Phonemizer with literal span preservation",
		Long: `phonemask converts text to IPA phonemes while keeping selected spans
(numbers, codes, names) verbatim in the output.

Each span matching a --preserve pattern is phonemized on its own, and
its transcription is mapped back to the original literal after the
whole text has been phonemized.

Examples:
  phonemask "I have 42 apples"                   # phonemize with espeak-ng
  phonemask -p '\d+' "I have 42 apples"          # keep "42" literally
  phonemask -l de --batch texts.txt -o out.txt   # batch mode, German
  echo "hello world" | phonemask                 # read texts from stdin
  phonemask --list-languages                     # show espeak-ng voices

Batch files skip blank lines and lines starting with '#'. Text read from
stdin is taken line by line as is: every input line, blank or not, gets
exactly one output line.`,
		Args:          cobra.ArbitraryArgs,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.phonemask.yaml)")

	// Input and output
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Read texts from file (one per line)")
	cmd.Flags().StringVarP(&flags.OutputFile, "output", "o", "", "Write results to file instead of stdout")
	cmd.Flags().BoolVar(&flags.ListLanguages, "list-languages", false, "List espeak-ng languages and exit")

	// Phonology
	cmd.Flags().StringVarP(&flags.Language, "language", "l", flags.Language, "Language code understood by the backend")
	cmd.Flags().StringArrayVarP(&flags.Preserve, "preserve", "p", nil, "Regular expression of spans kept verbatim (repeatable)")
	cmd.Flags().StringVar(&flags.Punctuation, "punctuation", flags.Punctuation, "Regular expression of punctuation kept verbatim (empty disables)")
	cmd.Flags().BoolVar(&flags.WithStress, "with-stress", flags.WithStress, "Keep stress marks")
	cmd.Flags().StringVar(&flags.Tie, "tie", flags.Tie, "Tie multi-letter phonemes: true, false or a single character")
	cmd.Flags().StringVar(&flags.LanguageSwitch, "language-switch", flags.LanguageSwitch, "Language switch handling: keep-flags, remove-flags, remove-utterance")
	cmd.Flags().StringVar(&flags.WordsMismatch, "words-mismatch", flags.WordsMismatch, "Word count mismatch handling: ignore, warn, remove")
	cmd.Flags().StringVar(&flags.Collision, "collision", flags.Collision, "Preserved span key collisions: error, last-wins, first-wins")

	// Backends
	cmd.Flags().StringVar(&flags.Backend, "backend", flags.Backend, "Phonemizer backend: espeak, openai, gemini")
	cmd.Flags().StringVar(&flags.Fallback, "fallback", "", "Backend tried when the primary one fails (empty disables)")
	cmd.Flags().StringVar(&flags.ESpeakBinary, "espeak-binary", flags.ESpeakBinary, "espeak-ng executable")
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI chat model for the openai backend")
	cmd.Flags().StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini model for the gemini backend")
	cmd.Flags().Float64Var(&flags.RequestsPerSecond, "rps", 0, "Request rate limit for LLM backends (0 disables)")
	cmd.Flags().IntVar(&flags.BreakerFailures, "breaker-failures", flags.BreakerFailures, "Consecutive backend failures before the circuit opens (0 disables)")

	// Cache
	cmd.Flags().StringVar(&flags.CacheDriver, "cache", flags.CacheDriver, "Transcription cache: none, sqlite, redis")
	cmd.Flags().StringVar(&flags.CacheDSN, "cache-dsn", "", "SQLite path or redis URL (default: sqlite file in the user cache dir)")
	cmd.Flags().DurationVar(&flags.CacheTTL, "cache-ttl", 0, "Expiry of redis cache entries (0 keeps them forever)")

	// Logging
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: console or json")
	cmd.Flags().StringVar(&flags.LogFile, "log-file", "", "Also write JSON logs to this file")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("phonemizer.language", cmd.Flags().Lookup("language"))
	viper.BindPFlag("phonemizer.preserve", cmd.Flags().Lookup("preserve"))
	viper.BindPFlag("phonemizer.punctuation", cmd.Flags().Lookup("punctuation"))
	viper.BindPFlag("phonemizer.with_stress", cmd.Flags().Lookup("with-stress"))
	viper.BindPFlag("phonemizer.tie", cmd.Flags().Lookup("tie"))
	viper.BindPFlag("phonemizer.language_switch", cmd.Flags().Lookup("language-switch"))
	viper.BindPFlag("phonemizer.words_mismatch", cmd.Flags().Lookup("words-mismatch"))
	viper.BindPFlag("phonemizer.collision", cmd.Flags().Lookup("collision"))
	viper.BindPFlag("backend.name", cmd.Flags().Lookup("backend"))
	viper.BindPFlag("backend.fallback", cmd.Flags().Lookup("fallback"))
	viper.BindPFlag("backend.espeak_binary", cmd.Flags().Lookup("espeak-binary"))
	viper.BindPFlag("backend.openai_model", cmd.Flags().Lookup("openai-model"))
	viper.BindPFlag("backend.gemini_model", cmd.Flags().Lookup("gemini-model"))
	viper.BindPFlag("backend.requests_per_second", cmd.Flags().Lookup("rps"))
	viper.BindPFlag("backend.breaker_failures", cmd.Flags().Lookup("breaker-failures"))
	viper.BindPFlag("cache.driver", cmd.Flags().Lookup("cache"))
	viper.BindPFlag("cache.dsn", cmd.Flags().Lookup("cache-dsn"))
	viper.BindPFlag("cache.ttl", cmd.Flags().Lookup("cache-ttl"))
	viper.BindPFlag("output.file", cmd.Flags().Lookup("output"))
	viper.BindPFlag("log.level", cmd.Flags().Lookup("log-level"))
	viper.BindPFlag("log.format", cmd.Flags().Lookup("log-format"))
	viper.BindPFlag("log.file", cmd.Flags().Lookup("log-file"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".phonemask" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".phonemask")
	}

	// Environment variables
	viper.SetEnvPrefix("PHONEMASK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("backend.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("backend.gemini_key")
}

// defaultCacheDSN places the sqlite cache under the user cache directory.
func defaultCacheDSN() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".cache")
	}
	return filepath.Join(dir, "phonemask", "cache.db")
}
