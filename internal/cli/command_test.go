package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestCreateRootCommand(t *testing.T) {
	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	// Test basic command properties
	if cmd.Use != "phonemask [text...]" {
		t.Errorf("Expected Use to be 'phonemask [text...]', got %s", cmd.Use)
	}

	if !strings.Contains(cmd.Short, "Phonemizer") {
		t.Errorf("Expected Short description to mention the phonemizer, got %q", cmd.Short)
	}

	flagNames := []string{
		"config", "batch", "output", "list-languages",
		"language", "preserve", "punctuation", "with-stress", "tie",
		"language-switch", "words-mismatch", "collision",
		"backend", "fallback", "espeak-binary", "openai-model", "gemini-model",
		"rps", "breaker-failures", "cache", "cache-dsn", "cache-ttl",
		"log-level", "log-format", "log-file",
	}

	for _, name := range flagNames {
		t.Run("flag_"+name, func(t *testing.T) {
			var flag *pflag.Flag
			if name == "config" {
				flag = cmd.PersistentFlags().Lookup(name)
			} else {
				flag = cmd.Flags().Lookup(name)
			}
			if flag == nil {
				t.Errorf("Expected flag %s to exist", name)
			}
		})
	}
}

func TestSetupFlagsShorthands(t *testing.T) {
	cmd := &cobra.Command{}
	setupFlags(cmd, NewFlags())

	shorthands := map[string]string{
		"l": "language",
		"p": "preserve",
		"o": "output",
	}
	for short, long := range shorthands {
		flag := cmd.Flags().ShorthandLookup(short)
		if flag == nil {
			t.Errorf("shorthand -%s not registered", short)
			continue
		}
		if flag.Name != long {
			t.Errorf("-%s maps to %s, want %s", short, flag.Name, long)
		}
	}
}

func TestPreserveFlagKeepsCommas(t *testing.T) {
	cmd := &cobra.Command{}
	flags := NewFlags()
	setupFlags(cmd, flags)

	if err := cmd.ParseFlags([]string{"-p", `\d{1,3}`, "--preserve", `[A-Z]{2,}`}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	want := []string{`\d{1,3}`, `[A-Z]{2,}`}
	if len(flags.Preserve) != len(want) {
		t.Fatalf("Preserve = %v, want %v", flags.Preserve, want)
	}
	for i := range want {
		if flags.Preserve[i] != want[i] {
			t.Errorf("Preserve[%d] = %q, want %q", i, flags.Preserve[i], want[i])
		}
	}
}

func TestInitConfig(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
	}{
		{
			name: "with config file",
			setupFunc: func(t *testing.T) string {
				tmpDir := t.TempDir()
				cfgPath := filepath.Join(tmpDir, "test-config.yaml")
				content := `phonemizer:
  language: de
  preserve:
    - '\d+'
backend:
  name: openai
  openai_key: test-key`
				if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
					t.Fatalf("Failed to create test config: %v", err)
				}
				return cfgPath
			},
		},
		{
			name: "without config file",
			setupFunc: func(t *testing.T) string {
				return ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset viper for each test
			viper.Reset()

			cfgPath := tt.setupFunc(t)
			InitConfig(cfgPath)

			// Test environment variable prefix
			t.Setenv("PHONEMASK_TEST_VAR", "test-value")
			if viper.GetString("test_var") != "test-value" {
				t.Error("Environment variable not properly loaded")
			}

			// Nested keys map to underscore separated variables
			t.Setenv("PHONEMASK_CACHE_DRIVER", "redis")
			if viper.GetString("cache.driver") != "redis" {
				t.Errorf("cache.driver = %q, want redis from environment", viper.GetString("cache.driver"))
			}

			if cfgPath != "" {
				if viper.GetString("phonemizer.language") != "de" {
					t.Errorf("phonemizer.language = %q, want de", viper.GetString("phonemizer.language"))
				}
				if got := viper.GetStringSlice("phonemizer.preserve"); len(got) != 1 || got[0] != `\d+` {
					t.Errorf("phonemizer.preserve = %v, want [\\d+]", got)
				}
			}
		})
	}
}

func TestGetOpenAIKey(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	tests := []struct {
		name      string
		envKey    string
		configKey string
		expected  string
	}{
		{"from environment", "env-test-key", "config-test-key", "env-test-key"},
		{"from config when no env", "", "config-test-key", "config-test-key"},
		{"empty when neither set", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Setenv("OPENAI_API_KEY", tt.envKey)

			if tt.configKey != "" {
				viper.Set("backend.openai_key", tt.configKey)
			}

			if got := GetOpenAIKey(); got != tt.expected {
				t.Errorf("GetOpenAIKey() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetGeminiKey(t *testing.T) {
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	viper.Reset()
	t.Setenv("GEMINI_API_KEY", "")
	viper.Set("backend.gemini_key", "config-key")
	if got := GetGeminiKey(); got != "config-key" {
		t.Errorf("GetGeminiKey() = %q, want config-key", got)
	}

	t.Setenv("GEMINI_API_KEY", "env-key")
	if got := GetGeminiKey(); got != "env-key" {
		t.Errorf("GetGeminiKey() = %q, want env-key", got)
	}
}

func TestBindFlagsToViper(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	viper.Reset()

	cmd := &cobra.Command{}
	flags := NewFlags()
	setupFlags(cmd, flags)

	// Set some flag values
	cmd.Flags().Set("language", "fr-fr")
	cmd.Flags().Set("backend", "gemini")
	cmd.Flags().Set("cache", "sqlite")
	cmd.Flags().Set("preserve", `\d{2,4}`)

	bindFlagsToViper(cmd)

	if viper.GetString("phonemizer.language") != "fr-fr" {
		t.Errorf("Expected phonemizer.language to be fr-fr, got %s", viper.GetString("phonemizer.language"))
	}
	if viper.GetString("backend.name") != "gemini" {
		t.Errorf("Expected backend.name to be gemini, got %s", viper.GetString("backend.name"))
	}
	if viper.GetString("cache.driver") != "sqlite" {
		t.Errorf("Expected cache.driver to be sqlite, got %s", viper.GetString("cache.driver"))
	}
	if got := viper.GetStringSlice("phonemizer.preserve"); len(got) != 1 || got[0] != `\d{2,4}` {
		t.Errorf("Expected phonemizer.preserve to be [\\d{2,4}], got %v", got)
	}

	// Unchanged flags still provide their defaults
	if !viper.GetBool("phonemizer.with_stress") {
		t.Error("Expected phonemizer.with_stress to default to true")
	}
}
