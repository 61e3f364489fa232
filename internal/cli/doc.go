// Package cli provides command-line interface setup and configuration
// for the phonemask application. It handles flag parsing, command
// creation, and turning flags, config file and environment into the
// Settings consumed by the processor, using cobra and viper.
package cli
