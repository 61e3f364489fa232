package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"codeberg.org/snonux/phonemask/internal/cli"
	"codeberg.org/snonux/phonemask/internal/logger"
	"codeberg.org/snonux/phonemask/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	settings, err := cli.LoadSettings(viper.GetViper())
	if err != nil {
		return err
	}

	log, closeLog, err := logger.New(settings.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer closeLog()

	ctx := cmd.Context()
	proc := processor.NewProcessor(settings, log, cmd.OutOrStdout())
	defer func() {
		if err := proc.Close(); err != nil {
			log.Warn("Failed to close cache", zap.Error(err))
		}
	}()

	// Handle --list-languages flag
	if flags.ListLanguages {
		return proc.ListLanguages(ctx)
	}

	switch {
	case flags.BatchFile != "":
		return proc.ProcessBatch(ctx, flags.BatchFile)
	case len(args) > 0:
		return proc.ProcessTexts(ctx, args)
	default:
		// No arguments: read texts from stdin, one per line
		return proc.ProcessReader(ctx, cmd.InOrStdin())
	}
}
