package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tag-engine/internal/codec"
	"tag-engine/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app carries what every command needs.
type app struct {
	cfg    *config.Config
	output string
}

// codec builds a codec for the configured pattern registry. A broken
// pattern file fails the command.
func (a *app) codec() (*codec.Codec, error) {
	reg, err := a.cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("load patterns: %w", err)
	}
	return codec.New(reg), nil
}

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()
	zerolog.SetGlobalLevel(cfg.Level())

	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	a := &app{cfg: cfg}

	rootCmd := &cobra.Command{
		Use:   "tag-engine",
		Short: "Tagged-token engine for translation segments",
		Long: `Parses translatable text into text and marker tokens, converts between the
display syntax of stored text and the indexed editor syntax, and checks that
translated targets keep the markers of their source.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&a.output, "output", "o", cfg.OutputFormat, "Output format: json or yaml")

	rootCmd.AddCommand(parseCmd(a))
	rootCmd.AddCommand(toEditorCmd(a))
	rootCmd.AddCommand(fromEditorCmd(a))
	rootCmd.AddCommand(glyphsCmd(a))
	rootCmd.AddCommand(signatureCmd(a))
	rootCmd.AddCommand(validateCmd(a))
	rootCmd.AddCommand(ingestCmd(a))
	rootCmd.AddCommand(lookupCmd(a))
	rootCmd.AddCommand(inventoryCmd(a))

	return rootCmd
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}
