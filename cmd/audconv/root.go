// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/ik5/audconv"
	"github.com/ik5/audconv/internal/config"
	"github.com/ik5/audconv/internal/logger"
	"github.com/ik5/audconv/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what PersistentPreRunE loads for the subcommands.
type app struct {
	configPath string
	logLevel   string

	cfg *config.Config
	log *zap.Logger
}

var toolHelp = map[string]string{
	pipeline.MP3ToWAV.Name:   "Convert an MP3 file to 16-bit PCM WAV",
	pipeline.WAVToMP3.Name:   "Convert a WAV file to MP3",
	pipeline.Cutter.Name:     "Cut a section of an audio file into an MP3",
	pipeline.VideoToMP3.Name: "Extract the audio track of a video as MP3",
	pipeline.VideoToWAV.Name: "Extract the audio track of a video as WAV",
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "audconv",
		Short:         "audconv converts, cuts and extracts audio.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	for _, tool := range pipeline.Tools() {
		root.AddCommand(newToolCmd(a, tool, toolHelp[tool.Name]))
	}
	root.AddCommand(newWorkerCmd(a), newFormatsCmd())

	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}

	log, err := logger.New(logger.Config{
		Level:      logger.Level(cfg.LogLevel),
		OutputPath: cfg.LogFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log

	return nil
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List readable formats and the available tools",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "input: "+strings.Join(audconv.NewRegistry().Formats(), ", ")+", video via ffmpeg")
			for _, tool := range pipeline.Tools() {
				fmt.Fprintf(w, "%-13s %s input → %s\n", tool.Name, tool.Input, tool.Output)
			}
		},
	}
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, newStyles(os.Stderr).render(pipeline.Status{Text: err.Error(), Kind: pipeline.StatusError}))
		stop()
		os.Exit(1)
	}
}
