package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/okonenko/ncm-grabber/internal/app"
	"github.com/okonenko/ncm-grabber/internal/config"
	"github.com/okonenko/ncm-grabber/internal/logger"
)

var (
	//nolint:gochecknoglobals // It is required for configuration initialization before the application starts.
	configFilenameFromFlag string

	//nolint:gochecknoglobals,lll // It is initialized once during the application's startup and shared across the command execution logic.
	appConfig *config.Config

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	rootCmd = &cobra.Command{
		Use:   "ncm-grabber [flags] {urls or keywords}",
		Short: "Download tracks and playlists from NetEase Cloud Music.",
		Long: `NCM Grabber is a CLI tool for downloading audio content from NetEase Cloud Music.
It accepts:
- Song URLs (https://music.163.com/song?id=...)
- Playlist URLs (https://music.163.com/playlist?id=...)
- Free-text search keywords
- Text files containing one URL or keyword per line

Downloads are tagged with title, artists, album, cover art, and lyrics.
The application provides flexible naming templates, quality selection, and download speed limits.`,
		Args:             cobra.MinimumNArgs(1),
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, args []string) {
			if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
				logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
			}

			firstResult, _ := cmd.Flags().GetBool("first")

			app.ExecuteRootCommand(cmd.Context(), appConfig, args, firstResult)
		},
	}
)

// Execute executes the root command.
func Execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	defer func() {
		_ = logger.Logger().Sync()
	}()

	defer stop()

	go func() {
		defer stop()

		err := rootCmd.ExecuteContext(ctx)
		cobra.CheckErr(err)
	}()

	<-ctx.Done()
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s')",
			config.DefaultConfigFilename))

	rootCmdFlags := rootCmd.Flags()

	rootCmdFlags.StringP(
		"output",
		"o",
		"",
		"directory to save downloaded files (the path will be created if it doesn't exist).")

	rootCmdFlags.StringP(
		"quality",
		"q",
		"",
		"audio quality: standard, exhigh, lossless, or hires.")

	rootCmdFlags.StringP(
		"format",
		"f",
		"",
		"preferred container format: auto, mp3, or flac.")

	rootCmdFlags.BoolP(
		"lyrics",
		"l",
		false,
		"save LRC lyrics next to the downloaded tracks.")

	rootCmdFlags.Bool(
		"overwrite",
		false,
		"replace files that already exist in the output directory.")

	rootCmdFlags.String(
		"template",
		"",
		fmt.Sprintf("filename template, for example '%s'.", config.DefaultNamingTemplate))

	rootCmdFlags.Bool(
		"first",
		false,
		"download the top search result for keywords without asking.")

	rootCmdFlags.StringP(
		"speed-limit",
		"s",
		"",
		"set download speed limit, for example: 500KB, 1MB, 1.5MB.")
}

func initConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
	}

	// Derived fields (log level, durations, base URL) must be ready before
	// any subcommand builds a session store or client.
	if err = config.ValidateConfig(appConfig); err != nil {
		logger.Fatalf(cmd.Context(), "Invalid configuration: %v", err)
	}

	logger.SetLevel(appConfig.ParsedLogLevel)
}

func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("output"); flag != nil && flag.Changed {
		cfg.OutputDir, _ = flags.GetString("output")
	}

	if flag := flags.Lookup("quality"); flag != nil && flag.Changed {
		cfg.Quality, _ = flags.GetString("quality")
	}

	if flag := flags.Lookup("format"); flag != nil && flag.Changed {
		cfg.PreferredFormat, _ = flags.GetString("format")
	}

	if flag := flags.Lookup("lyrics"); flag != nil && flag.Changed {
		cfg.DownloadLyrics, _ = flags.GetBool("lyrics")
	}

	if flag := flags.Lookup("overwrite"); flag != nil && flag.Changed {
		cfg.Overwrite, _ = flags.GetBool("overwrite")
	}

	if flag := flags.Lookup("template"); flag != nil && flag.Changed {
		cfg.NamingTemplate, _ = flags.GetString("template")
	}

	if flag := flags.Lookup("speed-limit"); flag != nil && flag.Changed {
		cfg.DownloadSpeedLimit, _ = flags.GetString("speed-limit")
	}

	return config.ValidateConfig(cfg)
}
