package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zostay/go-mime/internal/config"
	"github.com/zostay/go-mime/message"
	_ "github.com/zostay/go-mime/message/header/encoding"
)

var (
	rootCmd = &cobra.Command{
		Use:               "roundtrip",
		Short:             "Tools for testing message round-tripping",
		PersistentPreRunE: setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	configPath string
	verbose    bool
	strict     bool

	parseOpts []message.ParseOption
)

func init() {
	rootCmd.AddCommand(oneCmd)
	rootCmd.AddCommand(mboxCmd)
	rootCmd.AddCommand(treeCmd)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML file with parser settings")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log problems the parser recovers from")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "fail on a multipart without its boundaries")
}

func setup(_ *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
	}

	parseOpts = append(cfg.Options(), message.WithLogger(logger))
	if strict {
		parseOpts = append(parseOpts, message.StrictBoundaries())
	}

	return nil
}

func Execute() {
	err := rootCmd.Execute()
	cobra.CheckErr(err)
}
