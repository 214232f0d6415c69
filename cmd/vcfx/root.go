package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vcfx/internal/config"
	"github.com/inodb/vcfx/internal/logging"
)

var (
	cfgFile string
	verbose bool
	logger  *zap.Logger
)

// Version information, set at build time.
var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "vcfx",
		Short:         "Stream tab-delimited VCF text into fixed-shape chunked arrays",
		Version:       version + " (" + commit + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Init(cfgFile); err != nil {
				return err
			}
			l, err := logging.New(verbose)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.vcfx.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable development-mode logging")

	cmd.AddCommand(newExtractCmd())
	cmd.AddCommand(newHeaderCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}
