package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inodb/vcfx/internal/config"
)

// newConfigCmd ports cmd/vibe-vep/config.go's show/get/set trio onto the
// vcfx root command, as an actually-attached subcommand.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vcfx configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.vcfx.yaml.",
		Example: `  vcfx config                              # show all config
  vcfx config set parser.chunk_length 32768  # override the default chunk length
  vcfx config get parser.chunk_length        # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := config.Show()
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, err := config.Set(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Set %s = %s in %s\n", args[0], args[1], cfgFile)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			val, err := config.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Println(val)
			return nil
		},
	})

	return cmd
}
