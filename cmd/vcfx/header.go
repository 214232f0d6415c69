package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inodb/vcfx/internal/header"
	"github.com/inodb/vcfx/internal/transport"
)

func newHeaderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "header <path>",
		Short: "Print a VCF file's derived field configuration as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, closeFn, err := transport.Open(args[0])
			if err != nil {
				return err
			}
			defer closeFn()

			h, err := header.ReadHeaders(r)
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(struct {
				Samples []string               `yaml:"samples"`
				Filters map[string]header.Meta `yaml:"filters"`
				Infos   map[string]header.Meta `yaml:"infos"`
				Formats map[string]header.Meta `yaml:"formats"`
			}{h.Samples, h.Filters, h.Infos, h.Formats})
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	}
}
