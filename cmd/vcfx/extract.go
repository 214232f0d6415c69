package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vcfx/internal/assemble"
	"github.com/inodb/vcfx/internal/header"
	"github.com/inodb/vcfx/internal/sink"
	"github.com/inodb/vcfx/internal/transport"
	"github.com/inodb/vcfx/internal/vcf"
)

func newExtractCmd() *cobra.Command {
	var (
		fields     []string
		sinkType   string
		sinkPath   string
		ploidy     int
		chunkLen   int
		bufferSize int
	)

	cmd := &cobra.Command{
		Use:   "extract <path>",
		Short: "Parse a VCF file into fixed-shape chunks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// The flag defaults above are read before config.Init has run, so
			// unset flags take their values from viper here instead.
			if !cmd.Flags().Changed("sink") {
				sinkType = viper.GetString("sink.type")
			}
			if !cmd.Flags().Changed("ploidy") {
				ploidy = viper.GetInt("parser.ploidy")
			}
			if !cmd.Flags().Changed("chunk-length") {
				chunkLen = viper.GetInt("parser.chunk_length")
			}
			if !cmd.Flags().Changed("buffer-size") {
				bufferSize = viper.GetInt("parser.buffer_size")
			}
			return runExtract(cmd.Context(), args[0], fields, sinkType, sinkPath, ploidy, chunkLen, bufferSize)
		},
	}

	cmd.Flags().StringSliceVar(&fields, "fields", []string{"*"}, "fields to extract (group shorthands like variants/*, calldata/* accepted)")
	cmd.Flags().StringVar(&sinkType, "sink", viper.GetString("sink.type"), "chunk sink: duckdb, arrow, or none")
	cmd.Flags().StringVar(&sinkPath, "sink-path", "", "path for the selected sink (database file or Arrow IPC file)")
	cmd.Flags().IntVar(&ploidy, "ploidy", viper.GetInt("parser.ploidy"), "sample ploidy")
	cmd.Flags().IntVar(&chunkLen, "chunk-length", viper.GetInt("parser.chunk_length"), "records per emitted chunk")
	cmd.Flags().IntVar(&bufferSize, "buffer-size", viper.GetInt("parser.buffer_size"), "byte source refill buffer size")

	return cmd
}

func runExtract(ctx context.Context, path string, fields []string, sinkType, sinkPath string, ploidy, chunkLen, bufferSize int) error {
	r, closeFn, err := transport.Open(path)
	if err != nil {
		return err
	}
	defer closeFn()

	headers, err := header.ReadHeaders(r)
	if err != nil {
		return err
	}

	hasSamples := len(headers.Samples) > 0
	fc := header.BuildFieldConfig(fields, headers, hasSamples)

	opts := vcf.Options{
		ChunkLength:     chunkLen,
		InputBufferSize: bufferSize,
		TempBufferSize:  4096,
		Ploidy:          ploidy,
		NSamples:        len(headers.Samples),
	}

	cfg := assemble.BuildDriverConfig(fc, headers, opts)

	src := vcf.NewByteSource(vcf.ReaderFiller{R: r}, opts.InputBufferSize)
	driver, err := vcf.NewDriver(src, cfg)
	if err != nil {
		return err
	}
	driver.Context().SetWarnSink(func(w vcf.Warning) {
		logger.Warn("parse warning",
			zap.Int64("variant_index", w.VariantIndex),
			zap.String("field", w.Field),
			zap.String("detail", w.Message))
	})

	s, err := openSink(sinkType, sinkPath)
	if err != nil {
		return err
	}

	runDone := make(chan error, 1)
	go func() { runDone <- driver.Run(ctx) }()

	total := 0
	for c := range driver.Chunks() {
		total += c.Len
		if s != nil {
			if err := s.Write(c); err != nil {
				if closeErr := s.Close(); closeErr != nil {
					logger.Warn("sink close failed after write error", zap.Error(closeErr))
				}
				return err
			}
		}
	}

	if runErr := <-runDone; runErr != nil {
		return runErr
	}

	if s != nil {
		if err := s.Close(); err != nil {
			return err
		}
	}

	fmt.Printf("parsed %d variants, %d warnings\n", total, len(driver.Context().Warnings()))
	return nil
}

func openSink(sinkType, sinkPath string) (sink.Sink, error) {
	switch sinkType {
	case "", "none":
		return nil, nil
	case "duckdb":
		return sink.OpenDuckDB(sinkPath)
	case "arrow":
		return sink.NewArrow(sinkPath)
	default:
		return nil, fmt.Errorf("unknown sink type %q", sinkType)
	}
}
