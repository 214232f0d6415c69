// Package assemble builds a vcf.DriverConfig from a header-derived
// FieldConfig, wiring together the field/filter/info/calldata concrete
// parsers. It exists so internal/vcf never has to import any of its own
// subpackages: assemble sits above all of them and depends on every one,
// the opposite direction from the interfaces internal/vcf declares.
package assemble

import (
	"strings"

	"github.com/inodb/vcfx/internal/chunk"
	"github.com/inodb/vcfx/internal/header"
	"github.com/inodb/vcfx/internal/vcf"
	"github.com/inodb/vcfx/internal/vcf/calldata"
	"github.com/inodb/vcfx/internal/vcf/field"
	"github.com/inodb/vcfx/internal/vcf/filter"
	"github.com/inodb/vcfx/internal/vcf/info"
)

// Default fixed-width byte sizes for string-backed columns, matching the
// ballpark of io_vcf_read.py's default_types ("S12"-class defaults) while
// leaving headroom for longer IDs/ALT alleles than the historical fixed
// widths assumed.
const (
	defaultChromWidth  = 32
	defaultIDWidth     = 32
	defaultRefWidth    = 64
	defaultAltWidth    = 64
	defaultStringWidth = 64
)

// BuildDriverConfig wires a vcf.DriverConfig for the fields fc resolved,
// against the declared shape in h, ready to hand to vcf.NewDriver.
func BuildDriverConfig(fc header.FieldConfig, h *header.Headers, opts vcf.Options) vcf.DriverConfig {
	requested := make(map[string]bool, len(fc.Fields))
	for _, f := range fc.Fields {
		requested[f] = true
	}

	cfg := vcf.DriverConfig{
		Options: opts,
		Chrom:   field.NewFixedString("variants/CHROM", defaultChromWidth, opts.ChunkLength),
		Pos:     field.NewPos(opts.ChunkLength),
		ID:      field.NewFixedString("variants/ID", defaultIDWidth, opts.ChunkLength),
		Ref:     field.NewFixedString("variants/REF", defaultRefWidth, opts.ChunkLength),
		Alt:     field.NewAlt(numberOrDefault(fc.Numbers["variants/ALT"], 3), defaultAltWidth, opts.ChunkLength),
		Qual:    field.NewQual(opts.ChunkLength),

		WithNumAlt: requested["variants/numalt"],
		WithSVLen:  requested["variants/svlen"],
	}

	if names := filterNames(requested, h); len(names) > 0 {
		cfg.Filter = filter.New(names, opts.ChunkLength)
	}

	if registry := buildInfoRegistry(fc, requested, opts.ChunkLength); len(registry) > 0 {
		cfg.Info = info.New(registry)
	}

	if opts.NSamples > 0 {
		if registry := buildCalldataRegistry(fc, requested, opts); len(registry) > 0 {
			cfg.Calldata = calldata.New(registry)
		}
	}

	return cfg
}

func numberOrDefault(n, def int) int {
	if n < 1 {
		return def
	}
	return n
}

// filterNames collects every requested "variants/FILTER_<name>" field's
// bare name. Header-declared filters are included only when they are in
// requested, e.g. via the "*"/"FILTER/*" shorthand expansions
// header.NormalizeFields already resolved; h itself is not consulted.
func filterNames(requested map[string]bool, h *header.Headers) []string {
	seen := make(map[string]bool)
	var names []string
	for f := range requested {
		name, ok := strings.CutPrefix(f, "variants/FILTER_")
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

func buildInfoRegistry(fc header.FieldConfig, requested map[string]bool, chunkLength int) map[string]vcf.InfoSubParser {
	registry := make(map[string]vcf.InfoSubParser)
	for f := range requested {
		group, name, ok := cutField(f)
		if !ok || group != "variants" {
			continue
		}
		if name == "numalt" || name == "svlen" || strings.HasPrefix(name, "FILTER_") || isFixedVariantsName(name) {
			continue
		}

		number := numberOrDefault(fc.Numbers[f], 1)
		switch fc.Types[f] {
		case chunk.Int32:
			registry[name] = info.NewNumericSubParser[int32](f, number, chunkLength, -1)
		case chunk.Int64:
			registry[name] = info.NewNumericSubParser[int64](f, number, chunkLength, -1)
		case chunk.Float32:
			registry[name] = info.NewNumericSubParser[float32](f, number, chunkLength, -1)
		case chunk.Float64:
			registry[name] = info.NewNumericSubParser[float64](f, number, chunkLength, -1)
		case chunk.Bool:
			registry[name] = info.NewFlagSubParser(f, chunkLength)
		default:
			registry[name] = info.NewStringSubParser(f, number, defaultStringWidth, chunkLength)
		}
	}
	return registry
}

func buildCalldataRegistry(fc header.FieldConfig, requested map[string]bool, opts vcf.Options) map[string]vcf.CalldataSubParser {
	registry := make(map[string]vcf.CalldataSubParser)
	for f := range requested {
		group, name, ok := cutField(f)
		if !ok || group != "calldata" {
			continue
		}

		if name == "GT" {
			registry[name] = calldata.NewGenotypeSubParser[int32](f, opts.Ploidy, opts.ChunkLength, opts.NSamples)
			continue
		}

		number := numberOrDefault(fc.Numbers[f], 1)
		switch fc.Types[f] {
		case chunk.Int32:
			registry[name] = calldata.NewNumericSubParser[int32](f, number, opts.ChunkLength, opts.NSamples, -1)
		case chunk.Int64:
			registry[name] = calldata.NewNumericSubParser[int64](f, number, opts.ChunkLength, opts.NSamples, -1)
		case chunk.Float32:
			registry[name] = calldata.NewNumericSubParser[float32](f, number, opts.ChunkLength, opts.NSamples, -1)
		case chunk.Float64:
			registry[name] = calldata.NewNumericSubParser[float64](f, number, opts.ChunkLength, opts.NSamples, -1)
		default:
			registry[name] = calldata.NewStringSubParser(f, number, defaultStringWidth, opts.ChunkLength, opts.NSamples)
		}
	}
	return registry
}

func cutField(f string) (group, name string, ok bool) {
	i := strings.IndexByte(f, '/')
	if i < 0 {
		return "", "", false
	}
	return f[:i], f[i+1:], true
}

func isFixedVariantsName(name string) bool {
	switch name {
	case "CHROM", "POS", "ID", "REF", "ALT", "QUAL":
		return true
	default:
		return false
	}
}
