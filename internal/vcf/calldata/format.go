package calldata

import (
	"sort"

	"github.com/inodb/vcfx/internal/chunk"
	"github.com/inodb/vcfx/internal/vcf"
)

// Parser implements vcf.FormatCalldataParser: it owns the FORMAT key
// registry, builds the per-record dispatch vector from the colon-delimited
// FORMAT column, and drives CALLDATA's sample-by-sample, subfield-by-
// subfield scan against that vector, per spec.md §4.7/§4.8.
type Parser struct {
	registry map[string]vcf.CalldataSubParser
	order    []string
}

// New builds a FORMAT/CALLDATA parser over the given key -> sub-parser
// registry. Keys present in a record's FORMAT column but absent from the
// registry are dispatched as "skip": their values are scanned but not
// stored.
func New(registry map[string]vcf.CalldataSubParser) *Parser {
	order := make([]string, 0, len(registry))
	for k := range registry {
		order = append(order, k)
	}
	sort.Strings(order)
	return &Parser{registry: registry, order: order}
}

// ParseFormat reads the colon-delimited FORMAT key list up to (not
// including) TAB/NEWLINE/0, resolving each key against the registry and
// rebuilding ctx.Dispatch (overwriting, never appending to, any vector left
// over from the previous record).
func (p *Parser) ParseFormat(ctx *vcf.ParserContext) error {
	ctx.Dispatch = ctx.Dispatch[:0]
	ctx.TempClear()

	flush := func() {
		key := string(ctx.Temp())
		if key == "" {
			return
		}
		ctx.Dispatch = append(ctx.Dispatch, p.registry[key]) // nil if unknown
		ctx.TempClear()
	}

	for {
		switch {
		case ctx.C == vcf.Colon:
			flush()
			if err := ctx.Getc(); err != nil {
				return err
			}
		case ctx.C == vcf.Tab || vcf.IsRecordEnd(ctx.C):
			flush()
			ctx.VariantNFormats = len(ctx.Dispatch)
			return nil
		default:
			ctx.TempAppend(ctx.C)
			if err := ctx.Getc(); err != nil {
				return err
			}
		}
	}
}

// ParseCalldata walks NSamples TAB-separated samples, each a COLON-
// separated run of subfields positionally matched to ctx.Dispatch. A
// sample with fewer subfields than FORMAT declared leaves the remaining
// dispatch entries at their fill values; a sample with more than declared
// has its extras scanned and dropped with a warning. Unlike every other
// FieldParser, ParseCalldata consumes its own trailing record terminator:
// TAB moves to the next sample internally, and NEWLINE/0 ends the record,
// so the driver does not call consumeTerminator after it.
func (p *Parser) ParseCalldata(ctx *vcf.ParserContext) error {
	for ctx.SampleIndex = 0; ctx.SampleIndex < ctx.NSamples; ctx.SampleIndex++ {
		ctx.FormatIndex = 0
		for {
			if err := p.parseOneSubfield(ctx); err != nil {
				return err
			}
			switch {
			case ctx.C == vcf.Colon:
				ctx.FormatIndex++
				if err := ctx.Getc(); err != nil {
					return err
				}
				continue
			case ctx.C == vcf.Tab:
				if err := ctx.Getc(); err != nil {
					return err
				}
			default: // NEWLINE or end-of-stream: record ends mid-calldata
				if ctx.C == vcf.Newline {
					if err := ctx.Getc(); err != nil {
						return err
					}
				}
				return nil
			}
			break
		}
	}
	// Sample columns beyond NSamples are scanned and dropped.
	for !vcf.IsRecordEnd(ctx.C) {
		if err := ctx.Getc(); err != nil {
			return err
		}
	}
	if ctx.C == vcf.Newline {
		return ctx.Getc()
	}
	return nil
}

// parseOneSubfield dispatches the sample's current subfield to the
// Dispatch entry at ctx.FormatIndex, or scans-and-drops it if FORMAT
// declared fewer keys than this sample carries, or the key at that
// position was unrecognized (a nil dispatch entry).
func (p *Parser) parseOneSubfield(ctx *vcf.ParserContext) error {
	if ctx.FormatIndex < len(ctx.Dispatch) {
		if sub := ctx.Dispatch[ctx.FormatIndex]; sub != nil {
			return sub.ParseSubfield(ctx)
		}
		return p.skip(ctx)
	}
	ctx.Warn("calldata", "more subfields than declared by FORMAT, extra values dropped")
	return p.skip(ctx)
}

func (p *Parser) skip(ctx *vcf.ParserContext) error {
	for ctx.C != vcf.Colon && ctx.C != vcf.Tab && !vcf.IsRecordEnd(ctx.C) {
		if err := ctx.Getc(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) FreezeAll(length int) []chunk.Array {
	out := make([]chunk.Array, 0, len(p.order))
	for _, k := range p.order {
		out = append(out, p.registry[k].FreezeAll(length)...)
	}
	return out
}

func (p *Parser) ResetAll() {
	for _, k := range p.order {
		p.registry[k].ResetAll()
	}
}
