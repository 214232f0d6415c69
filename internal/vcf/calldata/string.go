package calldata

import (
	"github.com/inodb/vcfx/internal/chunk"
	"github.com/inodb/vcfx/internal/vcf"
)

// StringSubParser backs a per-sample String/Character FORMAT key, one row
// per (variant, sample) pair, comma-separated up to its declared
// cardinality and fixed item width.
type StringSubParser struct {
	name        string
	number      int
	itemSize    int
	chunkLength int
	nSamples    int
	data        [][]byte // flattened [(row*nSamples+sample)*number + valueIndex]
}

// NewStringSubParser builds a sub-parser for FORMAT key name.
func NewStringSubParser(name string, number, itemSize, chunkLength, nSamples int) *StringSubParser {
	if number < 1 {
		number = 1
	}
	p := &StringSubParser{name: name, number: number, itemSize: itemSize, chunkLength: chunkLength, nSamples: nSamples}
	p.alloc()
	return p
}

func (p *StringSubParser) alloc() {
	p.data = make([][]byte, p.chunkLength*p.nSamples*p.number)
	for i := range p.data {
		p.data[i] = make([]byte, 0, p.itemSize)
	}
}

func (p *StringSubParser) base(ctx *vcf.ParserContext) int {
	return (ctx.ChunkVariantIndex*p.nSamples + ctx.SampleIndex) * p.number
}

// ParseSubfield reads comma-separated values up to (not including)
// COLON/TAB/NEWLINE/0.
func (p *StringSubParser) ParseSubfield(ctx *vcf.ParserContext) error {
	base := p.base(ctx)
	valueIndex := 0
	itemLen := 0
	truncated := false
	dropped := false

	if valueIndex < p.number {
		p.data[base+valueIndex] = p.data[base+valueIndex][:0]
	}

	for {
		switch {
		case ctx.C == vcf.Comma:
			valueIndex++
			itemLen = 0
			if valueIndex < p.number {
				p.data[base+valueIndex] = p.data[base+valueIndex][:0]
			}
			if err := ctx.Getc(); err != nil {
				return err
			}
		case ctx.C == vcf.Colon || ctx.C == vcf.Tab || vcf.IsRecordEnd(ctx.C):
			if truncated {
				ctx.Warn(p.name, "value truncated to declared item size")
			}
			if dropped {
				ctx.Warn(p.name, "more values than declared cardinality, extra values dropped")
			}
			return nil
		default:
			if valueIndex < p.number {
				if itemLen < p.itemSize {
					p.data[base+valueIndex] = append(p.data[base+valueIndex], ctx.C)
					itemLen++
				} else {
					truncated = true
				}
			} else {
				dropped = true
			}
			if err := ctx.Getc(); err != nil {
				return err
			}
		}
	}
}

func (p *StringSubParser) FreezeAll(length int) []chunk.Array {
	total := length * p.nSamples * p.number
	flat := make([][]byte, total)
	for i := 0; i < total; i++ {
		b := make([]byte, p.itemSize)
		copy(b, p.data[i])
		flat[i] = b
	}
	return []chunk.Array{{
		Name:     p.name,
		Dtype:    chunk.FixedBytes,
		Length:   length,
		Number:   p.number,
		NSamples: p.nSamples,
		ItemSize: p.itemSize,
		Data:     flat,
	}}
}

func (p *StringSubParser) ResetAll() {
	p.alloc()
}
