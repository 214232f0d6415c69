package info

import (
	"github.com/inodb/vcfx/internal/chunk"
	"github.com/inodb/vcfx/internal/vcf"
)

// StringSubParser backs a Type=String (or Character) INFO key: comma
// separated values copied into fixed-width slots, item cursor reset on
// COMMA, truncated/clipped on overflow.
type StringSubParser struct {
	name        string
	number      int
	itemSize    int
	chunkLength int
	data        [][]byte // flattened [row*number+valueIndex]
}

// NewStringSubParser builds a sub-parser for string INFO key name.
func NewStringSubParser(name string, number, itemSize, chunkLength int) *StringSubParser {
	if number < 1 {
		number = 1
	}
	p := &StringSubParser{name: name, number: number, itemSize: itemSize, chunkLength: chunkLength}
	p.alloc()
	return p
}

func (p *StringSubParser) alloc() {
	p.data = make([][]byte, p.chunkLength*p.number)
	for i := range p.data {
		p.data[i] = make([]byte, 0, p.itemSize)
	}
}

// ParseValue reads comma-separated values up to (not including)
// SEMICOLON/TAB/NEWLINE/0.
func (p *StringSubParser) ParseValue(ctx *vcf.ParserContext) error {
	row := ctx.ChunkVariantIndex
	valueIndex := 0
	itemLen := 0
	truncated := false
	dropped := false

	slot := func() []byte {
		return p.data[row*p.number+valueIndex][:0]
	}
	if valueIndex < p.number {
		p.data[row*p.number+valueIndex] = slot()
	}

	for {
		switch {
		case ctx.C == vcf.Comma:
			valueIndex++
			itemLen = 0
			if valueIndex < p.number {
				p.data[row*p.number+valueIndex] = slot()
			}
			if err := ctx.Getc(); err != nil {
				return err
			}
		case ctx.C == vcf.Semicolon || ctx.C == vcf.Tab || vcf.IsRecordEnd(ctx.C):
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
					p.data[row*p.number+valueIndex] = append(p.data[row*p.number+valueIndex], ctx.C)
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
	flat := make([][]byte, length*p.number)
	for i := 0; i < length*p.number; i++ {
		b := make([]byte, p.itemSize)
		copy(b, p.data[i])
		flat[i] = b
	}
	return []chunk.Array{{
		Name:     p.name,
		Dtype:    chunk.FixedBytes,
		Length:   length,
		Number:   p.number,
		ItemSize: p.itemSize,
		Data:     flat,
	}}
}

func (p *StringSubParser) ResetAll() {
	p.alloc()
}
