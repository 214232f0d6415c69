package info

import (
	"github.com/inodb/vcfx/internal/chunk"
	"github.com/inodb/vcfx/internal/vcf"
)

// FlagSubParser backs a Type=Flag INFO key: presence of the key (with or
// without a trailing "=value", though flags never carry one in valid VCF)
// sets the row to true; absence leaves it false.
type FlagSubParser struct {
	name        string
	chunkLength int
	data        []bool
}

// NewFlagSubParser builds a sub-parser for flag INFO key name.
func NewFlagSubParser(name string, chunkLength int) *FlagSubParser {
	p := &FlagSubParser{name: name, chunkLength: chunkLength}
	p.alloc()
	return p
}

func (p *FlagSubParser) alloc() {
	p.data = make([]bool, p.chunkLength)
}

// ParseValue sets the current row's flag and consumes any stray value up to
// (not including) SEMICOLON/TAB/NEWLINE/0, leaving the terminator in place.
func (p *FlagSubParser) ParseValue(ctx *vcf.ParserContext) error {
	p.data[ctx.ChunkVariantIndex] = true
	for ctx.C != vcf.Semicolon && ctx.C != vcf.Tab && !vcf.IsRecordEnd(ctx.C) {
		if err := ctx.Getc(); err != nil {
			return err
		}
	}
	return nil
}

func (p *FlagSubParser) FreezeAll(length int) []chunk.Array {
	return []chunk.Array{{
		Name:   p.name,
		Dtype:  chunk.Bool,
		Length: length,
		Number: 1,
		Data:   append([]bool(nil), p.data[:length]...),
	}}
}

func (p *FlagSubParser) ResetAll() {
	p.alloc()
}
