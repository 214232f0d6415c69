// Package filter implements the FILTER column parser: a comma-list of
// filter names mapped to a one-hot row across a declared filter set, per
// spec.md §4.5.
package filter

import (
	"github.com/inodb/vcfx/internal/chunk"
	"github.com/inodb/vcfx/internal/vcf"
)

// Parser maps FILTER tokens to boolean columns, one per configured name
// (conventionally including a leading "PASS" column if the caller
// requested "variants/FILTER_PASS" explicitly -- spec.md leaves emitting
// PASS unconditionally as an open question and resolves it in favor of
// requiring the caller to ask for it).
type Parser struct {
	names       []string
	index       map[string]int
	chunkLength int
	data        [][]bool // [column][row]
}

// New builds a FILTER parser for the given ordered set of configured
// filter names (each without the "variants/FILTER_" prefix).
func New(names []string, chunkLength int) *Parser {
	p := &Parser{names: append([]string(nil), names...), chunkLength: chunkLength}
	p.index = make(map[string]int, len(names))
	for i, n := range p.names {
		p.index[n] = i
	}
	p.alloc()
	return p
}

func (p *Parser) alloc() {
	p.data = make([][]bool, len(p.names))
	for i := range p.data {
		p.data[i] = make([]bool, p.chunkLength)
	}
}

// Parse reads the FILTER field up to (not including) TAB/NEWLINE/0. An
// explicit "." leaves every column at its fill (false/zeroed). Token
// separators are lenient, per spec.md's kept historical behavior: COMMA,
// COLON, and SEMICOLON are all accepted in addition to the real terminator.
func (p *Parser) Parse(ctx *vcf.ParserContext) error {
	row := ctx.ChunkVariantIndex
	ctx.TempClear()

	flush := func() {
		tok := ctx.Temp()
		if len(tok) == 0 {
			return
		}
		if len(tok) == 1 && tok[0] == vcf.Dot {
			ctx.TempClear()
			return
		}
		if idx, ok := p.index[string(tok)]; ok {
			p.data[idx][row] = true
		}
		ctx.TempClear()
	}

	for {
		switch {
		case ctx.C == vcf.Comma || ctx.C == vcf.Colon || ctx.C == vcf.Semicolon:
			if len(ctx.Temp()) == 0 {
				ctx.Warn("variants/FILTER", "empty FILTER token")
			}
			flush()
			if err := ctx.Getc(); err != nil {
				return err
			}
		case ctx.C == vcf.Tab || vcf.IsRecordEnd(ctx.C):
			flush()
			return nil
		default:
			ctx.TempAppend(ctx.C)
			if err := ctx.Getc(); err != nil {
				return err
			}
		}
	}
}

func (p *Parser) FreezeAll(length int) []chunk.Array {
	out := make([]chunk.Array, len(p.names))
	for i, name := range p.names {
		out[i] = chunk.Array{
			Name:   "variants/FILTER_" + name,
			Dtype:  chunk.Bool,
			Length: length,
			Number: 0,
			Data:   append([]bool(nil), p.data[i][:length]...),
		}
	}
	return out
}

func (p *Parser) ResetAll() {
	p.alloc()
}
