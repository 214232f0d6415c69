package info

import (
	"sort"

	"github.com/inodb/vcfx/internal/chunk"
	"github.com/inodb/vcfx/internal/vcf"
)

// Parser dispatches INFO key=value (or bare flag) tokens to a registry of
// typed sub-parsers, one per declared key, per spec.md §4.6.
type Parser struct {
	registry map[string]vcf.InfoSubParser
	order    []string // registry keys, sorted, for deterministic FreezeAll
}

// New builds an INFO parser over the given key -> sub-parser registry.
func New(registry map[string]vcf.InfoSubParser) *Parser {
	order := make([]string, 0, len(registry))
	for k := range registry {
		order = append(order, k)
	}
	sort.Strings(order)
	return &Parser{registry: registry, order: order}
}

// Parse implements the INFO field state: dispatch on key=value and
// key;-only (flag) tokens, skip unknown keys, advance past the terminator
// left to the driver.
func (p *Parser) Parse(ctx *vcf.ParserContext) error {
	if ctx.C == vcf.Dot {
		// Peek-free missing check: a lone "." is only valid as the whole
		// field, so if the very next byte after it isn't a terminator,
		// "." is just the first character of a (malformed) key -- fall
		// through to the normal key-accumulation loop in that case.
		ctx.TempClear()
		ctx.TempAppend(ctx.C)
		if err := ctx.Getc(); err != nil {
			return err
		}
		if ctx.C == vcf.Tab || vcf.IsRecordEnd(ctx.C) {
			return nil
		}
		// Not actually the missing-value convention; treat the buffered
		// "." as the start of a key and continue below.
	} else {
		ctx.TempClear()
	}

	for {
		switch {
		case ctx.C == vcf.Equals:
			key := string(ctx.Temp())
			ctx.TempClear()
			if err := ctx.Getc(); err != nil {
				return err
			}
			if key == "" {
				ctx.Warn("INFO", "empty key before '='")
				if err := p.skipValue(ctx); err != nil {
					return err
				}
				continue
			}
			sub, ok := p.registry[key]
			if !ok {
				if err := p.skipValue(ctx); err != nil {
					return err
				}
				continue
			}
			if err := sub.ParseValue(ctx); err != nil {
				return err
			}
			if ctx.C == vcf.Semicolon {
				if err := ctx.Getc(); err != nil {
					return err
				}
			}

		case ctx.C == vcf.Semicolon:
			if err := p.flag(ctx); err != nil {
				return err
			}
			if err := ctx.Getc(); err != nil {
				return err
			}

		case ctx.C == vcf.Tab || vcf.IsRecordEnd(ctx.C):
			return p.flag(ctx)

		default:
			ctx.TempAppend(ctx.C)
			if err := ctx.Getc(); err != nil {
				return err
			}
		}
	}
}

// flag treats a non-empty scratch buffer as a bare flag key, looks it up,
// and invokes it (flag sub-parsers consume nothing further). A empty
// buffer (two separators in a row, or nothing before the terminator) is a
// no-op.
func (p *Parser) flag(ctx *vcf.ParserContext) error {
	if len(ctx.Temp()) == 0 {
		return nil
	}
	key := string(ctx.Temp())
	ctx.TempClear()
	sub, ok := p.registry[key]
	if !ok {
		return nil
	}
	return sub.ParseValue(ctx)
}

// skipValue consumes an unrecognized key's value up to (not including)
// SEMICOLON/TAB/NEWLINE/0, storing nothing.
func (p *Parser) skipValue(ctx *vcf.ParserContext) error {
	for ctx.C != vcf.Semicolon && ctx.C != vcf.Tab && !vcf.IsRecordEnd(ctx.C) {
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
