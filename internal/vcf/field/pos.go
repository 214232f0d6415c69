package field

import (
	"github.com/inodb/vcfx/internal/chunk"
	"github.com/inodb/vcfx/internal/vcf"
)

// Pos backs the POS column: a chunk_length int32 array. An unparseable
// value is warned and left at the fill value of -1, per spec.md's resolved
// Open Question in §9.
type Pos struct {
	chunkLength int
	fill        int32
	data        []int32
}

// NewPos allocates a POS column.
func NewPos(chunkLength int) *Pos {
	p := &Pos{chunkLength: chunkLength, fill: -1}
	p.alloc()
	return p
}

func (p *Pos) alloc() {
	p.data = make([]int32, p.chunkLength)
	for i := range p.data {
		p.data[i] = p.fill
	}
}

// Parse reads bytes up to (not including) TAB/NEWLINE/0 and parses them as
// a signed 32-bit integer.
func (p *Pos) Parse(ctx *vcf.ParserContext) error {
	row := ctx.ChunkVariantIndex
	ctx.TempClear()
	for ctx.C != vcf.Tab && !vcf.IsRecordEnd(ctx.C) {
		ctx.TempAppend(ctx.C)
		if err := ctx.Getc(); err != nil {
			return err
		}
	}
	if ctx.TempToLong() {
		p.data[row] = int32(ctx.L)
	} else if len(ctx.Temp()) > 0 {
		ctx.Warn("variants/POS", "could not parse position as integer")
	}
	return nil
}

func (p *Pos) FreezeAll(length int) []chunk.Array {
	return []chunk.Array{{
		Name:   "variants/POS",
		Dtype:  chunk.Int32,
		Length: length,
		Number: 1,
		Data:   append([]int32(nil), p.data[:length]...),
	}}
}

func (p *Pos) ResetAll() {
	p.alloc()
}
