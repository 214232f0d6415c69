package field

import (
	"github.com/inodb/vcfx/internal/chunk"
	"github.com/inodb/vcfx/internal/vcf"
)

// Qual backs the QUAL column: a chunk_length float32 array. Empty or "."
// leaves the fill value (-1.0); an unparseable value warns and also leaves
// the fill.
type Qual struct {
	chunkLength int
	fill        float32
	data        []float32
}

// NewQual allocates a QUAL column.
func NewQual(chunkLength int) *Qual {
	q := &Qual{chunkLength: chunkLength, fill: -1.0}
	q.alloc()
	return q
}

func (q *Qual) alloc() {
	q.data = make([]float32, q.chunkLength)
	for i := range q.data {
		q.data[i] = q.fill
	}
}

// Parse reads bytes up to (not including) TAB/NEWLINE/0 and parses them as
// a floating point value.
func (q *Qual) Parse(ctx *vcf.ParserContext) error {
	row := ctx.ChunkVariantIndex
	ctx.TempClear()
	for ctx.C != vcf.Tab && !vcf.IsRecordEnd(ctx.C) {
		ctx.TempAppend(ctx.C)
		if err := ctx.Getc(); err != nil {
			return err
		}
	}
	if ctx.TempToDouble() {
		q.data[row] = float32(ctx.D)
	} else if raw := ctx.Temp(); len(raw) > 0 && !(len(raw) == 1 && raw[0] == vcf.Dot) {
		ctx.Warn("variants/QUAL", "could not parse quality as float")
	}
	return nil
}

func (q *Qual) FreezeAll(length int) []chunk.Array {
	return []chunk.Array{{
		Name:   "variants/QUAL",
		Dtype:  chunk.Float32,
		Length: length,
		Number: 1,
		Data:   append([]float32(nil), q.data[:length]...),
	}}
}

func (q *Qual) ResetAll() {
	q.alloc()
}
