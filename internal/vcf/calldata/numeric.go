// Package calldata implements the FORMAT and CALLDATA field parsers: the
// per-record dispatch vector built from the colon-delimited FORMAT key list,
// and the typed per-sample sub-parsers it dispatches to, per spec.md §4.7
// and §4.8.
package calldata

import (
	"github.com/inodb/vcfx/internal/chunk"
	"github.com/inodb/vcfx/internal/vcf"
)

// numeric mirrors the info package's storage-type constraint: every width
// a per-sample Integer/Float FORMAT key can be stored as.
type numeric interface {
	int32 | int64 | float32 | float64
}

func dtypeOf[T numeric]() chunk.StorageType {
	var zero T
	switch any(zero).(type) {
	case int32:
		return chunk.Int32
	case int64:
		return chunk.Int64
	case float32:
		return chunk.Float32
	case float64:
		return chunk.Float64
	default:
		panic("calldata: unsupported numeric type")
	}
}

func converter[T numeric]() func(ctx *vcf.ParserContext) (T, bool) {
	var zero T
	switch any(zero).(type) {
	case int32, int64:
		return func(ctx *vcf.ParserContext) (T, bool) {
			if !ctx.TempToLong() {
				return 0, false
			}
			return T(ctx.L), true
		}
	default:
		return func(ctx *vcf.ParserContext) (T, bool) {
			if !ctx.TempToDouble() {
				return 0, false
			}
			return T(ctx.D), true
		}
	}
}

// NumericSubParser backs a per-sample Integer/Float FORMAT key (e.g. AD,
// DP, PL), comma-separated up to its declared cardinality, one row per
// (variant, sample) pair.
type NumericSubParser[T numeric] struct {
	name        string
	number      int
	chunkLength int
	nSamples    int
	fill        T
	data        []T // flattened [(row*nSamples+sample)*number + valueIndex]
	toValue     func(ctx *vcf.ParserContext) (T, bool)
}

// NewNumericSubParser builds a sub-parser for FORMAT key name.
func NewNumericSubParser[T numeric](name string, number, chunkLength, nSamples int, fill T) *NumericSubParser[T] {
	if number < 1 {
		number = 1
	}
	p := &NumericSubParser[T]{name: name, number: number, chunkLength: chunkLength, nSamples: nSamples, fill: fill}
	p.toValue = converter[T]()
	p.alloc()
	return p
}

func (p *NumericSubParser[T]) alloc() {
	p.data = make([]T, p.chunkLength*p.nSamples*p.number)
	for i := range p.data {
		p.data[i] = p.fill
	}
}

func (p *NumericSubParser[T]) base(ctx *vcf.ParserContext) int {
	return (ctx.ChunkVariantIndex*p.nSamples + ctx.SampleIndex) * p.number
}

// ParseSubfield reads comma-separated values up to (not including)
// COLON/TAB/NEWLINE/0.
func (p *NumericSubParser[T]) ParseSubfield(ctx *vcf.ParserContext) error {
	base := p.base(ctx)
	valueIndex := 0
	dropped := false

	flush := func() {
		if valueIndex >= p.number {
			if len(ctx.Temp()) > 0 {
				dropped = true
			}
			return
		}
		if len(ctx.Temp()) == 0 {
			return
		}
		v, ok := p.toValue(ctx)
		if !ok {
			ctx.Warn(p.name, "could not parse value")
			return
		}
		p.data[base+valueIndex] = v
	}

	ctx.TempClear()
	for {
		switch {
		case ctx.C == vcf.Comma:
			flush()
			valueIndex++
			ctx.TempClear()
			if err := ctx.Getc(); err != nil {
				return err
			}
		case ctx.C == vcf.Colon || ctx.C == vcf.Tab || vcf.IsRecordEnd(ctx.C):
			flush()
			if dropped {
				ctx.Warn(p.name, "more values than declared cardinality, extra values dropped")
			}
			ctx.TempClear()
			return nil
		default:
			ctx.TempAppend(ctx.C)
			if err := ctx.Getc(); err != nil {
				return err
			}
		}
	}
}

func (p *NumericSubParser[T]) FreezeAll(length int) []chunk.Array {
	flat := make([]T, length*p.nSamples*p.number)
	copy(flat, p.data[:length*p.nSamples*p.number])
	return []chunk.Array{{
		Name:     p.name,
		Dtype:    dtypeOf[T](),
		Length:   length,
		Number:   p.number,
		NSamples: p.nSamples,
		Data:     flat,
	}}
}

func (p *NumericSubParser[T]) ResetAll() {
	p.alloc()
}
